// Package content loads markdown posts from disk and orders them for the
// index and previous/next navigation.
package content

import (
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// ErrMissingDate is returned for posts with neither a front matter date nor
// a dated file name.
var ErrMissingDate = errors.New("no date in front matter or file name")

// Post is one rendered article.
type Post struct {
	Slug        string
	Title       string
	Date        time.Time
	Description string
	Excerpt     string
	HTML        template.HTML
	// SourcePath is relative to the content root.
	SourcePath string

	// Previous is the next older post, Next the next newer one.
	Previous *Post
	Next     *Post
}

// DateString formats the date the way the index lists it.
func (p *Post) DateString() string {
	return p.Date.Format("January 02, 2006")
}

// Summary is the description, or the excerpt when there is none.
func (p *Post) Summary() string {
	if p.Description != "" {
		return p.Description
	}
	return p.Excerpt
}

// Dir returns the directory of the source file relative to the content root.
func (p *Post) Dir() string {
	return filepath.Dir(p.SourcePath)
}

// ParsePost builds a Post from the raw file at rel.
func ParsePost(rel string, src []byte) (*Post, error) {
	fm, body, err := splitFrontMatter(src)
	if err != nil {
		return nil, err
	}
	p := &Post{
		Slug:        Slug(rel),
		Title:       fm.Title,
		Description: strings.TrimSpace(fm.Description),
		SourcePath:  rel,
	}
	switch {
	case fm.Date != "":
		if p.Date, err = parseDate(fm.Date); err != nil {
			return nil, err
		}
	default:
		d, ok := nameDate(rel)
		if !ok {
			return nil, ErrMissingDate
		}
		p.Date = d
	}
	if p.Title == "" {
		if t, ok := extractTitle(body); ok {
			p.Title = t
		} else {
			p.Title = p.Slug
		}
	}
	rendered := RenderMarkdown(body)
	p.HTML = template.HTML(rendered)
	p.Excerpt = Excerpt(rendered)
	return p, nil
}

// Load reads every markdown file under dir, newest first. Files that cannot
// be turned into posts are reported as warnings and skipped; drafts are
// skipped silently. Slugs are unique: the first file in walk order keeps a
// slug, later ones are skipped with a warning, and so is any post that would
// take the index path "/".
func Load(dir string) ([]*Post, []string, error) {
	var posts []*Post
	var warns []string
	bySlug := make(map[string]string)
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(path), ".md") {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		src, err := os.ReadFile(path)
		if err != nil {
			warns = append(warns, fmt.Sprintf("%s: %v", rel, err))
			return nil
		}
		if isDraft(src) {
			return nil
		}
		p, err := ParsePost(rel, src)
		if err != nil {
			warns = append(warns, fmt.Sprintf("%s: %v", rel, err))
			return nil
		}
		if p.Slug == "/" {
			warns = append(warns, fmt.Sprintf("%s: slug / belongs to the post index", rel))
			return nil
		}
		if prev, ok := bySlug[p.Slug]; ok {
			warns = append(warns, fmt.Sprintf("%s: slug %s already used by %s", rel, p.Slug, prev))
			return nil
		}
		bySlug[p.Slug] = rel
		posts = append(posts, p)
		return nil
	})
	if err != nil {
		return nil, warns, fmt.Errorf("cannot read directory %s: %w", dir, err)
	}
	Sort(posts)
	return posts, warns, nil
}

func isDraft(src []byte) bool {
	fm, _, err := splitFrontMatter(src)
	return err == nil && fm.Draft
}

// Sort orders posts newest first, ties by slug, and links previous/next.
func Sort(posts []*Post) {
	sort.SliceStable(posts, func(i, j int) bool {
		if !posts[i].Date.Equal(posts[j].Date) {
			return posts[i].Date.After(posts[j].Date)
		}
		return posts[i].Slug < posts[j].Slug
	})
	for i, p := range posts {
		p.Previous, p.Next = nil, nil
		if i+1 < len(posts) {
			p.Previous = posts[i+1]
		}
		if i > 0 {
			p.Next = posts[i-1]
		}
	}
}
