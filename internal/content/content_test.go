package content_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"

	"github.com/rhomel/duskblog/internal/content"
)

func TestSlug(t *testing.T) {
	c := qt.New(t)

	tests := []struct {
		rel  string
		want string
	}{
		{rel: "hello-world/index.md", want: "/hello-world/"},
		{rel: "hello-world.md", want: "/hello-world/"},
		{rel: "2020-01-02-dated.md", want: "/dated/"},
		{rel: "2020-01-02-dated/index.md", want: "/dated/"},
		{rel: "notes/go/slices.md", want: "/notes/go/slices/"},
		{rel: "index.md", want: "/"},
	}
	for _, tt := range tests {
		c.Run(tt.rel, func(c *qt.C) {
			c.Assert(content.Slug(tt.rel), qt.Equals, tt.want)
		})
	}
}

func TestParsePost(t *testing.T) {
	c := qt.New(t)

	src := "---\ntitle: Hello\ndate: 2019-03-04\ndescription: ' A greeting '\n---\n\n# Ignored heading\n\nSome *body* text.\n"
	p, err := content.ParsePost("hello/index.md", []byte(src))
	c.Assert(err, qt.IsNil)
	c.Assert(p.Slug, qt.Equals, "/hello/")
	c.Assert(p.Title, qt.Equals, "Hello")
	c.Assert(p.Date, qt.Equals, time.Date(2019, 3, 4, 0, 0, 0, 0, time.UTC))
	c.Assert(p.DateString(), qt.Equals, "March 04, 2019")
	c.Assert(p.Summary(), qt.Equals, "A greeting")
	c.Assert(string(p.HTML), qt.Contains, "<em>body</em>")
	c.Assert(string(p.HTML), qt.Contains, `id="ignored-heading"`)
}

func TestParsePost_Fallbacks(t *testing.T) {
	c := qt.New(t)

	p, err := content.ParsePost("2021-06-07-plain.md", []byte("# From Heading\n\nBody.\n"))
	c.Assert(err, qt.IsNil)
	c.Assert(p.Title, qt.Equals, "From Heading")
	c.Assert(p.Date, qt.Equals, time.Date(2021, 6, 7, 0, 0, 0, 0, time.UTC))
	c.Assert(p.Summary(), qt.Equals, "From Heading Body.")

	p, err = content.ParsePost("2021-06-07-untitled.md", []byte("just text\n"))
	c.Assert(err, qt.IsNil)
	c.Assert(p.Title, qt.Equals, "/untitled/")
}

func TestParsePost_Errors(t *testing.T) {
	c := qt.New(t)

	_, err := content.ParsePost("undated.md", []byte("# Title\n"))
	c.Assert(errors.Is(err, content.ErrMissingDate), qt.IsTrue)

	_, err = content.ParsePost("bad.md", []byte("---\ndate: someday\n---\nbody\n"))
	c.Assert(errors.Is(err, content.ErrInvalidDate), qt.IsTrue)

	_, err = content.ParsePost("broken.md", []byte("---\ntitle: [unterminated\n---\nbody\n"))
	c.Assert(err, qt.ErrorMatches, "front matter: .*")
}

func TestExcerpt(t *testing.T) {
	c := qt.New(t)

	c.Assert(content.Excerpt([]byte("<p>Tom &amp; Jerry</p>\n<p>again</p>")), qt.Equals, "Tom & Jerry again")

	long := "<p>" + strings.Repeat("word ", 60) + "</p>"
	got := content.Excerpt([]byte(long))
	c.Assert(strings.HasSuffix(got, "…"), qt.IsTrue)
	c.Assert(len([]rune(got)) <= 140, qt.IsTrue)
}

func TestLoad(t *testing.T) {
	c := qt.New(t)
	dir := c.TempDir()

	write := func(rel, body string) {
		path := filepath.Join(dir, rel)
		c.Assert(os.MkdirAll(filepath.Dir(path), 0o755), qt.IsNil)
		c.Assert(os.WriteFile(path, []byte(body), 0o644), qt.IsNil)
	}
	write("old/index.md", "---\ntitle: Old\ndate: 2018-01-01\n---\nold\n")
	write("2019-05-05-middle.md", "# Middle\n")
	write("new.md", "---\ntitle: New\ndate: 2020-02-02T10:00:00Z\n---\nnew\n")
	write("draft.md", "---\ntitle: Draft\ndraft: true\n---\n")
	write("undated.md", "# Undated\n")
	write("old/photo.jpg", "binary")

	posts, warns, err := content.Load(dir)
	c.Assert(err, qt.IsNil)
	c.Assert(warns, qt.HasLen, 1)
	c.Assert(warns[0], qt.Contains, "undated.md")

	var slugs []string
	for _, p := range posts {
		slugs = append(slugs, p.Slug)
	}
	c.Assert(slugs, qt.DeepEquals, []string{"/new/", "/middle/", "/old/"})

	c.Assert(posts[0].Next, qt.IsNil)
	c.Assert(posts[0].Previous, qt.Equals, posts[1])
	c.Assert(posts[1].Next, qt.Equals, posts[0])
	c.Assert(posts[1].Previous, qt.Equals, posts[2])
	c.Assert(posts[2].Previous, qt.IsNil)
	c.Assert(posts[2].Dir(), qt.Equals, "old")
}

func TestLoad_MissingDir(t *testing.T) {
	c := qt.New(t)

	_, _, err := content.Load(filepath.Join(c.TempDir(), "nope"))
	c.Assert(err, qt.ErrorMatches, "cannot read directory .*")
}

func TestLoad_SlugCollisions(t *testing.T) {
	c := qt.New(t)
	dir := c.TempDir()
	for rel, body := range map[string]string{
		"index.md":   "---\ntitle: Home\ndate: 2020-01-01\n---\nhome\n",
		"a.md":       "---\ntitle: Flat\ndate: 2020-01-02\n---\nflat\n",
		"a/index.md": "---\ntitle: Dir\ndate: 2020-01-03\n---\ndir\n",
		"b.md":       "---\ntitle: B\ndate: 2020-01-04\n---\nb\n",
	} {
		path := filepath.Join(dir, filepath.FromSlash(rel))
		c.Assert(os.MkdirAll(filepath.Dir(path), 0o755), qt.IsNil)
		c.Assert(os.WriteFile(path, []byte(body), 0o644), qt.IsNil)
	}

	posts, warns, err := content.Load(dir)
	c.Assert(err, qt.IsNil)
	c.Assert(posts, qt.HasLen, 2)
	c.Assert(posts[0].Slug, qt.Equals, "/b/")
	c.Assert(posts[1].Slug, qt.Equals, "/a/")
	// The directory entry "a" sorts before "a.md", so a/index.md keeps /a/.
	c.Assert(posts[1].Title, qt.Equals, "Dir")

	c.Assert(warns, qt.HasLen, 2)
	joined := strings.Join(warns, "\n")
	c.Assert(joined, qt.Contains, "a.md: slug /a/ already used by "+filepath.Join("a", "index.md"))
	c.Assert(joined, qt.Contains, "index.md: slug / belongs to the post index")
}

func TestRenderMarkdown_Smartypants(t *testing.T) {
	c := qt.New(t)
	out := string(content.RenderMarkdown([]byte(`He said "hi" -- twice.`)))
	c.Assert(out, qt.Contains, "&ldquo;hi&rdquo;")
	c.Assert(out, qt.Not(qt.Contains), " -- ")
}
