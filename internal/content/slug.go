package content

import (
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// datedNameRe matches the YYYY-MM-DD-name form of article file names.
var datedNameRe = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})-(.+)$`)

// Slug derives a post URL from its path relative to the content root:
// "hello/index.md" and "hello.md" both become "/hello/", and a leading date
// is dropped from the last element.
func Slug(rel string) string {
	p := filepath.ToSlash(rel)
	p = strings.TrimSuffix(p, path.Ext(p))
	dir, base := path.Split(p)
	if base == "index" {
		dir, base = path.Split(strings.TrimSuffix(dir, "/"))
	}
	if m := datedNameRe.FindStringSubmatch(base); m != nil {
		base = m[2]
	}
	p = strings.Trim(path.Join(dir, base), "/")
	if p == "" || p == "." {
		return "/"
	}
	return "/" + p + "/"
}

// nameDate returns the date encoded in the last meaningful path element.
func nameDate(rel string) (time.Time, bool) {
	p := filepath.ToSlash(rel)
	p = strings.TrimSuffix(p, path.Ext(p))
	dir, base := path.Split(p)
	if base == "index" {
		_, base = path.Split(strings.TrimSuffix(dir, "/"))
	}
	m := datedNameRe.FindStringSubmatch(base)
	if m == nil {
		return time.Time{}, false
	}
	d, err := time.Parse("2006-01-02", m[1])
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}
