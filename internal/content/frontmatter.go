package content

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrInvalidDate is returned when a front matter date cannot be parsed.
var ErrInvalidDate = errors.New("invalid date")

// FrontMatter is the YAML header of a post.
type FrontMatter struct {
	Title       string `yaml:"title"`
	Date        string `yaml:"date"`
	Description string `yaml:"description"`
	Draft       bool   `yaml:"draft"`
}

var fence = []byte("---")

// splitFrontMatter separates a leading "---" delimited YAML block from the
// body. Content without one is returned unchanged.
func splitFrontMatter(src []byte) (FrontMatter, []byte, error) {
	var fm FrontMatter
	src = bytes.TrimPrefix(src, []byte("\ufeff"))
	if !bytes.HasPrefix(src, fence) {
		return fm, src, nil
	}
	rest := src[len(fence):]
	nl := bytes.IndexByte(rest, '\n')
	if nl < 0 || len(bytes.TrimSpace(rest[:nl])) != 0 {
		return fm, src, nil
	}
	rest = rest[nl+1:]

	var header []byte
	var body []byte
	found := false
	for off := 0; off < len(rest); {
		end := bytes.IndexByte(rest[off:], '\n')
		line := rest[off:]
		next := len(rest)
		if end >= 0 {
			line = rest[off : off+end]
			next = off + end + 1
		}
		if bytes.Equal(bytes.TrimRight(line, " \t\r"), fence) {
			header = rest[:off]
			body = rest[next:]
			found = true
			break
		}
		off = next
	}
	if !found {
		return fm, src, nil
	}
	if err := yaml.Unmarshal(header, &fm); err != nil {
		return fm, nil, fmt.Errorf("front matter: %w", err)
	}
	return fm, body, nil
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// parseDate accepts the date forms commonly found in blog front matter.
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w %q", ErrInvalidDate, s)
}
