package content

import (
	"bytes"
	"html"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/russross/blackfriday/v2"
)

const excerptLength = 140

const markdownExtensions = blackfriday.CommonExtensions | blackfriday.AutoHeadingIDs | blackfriday.Footnotes

// RenderMarkdown converts a post body to HTML. CommonHTMLFlags carries the
// smartypants quote and dash substitutions.
func RenderMarkdown(md []byte) []byte {
	renderer := blackfriday.NewHTMLRenderer(blackfriday.HTMLRendererParameters{
		Flags: blackfriday.CommonHTMLFlags | blackfriday.FootnoteReturnLinks,
	})
	return blackfriday.Run(md,
		blackfriday.WithExtensions(markdownExtensions),
		blackfriday.WithRenderer(renderer),
	)
}

// extractTitle returns the text of the first level-one heading.
func extractTitle(md []byte) (string, bool) {
	for _, line := range bytes.Split(md, []byte("\n")) {
		if bytes.HasPrefix(line, []byte("# ")) {
			return strings.TrimSpace(string(bytes.TrimPrefix(line, []byte("# ")))), true
		}
	}
	return "", false
}

var (
	tagRe   = regexp.MustCompile(`<[^>]*>`)
	spaceRe = regexp.MustCompile(`\s+`)
)

// Excerpt returns the first characters of rendered HTML as plain text,
// ending with an ellipsis when cut.
func Excerpt(renderedHTML []byte) string {
	text := tagRe.ReplaceAllString(string(renderedHTML), " ")
	text = html.UnescapeString(text)
	text = strings.TrimSpace(spaceRe.ReplaceAllString(text, " "))
	if utf8.RuneCountInString(text) <= excerptLength {
		return text
	}
	runes := []rune(text)
	return strings.TrimSpace(string(runes[:excerptLength-1])) + "…"
}
