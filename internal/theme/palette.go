package theme

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"
)

//go:embed default.md
var defaultPalette []byte

// Palette holds site-wide styling properties. Light applies to every page,
// Dark overrides it when the body carries the dark class.
type Palette struct {
	Light map[string]string
	Dark  map[string]string
}

var propertyRe = regexp.MustCompile(`^\-\s*([a-z][a-z0-9\-]*):\s*(.+)$`)

// LoadPalette reads a Markdown theme file. It looks for a “# Properties”
// section and an optional “# Dark” section and parses lines like:
//   - font-family: Merriweather, serif
//   - color-text: #333333
//   - max-content-width: 42rem
func LoadPalette(path string) (Palette, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Palette{}, err
	}
	return ParsePalette(content), nil
}

// DefaultPalette returns the built-in palette.
func DefaultPalette() Palette {
	return ParsePalette(defaultPalette)
}

// ParsePalette parses theme file content. Unknown sections are ignored.
func ParsePalette(content []byte) Palette {
	p := Palette{Light: map[string]string{}, Dark: map[string]string{}}
	var section map[string]string
	for _, line := range bytes.Split(content, []byte("\n")) {
		trim := strings.TrimSpace(string(line))
		if strings.HasPrefix(trim, "# ") {
			switch strings.ToLower(strings.TrimSpace(trim[2:])) {
			case "properties":
				section = p.Light
			case "dark":
				section = p.Dark
			default:
				section = nil
			}
			continue
		}
		if section == nil {
			continue
		}
		if m := propertyRe.FindStringSubmatch(trim); m != nil {
			section[m[1]] = strings.TrimSpace(m[2])
		}
	}
	return p
}

// Get returns a light property, or "" when the palette does not set it.
func (p Palette) Get(name string) string {
	return p.Light[name]
}

// CSS emits the palette as custom properties: light on :root, dark on
// body.dark.
func (p Palette) CSS() string {
	var b strings.Builder
	writeBlock(&b, ":root", p.Light)
	if len(p.Dark) > 0 {
		writeBlock(&b, "body.dark", p.Dark)
	}
	return b.String()
}

func writeBlock(b *strings.Builder, selector string, props map[string]string) {
	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	fmt.Fprintf(b, "%s {\n", selector)
	for _, k := range keys {
		fmt.Fprintf(b, "  --%s: %s;\n", k, props[k])
	}
	b.WriteString("}\n")
}
