// Package feed writes the RSS feed and the web app manifest.
package feed

import (
	"encoding/json"
	"encoding/xml"
	"io"
	"time"

	"github.com/rhomel/duskblog/internal/config"
	"github.com/rhomel/duskblog/internal/content"
)

type rss struct {
	XMLName xml.Name `xml:"rss"`
	Version string   `xml:"version,attr"`
	Atom    string   `xml:"xmlns:atom,attr"`
	Content string   `xml:"xmlns:content,attr"`
	Channel channel  `xml:"channel"`
}

type atomLink struct {
	Href string `xml:"href,attr"`
	Rel  string `xml:"rel,attr"`
	Type string `xml:"type,attr"`
}

type channel struct {
	Title         string   `xml:"title"`
	Link          string   `xml:"link"`
	Description   string   `xml:"description"`
	Generator     string   `xml:"generator"`
	LastBuildDate string   `xml:"lastBuildDate"`
	AtomLink      atomLink `xml:"atom:link"`
	Items         []item   `xml:"item"`
}

type item struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	GUID        guid   `xml:"guid"`
	PubDate     string `xml:"pubDate"`
	Description string `xml:"description"`
	Content     cdata  `xml:"content:encoded"`
}

type guid struct {
	Value       string `xml:",chardata"`
	IsPermaLink bool   `xml:"isPermaLink,attr"`
}

type cdata struct {
	Value string `xml:",cdata"`
}

// WriteRSS writes an RSS 2.0 document with the newest posts. posts must be
// sorted newest first. built is used for lastBuildDate.
func WriteRSS(w io.Writer, site config.Site, fc config.Feed, posts []*content.Post, built time.Time) error {
	if fc.Limit > 0 && len(posts) > fc.Limit {
		posts = posts[:fc.Limit]
	}
	doc := rss{
		Version: "2.0",
		Atom:    "http://www.w3.org/2005/Atom",
		Content: "http://purl.org/rss/1.0/modules/content/",
		Channel: channel{
			Title:         site.Title,
			Link:          site.URL + "/",
			Description:   site.Description,
			Generator:     "duskblog",
			LastBuildDate: built.UTC().Format(time.RFC1123Z),
			AtomLink: atomLink{
				Href: site.URL + "/" + fc.Path,
				Rel:  "self",
				Type: "application/rss+xml",
			},
		},
	}
	for _, p := range posts {
		link := site.URL + p.Slug
		doc.Channel.Items = append(doc.Channel.Items, item{
			Title:       p.Title,
			Link:        link,
			GUID:        guid{Value: link, IsPermaLink: true},
			PubDate:     p.Date.UTC().Format(time.RFC1123Z),
			Description: p.Summary(),
			Content:     cdata{Value: string(p.HTML)},
		})
	}
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}

type icon struct {
	Src   string `json:"src"`
	Sizes string `json:"sizes"`
	Type  string `json:"type"`
}

type manifest struct {
	Name            string `json:"name"`
	ShortName       string `json:"short_name"`
	StartURL        string `json:"start_url"`
	BackgroundColor string `json:"background_color"`
	ThemeColor      string `json:"theme_color"`
	Display         string `json:"display"`
	Icons           []icon `json:"icons,omitempty"`
}

// WriteManifest writes manifest.webmanifest. iconPath is the site-relative
// path of the icon, empty when the site has none.
func WriteManifest(w io.Writer, site config.Site, mc config.Manifest, iconPath string) error {
	m := manifest{
		Name:            site.Title,
		ShortName:       mc.ShortName,
		StartURL:        "/",
		BackgroundColor: mc.BackgroundColor,
		ThemeColor:      mc.ThemeColor,
		Display:         mc.Display,
	}
	if iconPath != "" {
		m.Icons = []icon{{Src: iconPath, Sizes: "512x512", Type: "image/png"}}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(m)
}
