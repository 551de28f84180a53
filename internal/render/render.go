// Package render turns posts into HTML pages.
//
// Pages are prerendered light and carry a small script that resolves the
// reader's preference in the browser: the "dark" localStorage key, then
// prefers-color-scheme, then light. The toggle form posts to ToggleAction
// when scripts are off. Servers that resolve the theme themselves use
// ForSession to drop the script and apply their result.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/rhomel/duskblog/internal/config"
	"github.com/rhomel/duskblog/internal/content"
	"github.com/rhomel/duskblog/internal/theme"
)

// ToggleAction is where the theme toggle form posts.
const ToggleAction = "/_theme/toggle"

//go:embed templates/*.html templates/style.css
var templateFS embed.FS

const (
	bodyLight   = `<body class="light">`
	bodyDark    = `<body class="dark">`
	toggleLight = `<button class="switch" type="submit">Dark Mode</button>`
	toggleDark  = `<button class="switch" type="submit">Light Mode</button>`
)

// clientTheme runs right after <body> so the class is set before the page
// paints. Stored values other than "true" and "false" count as absent.
const clientTheme = `<script id="theme-preference">
(function () {
  var key = "dark";
  function resolve() {
    try {
      var v = localStorage.getItem(key);
      if (v === "true" || v === "false") return v === "true";
    } catch (e) {}
    return !!(window.matchMedia && window.matchMedia("(prefers-color-scheme: dark)").matches);
  }
  function persist(dark) {
    try { localStorage.setItem(key, JSON.stringify(dark)); } catch (e) {}
  }
  function apply(dark) {
    document.body.className = dark ? "dark" : "light";
    var b = document.querySelector(".theme-toggle .switch");
    if (b) b.textContent = dark ? "Light Mode" : "Dark Mode";
  }
  var dark = resolve();
  apply(dark);
  persist(dark);
  document.addEventListener("DOMContentLoaded", function () {
    apply(dark);
    var f = document.querySelector(".theme-toggle");
    if (!f) return;
    f.addEventListener("submit", function (e) {
      e.preventDefault();
      dark = !dark;
      apply(dark);
      persist(dark);
    });
  });
})();
</script>`

// Link is one social link.
type Link struct {
	Name string
	URL  string
}

// Page is the data every template receives.
type Page struct {
	Site         config.Site
	Title        string
	Description  string
	Path         string
	Dark         bool
	CSS          template.CSS
	Year         int
	FeedPath     string
	Avatar       string
	ToggleAction string
	Posts        []*content.Post
	Post         *content.Post
}

// Renderer renders the site's pages.
type Renderer struct {
	site     config.Site
	feedPath string
	avatar   string
	css      template.CSS
	now      func() time.Time
	pages    map[string]*template.Template
}

// Options configures a Renderer.
type Options struct {
	Site     config.Site
	FeedPath string
	// Avatar is the site-relative path of the bio picture, if any.
	Avatar  string
	Palette theme.Palette
	Now     func() time.Time
}

// New parses the embedded templates.
func New(opts Options) (*Renderer, error) {
	style, err := templateFS.ReadFile("templates/style.css")
	if err != nil {
		return nil, err
	}
	r := &Renderer{
		site:     opts.Site,
		feedPath: opts.FeedPath,
		avatar:   opts.Avatar,
		css:      template.CSS(opts.Palette.CSS() + string(style)),
		now:      opts.Now,
		pages:    make(map[string]*template.Template),
	}
	if r.now == nil {
		r.now = time.Now
	}
	funcs := template.FuncMap{
		"clientTheme":  func() template.HTML { return clientTheme },
		"bodyTag":      bodyTag,
		"toggleButton": toggleButton,
		"socialLinks":  socialLinks,
	}
	for _, name := range []string{"index", "post", "404"} {
		t, err := template.New(name).Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		r.pages[name] = t
	}
	return r, nil
}

func (r *Renderer) page(title, description, path string, dark bool) Page {
	if description == "" {
		description = r.site.Description
	}
	return Page{
		Site:         r.site,
		Title:        title,
		Description:  description,
		Path:         path,
		Dark:         dark,
		CSS:          r.css,
		Year:         r.now().Year(),
		FeedPath:     r.feedPath,
		Avatar:       r.avatar,
		ToggleAction: ToggleAction,
	}
}

// Index renders the post listing.
func (r *Renderer) Index(w io.Writer, posts []*content.Post, dark bool) error {
	p := r.page("", "", "/", dark)
	p.Posts = posts
	return r.pages["index"].ExecuteTemplate(w, "layout", p)
}

// Post renders a single post.
func (r *Renderer) Post(w io.Writer, post *content.Post, dark bool) error {
	p := r.page(post.Title, post.Summary(), post.Slug, dark)
	p.Post = post
	return r.pages["post"].ExecuteTemplate(w, "layout", p)
}

// NotFound renders the 404 page.
func (r *Renderer) NotFound(w io.Writer, dark bool) error {
	p := r.page("404: Not Found", "", "/404.html", dark)
	return r.pages["404"].ExecuteTemplate(w, "layout", p)
}

// ApplyTheme rewrites a page rendered light into its dark form. Pages not
// produced by a Renderer are returned unchanged.
func ApplyTheme(page []byte, dark bool) []byte {
	if !dark {
		return page
	}
	out := bytes.Replace(page, []byte(bodyLight), []byte(bodyDark), 1)
	return bytes.Replace(out, []byte(toggleLight), []byte(toggleDark), 1)
}

// ForSession prepares a prerendered page for a reader whose preference was
// resolved server side: the client script is removed and dark applied.
func ForSession(page []byte, dark bool) []byte {
	return ApplyTheme(bytes.Replace(page, []byte(clientTheme), nil, 1), dark)
}

func bodyTag(dark bool) template.HTML {
	if dark {
		return bodyDark
	}
	return bodyLight
}

func toggleButton(dark bool) template.HTML {
	if dark {
		return toggleDark
	}
	return toggleLight
}

func socialLinks(s config.Social, feedPath string) []Link {
	var links []Link
	for _, l := range []Link{
		{Name: "Website", URL: s.Website},
		{Name: "GitHub", URL: s.GitHub},
		{Name: "Stack Overflow", URL: s.StackOverflow},
		{Name: "Twitter", URL: s.Twitter},
	} {
		if l.URL != "" {
			links = append(links, l)
		}
	}
	return append(links, Link{Name: "RSS", URL: "/" + feedPath})
}
