// Package build performs a full site generation.
package build

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rhomel/duskblog/internal/config"
	"github.com/rhomel/duskblog/internal/content"
	"github.com/rhomel/duskblog/internal/feed"
	"github.com/rhomel/duskblog/internal/render"
	"github.com/rhomel/duskblog/internal/theme"
)

const (
	avatarName = "profile-pic.jpg"
	iconName   = "icon.png"

	defaultBackground = "#ffffff"
)

// Result summarizes a generation.
type Result struct {
	// Pages counts HTML files written.
	Pages    int
	Posts    int
	Assets   int
	Warnings []string
}

// Builder generates the site described by a Config.
type Builder struct {
	cfg    *config.Config
	logger *slog.Logger
	now    func() time.Time
}

// New returns a Builder. A nil logger uses slog.Default().
func New(cfg *config.Config, logger *slog.Logger) *Builder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Builder{cfg: cfg, logger: logger, now: time.Now}
}

// Logger returns the logger the Builder reports to.
func (b *Builder) Logger() *slog.Logger { return b.logger }

// Run performs a single generation into the configured output directory.
func (b *Builder) Run(ctx context.Context) (Result, error) {
	var res Result
	cfg := b.cfg

	palette, err := b.palette()
	if err != nil {
		return res, fmt.Errorf("unable to load theme: %w", err)
	}

	posts, warns, err := content.Load(cfg.ContentDir)
	if err != nil {
		return res, err
	}
	res.Warnings = warns
	res.Posts = len(posts)
	for _, w := range warns {
		b.logger.WarnContext(ctx, "skipping post", "reason", w)
	}

	if err := os.MkdirAll(cfg.OutDir, 0o755); err != nil {
		return res, err
	}

	var avatar, icon string
	if fileExists(filepath.Join(cfg.AssetsDir, avatarName)) {
		avatar = "/assets/" + avatarName
	}
	if fileExists(filepath.Join(cfg.AssetsDir, iconName)) {
		icon = "/assets/" + iconName
	}

	r, err := render.New(render.Options{
		Site:     cfg.Site,
		FeedPath: cfg.Feed.Path,
		Avatar:   avatar,
		Palette:  palette,
		Now:      b.now,
	})
	if err != nil {
		return res, err
	}

	// Generation has no reader and no preference store.
	dark := theme.Prerender().Resolve()

	for _, p := range posts {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		var buf bytes.Buffer
		if err := r.Post(&buf, p, dark); err != nil {
			return res, fmt.Errorf("%s: %w", p.SourcePath, err)
		}
		if err := writeFile(filepath.Join(cfg.OutDir, filepath.FromSlash(p.Slug), "index.html"), buf.Bytes()); err != nil {
			return res, err
		}
		res.Pages++
		if p.Dir() != "." {
			n, err := copyDir(filepath.Join(cfg.ContentDir, p.Dir()), filepath.Join(cfg.OutDir, filepath.FromSlash(p.Slug)), false)
			if err != nil {
				return res, err
			}
			res.Assets += n
		}
	}

	var buf bytes.Buffer
	if err := r.Index(&buf, posts, dark); err != nil {
		return res, err
	}
	if err := writeFile(filepath.Join(cfg.OutDir, "index.html"), buf.Bytes()); err != nil {
		return res, err
	}
	res.Pages++

	buf.Reset()
	if err := r.NotFound(&buf, dark); err != nil {
		return res, err
	}
	if err := writeFile(filepath.Join(cfg.OutDir, "404.html"), buf.Bytes()); err != nil {
		return res, err
	}
	res.Pages++

	buf.Reset()
	if err := feed.WriteRSS(&buf, cfg.Site, cfg.Feed, posts, b.now()); err != nil {
		return res, fmt.Errorf("rss: %w", err)
	}
	if err := writeFile(filepath.Join(cfg.OutDir, filepath.FromSlash(cfg.Feed.Path)), buf.Bytes()); err != nil {
		return res, err
	}

	buf.Reset()
	mc := cfg.Manifest
	if mc.BackgroundColor == "" {
		mc.BackgroundColor = palette.Get("color-background")
	}
	if mc.BackgroundColor == "" {
		mc.BackgroundColor = defaultBackground
	}
	if err := feed.WriteManifest(&buf, cfg.Site, mc, icon); err != nil {
		return res, fmt.Errorf("manifest: %w", err)
	}
	if err := writeFile(filepath.Join(cfg.OutDir, "manifest.webmanifest"), buf.Bytes()); err != nil {
		return res, err
	}

	if fileExists(cfg.AssetsDir) {
		n, err := copyDir(cfg.AssetsDir, filepath.Join(cfg.OutDir, "assets"), true)
		if err != nil {
			return res, err
		}
		res.Assets += n
	}
	return res, nil
}

func (b *Builder) palette() (theme.Palette, error) {
	if b.cfg.ThemeFile == "" || !fileExists(b.cfg.ThemeFile) {
		b.logger.Debug("using built-in theme", "path", b.cfg.ThemeFile)
		return theme.DefaultPalette(), nil
	}
	return theme.LoadPalette(b.cfg.ThemeFile)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// copyDir copies the non-markdown files of src into dst. Subdirectories are
// only followed when recursive is set. It returns the number of files copied.
func copyDir(src, dst string, recursive bool) (int, error) {
	count := 0
	err := filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != src && !recursive {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.EqualFold(filepath.Ext(path), ".md") {
			return nil
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		if err := copyFile(path, filepath.Join(dst, rel)); err != nil {
			return err
		}
		count++
		return nil
	})
	return count, err
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
