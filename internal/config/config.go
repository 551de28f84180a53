// Package config loads the site configuration.
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Social holds profile links shown under the bio.
type Social struct {
	Website       string `yaml:"website"`
	GitHub        string `yaml:"github"`
	StackOverflow string `yaml:"stack_overflow"`
	Twitter       string `yaml:"twitter"`
}

// Site is the metadata rendered into every page.
type Site struct {
	Title       string `yaml:"title"`
	Author      string `yaml:"author"`
	Description string `yaml:"description"`
	URL         string `yaml:"url"`
	Social      Social `yaml:"social"`
}

// Feed controls the RSS feed.
type Feed struct {
	Path  string `yaml:"path"`
	Limit int    `yaml:"limit"`
}

// Manifest controls the web app manifest. An empty BackgroundColor takes the
// theme's color-background.
type Manifest struct {
	ShortName       string `yaml:"short_name"`
	BackgroundColor string `yaml:"background_color"`
	ThemeColor      string `yaml:"theme_color"`
	Display         string `yaml:"display"`
}

// Config is the root configuration, read from site.yaml.
type Config struct {
	Site       Site     `yaml:"site"`
	ContentDir string   `yaml:"content_dir"`
	AssetsDir  string   `yaml:"assets_dir"`
	ThemeFile  string   `yaml:"theme_file"`
	OutDir     string   `yaml:"out_dir"`
	Addr       string   `yaml:"addr"`
	Feed       Feed     `yaml:"feed"`
	Manifest   Manifest `yaml:"manifest"`
}

// Default returns a Config populated with defaults.
func Default() *Config {
	return &Config{
		Site: Site{
			Title:       "My Blog",
			Author:      "Anonymous",
			Description: "Writing about things I learn.",
			URL:         "http://localhost:8888",
		},
		ContentDir: "content/blog",
		AssetsDir:  "content/assets",
		ThemeFile:  "content/theme.md",
		OutDir:     "public",
		Addr:       "localhost:8888",
		Feed:       Feed{Path: "rss.xml", Limit: 20},
		Manifest: Manifest{
			ThemeColor: "#4271ae",
			Display:    "minimal-ui",
		},
	}
}

// Load reads path on top of Default(). A missing file yields the defaults;
// keys absent from the file keep their default values. DUSKBLOG_OUT and
// DUSKBLOG_ADDR override the file.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return nil, err
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}

	if v := strings.TrimSpace(os.Getenv("DUSKBLOG_OUT")); v != "" {
		cfg.OutDir = v
	}
	if v := strings.TrimSpace(os.Getenv("DUSKBLOG_ADDR")); v != "" {
		cfg.Addr = v
	}
	if cfg.Manifest.ShortName == "" {
		cfg.Manifest.ShortName = cfg.Site.Title
	}
	cfg.Site.URL = strings.TrimRight(cfg.Site.URL, "/")
	return cfg, nil
}
