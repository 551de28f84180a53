// Package shared holds the context passed to all CLI commands.
package shared

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"

	"github.com/rhomel/duskblog/internal/config"
)

// Context carries global CLI state (flags set on the root command).
type Context struct {
	// ConfigPath is the site.yaml to load.
	ConfigPath string
	// LogLevel is one of debug, info, warn or error.
	LogLevel string
}

// Config loads the site configuration named by ConfigPath.
func (c *Context) Config() (*config.Config, error) {
	return config.Load(c.ConfigPath)
}

// Logger returns a tint logger writing to w. Colours are disabled when w is
// not a terminal.
func (c *Context) Logger(w io.Writer) *slog.Logger {
	noColor := true
	if f, ok := w.(*os.File); ok {
		noColor = !isatty.IsTerminal(f.Fd()) && !isatty.IsCygwinTerminal(f.Fd())
		if !noColor {
			w = colorable.NewColorable(f)
		}
	}
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      ParseLevel(c.LogLevel),
		TimeFormat: "15:04:05.000",
		NoColor:    noColor,
	}))
}

// ParseLevel maps a level name to a slog.Level, defaulting to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
