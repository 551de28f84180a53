// Package watchcmd implements the `duskblog watch` command.
package watchcmd

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/rhomel/duskblog/cmd/duskblog/shared"
	"github.com/rhomel/duskblog/internal/build"
	"github.com/rhomel/duskblog/internal/server"
	"github.com/rhomel/duskblog/internal/watch"
)

// Command implements `duskblog watch`.
type Command struct {
	ctx      *shared.Context
	cmd      *cobra.Command
	addr     string
	noServer bool
}

// New creates the watch command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "watch",
		Short: "Regenerate on change and serve with live reload",
		Args:  cobra.NoArgs,
		RunE:  c.run,
	}
	c.cmd.Flags().StringVar(&c.addr, "addr", "", "Listen address (default from config)")
	c.cmd.Flags().BoolVar(&c.noServer, "no-server", false, "Only regenerate, do not serve")
	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }

func (c *Command) run(cmd *cobra.Command, _ []string) error {
	cfg, err := c.ctx.Config()
	if err != nil {
		return err
	}
	addr := cfg.Addr
	if c.addr != "" {
		addr = c.addr
	}
	logger := c.ctx.Logger(cmd.ErrOrStderr())
	builder := build.New(cfg, logger)

	var srv *server.Server
	if !c.noServer {
		srv = server.New(cfg.OutDir, server.Options{LiveReload: true, Logger: logger})
	}

	out, err := filepath.Abs(cfg.OutDir)
	if err != nil {
		return err
	}
	w := &watch.Watcher{
		Dirs:   watchDirs(cfg.ContentDir, cfg.AssetsDir, filepath.Dir(cfg.ThemeFile)),
		Logger: logger,
		Skip: func(path string) bool {
			abs, err := filepath.Abs(path)
			if err != nil {
				return false
			}
			return abs == out || strings.HasPrefix(abs, out+string(filepath.Separator))
		},
	}

	g, ctx := errgroup.WithContext(cmd.Context())
	g.Go(func() error {
		return w.Run(ctx, func() { regenerate(ctx, builder, srv) })
	})
	if srv != nil {
		g.Go(func() error { return srv.ListenAndServe(ctx, addr) })
	}
	return g.Wait()
}

func regenerate(ctx context.Context, b *build.Builder, srv *server.Server) {
	res, err := b.Run(ctx)
	if err != nil {
		b.Logger().ErrorContext(ctx, "generation failed", "err", err)
		return
	}
	b.Logger().InfoContext(ctx, "regenerated", "posts", res.Posts, "pages", res.Pages)
	if srv != nil {
		srv.Broadcast("reload")
	}
}

// watchDirs drops duplicates, so a theme file inside the content directory
// is not watched twice.
func watchDirs(dirs ...string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, d := range dirs {
		d = filepath.Clean(d)
		if seen[d] {
			continue
		}
		seen[d] = true
		out = append(out, d)
	}
	return out
}
