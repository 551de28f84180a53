// Package servecmd implements the `duskblog serve` command.
package servecmd

import (
	"github.com/spf13/cobra"

	"github.com/rhomel/duskblog/cmd/duskblog/shared"
	"github.com/rhomel/duskblog/internal/server"
)

// Command implements `duskblog serve`.
type Command struct {
	ctx         *shared.Context
	cmd         *cobra.Command
	addr        string
	toggleLimit int
}

// New creates the serve command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "serve",
		Short: "Serve the generated site with per-reader theming",
		Long: "Serve the output directory over HTTP. Pages are themed per request from the\n" +
			"reader's cookie and the Sec-CH-Prefers-Color-Scheme client hint.",
		Args: cobra.NoArgs,
		RunE: c.run,
	}
	c.cmd.Flags().StringVar(&c.addr, "addr", "", "Listen address (default from config)")
	c.cmd.Flags().IntVar(&c.toggleLimit, "toggle-limit", 60, "Theme toggles allowed per client IP and minute")
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
	srv := server.New(cfg.OutDir, server.Options{ToggleLimit: c.toggleLimit, Logger: logger})
	return srv.ListenAndServe(cmd.Context(), addr)
}
