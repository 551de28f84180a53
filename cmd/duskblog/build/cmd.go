// Package buildcmd implements the `duskblog build` command.
package buildcmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rhomel/duskblog/cmd/duskblog/shared"
	"github.com/rhomel/duskblog/internal/build"
)

// Command implements `duskblog build`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command
}

// New creates the build command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "build",
		Short: "Generate the site into the output directory",
		Args:  cobra.NoArgs,
		RunE:  c.run,
	}
	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }

func (c *Command) run(cmd *cobra.Command, _ []string) error {
	cfg, err := c.ctx.Config()
	if err != nil {
		return err
	}
	logger := c.ctx.Logger(cmd.ErrOrStderr())

	start := time.Now()
	res, err := build.New(cfg, logger).Run(cmd.Context())
	if err != nil {
		return fmt.Errorf("generation failed: %w", err)
	}
	logger.Info("generation complete",
		"posts", res.Posts, "pages", res.Pages, "assets", res.Assets,
		"skipped", len(res.Warnings), "elapsed", time.Since(start).Round(time.Millisecond))
	fmt.Fprintf(cmd.OutOrStdout(), "Generated %d posts into %s\n", res.Posts, cfg.OutDir)
	return nil
}
