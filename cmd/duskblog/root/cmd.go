// Package rootcmd wires the root cobra.Command for the duskblog binary.
package rootcmd

import (
	"github.com/spf13/cobra"

	buildcmd "github.com/rhomel/duskblog/cmd/duskblog/build"
	servecmd "github.com/rhomel/duskblog/cmd/duskblog/serve"
	"github.com/rhomel/duskblog/cmd/duskblog/shared"
	themecmd "github.com/rhomel/duskblog/cmd/duskblog/theme"
	watchcmd "github.com/rhomel/duskblog/cmd/duskblog/watch"
)

// New creates and returns the root cobra.Command.
func New() *cobra.Command {
	ctx := &shared.Context{}

	root := &cobra.Command{
		Use:           "duskblog",
		Short:         "duskblog: a static blog generator with light and dark themes",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          func(cmd *cobra.Command, _ []string) error { return cmd.Help() },
	}

	root.PersistentFlags().StringVar(&ctx.ConfigPath, "config", "site.yaml", "Site configuration file")
	root.PersistentFlags().StringVar(&ctx.LogLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	root.AddCommand(
		buildcmd.New(ctx).Cmd(),
		servecmd.New(ctx).Cmd(),
		watchcmd.New(ctx).Cmd(),
		themecmd.New(ctx).Cmd(),
	)

	return root
}
