// Package themecmd implements the `duskblog theme` command group.
package themecmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/rhomel/duskblog/cmd/duskblog/shared"
	"github.com/rhomel/duskblog/internal/theme"
)

// SchemeEnv names the variable read as the colour-scheme signal.
const SchemeEnv = "DUSKBLOG_PREFERS_DARK"

// Command implements `duskblog theme`.
type Command struct {
	ctx       *shared.Context
	cmd       *cobra.Command
	storePath string
}

// New creates the theme command group.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "theme",
		Short: "Show or change the stored theme preference",
		Args:  cobra.NoArgs,
		RunE:  c.runGet,
	}
	c.cmd.PersistentFlags().StringVar(&c.storePath, "store", "",
		"Preference file (default: $XDG_CONFIG_HOME/duskblog/preferences.json)")
	c.cmd.AddCommand(
		&cobra.Command{
			Use:   "get",
			Short: "Print the resolved theme",
			Args:  cobra.NoArgs,
			RunE:  c.runGet,
		},
		&cobra.Command{
			Use:   "toggle",
			Short: "Flip and store the theme",
			Args:  cobra.NoArgs,
			RunE:  c.runToggle,
		},
		&cobra.Command{
			Use:       "set <dark|light>",
			Short:     "Store an explicit theme",
			Args:      cobra.ExactArgs(1),
			ValidArgs: []string{"dark", "light"},
			RunE:      c.runSet,
		},
	)
	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }

func (c *Command) resolver(cmd *cobra.Command) (*theme.Resolver, error) {
	path := c.storePath
	if path == "" {
		p, err := theme.DefaultFilePath()
		if err != nil {
			return nil, err
		}
		path = p
	}
	store, err := theme.OpenFileStore(path)
	if err != nil {
		return nil, err
	}
	logger := c.ctx.Logger(cmd.ErrOrStderr())
	logger.Debug("preference store", "path", store.Path())
	return theme.NewResolver(store, theme.EnvScheme(SchemeEnv)).WithLogger(logger), nil
}

func (c *Command) runGet(cmd *cobra.Command, _ []string) error {
	res, err := c.resolver(cmd)
	if err != nil {
		return err
	}
	printTheme(cmd.OutOrStdout(), res.Resolve())
	return nil
}

func (c *Command) runToggle(cmd *cobra.Command, _ []string) error {
	return c.update(cmd, func(b *theme.Binding) { b.Toggle() })
}

func (c *Command) runSet(cmd *cobra.Command, args []string) error {
	var dark bool
	switch args[0] {
	case "dark":
		dark = true
	case "light":
	default:
		return fmt.Errorf("unknown theme %q: want dark or light", args[0])
	}
	return c.update(cmd, func(b *theme.Binding) { b.Set(dark) })
}

// update mounts a binding whose changes are persisted, applies fn and
// reports a persistence failure as an error.
func (c *Command) update(cmd *cobra.Command, fn func(*theme.Binding)) error {
	res, err := c.resolver(cmd)
	if err != nil {
		return err
	}
	b := theme.NewBinding(res)
	var persistErr error
	b.Subscribe(func(dark bool) {
		if err := res.Persist(dark); err != nil {
			persistErr = err
		}
	})
	b.Mount()
	fn(b)
	if persistErr != nil {
		return persistErr
	}
	printTheme(cmd.OutOrStdout(), b.Dark())
	return nil
}

func printTheme(w io.Writer, dark bool) {
	if dark {
		fmt.Fprintln(w, "dark")
		return
	}
	fmt.Fprintln(w, "light")
}
