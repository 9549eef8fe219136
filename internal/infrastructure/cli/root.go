package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/doeshing/retest-go/internal/app"
	"github.com/doeshing/retest-go/internal/infrastructure/cli/commands"
	"github.com/doeshing/retest-go/internal/infrastructure/cli/helpers"
)

// Options holds CLI-level configuration.
type Options struct {
	Verbose    bool
	ConfigPath string
}

// NewRootCmd builds the container and wires the cobra root command. The
// caller owns the returned container and should Close it after execution.
func NewRootCmd(ctx context.Context, opts Options) (*cobra.Command, *app.Container, error) {
	container, err := app.BuildContainer(ctx, app.Options{
		Verbose:    opts.Verbose,
		ConfigPath: opts.ConfigPath,
		Notifier:   helpers.NewNotifier(os.Stderr),
		Stderr:     os.Stderr,
	})
	if err != nil {
		return nil, nil, err
	}
	return NewRootCommand(container), container, nil
}

// NewRootCommand wires every subcommand against an existing container.
// Running the root without a subcommand starts the interactive shell.
func NewRootCommand(container *app.Container) *cobra.Command {
	var engineName string

	root := &cobra.Command{
		Use:   "retest",
		Short: "retest - regular expression tester",
		Long:  "retest evaluates a pattern against a string (match, find, split) and keeps a history of every pair tried.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return commands.RunShell(cmd.Context(), container, engineName, cmd.InOrStdin(), cmd.OutOrStdout())
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.Flags().StringVarP(&engineName, "engine", "e", "", "Override the regex engine for the shell (re2|regexp2)")

	root.AddCommand(
		commands.NewMatchCommand(container),
		commands.NewFindCommand(container),
		commands.NewSplitCommand(container),
		commands.NewHistoryCommand(container),
		commands.NewShellCommand(container),
		commands.NewDoctorCommand(container),
		commands.NewConfigCommand(container),
		commands.NewVersionCommand(),
	)
	return root
}
