package commands

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/doeshing/retest-go/internal/app"
	"github.com/doeshing/retest-go/internal/infrastructure/cli/helpers"
	"github.com/doeshing/retest-go/internal/infrastructure/history"
)

// NewHistoryCommand creates the history command with all subcommands
func NewHistoryCommand(container *app.Container) *cobra.Command {
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect the execution history",
		RunE: func(cmd *cobra.Command, args []string) error {
			return listHistoryEntries(cmd.OutOrStdout(), container)
		},
	}

	historyCmd.AddCommand(
		newHistoryListCommand(container),
		newHistoryLastCommand(container),
		newHistorySearchCommand(container),
		newHistoryClearCommand(container),
		newHistoryExportCommand(container),
		newHistoryStatsCommand(container),
	)

	return historyCmd
}

// newHistoryListCommand creates the 'history list' subcommand
func newHistoryListCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every recorded run, most recent first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return listHistoryEntries(cmd.OutOrStdout(), container)
		},
	}
}

// newHistoryLastCommand creates the 'history last' subcommand
func newHistoryLastCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "last",
		Short: "Show the most recent run",
		RunE: func(cmd *cobra.Command, args []string) error {
			last, ok := container.History().Last()
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), MsgNoLastExecution)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d: %s\n", container.History().Len()-1, last.Format())
			return nil
		},
	}
}

// newHistorySearchCommand creates the 'history search' subcommand
func newHistorySearchCommand(container *app.Container) *cobra.Command {
	var query string

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search patterns and strings for a keyword",
		RunE: func(cmd *cobra.Command, args []string) error {
			if query == "" {
				return fmt.Errorf(ErrQueryRequired)
			}
			printBlock(cmd.OutOrStdout(), container.History().RenderMatching(query))
			return nil
		},
	}

	cmd.Flags().StringVar(&query, "query", "", "Search keyword")
	return cmd
}

// newHistoryClearCommand creates the 'history clear' subcommand
func newHistoryClearCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every recorded run",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := container.History().Clear(); err != nil {
				return fmt.Errorf("failed to clear history: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), MsgHistoryCleared)
			return nil
		},
	}
}

// newHistoryExportCommand creates the 'history export' subcommand
func newHistoryExportCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "export <path>",
		Short: "Export history to a JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return exportHistory(cmd.OutOrStdout(), container, args[0])
		},
	}
}

// newHistoryStatsCommand creates the 'history stats' subcommand
func newHistoryStatsCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show run totals and the most-run pair",
		RunE: func(cmd *cobra.Command, args []string) error {
			helpers.DisplayHistoryStats(cmd.OutOrStdout(), container.History().Stats(), time.Now())
			return nil
		},
	}
}

// listHistoryEntries renders the whole log
func listHistoryEntries(out io.Writer, container *app.Container) error {
	if container.HistoryStore == nil {
		return fmt.Errorf(ErrHistoryStoreUnavailable)
	}
	printBlock(out, container.History().Render())
	return nil
}

// exportHistory writes the in-memory log to path in the state file format
func exportHistory(out io.Writer, container *app.Container, path string) error {
	if container.HistoryStore == nil {
		return fmt.Errorf(ErrHistoryStoreUnavailable)
	}
	entries := container.History().Entries()
	if err := history.WriteJSON(path, entries); err != nil {
		return fmt.Errorf("failed to export history to %s: %w", path, err)
	}
	fmt.Fprintf(out, "Exported %d records to %s\n", len(entries), path)
	return nil
}

// printBlock writes text and terminates it with exactly one newline.
func printBlock(out io.Writer, text string) {
	fmt.Fprint(out, text)
	if !strings.HasSuffix(text, "\n") {
		fmt.Fprintln(out)
	}
}
