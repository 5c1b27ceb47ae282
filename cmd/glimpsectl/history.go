package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"glimpse/internal/history"
	"glimpse/internal/ipc"
	"glimpse/internal/kvstore"
)

const msgNoHistory = "No searches recorded yet."

func newHistoryCommand(opts *cliOptions) *cobra.Command {
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect or clear the search history",
	}
	historyCmd.AddCommand(newHistoryListCommand(opts), newHistoryClearCommand(opts))
	return historyCmd
}

func newHistoryListCommand(opts *cliOptions) *cobra.Command {
	var query string
	var limit int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent searches, most recent first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			_, store, err := opts.openStore()
			if err != nil {
				return err
			}
			defer closeStore(store, &err)

			h := history.New(kvstore.NewLists(store))
			var entries []string
			if query != "" {
				entries = h.Suggest(query, limit)
			} else {
				entries = h.Entries()
				if limit > 0 && len(entries) > limit {
					entries = entries[:limit]
				}
			}
			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, msgNoHistory)
				return nil
			}
			for i, e := range entries {
				fmt.Fprintf(out, "%2d  %s\n", i+1, e)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&query, "match", "", "Rank entries against a partial query")
	cmd.Flags().IntVar(&limit, "limit", history.MaxEntries, "Max entries to show")
	return cmd
}

func newHistoryClearCommand(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete the stored search history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			_, store, err := opts.openStore()
			if err != nil {
				return err
			}
			defer closeStore(store, &err)

			if err := history.New(kvstore.NewLists(store)).Clear(); err != nil {
				return fmt.Errorf("clear history: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "History cleared.")
			return opts.notify(ipc.CmdReloadHistory)
		},
	}
}

// notify asks a running instance to re-read what was just written. No
// instance is fine: the next launch reads the database anyway.
func (o *cliOptions) notify(command string) error {
	_, err := o.send(command)
	if errors.Is(err, errNotRunning) {
		return nil
	}
	return err
}
