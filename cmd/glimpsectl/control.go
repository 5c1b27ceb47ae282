package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"glimpse/internal/ipc"
)

func newControlCommand(opts *cliOptions, command, short string) *cobra.Command {
	return &cobra.Command{
		Use:   command,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := opts.send(command)
			return err
		},
	}
}

func newStatusCommand(opts *cliOptions) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Report the running instance's state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := opts.send(ipc.CmdStatus)
			if err != nil {
				return err
			}
			if resp.Status == nil {
				return fmt.Errorf("status: empty response")
			}
			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(resp.Status)
			}
			fmt.Fprintf(out, "pid:        %d\n", resp.Status.PID)
			fmt.Fprintf(out, "visibility: %s\n", resp.Status.Visibility)
			fmt.Fprintf(out, "shortcut:   %s\n", valueOrNone(resp.Status.Shortcut))
			fmt.Fprintf(out, "provider:   %s\n", valueOrNone(resp.Status.Provider))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the status as JSON")
	return cmd
}

func valueOrNone(v string) string {
	if v == "" {
		return "(none)"
	}
	return v
}
