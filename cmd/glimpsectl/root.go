package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"glimpse/internal/config"
	"glimpse/internal/ipc"
	"glimpse/internal/kvstore"
)

var errNotRunning = errors.New("glimpse is not running")

var (
	sendFn          = ipc.Send
	defaultConfigFn = config.DefaultPath
	openStoreFn     = func(path string) (kvstore.Store, error) { return kvstore.OpenSQLite(path) }
)

type cliOptions struct {
	configPath string
	endpoint   string
}

func newRootCmd() *cobra.Command {
	opts := &cliOptions{}
	root := &cobra.Command{
		Use:           "glimpsectl",
		Short:         "Control the Glimpse search overlay",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if opts.configPath == "" {
				opts.configPath = defaultConfigFn()
			}
		},
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "Path to config.yaml (default: per-user config dir)")
	root.PersistentFlags().StringVar(&opts.endpoint, "endpoint", "", "IPC socket or pipe of the running instance")

	root.AddCommand(
		newControlCommand(opts, ipc.CmdShow, "Show the overlay"),
		newControlCommand(opts, ipc.CmdHide, "Hide the overlay"),
		newControlCommand(opts, ipc.CmdToggle, "Show or hide the overlay"),
		newStatusCommand(opts),
		newHistoryCommand(opts),
		newShortcutCommand(opts),
	)
	return root
}

// send delivers one command. A missing instance is reported as
// errNotRunning; a refused command carries the instance's message.
func (o *cliOptions) send(command string) (ipc.Response, error) {
	resp, err := sendFn(o.endpoint, ipc.Request{Command: command})
	if err != nil {
		if ipc.IsConnectionError(err) {
			return resp, fmt.Errorf("%w: %v", errNotRunning, err)
		}
		return resp, fmt.Errorf("%s: %w", command, err)
	}
	if !resp.OK {
		return resp, fmt.Errorf("%s: %s", command, resp.Error)
	}
	return resp, nil
}

// openStore opens the database the app uses for the configured profile.
func (o *cliOptions) openStore() (config.Config, kvstore.Store, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return cfg, nil, err
	}
	store, err := openStoreFn(cfg.DatabaseFile(o.configPath))
	if err != nil {
		return cfg, nil, err
	}
	return cfg, store, nil
}

func closeStore(store kvstore.Store, err *error) {
	if closeErr := store.Close(); closeErr != nil && *err == nil {
		*err = closeErr
	}
}
