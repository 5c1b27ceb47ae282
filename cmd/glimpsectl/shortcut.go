package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"glimpse/internal/config"
	"glimpse/internal/hotkeys"
	"glimpse/internal/ipc"
	"glimpse/internal/kvstore"
	"glimpse/internal/preferences"
)

func newShortcutCommand(opts *cliOptions) *cobra.Command {
	shortcutCmd := &cobra.Command{
		Use:   "shortcut",
		Short: "Show or change the global toggle shortcut",
	}
	shortcutCmd.AddCommand(
		newShortcutGetCommand(opts),
		newShortcutSetCommand(opts),
		newShortcutResetCommand(opts),
	)
	return shortcutCmd
}

func newShortcutGetCommand(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "get",
		Short: "Print the stored shortcut",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			cfg, store, err := opts.openStore()
			if err != nil {
				return err
			}
			defer closeStore(store, &err)

			printShortcut(cmd, openPreferences(cfg, store).Shortcut())
			return nil
		},
	}
}

func newShortcutSetCommand(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "set <binding>",
		Short:   "Store a new shortcut, e.g. Ctrl+Shift+Space",
		Example: "  glimpsectl shortcut set Ctrl+Alt+K\n  glimpsectl shortcut set Cmd+Shift+0x31",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			sc, err := hotkeys.ParseBinding(args[0])
			if err != nil {
				return err
			}
			cfg, store, err := opts.openStore()
			if err != nil {
				return err
			}
			defer closeStore(store, &err)

			if err := openPreferences(cfg, store).SetShortcut(sc); err != nil {
				return fmt.Errorf("save shortcut: %w", err)
			}
			printShortcut(cmd, sc)
			return opts.notify(ipc.CmdReloadShortcut)
		},
	}
}

func newShortcutResetCommand(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Restore the configured default shortcut",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			cfg, store, err := opts.openStore()
			if err != nil {
				return err
			}
			defer closeStore(store, &err)

			prefs := openPreferences(cfg, store)
			if err := prefs.ResetShortcut(); err != nil {
				return fmt.Errorf("reset shortcut: %w", err)
			}
			printShortcut(cmd, prefs.Shortcut())
			return opts.notify(ipc.CmdReloadShortcut)
		},
	}
}

// openPreferences uses the same defaults the app derives from cfg.
func openPreferences(cfg config.Config, store kvstore.Store) *preferences.Store {
	defaults := preferences.Defaults{ProviderID: cfg.SearchProvider}
	if sc, err := cfg.Hotkey(); err == nil {
		defaults.Shortcut = sc
	}
	return preferences.New(store, defaults)
}

func printShortcut(cmd *cobra.Command, sc hotkeys.Shortcut) {
	fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", sc.String(), sc.DisplayString())
}
