// Command glimpsectl controls a running Glimpse instance and edits its
// stored history and shortcut.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
)

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "glimpsectl:", err)
		os.Exit(1)
	}
}
