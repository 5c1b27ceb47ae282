// Package sessionlog keeps a per-run diagnostics journal of warnings and
// errors, fed from slog through TeeHandler.
package sessionlog

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime/debug"
	"strings"
)

// EntryCallback receives every record at or above the tee threshold.
type EntryCallback func(entry Entry)

// TeeHandler forwards every record to base and tees records at or above
// minLevel to a callback.
type TeeHandler struct {
	base     slog.Handler
	callback EntryCallback
	minLevel slog.Level
	group    string
}

// NewTeeHandler wraps base. A nil callback only delegates.
func NewTeeHandler(base slog.Handler, minLevel slog.Level, callback EntryCallback) *TeeHandler {
	return &TeeHandler{base: base, callback: callback, minLevel: minLevel}
}

// Enabled defers to the base handler.
func (h *TeeHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.base.Enabled(ctx, level)
}

// Handle writes to base, then tees. The callback runs even when base fails,
// and its panics are reported on stderr so they never recurse into slog.
func (h *TeeHandler) Handle(ctx context.Context, record slog.Record) error {
	err := h.base.Handle(ctx, record)
	if h.callback != nil && record.Level >= h.minLevel {
		entry := entryFromRecord(record, h.group)
		func() {
			defer func() {
				if r := recover(); r != nil {
					fmt.Fprintf(os.Stderr, "[session-log] callback panicked: %v\n%s\n", r, debug.Stack())
				}
			}()
			h.callback(entry)
		}()
	}
	return err
}

func (h *TeeHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	return &TeeHandler{base: h.base.WithAttrs(attrs), callback: h.callback, minLevel: h.minLevel, group: h.group}
}

func (h *TeeHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	group := name
	if h.group != "" {
		group = h.group + "." + name
	}
	return &TeeHandler{base: h.base.WithGroup(name), callback: h.callback, minLevel: h.minLevel, group: group}
}

// entryFromRecord keeps the message and the "error" attribute; the
// source is the slog group, or the bracketed prefix of the message.
func entryFromRecord(record slog.Record, group string) Entry {
	msg := record.Message
	record.Attrs(func(a slog.Attr) bool {
		if a.Key == "error" {
			msg += ": " + a.Value.String()
			return false
		}
		return true
	})
	source := group
	if source == "" {
		source = bracketPrefix(record.Message)
	}
	return Entry{
		Timestamp: record.Time.Format(timestampLayout),
		Level:     strings.ToLower(record.Level.String()),
		Message:   msg,
		Source:    source,
	}
}

func bracketPrefix(msg string) string {
	if !strings.HasPrefix(msg, "[") {
		return ""
	}
	end := strings.IndexByte(msg, ']')
	if end <= 1 {
		return ""
	}
	return msg[1:end]
}
