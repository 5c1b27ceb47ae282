//go:build unix

package procutil

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestOutput(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    string
		wantErr string
	}{
		{name: "trims stdout", args: []string{"-c", "printf '  hello \\n'"}, want: "hello"},
		{name: "stderr in error", args: []string{"-c", "echo boom >&2; exit 3"}, wantErr: "boom"},
		{name: "exit status without stderr", args: []string{"-c", "exit 1"}, wantErr: "sh failed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Output(context.Background(), 0, "sh", tt.args...)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("Output() error = %v, want substring %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Output() error = %v", err)
			}
			if got != tt.want {
				t.Fatalf("Output() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestOutputTimeout(t *testing.T) {
	_, err := Output(context.Background(), 50*time.Millisecond, "sleep", "5")
	if err == nil || !strings.Contains(err.Error(), "timed out") {
		t.Fatalf("Output() error = %v, want timeout", err)
	}
}

func TestCommandBindsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := Command(ctx, "sleep", "5").Run(); err == nil {
		t.Fatal("Run() with cancelled context expected error")
	}
}
