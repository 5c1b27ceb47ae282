//go:build windows

package ipc

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/user"
	"regexp"
	"strings"
	"time"

	"glimpse/internal/userutil"

	"github.com/Microsoft/go-winio"
)

const (
	endpointEnv         = "GLIMPSE_IPC_PIPE"
	defaultPipePrefix   = `\\.\pipe\glimpse-`
	pipeBufferSizeBytes = 16 * 1024
)

var (
	pipeNamePattern = regexp.MustCompile(`(?i)^\\\\\.\\pipe\\glimpse-[a-z0-9._-]{1,128}$`)
	validSIDPattern = regexp.MustCompile(`^S-1(-\d+)+$`)
)

// ErrEndpointInUse is returned by Start when another process already
// serves the pipe.
var ErrEndpointInUse = errors.New("ipc endpoint already in use")

// DefaultEndpoint returns the per-user pipe name. GLIMPSE_IPC_PIPE
// overrides it when it matches the glimpse pipe pattern.
func DefaultEndpoint() string {
	if v := strings.TrimSpace(os.Getenv(endpointEnv)); v != "" {
		if pipeNamePattern.MatchString(v) {
			return v
		}
		slog.Warn("[ipc] "+endpointEnv+" rejected: value does not match allowed pattern", "value", v)
	}
	return defaultPipePrefix + userutil.CurrentName()
}

// listenEndpoint creates a pipe whose DACL admits only SYSTEM and the
// current user.
func listenEndpoint(pipeName string) (net.Listener, error) {
	sd, err := pipeSecurityDescriptor()
	if err != nil {
		return nil, err
	}
	l, err := winio.ListenPipe(pipeName, &winio.PipeConfig{
		SecurityDescriptor: sd,
		InputBufferSize:    pipeBufferSizeBytes,
		OutputBufferSize:   pipeBufferSizeBytes,
	})
	if errors.Is(err, os.ErrExist) {
		return nil, ErrEndpointInUse
	}
	return l, err
}

func dialEndpoint(pipeName string, timeout time.Duration) (net.Conn, error) {
	return winio.DialPipe(pipeName, &timeout)
}

func isPlatformConnectionError(err error) bool {
	return errors.Is(err, os.ErrNotExist) || errors.Is(err, winio.ErrTimeout)
}

func pipeSecurityDescriptor() (string, error) {
	current, err := user.Current()
	if err != nil {
		return "", fmt.Errorf("resolve current user: %w", err)
	}
	sid := strings.TrimSpace(current.Uid)
	if !validSIDPattern.MatchString(sid) {
		return "", fmt.Errorf("current user SID has unexpected format: %q", sid)
	}
	// D:P protected DACL, full access for SYSTEM and the current user.
	return fmt.Sprintf("D:P(A;;GA;;;SY)(A;;GA;;;%s)", sid), nil
}
