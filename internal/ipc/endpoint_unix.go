//go:build !windows

package ipc

import (
	"errors"
	"io/fs"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"glimpse/internal/userutil"
)

const endpointEnv = "GLIMPSE_IPC_SOCKET"

// ErrEndpointInUse is returned by Start when another process already
// serves the socket.
var ErrEndpointInUse = errors.New("ipc endpoint already in use")

// DefaultEndpoint returns the per-user socket path. GLIMPSE_IPC_SOCKET
// overrides it when it is an absolute path ending in .sock.
func DefaultEndpoint() string {
	if v := strings.TrimSpace(os.Getenv(endpointEnv)); v != "" {
		if filepath.IsAbs(v) && strings.HasSuffix(v, ".sock") {
			return v
		}
		slog.Warn("[ipc] "+endpointEnv+" rejected: want an absolute .sock path", "value", v)
	}
	dir := strings.TrimSpace(os.Getenv("XDG_RUNTIME_DIR"))
	if dir == "" {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "glimpse-"+userutil.CurrentName()+".sock")
}

// listenEndpoint removes a stale socket left by a crashed instance, then
// listens with owner-only permissions.
func listenEndpoint(path string) (net.Listener, error) {
	if conn, err := net.DialTimeout("unix", path, 200*time.Millisecond); err == nil {
		conn.Close()
		return nil, ErrEndpointInUse
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, err
	}
	listener, err := net.Listen("unix", path)
	if err != nil {
		return nil, err
	}
	if err := os.Chmod(path, 0o600); err != nil {
		listener.Close()
		return nil, err
	}
	return listener, nil
}

func dialEndpoint(path string, timeout time.Duration) (net.Conn, error) {
	return net.DialTimeout("unix", path, timeout)
}

func isPlatformConnectionError(err error) bool {
	return errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, fs.ErrNotExist)
}
