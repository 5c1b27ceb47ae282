//go:build unix

package workspace

import (
	"os"
	"testing"
)

func TestProcessAlive(t *testing.T) {
	if !processAlive(os.Getpid()) {
		t.Fatal("processAlive(self) = false")
	}
	if processAlive(0) || processAlive(-1) {
		t.Fatal("processAlive reported a non-positive pid as running")
	}
}
