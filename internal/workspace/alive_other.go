//go:build !unix && !windows

package workspace

func processAlive(int) bool { return false }
