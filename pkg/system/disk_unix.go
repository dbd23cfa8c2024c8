//go:build linux || darwin || freebsd

package system

import "golang.org/x/sys/unix"

// availableSpace returns the bytes available to unprivileged users
func availableSpace(path string) (uint64, error) {
	var stat unix.Statfs_t
	if err := unix.Statfs(path, &stat); err != nil {
		return 0, err
	}
	return uint64(stat.Bavail) * uint64(stat.Bsize), nil
}
