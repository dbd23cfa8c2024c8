//go:build !linux && !darwin && !freebsd && !windows

package system

import "errors"

func availableSpace(string) (uint64, error) {
	return 0, errors.New("free space is not reported on this platform")
}
