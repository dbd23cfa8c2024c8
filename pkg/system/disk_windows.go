//go:build windows

package system

import "golang.org/x/sys/windows"

// availableSpace returns the bytes available to the calling user
func availableSpace(path string) (uint64, error) {
	ptr, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return 0, err
	}

	var available, total, free uint64
	if err := windows.GetDiskFreeSpaceEx(ptr, &available, &total, &free); err != nil {
		return 0, err
	}
	return available, nil
}
