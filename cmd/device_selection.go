package cmd

import (
	"context"
	"slices"
	"strings"

	"github.com/huanfeng/apkhub-split/internal/errors"
	"github.com/huanfeng/apkhub-split/pkg/client"
)

// profileTargets returns the serials to probe: every online device with all,
// else the --device serials in first-seen order, else the one SelectDevice picks.
func profileTargets(ctx context.Context, adbMgr *client.ADBManager, serials []string, all bool) ([]string, error) {
	if all {
		status, err := adbMgr.GetDeviceStatus(ctx)
		if err != nil {
			return nil, err
		}
		targets := make([]string, 0, len(status.Online))
		for _, d := range status.Online {
			targets = append(targets, d.ID)
		}
		if len(targets) == 0 {
			return nil, errors.NewDeviceError(errors.CodeDeviceUnavailable, "no online devices to profile", nil).
				WithSuggestion("Check device connection with 'adb devices'")
		}
		return targets, nil
	}

	var targets []string
	for _, serial := range serials {
		serial = strings.TrimSpace(serial)
		if serial != "" && !slices.Contains(targets, serial) {
			targets = append(targets, serial)
		}
	}
	if len(targets) > 0 {
		return targets, nil
	}

	serial, err := adbMgr.SelectDevice(ctx)
	if err != nil {
		return nil, err
	}
	return []string{serial}, nil
}
