package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/huanfeng/apkhub-split/internal/device"
	"github.com/huanfeng/apkhub-split/internal/errors"
	"github.com/huanfeng/apkhub-split/internal/i18n"
	"github.com/huanfeng/apkhub-split/pkg/client"
	"github.com/huanfeng/apkhub-split/pkg/split"
)

var (
	profileDevices []string
	profileAll     bool
	profileFormat  string
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show the ABI, density and locale of attached devices",
	Long: `Read the primary ABI, screen density bucket and locale of one or more
devices through adb. These are the values 'plan --device' matches splits
against.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		adbMgr := client.NewADBManager(resolveADB(appConfig.ADB, logger), client.WithLogger(logger))
		return runProfile(cmd.Context(), adbMgr, cmd.OutOrStdout(), profileDevices, profileAll, appConfig.ADB.Workers, profileFormat)
	},
}

func init() {
	rootCmd.AddCommand(profileCmd)
	profileCmd.Flags().StringSliceVarP(&profileDevices, "device", "d", nil, "Device serials to probe")
	profileCmd.Flags().BoolVarP(&profileAll, "all", "a", false, "Probe every online device")
	profileCmd.Flags().StringVarP(&profileFormat, "format", "f", "text", "Output format: text, json or yaml")
}

// deviceProfile is one probed device in profile output
type deviceProfile struct {
	Device  string               `json:"device" yaml:"device"`
	Profile *split.DeviceProfile `json:"profile,omitempty" yaml:"profile,omitempty"`
	Error   string               `json:"error,omitempty" yaml:"error,omitempty"`
}

func runProfile(ctx context.Context, adbMgr *client.ADBManager, out io.Writer, ids []string, all bool, workers int, format string) error {
	targets, err := profileTargets(ctx, adbMgr, ids, all)
	if err != nil {
		return err
	}

	mgr := device.NewManager[split.DeviceProfile](device.WithWorkerLimit[split.DeviceProfile](workers))
	results := mgr.Run(ctx, targets, adbMgr.Profile)

	profiles := make([]deviceProfile, len(results))
	failed := 0
	for i, res := range results {
		profiles[i].Device = res.DeviceID
		if res.Err != nil {
			profiles[i].Error = res.Err.Error()
			failed++
			continue
		}
		p := res.Value
		profiles[i].Profile = &p
	}

	if err := writeProfiles(out, profiles, format); err != nil {
		return err
	}

	if failed == len(results) {
		return errors.NewDeviceError(errors.CodeDeviceUnavailable, "no device profile could be read", results[0].Err)
	}
	return nil
}

func writeProfiles(w io.Writer, profiles []deviceProfile, format string) error {
	switch strings.ToLower(format) {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(profiles)
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(profiles); err != nil {
			return err
		}
		return enc.Close()
	case "text", "":
	default:
		return errors.NewValidationError(errors.CodeInvalidFormat, "unsupported output format").
			WithContext("format", format)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
		i18n.T("profile.header.device"),
		i18n.T("profile.header.abi"),
		i18n.T("profile.header.density"),
		i18n.T("profile.header.locale"),
	)
	for _, p := range profiles {
		if p.Profile == nil {
			fmt.Fprintf(tw, "%s\t%s\t\t\n", p.Device, i18n.T("profile.unavailable", map[string]interface{}{"error": p.Error}))
			continue
		}
		locale := p.Profile.Language
		if lr, ok := p.Profile.LangRegion(); ok {
			locale = lr
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", p.Device, p.Profile.PrimaryABI, p.Profile.DensityQualifier, locale)
	}
	return tw.Flush()
}
