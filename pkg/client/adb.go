package client

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/huanfeng/apkhub-split/internal/errors"
	"github.com/huanfeng/apkhub-split/pkg/models"
	"github.com/huanfeng/apkhub-split/pkg/split"
	"github.com/huanfeng/apkhub-split/pkg/utils"
)

// Runner executes a command and returns its standard output
type Runner func(ctx context.Context, name string, args ...string) ([]byte, error)

func execRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

// ADBManager handles ADB operations
type ADBManager struct {
	config models.ADBConfig
	run    Runner
	in     io.Reader
	out    io.Writer
	logger utils.Logger
}

// Option configures an ADBManager
type Option func(*ADBManager)

// WithRunner replaces the process runner, mainly for tests
func WithRunner(run Runner) Option {
	return func(a *ADBManager) { a.run = run }
}

// WithPrompt sets where device selection reads input and writes the menu
func WithPrompt(in io.Reader, out io.Writer) Option {
	return func(a *ADBManager) {
		a.in = in
		a.out = out
	}
}

// WithLogger sets the logger
func WithLogger(logger utils.Logger) Option {
	return func(a *ADBManager) { a.logger = logger }
}

// NewADBManager creates a new ADB manager
func NewADBManager(config models.ADBConfig, opts ...Option) *ADBManager {
	if config.Path == "" {
		config.Path = "adb"
	}

	a := &ADBManager{
		config: config,
		run:    execRunner,
		in:     os.Stdin,
		out:    os.Stdout,
		logger: utils.GetGlobalLogger(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Device represents an ADB device with detailed information
type Device struct {
	ID           string    `json:"id" yaml:"id"`
	Status       string    `json:"status" yaml:"status"`
	Model        string    `json:"model,omitempty" yaml:"model,omitempty"`
	Product      string    `json:"product,omitempty" yaml:"product,omitempty"`
	Device       string    `json:"device,omitempty" yaml:"device,omitempty"`
	Transport    string    `json:"transport,omitempty" yaml:"transport,omitempty"`
	AndroidAPI   int       `json:"android_api,omitempty" yaml:"android_api,omitempty"`
	AndroidVer   string    `json:"android_version,omitempty" yaml:"android_version,omitempty"`
	Manufacturer string    `json:"manufacturer,omitempty" yaml:"manufacturer,omitempty"`
	LastSeen     time.Time `json:"last_seen" yaml:"last_seen"`
	IsEmulator   bool      `json:"is_emulator" yaml:"is_emulator"`
}

// DeviceStatus represents device connection status
type DeviceStatus struct {
	Online       []Device `json:"online"`
	Offline      []Device `json:"offline"`
	Unauthorized []Device `json:"unauthorized"`
	Total        int      `json:"total"`
}

// GetDevices returns list of connected devices with detailed information
func (a *ADBManager) GetDevices(ctx context.Context) ([]Device, error) {
	output, err := a.run(ctx, a.config.Path, "devices", "-l")
	if err != nil {
		return nil, errors.NewDeviceError(errors.CodeDeviceUnavailable, "failed to run adb devices", err).
			WithContext("adb", a.config.Path).
			WithSuggestion("Check that adb is installed and on PATH, or set adb.path in the config")
	}

	var devices []Device
	lines := strings.Split(string(output), "\n")

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "List of devices") || strings.HasPrefix(line, "*") {
			continue
		}

		parts := strings.Fields(line)
		if len(parts) < 2 {
			continue
		}

		device := Device{
			ID:       parts[0],
			Status:   parts[1],
			LastSeen: time.Now(),
		}
		device.IsEmulator = strings.HasPrefix(device.ID, "emulator-")

		for _, part := range parts[2:] {
			key, value, ok := strings.Cut(part, ":")
			if !ok {
				continue
			}
			switch key {
			case "model":
				device.Model = value
			case "product":
				device.Product = value
			case "device":
				device.Device = value
			case "transport_id":
				device.Transport = value
			}
		}

		if device.Status == "device" {
			a.enrichDeviceInfo(ctx, &device)
		}

		devices = append(devices, device)
	}

	return devices, nil
}

// enrichDeviceInfo adds additional information to a device
func (a *ADBManager) enrichDeviceInfo(ctx context.Context, device *Device) {
	if apiLevel, err := a.getDeviceProperty(ctx, device.ID, "ro.build.version.sdk"); err == nil {
		if api, parseErr := strconv.Atoi(apiLevel); parseErr == nil {
			device.AndroidAPI = api
		}
	}

	if version, err := a.getDeviceProperty(ctx, device.ID, "ro.build.version.release"); err == nil {
		device.AndroidVer = version
	}

	if manufacturer, err := a.getDeviceProperty(ctx, device.ID, "ro.product.manufacturer"); err == nil {
		device.Manufacturer = manufacturer
	}

	if device.Model == "" {
		if model, err := a.getDeviceProperty(ctx, device.ID, "ro.product.model"); err == nil {
			device.Model = model
		}
	}
}

// getDeviceProperty gets a system property from a device
func (a *ADBManager) getDeviceProperty(ctx context.Context, deviceID, property string) (string, error) {
	output, err := a.run(ctx, a.config.Path, "-s", deviceID, "shell", "getprop", property)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(output)), nil
}

// firstProperty returns the first non-empty property of the list
func (a *ADBManager) firstProperty(ctx context.Context, deviceID string, properties ...string) (string, error) {
	var lastErr error
	for _, p := range properties {
		value, err := a.getDeviceProperty(ctx, deviceID, p)
		if err != nil {
			lastErr = err
			continue
		}
		if value != "" {
			return value, nil
		}
	}
	if lastErr != nil {
		return "", lastErr
	}
	return "", fmt.Errorf("properties not set: %s", strings.Join(properties, ", "))
}

var (
	overrideDensityPattern = regexp.MustCompile(`Override density:\s*(\d+)`)
	physicalDensityPattern = regexp.MustCompile(`Physical density:\s*(\d+)`)
)

// density reads the screen density, falling back to wm when no property is set
func (a *ADBManager) density(ctx context.Context, deviceID string) (int, error) {
	if value, err := a.firstProperty(ctx, deviceID, "ro.sf.lcd_density", "qemu.sf.lcd_density"); err == nil {
		if dpi, err := strconv.Atoi(value); err == nil && dpi > 0 {
			return dpi, nil
		}
	}

	output, err := a.run(ctx, a.config.Path, "-s", deviceID, "shell", "wm", "density")
	if err != nil {
		return 0, err
	}
	// An override set with wm density takes precedence
	match := overrideDensityPattern.FindSubmatch(output)
	if match == nil {
		match = physicalDensityPattern.FindSubmatch(output)
	}
	if match == nil {
		return 0, fmt.Errorf("unrecognized wm density output: %q", strings.TrimSpace(string(output)))
	}
	return strconv.Atoi(string(match[1]))
}

// locale reads the device locale. Older releases split it over two properties.
func (a *ADBManager) locale(ctx context.Context, deviceID string) (string, error) {
	if value, err := a.firstProperty(ctx, deviceID, "persist.sys.locale", "ro.product.locale"); err == nil {
		return value, nil
	}

	lang, err := a.firstProperty(ctx, deviceID, "persist.sys.language", "ro.product.locale.language")
	if err != nil {
		return "", err
	}
	if region, err := a.firstProperty(ctx, deviceID, "persist.sys.country", "ro.product.locale.region"); err == nil {
		return lang + "-" + region, nil
	}
	return lang, nil
}

// Profile reads the ABI, density and locale of a connected device
func (a *ADBManager) Profile(ctx context.Context, deviceID string) (split.DeviceProfile, error) {
	deviceErr := func(msg string, cause error) error {
		return errors.NewDeviceError(errors.CodeDeviceUnavailable, msg, cause).
			WithContext("device", deviceID).
			WithSuggestion("Check device connection with 'adb devices'")
	}

	abis, err := a.firstProperty(ctx, deviceID, "ro.product.cpu.abilist", "ro.product.cpu.abi")
	if err != nil {
		return split.DeviceProfile{}, deviceErr("failed to read device ABI", err)
	}
	abi, _, _ := strings.Cut(abis, ",")

	dpi, err := a.density(ctx, deviceID)
	if err != nil {
		return split.DeviceProfile{}, deviceErr("failed to read screen density", err)
	}

	locale, err := a.locale(ctx, deviceID)
	if err != nil {
		return split.DeviceProfile{}, deviceErr("failed to read device locale", err)
	}

	profile, err := split.NewDeviceProfile(abi, dpi, locale)
	if err != nil {
		return split.DeviceProfile{}, errors.NewDeviceError(errors.CodeInvalidProfile, "device reported an unusable profile", err).
			WithContext("device", deviceID)
	}

	a.logger.WithFields(map[string]interface{}{
		"device": deviceID,
		"dpi":    dpi,
		"locale": locale,
	}).Debug("Device profile: %s", profile)
	return profile, nil
}

// GetDeviceStatus returns categorized device status
func (a *ADBManager) GetDeviceStatus(ctx context.Context) (*DeviceStatus, error) {
	devices, err := a.GetDevices(ctx)
	if err != nil {
		return nil, err
	}

	status := &DeviceStatus{
		Online:       []Device{},
		Offline:      []Device{},
		Unauthorized: []Device{},
		Total:        len(devices),
	}

	for _, device := range devices {
		switch device.Status {
		case "device":
			status.Online = append(status.Online, device)
		case "offline":
			status.Offline = append(status.Offline, device)
		case "unauthorized":
			status.Unauthorized = append(status.Unauthorized, device)
		}
	}

	return status, nil
}

// SelectDevice picks the configured default device, the only online device,
// or asks the user to choose.
func (a *ADBManager) SelectDevice(ctx context.Context) (string, error) {
	if a.config.DefaultDevice != "" {
		a.logger.Debug("Using default device: %s", a.config.DefaultDevice)
		return a.config.DefaultDevice, nil
	}

	status, err := a.GetDeviceStatus(ctx)
	if err != nil {
		return "", err
	}

	if len(status.Unauthorized) > 0 {
		a.logger.Warn("%d device(s) unauthorized, enable USB debugging and authorize this computer", len(status.Unauthorized))
	}

	if len(status.Online) == 0 {
		return "", errors.NewDeviceError(errors.CodeDeviceUnavailable, "no online devices available", nil).
			WithSuggestion("Connect a device or pass --abi, --dpi and --locale")
	}

	if len(status.Online) == 1 {
		device := status.Online[0]
		a.logger.Info("Using device: %s", formatDeviceName(device))
		return device.ID, nil
	}

	fmt.Fprintln(a.out, "Multiple devices available:")
	for i, device := range status.Online {
		fmt.Fprintf(a.out, "%d. %s\n", i+1, formatDeviceDetails(device))
	}
	fmt.Fprint(a.out, "Select device [1]: ")

	reader := bufio.NewReader(a.in)
	input, err := reader.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("failed to read input: %w", err)
	}

	choice := 1
	if trimmed := strings.TrimSpace(input); trimmed != "" {
		if parsed, parseErr := strconv.Atoi(trimmed); parseErr == nil {
			choice = parsed
		}
	}

	if choice < 1 || choice > len(status.Online) {
		choice = 1
	}

	return status.Online[choice-1].ID, nil
}

// formatDeviceName returns a user-friendly device name
func formatDeviceName(device Device) string {
	if device.Model != "" {
		if device.IsEmulator {
			return fmt.Sprintf("%s (Emulator: %s)", device.Model, device.ID)
		}
		return fmt.Sprintf("%s (%s)", device.Model, device.ID)
	}

	if device.IsEmulator {
		return fmt.Sprintf("Emulator (%s)", device.ID)
	}

	return device.ID
}

// formatDeviceDetails returns detailed device information for selection
func formatDeviceDetails(device Device) string {
	details := formatDeviceName(device)

	if device.AndroidVer != "" {
		details += fmt.Sprintf(" - Android %s", device.AndroidVer)
		if device.AndroidAPI > 0 {
			details += fmt.Sprintf(" (API %d)", device.AndroidAPI)
		}
	}

	if device.Manufacturer != "" {
		details += fmt.Sprintf(" - %s", device.Manufacturer)
	}

	return details
}
