package cmd

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/huanfeng/apkhub-split/internal/errors"
	"github.com/huanfeng/apkhub-split/internal/i18n"
	"github.com/huanfeng/apkhub-split/pkg/apk"
	"github.com/huanfeng/apkhub-split/pkg/client"
	"github.com/huanfeng/apkhub-split/pkg/models"
	"github.com/huanfeng/apkhub-split/pkg/source"
	"github.com/huanfeng/apkhub-split/pkg/split"
	"github.com/huanfeng/apkhub-split/pkg/system"
	"github.com/huanfeng/apkhub-split/pkg/utils"
)

// planOptions are the flags shared by plan and extract
type planOptions struct {
	abi       string
	dpi       int
	locale    string
	device    string
	include   []string
	exclude   []string
	inspect   bool
	recursive bool

	// set when the matching flag was given explicitly
	abiSet, dpiSet, localeSet bool
}

var (
	planOpts   planOptions
	planFormat string
)

var planCmd = &cobra.Command{
	Use:   "plan <source>...",
	Short: "Show which split APKs a device needs",
	Long: `Read the package files of an archive (.apks, .xapk, .apkm, .zip) or a
folder, classify every split, and select the base package plus the ABI,
density and language splits that match the device profile.

The profile comes from --abi, --dpi and --locale, from a device attached
through adb (--device <serial>, or --device auto), or from the config file.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		markExplicit(cmd, &planOpts)

		p, err := newPlanner(appConfig, logger)
		if err != nil {
			return err
		}

		device, err := p.profile(cmd.Context(), planOpts)
		if err != nil {
			return err
		}

		for i, location := range args {
			res, err := p.plan(cmd.Context(), location, device, planOpts)
			if err != nil {
				return err
			}
			res.close()

			if i > 0 && planFormat == "text" {
				fmt.Fprintln(cmd.OutOrStdout())
			}
			if err := writeReport(cmd.OutOrStdout(), res.report, planFormat); err != nil {
				return err
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(planCmd)
	addPlanFlags(planCmd, &planOpts)
	planCmd.Flags().StringVarP(&planFormat, "format", "f", "text", "Output format: text, json or yaml")
}

func addPlanFlags(cmd *cobra.Command, opts *planOptions) {
	flags := cmd.Flags()
	flags.StringVar(&opts.abi, "abi", "", "Device ABI, e.g. arm64-v8a")
	flags.IntVar(&opts.dpi, "dpi", 0, "Screen density in dots per inch, e.g. 420")
	flags.StringVar(&opts.locale, "locale", "", "Device locale, e.g. en-US")
	flags.StringVarP(&opts.device, "device", "d", "", "Read the profile from an adb device serial, or 'auto'")
	flags.StringSliceVar(&opts.include, "include", nil, "Also select these package files")
	flags.StringSliceVar(&opts.exclude, "exclude", nil, "Deselect these package files")
	flags.BoolVar(&opts.inspect, "inspect", false, "Read app details from the base APK when the bundle has no manifest")
	flags.BoolVarP(&opts.recursive, "recursive", "r", false, "Descend into sub folders of folder sources")
}

func markExplicit(cmd *cobra.Command, opts *planOptions) {
	opts.abiSet = cmd.Flags().Changed("abi")
	opts.dpiSet = cmd.Flags().Changed("dpi")
	opts.localeSet = cmd.Flags().Changed("locale")
}

// planner turns sources into plans and holds what is shared between them
type planner struct {
	cfg     *models.Config
	catalog *source.Catalog
	adb     *client.ADBManager
	logger  utils.Logger
}

// resolveADB fills in the located adb binary. A failed lookup keeps the
// configured value so the error surfaces when adb is actually run.
func resolveADB(cfg models.ADBConfig, log utils.Logger) models.ADBConfig {
	path, err := system.LocateADB(cfg.Path)
	if err != nil {
		log.Debug("adb lookup failed: %v", err)
		return cfg
	}
	cfg.Path = path
	return cfg
}

func newPlanner(cfg *models.Config, log utils.Logger, adbOpts ...client.Option) (*planner, error) {
	if log == nil {
		log = utils.GetGlobalLogger()
	}

	catalog, err := source.NewCatalog(cfg.Cache.Size, log)
	if err != nil {
		return nil, err
	}

	adbOpts = append([]client.Option{client.WithLogger(log)}, adbOpts...)
	return &planner{
		cfg:     cfg,
		catalog: catalog,
		adb:     client.NewADBManager(resolveADB(cfg.ADB, log), adbOpts...),
		logger:  log,
	}, nil
}

// planResult keeps the open source so selected files can be copied out
type planResult struct {
	source    source.Source
	scan      *source.Scan
	selection *split.Selection
	report    *models.PlanReport
}

func (r *planResult) close() {
	if r.source != nil {
		r.source.Close()
	}
}

// profile resolves the device profile: device first, config defaults
// otherwise, with explicit flags overriding either
func (p *planner) profile(ctx context.Context, opts planOptions) (split.DeviceProfile, error) {
	var (
		profile split.DeviceProfile
		err     error
	)

	if opts.device != "" {
		id := opts.device
		if id == "auto" {
			if id, err = p.adb.SelectDevice(ctx); err != nil {
				return split.DeviceProfile{}, err
			}
		}
		if profile, err = p.adb.Profile(ctx, id); err != nil {
			return split.DeviceProfile{}, err
		}
	} else {
		d := p.cfg.Device
		if profile, err = split.NewDeviceProfile(d.ABI, d.DPI, d.Locale); err != nil {
			return split.DeviceProfile{}, errors.NewConfigurationError(errors.CodeInvalidProfile, "invalid device profile in config", err).
				WithSuggestion("Check device.locale in the config file")
		}
	}

	if opts.abiSet {
		profile.PrimaryABI = split.NormalizeABI(opts.abi)
	}
	if opts.dpiSet {
		if opts.dpi <= 0 {
			return split.DeviceProfile{}, errors.NewValidationError(errors.CodeInvalidProfile, "density must be positive").
				WithContext("dpi", fmt.Sprint(opts.dpi))
		}
		profile.DensityQualifier = split.DensityQualifier(opts.dpi)
	}
	if opts.localeSet {
		lang, region, err := split.ParseLocale(opts.locale)
		if err != nil {
			return split.DeviceProfile{}, errors.WrapError(err, errors.ErrorTypeValidation, errors.CodeInvalidProfile, "invalid locale").
				WithContext("locale", opts.locale)
		}
		profile.Language, profile.Region = lang, region
	}

	return profile, nil
}

// plan classifies location and selects the packages for the device
func (p *planner) plan(ctx context.Context, location string, device split.DeviceProfile, opts planOptions) (*planResult, error) {
	src, err := source.Open(location, source.Options{Recursive: opts.recursive || p.cfg.Scanning.Recursive})
	if err != nil {
		return nil, err
	}
	res := &planResult{source: src}

	if err := p.fill(ctx, res, device, opts); err != nil {
		res.close()
		return nil, err
	}
	return res, nil
}

func (p *planner) fill(ctx context.Context, res *planResult, device split.DeviceProfile, opts planOptions) error {
	log := p.logger.WithField("source", res.source.Location())

	scan, err := p.catalog.Scan(res.source)
	if err != nil {
		return err
	}
	res.scan = scan

	var warnings []string
	bases := split.BaseEntries(scan.Entries)
	switch {
	case len(bases) == 0:
		return errors.NewNotFoundError(errors.CodeNoBase, "no base package found").
			WithContext("source", res.source.Location()).
			WithSuggestion("The bundle needs a base.apk, or file names sharing a common prefix and suffix")
	case len(bases) > 1:
		names := make([]string, len(bases))
		for i, b := range bases {
			names[i] = b.Name
		}
		msg := i18n.T("plan.warning.multipleBase", map[string]interface{}{"names": strings.Join(names, ", ")})
		log.Warn("%s", msg)
		warnings = append(warnings, msg)
	}

	res.selection = split.NewSelection(scan.Entries, split.SelectForDevice(scan.Entries, device))
	if err := applyOverrides(res.selection, opts); err != nil {
		return err
	}
	log.Info("Selected %d of %d packages for %s", len(res.selection.Entries()), len(scan.Entries), device)

	res.report = models.NewPlanReport(res.source.Location(), res.source.Kind().String(), device, scan.Entries, res.selection)
	res.report.Warnings = warnings
	res.report.App = p.appInfo(res.source, scan, bases[0], opts.inspect || p.cfg.Scanning.Inspect)

	return ctx.Err()
}

func applyOverrides(sel *split.Selection, opts planOptions) error {
	for _, name := range opts.include {
		if err := sel.Add(name); err != nil {
			return selectionError(err, name)
		}
	}
	for _, name := range opts.exclude {
		if err := sel.Remove(name); err != nil {
			return selectionError(err, name)
		}
	}
	return nil
}

func selectionError(err error, name string) error {
	if stderrors.Is(err, split.ErrBaseRequired) {
		return errors.WrapError(err, errors.ErrorTypeValidation, errors.CodeBaseNotSelected, "the base package cannot be excluded").
			WithContext("package", name)
	}
	return errors.WrapError(err, errors.ErrorTypeNotFound, errors.CodeUnknownPackage, "package not found in source").
		WithContext("package", name).
		WithSuggestion("Run 'apksplit plan' without --include and --exclude to list the package names")
}

// appInfo prefers the bundle manifest and only opens the base APK when asked
func (p *planner) appInfo(src source.Source, scan *source.Scan, base split.PackageEntry, inspect bool) *apk.BaseInfo {
	manifest, err := source.ReadManifest(src)
	if err != nil {
		p.logger.Warn("Ignoring bundle manifest: %v", err)
	}
	if manifest != nil {
		return manifest.BaseInfo()
	}

	if !inspect {
		return nil
	}
	entry, ok := scan.Lookup(base.Name)
	if !ok {
		return nil
	}
	info, err := source.InspectBase(src, entry)
	if err != nil {
		p.logger.Warn("Could not inspect %s: %v", base.Name, err)
		return nil
	}
	return info
}

func writeReport(w io.Writer, report *models.PlanReport, format string) error {
	switch strings.ToLower(format) {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(report); err != nil {
			return err
		}
		return enc.Close()
	case "text", "":
		return writeReportText(w, report)
	default:
		return errors.NewValidationError(errors.CodeInvalidFormat, "unsupported output format").
			WithContext("format", format).
			WithSuggestion("Use text, json or yaml")
	}
}

func writeReportText(w io.Writer, report *models.PlanReport) error {
	fmt.Fprintf(w, "📦 %s: %s (%s)\n", i18n.T("plan.label.source"), report.Source, report.SourceKind)
	fmt.Fprintf(w, "📱 %s: %s\n", i18n.T("plan.label.device"), report.Device)
	if app := report.App; app != nil {
		name := app.PackageID
		if app.AppName != "" {
			name = fmt.Sprintf("%s (%s)", app.AppName, app.PackageID)
		}
		fmt.Fprintf(w, "🏷️  %s: %s %s (%d)\n", i18n.T("plan.label.app"), name, app.Version, app.VersionCode)
	}
	fmt.Fprintln(w)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
		i18n.T("plan.header.name"),
		i18n.T("plan.header.size"),
		i18n.T("plan.header.kind"),
		i18n.T("plan.header.qualifier"),
		i18n.T("plan.header.selected"),
	)
	for _, pkg := range report.Packages {
		kind := pkg.Kind
		if pkg.Base {
			kind = "base"
		}
		qualifier := pkg.Qualifier
		if qualifier == "" {
			qualifier = "-"
		}
		mark := ""
		if pkg.Selected {
			mark = "✓"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", pkg.Name, utils.FormatSize(pkg.Size), kind, qualifier, mark)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	s := report.Summary
	fmt.Fprintf(w, "\n%s, %s\n",
		i18n.T("plan.summary.count", map[string]interface{}{"selected": s.Selected, "count": s.Total}),
		i18n.T("plan.summary.size", map[string]interface{}{
			"selected": utils.FormatSize(s.SelectedSize),
			"total":    utils.FormatSize(s.TotalSize),
		}),
	)

	for _, warning := range report.Warnings {
		fmt.Fprintf(w, "⚠️  %s\n", warning)
	}
	return nil
}
