package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/huanfeng/apkhub-split/internal/errors"
	"github.com/huanfeng/apkhub-split/internal/i18n"
	"github.com/huanfeng/apkhub-split/pkg/source"
	"github.com/huanfeng/apkhub-split/pkg/system"
	"github.com/huanfeng/apkhub-split/pkg/utils"
)

var (
	extractOpts     planOptions
	extractAll      bool
	extractProgress bool
)

var extractCmd = &cobra.Command{
	Use:   "extract <source> <dir>",
	Short: "Copy the split APKs a device needs into a directory",
	Long: `Plan the packages for a device like 'plan' does, then copy the selected
files out of the archive or folder into <dir>. The files can be installed
with 'adb install-multiple'.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		markExplicit(cmd, &extractOpts)

		p, err := newPlanner(appConfig, logger)
		if err != nil {
			return err
		}

		var progress io.Writer
		if extractProgress {
			progress = cmd.ErrOrStderr()
		}
		return p.extract(cmd.Context(), args[0], args[1], extractOpts, extractAll, cmd.OutOrStdout(), progress)
	},
}

func init() {
	rootCmd.AddCommand(extractCmd)
	addPlanFlags(extractCmd, &extractOpts)
	extractCmd.Flags().BoolVar(&extractAll, "all", false, "Copy every package file, not only the selected ones")
	extractCmd.Flags().BoolVar(&extractProgress, "progress", false, "Show copy progress")
}

// extract copies the planned files of location into dir. progress may be nil.
func (p *planner) extract(ctx context.Context, location, dir string, opts planOptions, all bool, out, progress io.Writer) error {
	device, err := p.profile(ctx, opts)
	if err != nil {
		return err
	}

	res, err := p.plan(ctx, location, device, opts)
	if err != nil {
		return err
	}
	defer res.close()

	pkgs, total := res.selection.Entries(), res.selection.TotalSize()
	if all {
		pkgs, total = res.scan.Entries, res.report.Summary.TotalSize
	}
	entries := res.scan.SourceEntries(pkgs)

	if err := system.EnsureSpace(dir, total); err != nil {
		return err
	}

	var onProgress source.ProgressFunc
	var bar *utils.ProgressBar
	if progress != nil {
		bar = utils.NewProgressBar(progress, total, i18n.T("extract.progress"))
		onProgress = func(done, total int64) { bar.Update(done) }
	}

	written, err := source.Extract(ctx, res.source, entries, dir, onProgress)
	if bar != nil {
		bar.Finish()
	}
	if err != nil {
		return errors.NewFileSystemError(errors.CodeSourceUnreadable, "failed to copy packages", err).
			WithContext("source", location).
			WithContext("destination", dir)
	}

	for _, path := range written {
		fmt.Fprintln(out, path)
	}
	p.logger.Info("%s", i18n.T("extract.done", map[string]interface{}{"count": len(written), "dir": dir}))
	return nil
}
