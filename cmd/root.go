package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/huanfeng/apkhub-split/internal/config"
	"github.com/huanfeng/apkhub-split/internal/errors"
	"github.com/huanfeng/apkhub-split/internal/i18n"
	"github.com/huanfeng/apkhub-split/internal/version"
	"github.com/huanfeng/apkhub-split/pkg/models"
	"github.com/huanfeng/apkhub-split/pkg/utils"
)

var (
	cfgFile  string
	verbose  bool
	debug    bool
	logFile  string
	noColor  bool
	langFlag string

	appConfig *models.Config
	logger    utils.Logger
	closeLog  func() error
)

var rootCmd = &cobra.Command{
	Use:           "apksplit",
	Short:         "Pick the split APKs an Android device needs",
	Version:       version.Short(),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		appConfig = cfg

		return setupLogger(cmd.ErrOrStderr(), cfg.Log)
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if closeLog != nil {
			return closeLog()
		}
		return nil
	},
}

// Execute runs the root command and exits non-zero on failure
func Execute() {
	if err := i18n.Init(langFromArgs(os.Args[1:])); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
	applyCommandLocalization()

	if err := rootCmd.Execute(); err != nil {
		printError(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&cfgFile, "config", "c", "", "Config file (default ./apksplit.yaml or ~/.config/apksplit/apksplit.yaml)")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Enable informational logging")
	flags.BoolVar(&debug, "debug", false, "Enable debug logging")
	flags.StringVar(&logFile, "log-file", "", "Also write JSON logs to this file")
	flags.BoolVar(&noColor, "no-color", false, "Disable colored log output")
	flags.StringVar(&langFlag, "lang", "", "Interface language (en, zh)")
}

// langFromArgs finds --lang before cobra parses flags, so help text is
// localized too
func langFromArgs(args []string) string {
	for i, arg := range args {
		if arg == "--" {
			break
		}
		if v, ok := strings.CutPrefix(arg, "--lang="); ok {
			return v
		}
		if arg == "--lang" && i+1 < len(args) {
			return args[i+1]
		}
	}
	return ""
}

func setupLogger(stderr io.Writer, settings models.LogConfig) error {
	logCfg := utils.DefaultLoggerConfig()
	logCfg.Output = stderr
	logCfg.Level = utils.ParseLogLevel(settings.Level)
	logCfg.Format = utils.ParseLogFormat(settings.Format)
	logCfg.EnableColor = !noColor
	logCfg.MaxSizeMB = settings.MaxSizeMB
	logCfg.MaxFiles = settings.MaxFiles
	logCfg.MaxAgeDays = settings.MaxAgeDays

	if verbose && logCfg.Level > utils.LogLevelInfo {
		logCfg.Level = utils.LogLevelInfo
	}
	if debug {
		logCfg.Level = utils.LogLevelDebug
	}

	path := settings.File
	if logFile != "" {
		path = logFile
	}
	if path != "" {
		logCfg.EnableFile = true
		logCfg.FilePath = path
	}

	l, err := utils.InitGlobalLogger(logCfg)
	if err != nil {
		return errors.NewConfigurationError(errors.CodeConfigUnreadable, "failed to initialize logger", err).
			WithContext("log_file", path)
	}
	logger = l
	closeLog = l.Close
	return nil
}

// printError shows typed errors with their context and suggestions
func printError(w io.Writer, err error) {
	var splitErr *errors.SplitError
	if errors.As(err, &splitErr) {
		fmt.Fprintf(w, "%s %s", i18n.T("common.error"), splitErr.FormatDetailed())
		return
	}
	fmt.Fprintf(w, "%s %v\n", i18n.T("common.error"), err)
}
