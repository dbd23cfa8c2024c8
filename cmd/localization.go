package cmd

import (
	"github.com/spf13/cobra"

	"github.com/huanfeng/apkhub-split/internal/i18n"
)

// applyCommandLocalization updates command and flag descriptions after i18n is initialized.
func applyCommandLocalization() {
	rootCmd.Short = i18n.T("cmd.root.short")
	rootCmd.Long = i18n.T("cmd.root.long")

	localizeFlags(rootCmd, true, map[string]string{
		"config":   "flags.config",
		"verbose":  "flags.verbose",
		"debug":    "flags.debug",
		"log-file": "flags.logFile",
		"no-color": "flags.noColor",
		"lang":     "flags.lang",
	})

	for name, c := range map[string]*cobra.Command{
		"canon":   canonCmd,
		"plan":    planCmd,
		"extract": extractCmd,
		"profile": profileCmd,
		"init":    initCmd,
		"version": versionCmd,
	} {
		c.Short = i18n.T("cmd." + name + ".short")
		c.Long = i18n.T("cmd." + name + ".long")
	}

	planFlags := map[string]string{
		"abi":       "flags.abi",
		"dpi":       "flags.dpi",
		"locale":    "flags.locale",
		"device":    "flags.device",
		"include":   "flags.include",
		"exclude":   "flags.exclude",
		"inspect":   "flags.inspect",
		"recursive": "flags.recursive",
		"format":    "flags.format",
	}
	localizeFlags(planCmd, false, planFlags)
	localizeFlags(extractCmd, false, planFlags)
	localizeFlags(extractCmd, false, map[string]string{
		"all":      "flags.extractAll",
		"progress": "flags.progress",
	})
	localizeFlags(profileCmd, false, map[string]string{
		"device": "flags.profileDevice",
		"all":    "flags.profileAll",
		"format": "flags.format",
	})
	localizeFlags(initCmd, false, map[string]string{
		"force": "flags.force",
	})
}

func localizeFlags(c *cobra.Command, persistent bool, ids map[string]string) {
	flags := c.Flags()
	if persistent {
		flags = c.PersistentFlags()
	}
	for name, id := range ids {
		if flag := flags.Lookup(name); flag != nil {
			flag.Usage = i18n.T(id)
		}
	}
}
