package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/huanfeng/apkhub-split/internal/config"
	"github.com/huanfeng/apkhub-split/internal/i18n"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write a configuration file with the default settings",
	Long: `Write apksplit.yaml with every setting at its default value. Without a
path the file is created in the current directory.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := config.FileName + ".yaml"
		if len(args) == 1 {
			path = args[0]
		}

		if initForce {
			if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
				return err
			}
		}

		if err := config.SaveTemplate(path); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), i18n.T("init.created", map[string]interface{}{"path": path}))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing file")
}
