package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/huanfeng/apkhub-split/internal/i18n"
	"github.com/huanfeng/apkhub-split/pkg/split"
)

var canonCmd = &cobra.Command{
	Use:   "canon <name>...",
	Short: "Show how package file names are canonicalized and classified",
	Long: `Canonicalize a set of package file names the way a bundle is read:
the common prefix and suffix of all names are removed, then the remaining
qualifier is classified as an ABI, screen density or language.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return writeCanon(cmd.OutOrStdout(), args)
	},
}

func init() {
	rootCmd.AddCommand(canonCmd)
}

func writeCanon(w io.Writer, names []string) error {
	canonical := split.ComputeCanonicalNames(names)
	bases := split.ResolveBaseCanonical(names, canonical)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
		i18n.T("canon.header.name"),
		i18n.T("canon.header.canonical"),
		i18n.T("canon.header.qualifier"),
		i18n.T("canon.header.kind"),
		i18n.T("canon.header.base"),
	)

	for i, name := range names {
		qualifier, ok := split.ExtractQualifier(canonical[i])
		kind := split.KindNone
		if ok {
			kind = split.Classify(qualifier).Kind()
		} else {
			qualifier = "-"
		}

		base := ""
		if _, isBase := bases[name]; isBase {
			base = "*"
		}

		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", name, canonical[i], qualifier, kind, base)
	}

	return tw.Flush()
}
