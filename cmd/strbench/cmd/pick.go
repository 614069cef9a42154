package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/strbench/internal/sample"
	"github.com/Aman-CERP/strbench/internal/textsource"
)

func newPickCmd() *cobra.Command {
	var minLen, maxLen int

	cmd := &cobra.Command{
		Use:   "pick <file>",
		Short: "Print the pattern run would search a file for",
		Long: `Print the existing pattern picked from a file: the first of its
leading words with at least --min characters, cut to --max characters.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			loader, err := textsource.NewLoader("", textsource.WithCacheSize(1))
			if err != nil {
				return err
			}
			doc, err := loader.Load(args[0])
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), sample.PickExisting(doc.Content, minLen, maxLen))
			return err
		},
	}

	cmd.Flags().IntVar(&minLen, "min", sample.DefaultMinLen, "Minimum word length in characters")
	cmd.Flags().IntVar(&maxLen, "max", sample.DefaultMaxLen, "Maximum pattern length in characters")

	return cmd
}
