package cmd

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/strbench/internal/corpus"
	sberrors "github.com/Aman-CERP/strbench/internal/errors"
	"github.com/Aman-CERP/strbench/internal/output"
)

func newGenerateCmd(a *app) *cobra.Command {
	var (
		dir   string
		files int
		words int
		seed  int64
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write synthetic articles to benchmark on",
		Long: `Write article_1.txt ... article_N.txt of generated prose so 'strbench run'
has texts to work with. The same seed always produces the same files.`,
		Example: `  strbench generate
  strbench generate --files 5 --words 50000 --dir corpus`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !filepath.IsAbs(dir) {
				dir = filepath.Join(a.configDir, dir)
			}
			names, err := corpus.WriteArticles(dir, files, words, seed)
			if err != nil {
				return sberrors.ValidationError(err.Error(), err)
			}
			out := output.New(cmd.OutOrStdout())
			for _, name := range names {
				out.Status("", filepath.Join(dir, name))
			}
			out.Successf("Generated %d article(s) of about %d words", len(names), words)
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "data", "Output directory, relative to --config-dir")
	cmd.Flags().IntVar(&files, "files", 2, "Number of articles")
	cmd.Flags().IntVar(&words, "words", corpus.DefaultWords, "Approximate words per article")
	cmd.Flags().Int64Var(&seed, "seed", corpus.DefaultSeed, "Random seed")

	return cmd
}
