package cmd

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	sberrors "github.com/Aman-CERP/strbench/internal/errors"
	"github.com/Aman-CERP/strbench/internal/textsource"
	"github.com/Aman-CERP/strbench/pkg/matcher"
)

func newSearchCmd(a *app) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "search <pattern> <file>",
		Short: "Find a pattern in a file with every matcher",
		Long: `Run each matcher once on a file and print the byte offset of the
first occurrence, or -1 when the pattern does not occur.

Without --matcher the results are cross-checked and a disagreement is an
error.

Examples:
  strbench search monuments data/article_1.txt
  strbench search "in the" notes.txt --matcher kmp`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd, a, args[0], args[1], name)
		},
	}

	cmd.Flags().StringVarP(&name, "matcher", "m", "", "Use only this matcher")

	return cmd
}

func runSearch(cmd *cobra.Command, a *app, pattern, file, name string) error {
	matchers := matcher.Default()
	if name != "" {
		m, err := matcher.Lookup(name)
		if err != nil {
			return sberrors.New(sberrors.ErrCodeUnknownMatcher, err.Error(), err)
		}
		matchers = []matcher.Matcher{m}
	}

	loader, err := textsource.NewLoader("", textsource.WithCacheSize(1))
	if err != nil {
		return sberrors.InternalError("failed to create text loader", err)
	}
	doc, err := loader.Load(file)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	indexes := make(map[int][]string)
	for _, m := range matchers {
		idx := m.Index(doc.Content, pattern)
		indexes[idx] = append(indexes[idx], m.Name())
		if idx == matcher.NotFound {
			_, _ = fmt.Fprintf(out, "%-12s %d (not found)\n", m.Name(), idx)
		} else {
			_, _ = fmt.Fprintf(out, "%-12s %d\n", m.Name(), idx)
		}
	}

	a.log().Debug("search_complete",
		slog.String("pattern", pattern),
		slog.String("path", doc.Path),
		slog.Int("distinct_results", len(indexes)))

	if len(indexes) > 1 {
		var groups []string
		for idx, names := range indexes {
			groups = append(groups, fmt.Sprintf("%s=%d", strings.Join(names, "/"), idx))
		}
		sort.Strings(groups)
		return sberrors.New(sberrors.ErrCodeMatcherDisagreement, "matchers disagree", nil).
			WithDetail("pattern", pattern).
			WithDetail("results", strings.Join(groups, ", "))
	}
	if len(matchers) > 1 {
		_, _ = fmt.Fprintln(out, "All matchers agree.")
	}
	return nil
}
