package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/Aman-CERP/strbench/internal/bench"
	"github.com/Aman-CERP/strbench/internal/config"
	sberrors "github.com/Aman-CERP/strbench/internal/errors"
	"github.com/Aman-CERP/strbench/internal/output"
	"github.com/Aman-CERP/strbench/internal/profiling"
	"github.com/Aman-CERP/strbench/internal/report"
	"github.com/Aman-CERP/strbench/internal/sample"
	"github.com/Aman-CERP/strbench/internal/textsource"
	"github.com/Aman-CERP/strbench/internal/watcher"
)

// runOptions holds CLI flags for run. Flags override config only when set.
type runOptions struct {
	dir         string
	repetitions int
	missing     string
	matchers    []string
	format      string
	parallel    int
	noColor     bool
	watch       bool
}

func newRunCmd(a *app) *cobra.Command {
	var opts runOptions

	cmd := &cobra.Command{
		Use:   "run [files...]",
		Short: "Benchmark every matcher on a set of texts",
		Long: `Benchmark every configured matcher on each text and rank them.

Files are resolved against --dir (default: texts.dir from config). When no
files are given, texts.files from config are used.

Examples:
  strbench run
  strbench run article_1.txt notes.txt --dir ./corpus
  strbench run -r 20 --matchers kmp,rabin-karp
  strbench run --format markdown > results.md
  strbench run --watch`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			if err := opts.apply(cmd, cfg); err != nil {
				return err
			}
			if len(args) > 0 {
				cfg.Texts.Files = args
			}
			return runBench(cmd.Context(), cmd, a, cfg, opts)
		},
	}

	cmd.Flags().StringVar(&opts.dir, "dir", "", "Directory texts are read from")
	cmd.Flags().IntVarP(&opts.repetitions, "repetitions", "r", 0, "Timed runs per measurement (best is kept)")
	cmd.Flags().StringVar(&opts.missing, "missing", "", "Pattern expected to be absent from every text")
	cmd.Flags().StringSliceVar(&opts.matchers, "matchers", nil, "Matchers to compare (boyer-moore, kmp, rabin-karp)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "Output format: table, markdown, json")
	cmd.Flags().IntVar(&opts.parallel, "parallel", 0, "Texts benchmarked at once")
	cmd.Flags().BoolVar(&opts.noColor, "no-color", false, "Disable colored output")
	cmd.Flags().BoolVar(&opts.watch, "watch", false, "Re-run whenever a text changes")

	return cmd
}

// apply copies explicitly set flags into cfg and revalidates it.
func (o runOptions) apply(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	if flags.Changed("dir") {
		cfg.Texts.Dir = o.dir
	}
	if flags.Changed("repetitions") {
		cfg.Bench.Repetitions = o.repetitions
	}
	if flags.Changed("missing") {
		cfg.Bench.MissingPattern = o.missing
	}
	if flags.Changed("matchers") {
		cfg.Bench.Matchers = o.matchers
	}
	if flags.Changed("format") {
		cfg.Output.Format = o.format
	}
	if flags.Changed("parallel") {
		cfg.Bench.Parallelism = o.parallel
	}
	if o.noColor {
		cfg.Output.Color = string(report.ColorNever)
	}
	return cfg.Validate()
}

// loadConfig loads configuration for the --config-dir directory. A relative
// texts.dir is resolved against that directory.
func (a *app) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(a.configDir)
	if err != nil {
		return nil, err
	}
	if cfg.Texts.Dir != "" && !filepath.IsAbs(cfg.Texts.Dir) {
		cfg.Texts.Dir = filepath.Join(a.configDir, cfg.Texts.Dir)
	}
	return cfg, nil
}

func runBench(ctx context.Context, cmd *cobra.Command, a *app, cfg *config.Config, opts runOptions) error {
	if len(cfg.Texts.Files) == 0 {
		return sberrors.ValidationError("no texts to benchmark", nil).
			WithSuggestion("Pass file names or set texts.files in " + config.ProjectFileName)
	}

	loader, err := textsource.NewLoader(cfg.Texts.Dir)
	if err != nil {
		return sberrors.InternalError("failed to create text loader", err)
	}

	if opts.watch {
		return watchBench(ctx, cmd, a, cfg, loader)
	}
	return benchOnce(ctx, cmd, a, cfg, loader)
}

// benchOnce loads the configured texts, compares the matchers and renders
// the report to stdout.
func benchOnce(ctx context.Context, cmd *cobra.Command, a *app, cfg *config.Config, loader *textsource.Loader) error {
	logger := a.log()

	matchers, err := cfg.Matchers()
	if err != nil {
		return sberrors.New(sberrors.ErrCodeUnknownMatcher, err.Error(), err)
	}

	docs, err := loader.LoadAll(ctx, cfg.Texts.Files)
	if err != nil {
		return err
	}

	texts := make([]bench.Text, len(docs))
	for i, d := range docs {
		texts[i] = bench.Text{Label: d.Label, Content: d.Content, Digest: d.Digest}
	}

	minLen, maxLen := cfg.Bench.MinPatternLen, cfg.Bench.MaxPatternLen
	harnessOpts := []bench.Option{
		bench.WithRepetitions(cfg.Bench.Repetitions),
		bench.WithMissingPattern(cfg.Bench.MissingPattern),
		bench.WithParallelism(cfg.Bench.Parallelism),
		bench.WithLogger(logger),
		bench.WithPicker(func(text string) string {
			return sample.PickExisting(text, minLen, maxLen)
		}),
	}
	if progress := progressFor(cmd.ErrOrStderr()); progress != nil {
		harnessOpts = append(harnessOpts, bench.WithProgress(progress))
	}

	rep, err := bench.New(harnessOpts...).RunComparison(ctx, texts, matchers)
	if err != nil {
		return benchError(err)
	}

	if logger.Enabled(ctx, slog.LevelDebug) {
		mem := profiling.MemStats()
		logger.Debug("comparison_memory",
			slog.String("heap_alloc", profiling.FormatBytes(mem.HeapAlloc)),
			slog.String("total_alloc", profiling.FormatBytes(mem.TotalAlloc)),
			slog.Int("cached_texts", loader.Cached()))
	}

	format, _ := report.ParseFormat(cfg.Output.Format)
	mode, _ := report.ParseColorMode(cfg.Output.Color)
	out := cmd.OutOrStdout()

	return report.Render(out, rep, report.Options{
		Format: format,
		Color:  report.ShouldColor(out, mode),
	})
}

// progressFor returns a progress bar on w when it is a terminal.
func progressFor(w io.Writer) bench.ProgressFunc {
	if !report.IsTTY(w) {
		return nil
	}
	bar := output.New(w)
	return func(done, total int, label string) {
		bar.Progress(done, total, label)
	}
}

// benchError maps harness failures to coded errors. Cancellation passes
// through unchanged.
func benchError(err error) error {
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	case errors.Is(err, bench.ErrMatcherDisagreement):
		return sberrors.New(sberrors.ErrCodeMatcherDisagreement, err.Error(), err).
			WithSuggestion("One matcher returned a wrong index; run 'strbench search' on the pattern to see which")
	}
	return sberrors.New(sberrors.ErrCodeBenchFailed, "benchmark failed", err)
}

// watchBench runs the comparison, then re-runs it every time a tracked text
// changes until ctx is cancelled.
func watchBench(ctx context.Context, cmd *cobra.Command, a *app, cfg *config.Config, loader *textsource.Loader) error {
	logger := a.log()
	status := output.New(cmd.ErrOrStderr())

	tracked := make(map[string]string, len(cfg.Texts.Files))
	var dirs []string
	for _, res := range cfg.Texts.Files {
		path, err := filepath.Abs(loader.Resolve(res))
		if err != nil {
			return sberrors.InternalError("failed to resolve text path", err)
		}
		tracked[path] = res
		dirs = append(dirs, filepath.Dir(path))
	}

	w, err := watcher.New(dirs, watcher.Options{
		Filter: func(path string) bool {
			_, ok := tracked[path]
			return ok
		},
		Logger: logger,
	})
	if err != nil {
		return sberrors.InternalError("failed to create watcher", err)
	}

	if err := benchOnce(ctx, cmd, a, cfg, loader); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		status.Error(strings.TrimSpace(sberrors.FormatForCLI(err)))
	}
	status.Statusf("👀", "Watching %d text(s) using %s. Press Ctrl+C to stop.", len(tracked), w.Mode())

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return w.Run(gctx)
	})
	g.Go(func() error {
		errs := w.Errors()
		for batch := range w.Events() {
			changed := invalidate(loader, tracked, batch)
			for _, ev := range batch {
				logger.Debug("text_changed",
					slog.String("path", ev.Path),
					slog.String("op", ev.Operation.String()))
			}
			status.Statusf("🔄", "Changed: %s", strings.Join(changed, ", "))

			if err := benchOnce(gctx, cmd, a, cfg, loader); err != nil {
				if gctx.Err() != nil {
					break
				}
				status.Error(strings.TrimSpace(sberrors.FormatForCLI(err)))
			}

			drainErrors(errs, logger)
		}
		drainErrors(errs, logger)
		return nil
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	_, _ = fmt.Fprintln(cmd.ErrOrStderr())
	return nil
}

// invalidate drops the changed texts from the loader cache and returns their
// labels. A batch that creates, deletes or renames a file empties the whole
// cache, since the directory no longer matches what was loaded.
func invalidate(loader *textsource.Loader, tracked map[string]string, batch []watcher.FileEvent) []string {
	rescan := false
	changed := make([]string, 0, len(batch))
	for _, ev := range batch {
		if ev.Operation != watcher.OpModify {
			rescan = true
		}
		loader.Invalidate(tracked[ev.Path])
		changed = append(changed, textsource.Label(ev.Path))
	}
	if rescan {
		loader.Purge()
	}
	return changed
}

// drainErrors logs pending non-fatal watcher errors without blocking.
func drainErrors(errs <-chan error, logger *slog.Logger) {
	for {
		select {
		case err, ok := <-errs:
			if !ok {
				return
			}
			logger.Warn("watch_error", slog.String("error", err.Error()))
		default:
			return
		}
	}
}
