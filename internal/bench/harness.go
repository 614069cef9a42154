package bench

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Aman-CERP/strbench/internal/sample"
	"github.com/Aman-CERP/strbench/pkg/matcher"
)

// DefaultRepetitions is the number of timed runs per (matcher, pattern).
const DefaultRepetitions = 5

var (
	// ErrNoMatchers is returned when a comparison has no matchers.
	ErrNoMatchers = errors.New("at least one matcher is required")

	// ErrNoTexts is returned when a comparison has no texts.
	ErrNoTexts = errors.New("at least one text is required")

	// ErrMatcherDisagreement is returned when matchers report different
	// first-occurrence indexes for the same input.
	ErrMatcherDisagreement = errors.New("matchers disagree")

	// errMatcherPanic cancels sibling workers after one of them panicked.
	errMatcherPanic = errors.New("matcher panicked")
)

// Picker derives a pattern that occurs in text.
type Picker func(text string) string

// ProgressFunc is called after each text is benchmarked with the number of
// texts done so far. Calls are serialized.
type ProgressFunc func(done, total int, label string)

// Harness runs comparisons. The zero value is not usable; call New.
type Harness struct {
	repetitions int
	missing     string
	picker      Picker
	now         Clock
	parallelism int
	logger      *slog.Logger
	progress    ProgressFunc
}

// Option configures a Harness.
type Option func(*Harness)

// WithRepetitions sets the number of timed runs per measurement.
// Values below 1 are treated as 1.
func WithRepetitions(n int) Option {
	return func(h *Harness) {
		h.repetitions = max(n, 1)
	}
}

// WithMissingPattern sets the pattern expected to be absent from every text.
func WithMissingPattern(p string) Option {
	return func(h *Harness) {
		h.missing = p
	}
}

// WithPicker sets how the existing pattern is derived from a text.
func WithPicker(p Picker) Option {
	return func(h *Harness) {
		if p != nil {
			h.picker = p
		}
	}
}

// WithClock replaces the wall clock.
func WithClock(c Clock) Option {
	return func(h *Harness) {
		if c != nil {
			h.now = c
		}
	}
}

// WithParallelism sets how many texts are benchmarked at once.
// Matchers within one text are always timed one after another. A matcher
// panic in a worker goroutine is re-raised in the goroutine that called
// RunComparison once the other workers have stopped.
func WithParallelism(n int) Option {
	return func(h *Harness) {
		h.parallelism = max(n, 1)
	}
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(h *Harness) {
		if l != nil {
			h.logger = l
		}
	}
}

// WithProgress sets a callback invoked as texts complete.
func WithProgress(fn ProgressFunc) Option {
	return func(h *Harness) {
		h.progress = fn
	}
}

// New creates a Harness with defaults: 5 repetitions, sample.MissingPattern,
// sample.Pick, the wall clock, sequential execution and slog.Default().
func New(opts ...Option) *Harness {
	h := &Harness{
		repetitions: DefaultRepetitions,
		missing:     sample.MissingPattern,
		picker:      sample.Pick,
		now:         time.Now,
		parallelism: 1,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Repetitions returns the configured repetition count.
func (h *Harness) Repetitions() int {
	return h.repetitions
}

// RunComparison benchmarks every matcher on every text with the default
// harness settings.
func RunComparison(texts []Text, matchers []matcher.Matcher) (*Report, error) {
	return New().RunComparison(context.Background(), texts, matchers)
}

// RunComparison benchmarks every matcher on every text and ranks them.
//
// Context cancellation is checked between timed measurements and returned
// as is. A matcher that panics is not recovered.
func (h *Harness) RunComparison(ctx context.Context, texts []Text, matchers []matcher.Matcher) (*Report, error) {
	if len(matchers) == 0 {
		return nil, ErrNoMatchers
	}
	if len(texts) == 0 {
		return nil, ErrNoTexts
	}

	h.logger.Info("comparison_started",
		slog.Int("texts", len(texts)),
		slog.Int("matchers", len(matchers)),
		slog.Int("repetitions", h.repetitions),
		slog.Int("parallelism", h.parallelism))
	start := time.Now()

	results, err := h.runTexts(ctx, texts, matchers)
	if err != nil {
		return nil, err
	}

	report := &Report{
		Repetitions: h.repetitions,
		Texts:       results,
		Overall:     rankOverall(results),
	}

	h.logger.Info("comparison_complete",
		slog.String("winner", report.Winner()),
		slog.Duration("elapsed", time.Since(start)))

	return report, nil
}

// runTexts benchmarks every text, in the calling goroutine when parallelism
// is 1 and through a bounded errgroup otherwise. Results keep input order.
func (h *Harness) runTexts(ctx context.Context, texts []Text, matchers []matcher.Matcher) ([]TextResult, error) {
	results := make([]TextResult, len(texts))

	var mu sync.Mutex
	done := 0
	advance := func(label string) {
		if h.progress == nil {
			return
		}
		mu.Lock()
		defer mu.Unlock()
		done++
		h.progress(done, len(texts), label)
	}

	if h.parallelism == 1 {
		for i, text := range texts {
			res, err := h.runText(ctx, text, matchers)
			if err != nil {
				return nil, err
			}
			results[i] = res
			advance(text.Label)
		}
		return results, nil
	}

	var (
		panicOnce sync.Once
		panicked  bool
		panicVal  any
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(h.parallelism)
	for i, text := range texts {
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					panicOnce.Do(func() {
						panicked = true
						panicVal = r
					})
					err = errMatcherPanic
				}
			}()

			res, err := h.runText(gctx, text, matchers)
			if err != nil {
				return err
			}
			results[i] = res
			advance(text.Label)
			return nil
		})
	}
	err := g.Wait()
	if panicked {
		// Re-raise on the caller's goroutine.
		panic(panicVal)
	}
	if err != nil {
		return nil, err
	}
	return results, nil
}

// runText benchmarks all matchers on a single text.
func (h *Harness) runText(ctx context.Context, text Text, matchers []matcher.Matcher) (TextResult, error) {
	existing := h.picker(text.Content)

	res := TextResult{
		Label:           text.Label,
		Digest:          text.Digest,
		Length:          len(text.Content),
		ExistingPattern: existing,
		MissingPattern:  h.missing,
		ExistingIndex:   matcher.NotFound,
		Records:         make([]Record, 0, len(matchers)),
	}

	missingIndex := matcher.NotFound
	for i, m := range matchers {
		if err := ctx.Err(); err != nil {
			return TextResult{}, err
		}
		exist := Measure(h.now, m, text.Content, existing, h.repetitions)

		if err := ctx.Err(); err != nil {
			return TextResult{}, err
		}
		miss := Measure(h.now, m, text.Content, h.missing, h.repetitions)

		if i == 0 {
			res.ExistingIndex = exist.Index
			missingIndex = miss.Index
		} else if err := agree(text.Label, existing, matchers[0], res.ExistingIndex, m, exist.Index); err != nil {
			return TextResult{}, err
		} else if err := agree(text.Label, h.missing, matchers[0], missingIndex, m, miss.Index); err != nil {
			return TextResult{}, err
		}
		if miss.Index != matcher.NotFound {
			res.MissingFound = true
		}

		res.Records = append(res.Records, Record{
			Matcher:  m.Name(),
			Existing: exist.Min,
			Missing:  miss.Min,
		})
	}

	res.FastestExisting = fastest(res.Records, func(r Record) time.Duration { return r.Existing })
	res.FastestMissing = fastest(res.Records, func(r Record) time.Duration { return r.Missing })
	res.Ranking = rankText(res.Records)

	h.logger.Debug("text_benchmarked",
		slog.String("label", text.Label),
		slog.Int("length", res.Length),
		slog.String("existing_pattern", existing),
		slog.Int("existing_index", res.ExistingIndex),
		slog.String("fastest_existing", res.FastestExisting),
		slog.String("fastest_missing", res.FastestMissing))

	if res.MissingFound {
		h.logger.Warn("missing_pattern_found",
			slog.String("label", text.Label),
			slog.String("pattern", h.missing))
	}

	return res, nil
}

// agree reports ErrMatcherDisagreement when two matchers returned different
// indexes for the same pattern.
func agree(label, pattern string, ref matcher.Matcher, refIndex int, m matcher.Matcher, index int) error {
	if index == refIndex {
		return nil
	}
	return fmt.Errorf("%w on %q for pattern %q: %s returned %d, %s returned %d",
		ErrMatcherDisagreement, label, pattern, ref.Name(), refIndex, m.Name(), index)
}
