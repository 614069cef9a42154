package bench

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aman-CERP/strbench/internal/sample"
	"github.com/Aman-CERP/strbench/pkg/matcher"
)

// fakeClock is a manually advanced clock.
type fakeClock struct {
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

// costMatcher advances a fake clock by a fixed cost on every search, so the
// harness measures exactly that cost.
type costMatcher struct {
	name  string
	clock *fakeClock
	cost  func(text, pattern string) time.Duration
}

func (m costMatcher) Name() string { return m.name }

func (m costMatcher) Index(text, pattern string) int {
	m.clock.Advance(m.cost(text, pattern))
	return strings.Index(text, pattern)
}

// fixedCost charges existing for patterns found in text and missing otherwise.
func fixedCost(existing, missing time.Duration) func(string, string) time.Duration {
	return func(text, pattern string) time.Duration {
		if strings.Contains(text, pattern) {
			return existing
		}
		return missing
	}
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}

// =============================================================================
// Benchmark / Measure
// =============================================================================

func TestBenchmark_NonNegativeAndMinimumOfRuns(t *testing.T) {
	// Given: a real matcher and input
	text := strings.Repeat("abracadabra ", 1000)
	m := matcher.New(matcher.NameKMP, matcher.KMP)

	for run := 0; run < 2; run++ {
		// When: measuring repeatedly
		meas := Measure(time.Now, m, text, "cad", 7)

		// Then: every run is non-negative and min bounds them all
		require.Len(t, meas.Runs, 7)
		for _, d := range meas.Runs {
			assert.GreaterOrEqual(t, d, time.Duration(0))
			assert.LessOrEqual(t, meas.Min, d)
		}
		assert.Equal(t, 4, meas.Index)

		assert.GreaterOrEqual(t, Benchmark(m, text, "cad", 3), time.Duration(0))
	}
}

func TestMeasure_ReturnsMinimumNotMean(t *testing.T) {
	// Given: runs costing 5ns, 3ns, 7ns in turn
	clock := newFakeClock()
	costs := []time.Duration{5, 3, 7}
	call := 0
	m := costMatcher{name: "stub", clock: clock, cost: func(string, string) time.Duration {
		d := costs[call%len(costs)]
		call++
		return d
	}}

	// When: measuring three repetitions
	meas := Measure(clock.Now, m, "text", "z", 3)

	// Then: the minimum is reported
	assert.Equal(t, []time.Duration{5, 3, 7}, meas.Runs)
	assert.Equal(t, time.Duration(3), meas.Min)
	assert.Equal(t, matcher.NotFound, meas.Index)
}

func TestMeasure_AtLeastOneRepetition(t *testing.T) {
	clock := newFakeClock()
	m := costMatcher{name: "stub", clock: clock, cost: fixedCost(4, 4)}

	for _, reps := range []int{0, -3, 1} {
		meas := Measure(clock.Now, m, "abc", "b", reps)
		assert.Len(t, meas.Runs, 1)
		assert.Equal(t, time.Duration(4), meas.Min)
	}
}

func TestMeasure_ClampsBackwardsClock(t *testing.T) {
	// Given: a clock that goes backwards between start and end
	ticks := []time.Time{time.Unix(10, 0), time.Unix(9, 0)}
	i := 0
	clock := func() time.Time {
		tick := ticks[i%len(ticks)]
		i++
		return tick
	}
	m := matcher.New("kmp", matcher.KMP)

	meas := Measure(clock, m, "abc", "b", 2)

	assert.Equal(t, time.Duration(0), meas.Min)
	assert.Equal(t, []time.Duration{0, 0}, meas.Runs)
}

// =============================================================================
// RunComparison
// =============================================================================

func TestRunComparison_RanksPerTextAndOverall(t *testing.T) {
	// Given: three matchers with known costs
	clock := newFakeClock()
	long := strings.Repeat("x", 100) + "cad"
	aCost := func(text, pattern string) time.Duration {
		if text == long && strings.Contains(text, pattern) {
			return 100
		}
		return fixedCost(10, 40)(text, pattern)
	}
	matchers := []matcher.Matcher{
		costMatcher{name: "A", clock: clock, cost: aCost},
		costMatcher{name: "B", clock: clock, cost: fixedCost(20, 10)},
		costMatcher{name: "C", clock: clock, cost: fixedCost(30, 30)},
	}
	texts := []Text{
		{Label: "short", Content: "abracadabra", Digest: 42},
		{Label: "long", Content: long},
	}

	h := New(
		WithClock(clock.Now),
		WithPicker(func(string) string { return "cad" }),
		WithRepetitions(3),
		WithLogger(quietLogger()),
	)

	// When: running the comparison
	report, err := h.RunComparison(context.Background(), texts, matchers)

	// Then: per-text results are recorded in input order
	require.NoError(t, err)
	require.Len(t, report.Texts, 2)
	assert.Equal(t, 3, report.Repetitions)

	short := report.Texts[0]
	assert.Equal(t, "short", short.Label)
	assert.Equal(t, uint64(42), short.Digest)
	assert.Equal(t, 11, short.Length)
	assert.Equal(t, "cad", short.ExistingPattern)
	assert.Equal(t, sample.MissingPattern, short.MissingPattern)
	assert.Equal(t, 4, short.ExistingIndex)
	assert.False(t, short.MissingFound)
	assert.Equal(t, []Record{
		{Matcher: "A", Existing: 10, Missing: 40},
		{Matcher: "B", Existing: 20, Missing: 10},
		{Matcher: "C", Existing: 30, Missing: 30},
	}, short.Records)
	assert.Equal(t, "A", short.FastestExisting)
	assert.Equal(t, "B", short.FastestMissing)
	assert.Equal(t, []Standing{{"B", 15}, {"A", 25}, {"C", 30}}, short.Ranking)

	longRes := report.Texts[1]
	assert.Equal(t, 100, longRes.ExistingIndex)
	assert.Equal(t, "B", longRes.FastestExisting)

	// And: overall is the mean of all four timings per matcher
	// A: (10+40+100+40)/4 = 47.5 -> 47ns
	assert.Equal(t, []Standing{{"B", 15}, {"C", 30}, {"A", 47}}, report.Overall)
	assert.Equal(t, "B", report.Winner())
}

func TestRunComparison_TiesKeepMatcherOrder(t *testing.T) {
	clock := newFakeClock()
	matchers := []matcher.Matcher{
		costMatcher{name: "first", clock: clock, cost: fixedCost(10, 10)},
		costMatcher{name: "second", clock: clock, cost: fixedCost(10, 10)},
	}

	report, err := New(WithClock(clock.Now), WithLogger(quietLogger())).
		RunComparison(context.Background(), []Text{{Label: "t", Content: "some reasonably long words"}}, matchers)

	require.NoError(t, err)
	assert.Equal(t, "first", report.Texts[0].FastestExisting)
	assert.Equal(t, "first", report.Texts[0].FastestMissing)
	assert.Equal(t, "first", report.Winner())
	assert.Equal(t, "second", report.Overall[1].Matcher)
}

func TestRunComparison_DefaultsWithRealMatchers(t *testing.T) {
	// Given: natural-language texts
	texts := []Text{
		{Label: "sonnet", Content: "Not marble nor the gilded monuments of princes shall outlive this powerful rhyme"},
		{Label: "song", Content: "With the twirl of my tongue I encompass worlds and volumes of worlds"},
	}

	// When: using the package-level helper
	report, err := RunComparison(texts, matcher.Default())

	// Then: every matcher is ranked and patterns were found where expected
	require.NoError(t, err)
	require.Len(t, report.Overall, 3)
	assert.Equal(t, DefaultRepetitions, report.Repetitions)

	for i, res := range report.Texts {
		assert.Equal(t, texts[i].Label, res.Label)
		assert.Equal(t, strings.Index(texts[i].Content, res.ExistingPattern), res.ExistingIndex)
		assert.GreaterOrEqual(t, res.ExistingIndex, 0)
		assert.False(t, res.MissingFound)
		assert.Len(t, res.Records, 3)
		assert.Len(t, res.Ranking, 3)
	}
	assert.Equal(t, "monuments", report.Texts[0].ExistingPattern)
	assert.Equal(t, "encompass", report.Texts[1].ExistingPattern)

	names := []string{}
	for _, s := range report.Overall {
		names = append(names, s.Matcher)
	}
	assert.ElementsMatch(t, []string{matcher.NameBoyerMoore, matcher.NameKMP, matcher.NameRabinKarp}, names)
}

func TestRunComparison_MissingPatternPresentIsRecorded(t *testing.T) {
	report, err := New(WithMissingPattern("abra"), WithLogger(quietLogger())).
		RunComparison(context.Background(), []Text{{Label: "t", Content: "abracadabra"}}, matcher.Default())

	require.NoError(t, err)
	assert.True(t, report.Texts[0].MissingFound)
	assert.Equal(t, "abra", report.Texts[0].MissingPattern)
}

func TestRunComparison_DisagreementFails(t *testing.T) {
	// Given: a matcher that always reports the last position
	broken := matcher.New("broken", func(text, pattern string) int { return strings.LastIndex(text, pattern) })
	matchers := []matcher.Matcher{matcher.New("kmp", matcher.KMP), broken}

	// When: the texts contain the pattern twice
	_, err := New(WithPicker(func(string) string { return "abra" }), WithLogger(quietLogger())).
		RunComparison(context.Background(), []Text{{Label: "t", Content: "abracadabra"}}, matchers)

	// Then: the comparison is rejected
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMatcherDisagreement)
	assert.Contains(t, err.Error(), "broken returned 7")
	assert.Contains(t, err.Error(), "kmp returned 0")
}

func TestRunComparison_DisagreementOnMissingPatternFails(t *testing.T) {
	finder := matcher.New("finder", func(string, string) int { return 0 })
	matchers := []matcher.Matcher{matcher.New("kmp", matcher.KMP), finder}

	_, err := New(WithPicker(func(string) string { return "" }), WithLogger(quietLogger())).
		RunComparison(context.Background(), []Text{{Label: "t", Content: "abracadabra"}}, matchers)

	assert.ErrorIs(t, err, ErrMatcherDisagreement)
}

func TestRunComparison_InputValidation(t *testing.T) {
	_, err := RunComparison([]Text{{Label: "t", Content: "x"}}, nil)
	assert.ErrorIs(t, err, ErrNoMatchers)

	_, err = RunComparison(nil, matcher.Default())
	assert.ErrorIs(t, err, ErrNoTexts)
}

func TestRunComparison_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := New(WithLogger(quietLogger())).
		RunComparison(ctx, []Text{{Label: "t", Content: "abracadabra"}}, matcher.Default())

	assert.Nil(t, report)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunComparison_MatcherPanicPropagates(t *testing.T) {
	boom := matcher.New("boom", func(string, string) int { panic("matcher exploded") })

	assert.PanicsWithValue(t, "matcher exploded", func() {
		_, _ = New(WithLogger(quietLogger())).
			RunComparison(context.Background(), []Text{{Label: "t", Content: "abc"}}, []matcher.Matcher{boom})
	})
}

func TestRunComparison_ParallelMatcherPanicReachesCaller(t *testing.T) {
	// Given: a matcher that panics on one of several texts
	boom := matcher.New("boom", func(text, pattern string) int {
		if strings.HasPrefix(text, "bad") {
			panic("matcher exploded")
		}
		return strings.Index(text, pattern)
	})
	texts := []Text{
		{Label: "a", Content: "good first sentence"},
		{Label: "b", Content: "bad second sentence"},
		{Label: "c", Content: "good third sentence"},
		{Label: "d", Content: "good fourth sentence"},
	}
	h := New(WithParallelism(3), WithRepetitions(1), WithLogger(quietLogger()))

	// When/Then: the panic surfaces in the calling goroutine
	assert.PanicsWithValue(t, "matcher exploded", func() {
		_, _ = h.RunComparison(context.Background(), texts, []matcher.Matcher{boom})
	})
}

func TestRunComparison_ParallelKeepsOrder(t *testing.T) {
	// Given: several texts benchmarked concurrently
	var texts []Text
	for i := 0; i < 6; i++ {
		texts = append(texts, Text{
			Label:   fmt.Sprintf("text_%d", i),
			Content: strings.Repeat("filler ", 30*(i+1)) + fmt.Sprintf("marker%02dxyz", i),
		})
	}

	h := New(WithParallelism(3), WithRepetitions(2), WithLogger(quietLogger()))

	// When: running the comparison
	report, err := h.RunComparison(context.Background(), texts, matcher.Default())

	// Then: results are in input order and correct
	require.NoError(t, err)
	require.Len(t, report.Texts, len(texts))
	for i, res := range report.Texts {
		assert.Equal(t, texts[i].Label, res.Label)
		assert.Equal(t, fmt.Sprintf("marker%02dxyz", i), res.ExistingPattern)
		assert.Equal(t, strings.Index(texts[i].Content, res.ExistingPattern), res.ExistingIndex)
	}
}

func TestRunComparison_LogsLifecycle(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	_, err := New(WithLogger(logger), WithRepetitions(1)).
		RunComparison(context.Background(), []Text{{Label: "article_1", Content: "encompass worlds"}}, matcher.Default())
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "comparison_started")
	assert.Contains(t, out, "text_benchmarked")
	assert.Contains(t, out, "label=article_1")
	assert.Contains(t, out, "comparison_complete")
}

func TestOptions_ClampAndIgnoreNil(t *testing.T) {
	h := New(WithRepetitions(0), WithParallelism(-1), WithPicker(nil), WithClock(nil), WithLogger(nil))

	assert.Equal(t, 1, h.Repetitions())
	assert.Equal(t, 1, h.parallelism)
	assert.NotNil(t, h.picker)
	assert.NotNil(t, h.now)
	assert.NotNil(t, h.logger)
}

// =============================================================================
// Ranking helpers
// =============================================================================

func TestRecord_Mean(t *testing.T) {
	assert.Equal(t, time.Duration(15), Record{Existing: 10, Missing: 20}.Mean())
}

func TestReport_WinnerEmpty(t *testing.T) {
	var r *Report
	assert.Empty(t, r.Winner())
	assert.Empty(t, (&Report{}).Winner())
}

func TestFastest_Empty(t *testing.T) {
	assert.Empty(t, fastest(nil, func(r Record) time.Duration { return r.Existing }))
}

func TestRunComparison_ReportsProgress(t *testing.T) {
	texts := []Text{
		{Label: "a", Content: "encompass worlds"},
		{Label: "b", Content: "encompass volumes"},
		{Label: "c", Content: "encompass tongues"},
	}

	for _, parallelism := range []int{1, 3} {
		var calls []int
		labels := map[string]bool{}
		h := New(
			WithParallelism(parallelism),
			WithRepetitions(1),
			WithLogger(quietLogger()),
			WithProgress(func(done, total int, label string) {
				assert.Equal(t, 3, total)
				calls = append(calls, done)
				labels[label] = true
			}),
		)

		_, err := h.RunComparison(context.Background(), texts, matcher.Default())

		require.NoError(t, err)
		assert.Equal(t, []int{1, 2, 3}, calls)
		assert.Len(t, labels, 3)
	}
}
