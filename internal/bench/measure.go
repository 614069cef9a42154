package bench

import (
	"math"
	"time"

	"github.com/Aman-CERP/strbench/pkg/matcher"
)

// Clock returns the current time. Tests substitute a fake.
type Clock func() time.Time

// Measurement is the outcome of timing one matcher on one (text, pattern).
type Measurement struct {
	// Runs holds the duration of every repetition, in order.
	Runs []time.Duration
	// Min is the shortest entry of Runs.
	Min time.Duration
	// Index is the matcher's result, identical across repetitions.
	Index int
}

// Benchmark runs m on (text, pattern) repetitions times, at least once, and
// returns the minimum observed wall-clock duration.
func Benchmark(m matcher.Matcher, text, pattern string, repetitions int) time.Duration {
	return Measure(time.Now, m, text, pattern, repetitions).Min
}

// Measure is Benchmark with an explicit clock, returning every run.
func Measure(now Clock, m matcher.Matcher, text, pattern string, repetitions int) Measurement {
	if repetitions < 1 {
		repetitions = 1
	}

	meas := Measurement{
		Runs: make([]time.Duration, 0, repetitions),
		Min:  time.Duration(math.MaxInt64),
	}

	for range repetitions {
		start := now()
		meas.Index = m.Index(text, pattern)
		elapsed := now().Sub(start)
		if elapsed < 0 {
			elapsed = 0
		}

		meas.Runs = append(meas.Runs, elapsed)
		meas.Min = min(meas.Min, elapsed)
	}

	return meas
}
