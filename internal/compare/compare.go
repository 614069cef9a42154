// Package compare detects performance regressions between two saved
// comparison reports (the JSON output of `strbench run -f json`).
package compare

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/Aman-CERP/strbench/internal/bench"
)

const (
	// DefaultThreshold is the slowdown above which a timing is a regression.
	DefaultThreshold = 0.20

	// ImprovementThreshold is the speedup above which a timing is reported
	// as improved.
	ImprovementThreshold = 0.10
)

// Status classifies one compared timing.
type Status string

// Comparison statuses.
const (
	StatusOK         Status = "OK"
	StatusRegression Status = "REGRESSION"
	StatusImproved   Status = "IMPROVED"
	StatusNew        Status = "NEW"
	StatusMissing    Status = "MISSING"
)

// Entry compares one timing. Name is "overall/<matcher>" or
// "<label>/<matcher>/<existing|missing>".
type Entry struct {
	Name     string        `json:"name"`
	Current  time.Duration `json:"current_ns"`
	Baseline time.Duration `json:"baseline_ns"`
	DeltaPct float64       `json:"delta_percent"`
	Status   Status        `json:"status"`
}

// Result is the outcome of comparing two reports.
type Result struct {
	Threshold    float64 `json:"threshold"`
	Total        int     `json:"total"`
	Regressions  int     `json:"regressions"`
	Improvements int     `json:"improvements"`
	Unchanged    int     `json:"unchanged"`
	New          int     `json:"new"`
	Missing      int     `json:"missing"`
	Entries      []Entry `json:"entries"`
}

// Failed reports whether any timing regressed.
func (r *Result) Failed() bool {
	return r.Regressions > 0
}

// Load reads a JSON report from path.
func Load(path string) (*bench.Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read report: %w", err)
	}
	var rep bench.Report
	if err := json.Unmarshal(data, &rep); err != nil {
		return nil, fmt.Errorf("failed to parse report %s: %w", path, err)
	}
	return &rep, nil
}

// timings flattens a report into named durations.
func timings(r *bench.Report) map[string]time.Duration {
	out := make(map[string]time.Duration)
	for _, s := range r.Overall {
		out["overall/"+s.Matcher] = s.Mean
	}
	for _, t := range r.Texts {
		for _, rec := range t.Records {
			out[t.Label+"/"+rec.Matcher+"/existing"] = rec.Existing
			out[t.Label+"/"+rec.Matcher+"/missing"] = rec.Missing
		}
	}
	return out
}

// Compare compares every timing of current against baseline. A timing more
// than threshold slower is a regression. Entries are sorted by name.
func Compare(current, baseline *bench.Report, threshold float64) *Result {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	res := &Result{Threshold: threshold}

	cur, base := timings(current), timings(baseline)

	for name, c := range cur {
		res.Total++
		b, ok := base[name]
		if !ok {
			res.New++
			res.Entries = append(res.Entries, Entry{Name: name, Current: c, Status: StatusNew})
			continue
		}

		// Positive delta means slower.
		delta := 0.0
		if b > 0 {
			delta = float64(c-b) / float64(b)
		}
		e := Entry{Name: name, Current: c, Baseline: b, DeltaPct: delta * 100}

		switch {
		case delta > threshold:
			e.Status = StatusRegression
			res.Regressions++
		case delta < -ImprovementThreshold:
			e.Status = StatusImproved
			res.Improvements++
		default:
			e.Status = StatusOK
			res.Unchanged++
		}
		res.Entries = append(res.Entries, e)
	}

	for name, b := range base {
		if _, ok := cur[name]; !ok {
			res.Missing++
			res.Entries = append(res.Entries, Entry{Name: name, Baseline: b, Status: StatusMissing})
		}
	}

	sort.Slice(res.Entries, func(i, j int) bool { return res.Entries[i].Name < res.Entries[j].Name })
	return res
}

// WriteText prints a human-readable summary. Unless verbose, only
// regressions, improvements, new and missing timings are listed.
func WriteText(w io.Writer, r *Result, verbose bool) error {
	var b strings.Builder
	rule := strings.Repeat("=", 80)

	fmt.Fprintln(&b, rule)
	fmt.Fprintln(&b, "BENCHMARK COMPARISON REPORT")
	fmt.Fprintln(&b, rule)
	fmt.Fprintf(&b, "Timings:      %d\n", r.Total)
	fmt.Fprintf(&b, "Regressions:  %d (> %.0f%% slower)\n", r.Regressions, r.Threshold*100)
	fmt.Fprintf(&b, "Improvements: %d (> %.0f%% faster)\n", r.Improvements, ImprovementThreshold*100)
	fmt.Fprintf(&b, "Unchanged:    %d\n", r.Unchanged)
	fmt.Fprintf(&b, "New:          %d\n", r.New)
	fmt.Fprintf(&b, "Missing:      %d\n", r.Missing)

	var shown []Entry
	for _, e := range r.Entries {
		if verbose || e.Status != StatusOK {
			shown = append(shown, e)
		}
	}

	if len(shown) > 0 {
		line := strings.Repeat("-", 80)
		fmt.Fprintln(&b, line)
		fmt.Fprintf(&b, "%-40s %12s %12s %9s  %s\n", "TIMING", "CURRENT", "BASELINE", "DELTA", "STATUS")
		fmt.Fprintln(&b, line)
		for _, e := range shown {
			switch e.Status {
			case StatusNew:
				fmt.Fprintf(&b, "%-40s %12s %12s %9s  %s\n", truncateName(e.Name, 40), e.Current, "-", "-", e.Status)
			case StatusMissing:
				fmt.Fprintf(&b, "%-40s %12s %12s %9s  %s\n", truncateName(e.Name, 40), "-", e.Baseline, "-", e.Status)
			default:
				fmt.Fprintf(&b, "%-40s %12s %12s %+8.1f%%  %s\n",
					truncateName(e.Name, 40), e.Current, e.Baseline, e.DeltaPct, e.Status)
			}
		}
		fmt.Fprintln(&b, line)
	}

	if r.Failed() {
		fmt.Fprintf(&b, "FAILED: %d timing(s) regressed by more than %.0f%%\n", r.Regressions, r.Threshold*100)
	} else {
		fmt.Fprintln(&b, "PASSED: no significant regressions")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// WriteJSON encodes r as indented JSON.
func WriteJSON(w io.Writer, r *Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// truncateName shortens long timing names.
func truncateName(name string, maxLen int) string {
	if len(name) <= maxLen {
		return name
	}
	return name[:maxLen-3] + "..."
}
