package bench

import (
	"sort"
	"time"
)

// Text is a labelled input to a comparison.
type Text struct {
	Label   string
	Content string
	// Digest identifies the content in reports. Zero means unknown.
	Digest uint64
}

// Record is the benchmark result of one matcher on one text.
type Record struct {
	Matcher  string        `json:"matcher"`
	Existing time.Duration `json:"existing_ns"`
	Missing  time.Duration `json:"missing_ns"`
}

// Mean returns the mean of the existing and missing timings.
func (r Record) Mean() time.Duration {
	return (r.Existing + r.Missing) / 2
}

// Standing is a matcher's position in a ranking.
type Standing struct {
	Matcher string        `json:"matcher"`
	Mean    time.Duration `json:"mean_ns"`
}

// TextResult holds every record for one text.
type TextResult struct {
	Label           string     `json:"label"`
	Digest          uint64     `json:"digest,omitempty"`
	Length          int        `json:"length"`
	ExistingPattern string     `json:"existing_pattern"`
	MissingPattern  string     `json:"missing_pattern"`
	ExistingIndex   int        `json:"existing_index"`
	MissingFound    bool       `json:"missing_found"`
	Records         []Record   `json:"records"`
	FastestExisting string     `json:"fastest_existing"`
	FastestMissing  string     `json:"fastest_missing"`
	Ranking         []Standing `json:"ranking"`
}

// Report is the outcome of a full comparison.
type Report struct {
	Repetitions int          `json:"repetitions"`
	Texts       []TextResult `json:"texts"`
	Overall     []Standing   `json:"overall"`
}

// Winner returns the overall fastest matcher, or "" for an empty report.
func (r *Report) Winner() string {
	if r == nil || len(r.Overall) == 0 {
		return ""
	}
	return r.Overall[0].Matcher
}

// fastest returns the name of the record with the smallest key.
// Ties go to the earlier record.
func fastest(records []Record, key func(Record) time.Duration) string {
	if len(records) == 0 {
		return ""
	}
	best := records[0]
	for _, r := range records[1:] {
		if key(r) < key(best) {
			best = r
		}
	}
	return best.Matcher
}

// rankText orders records ascending by their mean timing.
func rankText(records []Record) []Standing {
	out := make([]Standing, len(records))
	for i, r := range records {
		out[i] = Standing{Matcher: r.Matcher, Mean: r.Mean()}
	}
	sortStandings(out)
	return out
}

// rankOverall averages every timing per matcher across texts. Matchers keep
// the order of their first appearance when means tie.
func rankOverall(texts []TextResult) []Standing {
	var order []string
	sums := make(map[string]time.Duration)
	counts := make(map[string]int)

	for _, t := range texts {
		for _, r := range t.Records {
			if _, ok := counts[r.Matcher]; !ok {
				order = append(order, r.Matcher)
			}
			sums[r.Matcher] += r.Existing + r.Missing
			counts[r.Matcher] += 2
		}
	}

	out := make([]Standing, 0, len(order))
	for _, name := range order {
		out = append(out, Standing{
			Matcher: name,
			Mean:    sums[name] / time.Duration(counts[name]),
		})
	}
	sortStandings(out)
	return out
}

func sortStandings(s []Standing) {
	sort.SliceStable(s, func(i, j int) bool {
		return s[i].Mean < s[j].Mean
	})
}
