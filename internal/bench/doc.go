// Package bench times substring matchers against sample texts and ranks them.
//
// For each text the harness derives one pattern that is guaranteed to occur
// and uses one that is guaranteed not to, times every matcher against both,
// and keeps the minimum of several repetitions per (matcher, pattern) pair.
// Minimum rather than mean is used because scheduling noise only ever adds
// time to a run.
//
// Per-text results are ranked by the mean of the two timings; the overall
// ranking uses the mean of every timing a matcher recorded across all texts.
//
// The harness never recovers panics from a matcher, and resource errors from
// callers are expected to be reported before a comparison starts.
package bench
