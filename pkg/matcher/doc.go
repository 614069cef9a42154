// Package matcher provides single-pattern substring search algorithms.
//
// Three interchangeable strategies implement the [Matcher] interface:
//
//   - [BoyerMoore]: right-to-left comparison with the bad-character shift
//   - [KMP]: Knuth-Morris-Pratt, driven by the LPS failure table
//   - [RabinKarp]: rolling polynomial hash with explicit verification
//
// Every strategy returns the byte index of the first occurrence of the
// pattern, or [NotFound]. An empty pattern matches at index 0 for any text,
// including the empty text. A pattern longer than the text never matches.
//
// # Usage
//
//	for _, m := range matcher.Default() {
//	    fmt.Println(m.Name(), m.Index(text, "needle"))
//	}
//
// # Thread Safety
//
// Matchers hold no mutable state. Preprocessing tables are built per call,
// so every Matcher is safe for concurrent use.
package matcher
