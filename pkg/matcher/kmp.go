package matcher

// KMP searches text with the Knuth-Morris-Pratt algorithm.
// It never moves backwards over text and runs in O(n+m).
func KMP(text, pattern string) int {
	m, n := len(pattern), len(text)
	if m == 0 {
		return 0
	}
	if m > n {
		return NotFound
	}

	lps := LPS(pattern)

	i, j := 0, 0
	for i < n {
		if text[i] == pattern[j] {
			i++
			j++
			if j == m {
				return i - j
			}
			continue
		}
		if j != 0 {
			j = lps[j-1]
		} else {
			i++
		}
	}

	return NotFound
}

// LPS returns the failure table of pattern: lps[i] is the length of the
// longest proper prefix of pattern[:i+1] that is also a suffix of it.
func LPS(pattern string) []int {
	lps := make([]int, len(pattern))

	length := 0
	for i := 1; i < len(pattern); {
		switch {
		case pattern[i] == pattern[length]:
			length++
			lps[i] = length
			i++
		case length != 0:
			length = lps[length-1]
		default:
			lps[i] = 0
			i++
		}
	}

	return lps
}
