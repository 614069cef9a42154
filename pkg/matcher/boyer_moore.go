package matcher

// alphabetSize is the number of distinct byte values.
const alphabetSize = 256

// BoyerMoore searches text right-to-left using only the bad-character rule.
//
// There is no good-suffix rule, so pathological inputs such as
// text "aaaa...a" with pattern "baa...a" degrade to O(n*m).
func BoyerMoore(text, pattern string) int {
	m, n := len(pattern), len(text)
	if m == 0 {
		return 0
	}
	if m > n {
		return NotFound
	}

	last := lastOccurrence(pattern)

	i, j := m-1, m-1
	for i < n {
		if text[i] == pattern[j] {
			if j == 0 {
				return i
			}
			i--
			j--
			continue
		}
		i += m - min(j, last[text[i]]+1)
		j = m - 1
	}

	return NotFound
}

// lastOccurrence maps every byte to its rightmost index in pattern, or -1.
func lastOccurrence(pattern string) [alphabetSize]int {
	var last [alphabetSize]int
	for c := range last {
		last[c] = -1
	}
	for i := 0; i < len(pattern); i++ {
		last[pattern[i]] = i
	}
	return last
}
