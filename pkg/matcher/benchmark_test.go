package matcher

import (
	"strings"
	"testing"
)

var sinkIndex int

type benchCase struct {
	scenario string
	text     string
	pattern  string
}

func benchCases() []benchCase {
	prose := strings.Repeat("Not marble nor the gilded monuments of princes shall outlive this powerful rhyme; ", 800)
	return []benchCase{
		{"prose_found_end", prose + "xylophone", "xylophone"},
		{"prose_missing", prose, "___THIS_SUBSTRING_SHOULD_NOT_EXIST_123456___"},
		{"samechar", strings.Repeat("a", 64000) + "aab", "aab"},
		{"periodic", strings.Repeat("abcd", 16000) + "abce", "abce"},
		{"dna", strings.Repeat("ATCGATCGATCG", 5000) + "ZZZZZ", "ZZZZZ"},
		{"bm_worst", strings.Repeat("a", 16000), "b" + strings.Repeat("a", 63)},
	}
}

func BenchmarkIndex(b *testing.B) {
	impls := []struct {
		name string
		fn   IndexFunc
	}{
		{"stdlib", strings.Index},
		{"boyer-moore", BoyerMoore},
		{"kmp", KMP},
		{"rabin-karp", RabinKarp},
	}

	for _, tc := range benchCases() {
		for _, impl := range impls {
			b.Run("scenario="+tc.scenario+"/impl="+impl.name, func(b *testing.B) {
				b.SetBytes(int64(len(tc.text)))
				for b.Loop() {
					sinkIndex = impl.fn(tc.text, tc.pattern)
				}
			})
		}
	}
}
