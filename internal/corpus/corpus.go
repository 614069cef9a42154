// Package corpus generates synthetic prose for benchmarking when no real
// texts are at hand. Output is deterministic for a given seed.
package corpus

import (
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
)

const (
	// DefaultWords is the approximate word count of a generated article.
	DefaultWords = 2000
	// DefaultSeed makes repeated runs produce the same files.
	DefaultSeed = 42

	sentencesPerParagraph = 6
)

// Word pools for generating readable sentences.
var (
	nouns = []string{
		"city", "river", "library", "harbour", "mountain", "museum",
		"architecture", "village", "festival", "manuscript", "cathedral",
		"market", "orchard", "lighthouse", "observatory", "garden",
		"monuments", "railway", "province", "archipelago",
	}
	adjectives = []string{
		"ancient", "quiet", "remarkable", "crowded", "distant",
		"forgotten", "magnificent", "narrow", "seasonal", "weathered",
		"celebrated", "modest", "northern", "unexpected", "colourful",
	}
	verbs = []string{
		"overlooks", "surrounds", "welcomes", "preserves", "connects",
		"shelters", "inspires", "dominates", "encompasses", "remembers",
	}
	connectors = []string{
		"near", "beyond", "across", "beneath", "alongside", "throughout",
	}
	openers = []string{
		"Today", "For centuries", "According to residents", "In winter",
		"Every morning", "Historically", "Surprisingly",
	}
)

// Generate returns roughly words words of prose drawn from seed.
func Generate(seed int64, words int) string {
	if words <= 0 {
		words = DefaultWords
	}
	rng := rand.New(rand.NewPCG(uint64(seed), uint64(seed)^0x9e3779b97f4a7c15))

	var b strings.Builder
	written, sentences := 0, 0
	for written < words {
		s := sentence(rng)
		written += strings.Count(s, " ") + 1

		if sentences > 0 {
			if sentences%sentencesPerParagraph == 0 {
				b.WriteString("\n\n")
			} else {
				b.WriteByte(' ')
			}
		}
		b.WriteString(s)
		sentences++
	}
	b.WriteByte('\n')
	return b.String()
}

func pick(rng *rand.Rand, pool []string) string {
	return pool[rng.IntN(len(pool))]
}

func sentence(rng *rand.Rand) string {
	switch rng.IntN(3) {
	case 0:
		return fmt.Sprintf("The %s %s %s the %s %s.",
			pick(rng, adjectives), pick(rng, nouns), pick(rng, verbs),
			pick(rng, adjectives), pick(rng, nouns))
	case 1:
		return fmt.Sprintf("%s, the %s %s the %s %s the %s.",
			pick(rng, openers), pick(rng, nouns), pick(rng, verbs),
			pick(rng, nouns), pick(rng, connectors), pick(rng, nouns))
	default:
		return fmt.Sprintf("A %s %s stands %s the %s %s.",
			pick(rng, adjectives), pick(rng, nouns), pick(rng, connectors),
			pick(rng, adjectives), pick(rng, nouns))
	}
}

// WriteArticles writes article_1.txt to article_<n>.txt into dir, each
// generated from seed+i, and returns their file names.
func WriteArticles(dir string, n, words int, seed int64) ([]string, error) {
	if n < 1 {
		return nil, fmt.Errorf("article count must be at least 1, got %d", n)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	names := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		name := fmt.Sprintf("article_%d.txt", i)
		content := Generate(seed+int64(i), words)
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", name, err)
		}
		names = append(names, name)
	}
	return names, nil
}
