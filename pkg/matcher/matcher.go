package matcher

import (
	"errors"
	"fmt"
	"strings"
)

// NotFound is returned when the pattern does not occur in the text.
const NotFound = -1

// Canonical matcher names.
const (
	NameBoyerMoore = "Boyer-Moore"
	NameKMP        = "KMP"
	NameRabinKarp  = "Rabin-Karp"
)

// ErrUnknownMatcher is returned by Lookup for names that match no strategy.
var ErrUnknownMatcher = errors.New("unknown matcher")

// Matcher finds the first occurrence of a pattern in a text.
//
// Implementations must not retain or modify their inputs and must be safe
// for concurrent use.
type Matcher interface {
	// Name returns the display name of the strategy.
	Name() string

	// Index returns the byte offset of the first occurrence of pattern in
	// text, or NotFound.
	Index(text, pattern string) int
}

// IndexFunc is the signature shared by all search functions in this package.
type IndexFunc func(text, pattern string) int

type funcMatcher struct {
	name string
	fn   IndexFunc
}

func (f funcMatcher) Name() string { return f.name }

func (f funcMatcher) Index(text, pattern string) int { return f.fn(text, pattern) }

func (f funcMatcher) String() string { return f.name }

// New wraps a search function as a named Matcher.
func New(name string, fn IndexFunc) Matcher {
	return funcMatcher{name: name, fn: fn}
}

// Default returns the three built-in strategies in report order:
// Boyer-Moore, KMP, Rabin-Karp.
func Default() []Matcher {
	return []Matcher{
		New(NameBoyerMoore, BoyerMoore),
		New(NameKMP, KMP),
		defaultRabinKarp,
	}
}

// aliases maps normalized names to canonical names.
var aliases = map[string]string{
	"bm":          NameBoyerMoore,
	"boyer-moore": NameBoyerMoore,
	"boyermoore":  NameBoyerMoore,

	"kmp":                NameKMP,
	"knuth-morris-pratt": NameKMP,

	"rk":         NameRabinKarp,
	"rabin-karp": NameRabinKarp,
	"rabinkarp":  NameRabinKarp,
}

// Lookup resolves a matcher by name or alias, case-insensitively.
// Underscores and spaces are treated as hyphens.
func Lookup(name string) (Matcher, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	key = strings.NewReplacer("_", "-", " ", "-").Replace(key)

	canonical, ok := aliases[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q (use boyer-moore, kmp, or rabin-karp)", ErrUnknownMatcher, name)
	}

	for _, m := range Default() {
		if m.Name() == canonical {
			return m, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownMatcher, name)
}

// LookupAll resolves a list of names, preserving order.
// Duplicate names are collapsed to their first occurrence.
func LookupAll(names []string) ([]Matcher, error) {
	seen := make(map[string]bool, len(names))
	out := make([]Matcher, 0, len(names))
	for _, n := range names {
		m, err := Lookup(n)
		if err != nil {
			return nil, err
		}
		if seen[m.Name()] {
			continue
		}
		seen[m.Name()] = true
		out = append(out, m)
	}
	return out, nil
}
