package matcher

import (
	"errors"
	"fmt"
	"math"
	"math/bits"
)

const (
	// DefaultBase is the polynomial base. It must exceed every byte value.
	DefaultBase uint64 = 256

	// DefaultModulus is the prime modulus. With values kept below it,
	// (DefaultModulus-1)*DefaultBase stays far inside uint64.
	DefaultModulus uint64 = 1_000_000_007
)

var (
	// ErrInvalidBase is returned when the base cannot represent every byte.
	ErrInvalidBase = errors.New("rabin-karp base must be at least 256")

	// ErrInvalidModulus is returned when the modulus is too small or would
	// let (modulus-1)*base + 255 overflow uint64.
	ErrInvalidModulus = errors.New("rabin-karp modulus out of range")
)

var defaultRabinKarp = &RabinKarpMatcher{base: DefaultBase, mod: DefaultModulus}

// RabinKarp searches text with a rolling polynomial hash using
// DefaultBase and DefaultModulus.
func RabinKarp(text, pattern string) int {
	return defaultRabinKarp.Index(text, pattern)
}

// RabinKarpMatcher is a Rabin-Karp strategy with a fixed base and modulus.
type RabinKarpMatcher struct {
	base uint64
	mod  uint64
}

// NewRabinKarp creates a Rabin-Karp matcher with custom parameters.
//
// Every hash value is kept in [0, mod), so the only products formed are
// value*base and byte*base^(m-1) mod p; both are bounded by the overflow
// check here.
func NewRabinKarp(base, mod uint64) (*RabinKarpMatcher, error) {
	if base < alphabetSize {
		return nil, fmt.Errorf("%w, got %d", ErrInvalidBase, base)
	}
	if mod < 2 || mod-1 > (math.MaxUint64-(alphabetSize-1))/base {
		return nil, fmt.Errorf("%w: %d with base %d", ErrInvalidModulus, mod, base)
	}
	return &RabinKarpMatcher{base: base, mod: mod}, nil
}

// Name implements Matcher.
func (rk *RabinKarpMatcher) Name() string { return NameRabinKarp }

// String implements fmt.Stringer.
func (rk *RabinKarpMatcher) String() string {
	return fmt.Sprintf("%s(base=%d, mod=%d)", NameRabinKarp, rk.base, rk.mod)
}

// Base returns the polynomial base.
func (rk *RabinKarpMatcher) Base() uint64 { return rk.base }

// Modulus returns the hash modulus.
func (rk *RabinKarpMatcher) Modulus() uint64 { return rk.mod }

// Sum returns the polynomial hash of s.
func (rk *RabinKarpMatcher) Sum(s string) uint64 {
	var h uint64
	for i := 0; i < len(s); i++ {
		h = (h*rk.base + uint64(s[i])) % rk.mod
	}
	return h
}

// Index implements Matcher. A window is reported only after its bytes
// compare equal to pattern; equal hashes alone are never trusted.
func (rk *RabinKarpMatcher) Index(text, pattern string) int {
	m, n := len(pattern), len(text)
	if m == 0 {
		return 0
	}
	if m > n {
		return NotFound
	}

	base, mod := rk.base, rk.mod
	lead := powMod(base, uint64(m-1), mod)

	var ph, th uint64
	for i := 0; i < m; i++ {
		ph = (ph*base + uint64(pattern[i])) % mod
		th = (th*base + uint64(text[i])) % mod
	}

	for i := 0; i+m <= n; i++ {
		if ph == th && text[i:i+m] == pattern {
			return i
		}
		if i+m < n {
			th = (th + mod - mulMod(uint64(text[i]), lead, mod)) % mod
			th = (th*base + uint64(text[i+m])) % mod
		}
	}

	return NotFound
}

// mulMod returns a*b mod m without intermediate overflow.
func mulMod(a, b, m uint64) uint64 {
	hi, lo := bits.Mul64(a, b)
	return bits.Rem64(hi, lo, m)
}

// powMod returns base^exp mod m by square-and-multiply.
func powMod(base, exp, m uint64) uint64 {
	result := uint64(1) % m
	base %= m
	for exp > 0 {
		if exp&1 == 1 {
			result = mulMod(result, base, m)
		}
		base = mulMod(base, base, m)
		exp >>= 1
	}
	return result
}
