package matcher

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRabinKarp_Validation(t *testing.T) {
	tests := []struct {
		name    string
		base    uint64
		mod     uint64
		wantErr error
	}{
		{"defaults", DefaultBase, DefaultModulus, nil},
		{"tiny modulus", 256, 2, nil},
		{"wide base", 65536, DefaultModulus, nil},
		{"base below alphabet", 255, DefaultModulus, ErrInvalidBase},
		{"modulus zero", 256, 0, ErrInvalidModulus},
		{"modulus one", 256, 1, ErrInvalidModulus},
		{"modulus overflows", 256, math.MaxUint64, ErrInvalidModulus},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rk, err := NewRabinKarp(tt.base, tt.mod)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, rk)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.base, rk.Base())
			assert.Equal(t, tt.mod, rk.Modulus())
		})
	}
}

func TestRabinKarp_RejectsCollisionUnderDefaultModulus(t *testing.T) {
	// Given: two distinct 4-byte windows whose values differ by exactly the
	// modulus (0x3B9ACA08 = 1 + 1_000_000_007)
	pattern := "\x00\x00\x00\x01"
	text := "\x3b\x9a\xca\x08"

	rk, err := NewRabinKarp(DefaultBase, DefaultModulus)
	require.NoError(t, err)
	require.Equal(t, rk.Sum(pattern), rk.Sum(text), "fixture must collide")
	require.NotEqual(t, pattern, text)

	// Then: verification rejects the window
	assert.Equal(t, NotFound, RabinKarp(text, pattern))
	assert.Equal(t, NotFound, rk.Index(text, pattern))

	// And: a real occurrence after the collision is still found
	assert.Equal(t, 4, RabinKarp(text+pattern, pattern))
}

func TestRabinKarp_RejectsEveryCollisionUnderTinyModulus(t *testing.T) {
	// Given: modulus 2 with an even base, so the hash is the parity of the
	// last byte and most windows collide
	rk, err := NewRabinKarp(256, 2)
	require.NoError(t, err)

	text := "xxcdxxcd"
	pattern := "ab"
	require.Equal(t, rk.Sum(pattern), rk.Sum("xx"))
	require.Equal(t, rk.Sum(pattern), rk.Sum("cd"))

	// Then: no false positive is reported
	assert.Equal(t, NotFound, rk.Index(text, pattern))

	// And: real matches are still found and agree with the default matcher
	for _, tc := range []struct{ text, pattern string }{
		{"abracadabra", "cad"},
		{"aaaaaa", "aaa"},
		{"xxcdxxab", "ab"},
	} {
		assert.Equal(t, KMP(tc.text, tc.pattern), rk.Index(tc.text, tc.pattern))
	}
}

func TestRabinKarp_RollingHashMatchesDirectHash(t *testing.T) {
	// Given: the rolling update applied across a text
	rk, err := NewRabinKarp(DefaultBase, DefaultModulus)
	require.NoError(t, err)
	text := "the quick brown fox jumps over the lazy dog"
	m := 7

	lead := powMod(rk.base, uint64(m-1), rk.mod)
	th := rk.Sum(text[:m])

	for i := 0; i+m < len(text); i++ {
		th = (th + rk.mod - mulMod(uint64(text[i]), lead, rk.mod)) % rk.mod
		th = (th*rk.base + uint64(text[i+m])) % rk.mod

		// Then: every rolled hash equals the hash computed from scratch
		require.Equal(t, rk.Sum(text[i+1:i+1+m]), th, "window %d", i+1)
	}
}

func TestRabinKarp_HighBytesDoNotOverflow(t *testing.T) {
	// Given: text made of 0xFF bytes, the largest per-step products
	text := "\xff\xff\xff\xff\xff\xff\xff\xff\xfe"
	pattern := "\xff\xfe"

	assert.Equal(t, 7, RabinKarp(text, pattern))

	// And: a wide base stays correct at the overflow boundary
	limit := (uint64(math.MaxUint64) - 255) / 65536
	rk, err := NewRabinKarp(65536, limit+1)
	require.NoError(t, err)
	assert.Equal(t, 7, rk.Index(text, pattern))
}

func TestPowMod(t *testing.T) {
	assert.Equal(t, uint64(1), powMod(256, 0, DefaultModulus))
	assert.Equal(t, uint64(256), powMod(256, 1, DefaultModulus))
	assert.Equal(t, uint64(65536), powMod(256, 2, DefaultModulus))
	assert.Equal(t, uint64(16777216), powMod(256, 3, DefaultModulus))
	// 256^4 = 4294967296 = 4*1_000_000_007 + 294967268
	assert.Equal(t, uint64(294967268), powMod(256, 4, DefaultModulus))
	assert.Equal(t, uint64(0), powMod(5, 3, 1))
}

func TestRabinKarpMatcher_String(t *testing.T) {
	assert.Equal(t, "Rabin-Karp(base=256, mod=1000000007)", defaultRabinKarp.String())
	assert.Equal(t, NameRabinKarp, defaultRabinKarp.Name())
}
