package referral

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCode_Format(t *testing.T) {
	code, err := NewCode()
	require.NoError(t, err)

	assert.Len(t, code, CodeLength)
	for _, r := range code {
		assert.True(t, strings.ContainsRune(charset, r), "unexpected rune %q in code %s", r, code)
	}
	assert.Equal(t, strings.ToUpper(code), code)
}

func TestNewCode_NotConstant(t *testing.T) {
	seen := make(map[string]struct{})
	for range 100 {
		code, err := NewCode()
		require.NoError(t, err)
		seen[code] = struct{}{}
	}
	// 100 кодов из 36^8 вариантов практически не могут совпасть
	assert.Greater(t, len(seen), 95)
}
