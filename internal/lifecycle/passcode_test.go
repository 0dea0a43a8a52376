package lifecycle

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPasscode(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		code := NewPasscode()
		assert.Len(t, code, 6)
		for _, ch := range code {
			assert.True(t, ch >= '0' && ch <= '9')
		}
		seen[code] = true
	}
	// 50 draws from a million values should essentially never all collide
	assert.Greater(t, len(seen), 1)
}

func TestVerifyPasscode(t *testing.T) {
	assert.True(t, VerifyPasscode("123456", "123456"))
	assert.True(t, VerifyPasscode("123456", "  123456 \n"))
	assert.False(t, VerifyPasscode("123456", "123457"))
	assert.False(t, VerifyPasscode("123456", ""))
	assert.False(t, VerifyPasscode("123456", "12345"))
}
