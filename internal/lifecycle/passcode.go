package lifecycle

import (
	"crypto/rand"
	"math/big"
	"strings"
)

const passcodeLen = 6

// NewPasscode returns a random 6-digit pickup code. Assigned once at ticket
// creation and never rotated.
func NewPasscode() string {
	digits := make([]byte, passcodeLen)
	for i := range digits {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			digits[i] = '0'
			continue
		}
		digits[i] = byte('0' + n.Int64())
	}
	return string(digits)
}

// VerifyPasscode trims surrounding whitespace from the presented code and
// compares exactly. The code is a low-sensitivity pickup token, not a
// credential, so it is stored and compared in the clear.
func VerifyPasscode(stored, presented string) bool {
	return strings.TrimSpace(presented) == strings.TrimSpace(stored)
}
