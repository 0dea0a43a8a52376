package lifecycle

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNextReceiptNo(t *testing.T) {
	t.Run("first receipt for a branch", func(t *testing.T) {
		assert.Equal(t, "A0001", NextReceiptNo("A", ""))
	})

	t.Run("increments the trailing numeric run", func(t *testing.T) {
		assert.Equal(t, "A0002", NextReceiptNo("A", "A0001"))
		assert.Equal(t, "A0100", NextReceiptNo("A", "A0099"))
	})

	t.Run("keeps widths above four digits", func(t *testing.T) {
		assert.Equal(t, "A10000", NextReceiptNo("A", "A9999"))
	})

	t.Run("numeric branch codes fold into the run", func(t *testing.T) {
		// the trailing run spans the whole number when the code is numeric
		assert.Equal(t, "110002", NextReceiptNo("1", "10001"))
	})

	t.Run("falls back to 1 on unparsable input", func(t *testing.T) {
		assert.Equal(t, "A0001", NextReceiptNo("A", "no-digits-here"))
	})

	t.Run("sequential calls are strictly increasing", func(t *testing.T) {
		prev := ""
		var prevSeq int
		for i := 0; i < 20; i++ {
			next := NextReceiptNo("B", prev)
			seq := 0
			for _, ch := range next[1:] {
				seq = seq*10 + int(ch-'0')
			}
			assert.Greater(t, seq, prevSeq)
			prev, prevSeq = next, seq
		}
	})
}
