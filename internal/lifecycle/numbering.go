package lifecycle

import (
	"fmt"
	"regexp"
	"strconv"
)

var trailingDigits = regexp.MustCompile(`(\d+)$`)

// NextReceiptNo derives the next receipt number for a branch from the
// branch's most recent one: the trailing numeric run is incremented and
// rendered with a 4-digit minimum width behind the branch code. A missing or
// unparsable latest number starts the sequence at 1. Callers serialize
// through the store's write path, so sequential calls are strictly
// increasing.
func NextReceiptNo(branchCode, latest string) string {
	seq := 1
	if latest != "" {
		if m := trailingDigits.FindStringSubmatch(latest); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil {
				seq = n + 1
			}
		}
	}
	return fmt.Sprintf("%s%04d", branchCode, seq)
}
