package notify

import "strings"

// NormalizePhone reduces a raw phone string to bare digits and strips an
// international "00" prefix, the form the messaging deep link expects.
func NormalizePhone(raw string) string {
	var b strings.Builder
	for _, ch := range raw {
		if ch >= '0' && ch <= '9' {
			b.WriteRune(ch)
		}
	}
	digits := b.String()
	if strings.HasPrefix(digits, "00") {
		digits = digits[2:]
	}
	return digits
}
