package notify

import (
	"net/url"
	"strings"
)

// encode percent-encodes every reserved character, including spaces as %20,
// so the text survives both the desktop URI handler and the web fallback.
func encode(text string) string {
	return strings.ReplaceAll(url.QueryEscape(text), "+", "%20")
}

// DeepLink builds the desktop application URI for a normalized phone number.
func DeepLink(phoneDigits, text string) string {
	return "whatsapp://send?phone=" + phoneDigits + "&text=" + encode(text)
}

// WebLink is the public web equivalent of DeepLink, used when the desktop
// application cannot be launched.
func WebLink(phoneDigits, text string) string {
	return "https://wa.me/" + phoneDigits + "?text=" + encode(text)
}
