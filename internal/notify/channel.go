package notify

// ChannelOpener hands a deep link to the host OS. OpenDeepLink targets the
// installed desktop application; OpenWebLink is the public web fallback.
type ChannelOpener interface {
	OpenDeepLink(link string) error
	OpenWebLink(link string) error
}

// Clipboard stages text in the system-wide clipboard. It is a single shared
// resource; the dispatcher serializes access to it.
type Clipboard interface {
	Set(text string) error
}

// AssistDriver drives the external application's window during an assisted
// send: focusing it and injecting the paste/confirm keystrokes.
type AssistDriver interface {
	// FocusWindow attempts to bring the messaging window to the foreground
	// and reports whether it succeeded.
	FocusWindow() bool
	// PasteAndConfirm injects a paste keystroke and, when confirm is set,
	// an enter keystroke into the focused window.
	PasteAndConfirm(confirm bool) error
}
