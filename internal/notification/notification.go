// Package notification provides cross-platform desktop notifications.
// It uses the beeep library to send notifications on macOS, Linux, and Windows.
package notification

import (
	"strings"

	"github.com/gen2brain/beeep"
	"github.com/rivo/uniseg"

	"github.com/zhubert/scrollback/internal/logger"
)

// AppName is the title of every notification.
const AppName = "scrollback"

// PreviewLength is the number of user-perceived characters kept from a
// message body.
const PreviewLength = 80

var log = logger.WithComponent("Notification")

var notifier = beeep.Notify

func init() {
	beeep.AppName = AppName
}

// SetNotifier replaces the function used to deliver notifications.
func SetNotifier(fn func(title, message string, icon any) error) {
	notifier = fn
}

// ResetNotifier restores delivery through beeep.
func ResetNotifier() {
	notifier = beeep.Notify
}

// Send sends a desktop notification with the given title and message.
// On macOS, it uses terminal-notifier or AppleScript.
// On Linux, it uses D-Bus or notify-send.
// On Windows, it uses the Windows Runtime COM API.
func Send(title, message string) error {
	log.Debug("sending notification", "title", title, "message", message)
	// Use empty string for icon - beeep handles platform defaults
	err := notifier(title, message, "")
	if err != nil {
		log.Warn("failed to send notification", "error", err)
	}
	return err
}

// MessageReceived announces a message that arrived while the terminal was
// unfocused.
func MessageReceived(author, body string) error {
	return Send(AppName, author+": "+Preview(body, PreviewLength))
}

// Preview returns the first line of body cut to at most n grapheme clusters,
// with an ellipsis when anything was dropped.
func Preview(body string, n int) string {
	body = strings.TrimSpace(body)
	first, _, multiline := strings.Cut(body, "\n")
	first = strings.TrimSpace(first)

	var b strings.Builder
	count := 0
	g := uniseg.NewGraphemes(first)
	for g.Next() {
		if count == n {
			return b.String() + "…"
		}
		b.WriteString(g.Str())
		count++
	}
	if multiline {
		return b.String() + "…"
	}
	return b.String()
}
