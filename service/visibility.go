package service

import (
	"strings"
	"unicode"

	"sms-relay-api/model"
)

const maskRune = 'x'

// MaskText replaces every non-whitespace rune of the text with the mask
// character. Whitespace, including newlines, survives verbatim, so the
// shape of the message stays readable while its content does not.
func MaskText(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if unicode.IsSpace(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune(maskRune)
		}
	}
	return b.String()
}

// Visibility is the outcome of resolving an inbound message against the
// receiving line's assignment state.
type Visibility struct {
	// UserID is the owning account, nil when no account holds the line.
	UserID *string
	// Visible reports whether the owner may see the raw text. False means
	// the delivered copy must be masked.
	Visible bool
}

// ResolveVisibility decides who owns a message and whether its content may
// be shown. The rule is fail-closed: full visibility requires an active
// assignment on the line and an active account behind it. A suspended or
// pending assignment still attributes the message to its account so it
// shows up in that account's history, just masked.
func ResolveVisibility(line *model.Line) Visibility {
	if line == nil || line.UserLine == nil {
		return Visibility{}
	}

	userID := line.UserLine.UserID
	visible := line.UserLine.Status == model.UserLineStatusActive &&
		line.UserLine.UserStatus == model.UserStatusActive

	return Visibility{UserID: &userID, Visible: visible}
}
