package ports

import "context"

// MessageRef identifies one message in one chat.
type MessageRef struct {
	ChatID    int64
	MessageID int
}

// PingKind is a lightweight presence signal sent before slow operations.
type PingKind string

const (
	PingTyping      PingKind = "typing"
	PingUploadPhoto PingKind = "upload_photo"
)

// SendOptions control message presentation.
type SendOptions struct {
	// Preformatted renders the text in a fixed-width block so frame
	// alignment survives the client renderer.
	Preformatted bool
	// Keyboard attaches the "draw again" button.
	Keyboard bool
}

// Messenger is the notification channel the oracle speaks through.
// EditMessage returns domain.ErrNotModified when the channel reports the
// content unchanged; DeleteMessage returns domain.ErrMessageGone when the
// message no longer exists.
type Messenger interface {
	SendMessage(ctx context.Context, chatID int64, text string, opts SendOptions) (MessageRef, error)
	EditMessage(ctx context.Context, ref MessageRef, text string, opts SendOptions) error
	DeleteMessage(ctx context.Context, ref MessageRef) error
	SendPhoto(ctx context.Context, chatID int64, path, caption string) error
	PresencePing(ctx context.Context, chatID int64, kind PingKind) error
}
