package domain

import "errors"

var (
	// ErrDeckEmpty signals that the deck has no cards to draw from.
	ErrDeckEmpty = errors.New("deck is empty")
	// ErrNoLastCard signals that no card has been drawn for a chat yet.
	ErrNoLastCard = errors.New("no card drawn for this chat")
	// ErrNotModified is the channel's "content unchanged" signal; callers
	// treat it as a successful no-op.
	ErrNotModified = errors.New("message not modified")
	// ErrMessageGone signals a delete of a message that no longer exists.
	ErrMessageGone = errors.New("message already gone")
)

// EmptyDeckMessage is shown instead of a card when the deck is empty.
const EmptyDeckMessage = "The deck is empty. Add one card per line to the deck file, then /draw."
