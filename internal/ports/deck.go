package ports

import "context"

// DeckStore provides the card deck: one card per line, deduplicated.
type DeckStore interface {
	Cards(ctx context.Context) ([]string, error)
}
