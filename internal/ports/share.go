package ports

import "context"

// ShareRenderer writes a share image for a card's text and returns the
// path of the produced file.
type ShareRenderer interface {
	Render(ctx context.Context, text string, chatID int64) (string, error)
}
