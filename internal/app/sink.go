package app

import (
	"context"
	"errors"
	"sync"

	"github.com/randomtoy/oracle-go/internal/domain"
	"github.com/randomtoy/oracle-go/internal/ports"
)

// frameOptions is how every animation frame is delivered: fixed-width and
// carrying the draw-again button.
var frameOptions = ports.SendOptions{Preformatted: true, Keyboard: true}

// RenderSink suppresses redundant display writes. It remembers the last
// text successfully written per message and skips edits that would not
// change anything; the channel's own "not modified" signal is likewise
// swallowed. Any other edit failure propagates and aborts the enclosing
// reveal. The cache is capacity-bounded with oldest-entry eviction.
type RenderSink struct {
	messenger ports.Messenger

	mu   sync.Mutex
	last *boundedMap[ports.MessageRef, string]
}

func NewRenderSink(messenger ports.Messenger, capacity int) *RenderSink {
	return &RenderSink{
		messenger: messenger,
		last:      newBoundedMap[ports.MessageRef, string](capacity),
	}
}

// Write edits the message to show text, unless text matches the last
// successful write for this message.
func (s *RenderSink) Write(ctx context.Context, ref ports.MessageRef, text string) error {
	s.mu.Lock()
	last, ok := s.last.get(ref)
	s.mu.Unlock()
	if ok && last == text {
		return nil
	}

	err := s.messenger.EditMessage(ctx, ref, text, frameOptions)
	if errors.Is(err, domain.ErrNotModified) {
		return nil
	}
	if err != nil {
		return err
	}

	s.Record(ref, text)
	return nil
}

// Record seeds the cache with text already on display, e.g. the initial
// blank frame delivered by SendMessage rather than an edit.
func (s *RenderSink) Record(ref ports.MessageRef, text string) {
	s.mu.Lock()
	s.last.put(ref, text)
	s.mu.Unlock()
}
