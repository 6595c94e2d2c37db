package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/randomtoy/oracle-go/internal/domain"
	"github.com/randomtoy/oracle-go/internal/ports"
)

// lastDraw remembers the most recent card and its message for a chat, so
// /share and /banish can act on it later.
type lastDraw struct {
	card string
	ref  ports.MessageRef
}

// OracleService orchestrates draws, shares and banishments. The last-draw
// cache is capacity-bounded; chats evicted from it simply lose their
// share/banish handle until the next draw.
type OracleService struct {
	deck     ports.DeckStore
	messenger ports.Messenger
	animator *Animator
	share    ports.ShareRenderer
	rng      domain.RNG
	logger   *slog.Logger

	mu   sync.Mutex
	last *boundedMap[int64, lastDraw]
}

func NewOracleService(deck ports.DeckStore, messenger ports.Messenger, animator *Animator, share ports.ShareRenderer, rng domain.RNG, capacity int, logger *slog.Logger) *OracleService {
	return &OracleService{
		deck:     deck,
		messenger: messenger,
		animator: animator,
		share:    share,
		rng:      rng,
		logger:   logger,
		last:     newBoundedMap[int64, lastDraw](capacity),
	}
}

// Draw picks a random card and plays a full reveal animation in the chat.
// An empty deck short-circuits to the instructional sentinel text; no
// frame is constructed.
func (s *OracleService) Draw(ctx context.Context, chatID int64) error {
	card, err := s.drawCard(ctx)
	if errors.Is(err, domain.ErrDeckEmpty) {
		_, err = s.messenger.SendMessage(ctx, chatID, domain.EmptyDeckMessage, ports.SendOptions{})
		if err != nil {
			return fmt.Errorf("send empty-deck notice: %w", err)
		}
		return nil
	}
	if err != nil {
		return err
	}

	s.rememberCard(chatID, card)

	ref, err := s.animator.Reveal(ctx, chatID, card)
	if ref != (ports.MessageRef{}) {
		s.rememberRef(chatID, ref)
	}
	if err != nil {
		return fmt.Errorf("draw: %w", err)
	}
	return nil
}

// Share renders the chat's most recent card as an image and delivers it
// as a photo. The renderer is pinged as "uploading" first because the
// render plus upload can take a moment.
func (s *OracleService) Share(ctx context.Context, chatID int64) error {
	s.mu.Lock()
	ld, ok := s.last.get(chatID)
	s.mu.Unlock()
	if !ok || ld.card == "" {
		return domain.ErrNoLastCard
	}

	_ = s.messenger.PresencePing(ctx, chatID, ports.PingUploadPhoto)

	path, err := s.share.Render(ctx, ld.card, chatID)
	if err != nil {
		return fmt.Errorf("render share image: %w", err)
	}
	if err := s.messenger.SendPhoto(ctx, chatID, path, ld.card); err != nil {
		return fmt.Errorf("send share photo: %w", err)
	}
	return nil
}

// Banish deletes the chat's current card message. A message that is
// already gone counts as banished.
func (s *OracleService) Banish(ctx context.Context, chatID int64) error {
	s.mu.Lock()
	ld, ok := s.last.get(chatID)
	s.mu.Unlock()
	if !ok || ld.ref == (ports.MessageRef{}) {
		return domain.ErrNoLastCard
	}

	err := s.messenger.DeleteMessage(ctx, ld.ref)
	if err != nil && !errors.Is(err, domain.ErrMessageGone) {
		return fmt.Errorf("banish: %w", err)
	}
	return nil
}

// PreviewResult is a draw without a chat: the card and its final frame.
type PreviewResult struct {
	Card  string
	Frame string
}

// Preview draws a card and builds its settled frame without animating or
// touching any chat. Used by the HTTP surface.
func (s *OracleService) Preview(ctx context.Context) (PreviewResult, error) {
	card, err := s.drawCard(ctx)
	if err != nil {
		return PreviewResult{}, err
	}

	style := domain.RandomStyle(s.rng)
	width := domain.ComputeInnerWidth(card)
	lines := domain.WrapText(card, width)
	padTop, padBottom := domain.ComputeSquarePadding(width, len(lines))

	return PreviewResult{
		Card:  card,
		Frame: domain.BuildFrame(lines, style, width, padTop, padBottom),
	}, nil
}

// LastCard returns the most recent card drawn for a chat, if any.
func (s *OracleService) LastCard(chatID int64) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ld, ok := s.last.get(chatID)
	if !ok || ld.card == "" {
		return "", false
	}
	return ld.card, true
}

func (s *OracleService) drawCard(ctx context.Context) (string, error) {
	cards, err := s.deck.Cards(ctx)
	if err != nil {
		return "", fmt.Errorf("load deck: %w", err)
	}
	return domain.DrawCard(cards, s.rng)
}

func (s *OracleService) rememberCard(chatID int64, card string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ld, _ := s.last.get(chatID)
	ld.card = card
	s.last.put(chatID, ld)
}

func (s *OracleService) rememberRef(chatID int64, ref ports.MessageRef) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ld, _ := s.last.get(chatID)
	ld.ref = ref
	s.last.put(chatID, ld)
}
