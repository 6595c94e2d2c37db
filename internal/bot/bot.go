package bot

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/randomtoy/oracle-go/internal/adapters/telegram"
	"github.com/randomtoy/oracle-go/internal/app"
	"github.com/randomtoy/oracle-go/internal/domain"
	"github.com/randomtoy/oracle-go/internal/ports"
)

// pollTimeout is the long-poll wait passed to getUpdates.
const pollTimeout = 50

// API is the slice of the Telegram client the dispatcher needs.
type API interface {
	ports.Messenger
	GetUpdates(ctx context.Context, offset, timeoutSec int) ([]telegram.Update, error)
	AnswerCallback(ctx context.Context, callbackID, text string) error
}

// Bot is the long-polling command dispatcher. Each draw runs in its own
// goroutine so a multi-second reveal never blocks the poll loop; errors
// from any handler are logged and never crash the process.
type Bot struct {
	api      API
	svc      *app.OracleService
	profiles ports.ProfileStore
	sleeper  ports.Sleeper
	logger   *slog.Logger

	mu            sync.Mutex
	conversations map[int64]*conversation

	wg sync.WaitGroup
}

func New(api API, svc *app.OracleService, profiles ports.ProfileStore, sleeper ports.Sleeper, logger *slog.Logger) *Bot {
	return &Bot{
		api:           api,
		svc:           svc,
		profiles:      profiles,
		sleeper:       sleeper,
		logger:        logger,
		conversations: make(map[int64]*conversation),
	}
}

// Run polls for updates until ctx is cancelled, then waits for in-flight
// reveals to finish their teardown.
func (b *Bot) Run(ctx context.Context) error {
	offset := 0
	for {
		updates, err := b.api.GetUpdates(ctx, offset, pollTimeout)
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			b.logger.Error("poll updates", "error", err)
			select {
			case <-ctx.Done():
			case <-time.After(2 * time.Second):
			}
			continue
		}
		for _, u := range updates {
			offset = u.UpdateID + 1
			b.handleUpdate(ctx, u)
		}
		if ctx.Err() != nil {
			break
		}
	}
	b.wg.Wait()
	return ctx.Err()
}

func (b *Bot) handleUpdate(ctx context.Context, u telegram.Update) {
	switch {
	case u.CallbackQuery != nil:
		b.handleCallback(ctx, u.CallbackQuery)
	case u.Message != nil && u.Message.Text != "":
		b.handleMessage(ctx, u.Message)
	}
}

func (b *Bot) handleMessage(ctx context.Context, msg *telegram.Message) {
	chatID := msg.Chat.ID
	var userID int64
	if msg.From != nil {
		userID = msg.From.ID
	}

	command, _, _ := strings.Cut(strings.TrimSpace(msg.Text), " ")
	switch command {
	case "/start":
		b.startOnboarding(ctx, chatID, userID)
	case "/cancel":
		b.cancelOnboarding(ctx, chatID)
	case "/draw":
		b.spawnDraw(ctx, chatID)
	case "/share":
		b.handleShare(ctx, chatID)
	case "/banish":
		b.handleBanish(ctx, chatID)
	default:
		if strings.HasPrefix(command, "/") {
			b.reply(ctx, chatID, "Unfamiliar gesture. Try /draw.")
			return
		}
		b.advanceOnboarding(ctx, chatID, userID, msg.Text)
	}
}

func (b *Bot) handleCallback(ctx context.Context, cb *telegram.CallbackQuery) {
	if cb.Data != telegram.DrawAgainCallback || cb.Message == nil {
		return
	}
	if err := b.api.AnswerCallback(ctx, cb.ID, "shuffling ✦"); err != nil {
		b.logger.Warn("answer callback", "error", err)
	}
	b.spawnDraw(ctx, cb.Message.Chat.ID)
}

// spawnDraw starts an independent reveal session for the chat. Draws on
// the same chat may interleave; each session owns its own message.
func (b *Bot) spawnDraw(ctx context.Context, chatID int64) {
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		if err := b.svc.Draw(ctx, chatID); err != nil {
			b.logger.Error("draw failed", "chat_id", chatID, "error", err)
		}
	}()
}

func (b *Bot) handleShare(ctx context.Context, chatID int64) {
	err := b.svc.Share(ctx, chatID)
	if errors.Is(err, domain.ErrNoLastCard) {
		b.reply(ctx, chatID, "Nothing to share yet. /draw first.")
		return
	}
	if err != nil {
		b.logger.Error("share failed", "chat_id", chatID, "error", err)
	}
}

func (b *Bot) handleBanish(ctx context.Context, chatID int64) {
	err := b.svc.Banish(ctx, chatID)
	if errors.Is(err, domain.ErrNoLastCard) {
		b.reply(ctx, chatID, "Nothing to banish.")
		return
	}
	if err != nil {
		b.logger.Error("banish failed", "chat_id", chatID, "error", err)
		return
	}
	b.reply(ctx, chatID, "Banished.")
}

// reply sends a plain notice, logging rather than propagating failures.
func (b *Bot) reply(ctx context.Context, chatID int64, text string) {
	if _, err := b.api.SendMessage(ctx, chatID, text, ports.SendOptions{}); err != nil {
		b.logger.Error("send reply", "chat_id", chatID, "error", err)
	}
}
