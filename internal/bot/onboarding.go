package bot

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/randomtoy/oracle-go/internal/ports"
)

// Onboarding is a linear form: year, month, day, location. Invalid input
// re-prompts the same step and never advances.
type onboardingStep int

const (
	stepYear onboardingStep = iota
	stepMonth
	stepDay
	stepLocation
)

type conversation struct {
	userID  int64
	step    onboardingStep
	profile ports.Profile
}

func (b *Bot) startOnboarding(ctx context.Context, chatID, userID int64) {
	profile, found, err := b.profiles.Get(ctx, userID)
	if err != nil {
		b.logger.Error("load profile", "user_id", userID, "error", err)
	}
	if found && profile.Complete() {
		b.reply(ctx, chatID, "Type /draw")
		return
	}

	b.mu.Lock()
	b.conversations[chatID] = &conversation{userID: userID, step: stepYear, profile: ports.Profile{UserID: userID}}
	b.mu.Unlock()

	b.reply(ctx, chatID, "First, a small attunement.\nWhat is your year of birth?")
}

func (b *Bot) cancelOnboarding(ctx context.Context, chatID int64) {
	b.mu.Lock()
	_, active := b.conversations[chatID]
	delete(b.conversations, chatID)
	b.mu.Unlock()

	if active {
		b.reply(ctx, chatID, "Attunement dismissed. You can /start again anytime.")
	}
}

func (b *Bot) advanceOnboarding(ctx context.Context, chatID, userID int64, text string) {
	b.mu.Lock()
	conv, ok := b.conversations[chatID]
	b.mu.Unlock()
	if !ok || conv.userID != userID {
		return
	}

	input := strings.TrimSpace(text)
	switch conv.step {
	case stepYear:
		year, err := strconv.Atoi(input)
		if err != nil || year < 1900 || year > time.Now().Year() {
			b.reply(ctx, chatID, "Use 4 digits, e.g. 1990. What is your year of birth?")
			return
		}
		conv.profile.BirthYear = year
		conv.step = stepMonth
		b.reply(ctx, chatID, "And the month? (1–12)")

	case stepMonth:
		month, err := strconv.Atoi(input)
		if err != nil || month < 1 || month > 12 {
			b.reply(ctx, chatID, "Please reply with a number 1–12 for the month.")
			return
		}
		conv.profile.BirthMonth = month
		conv.step = stepDay
		b.reply(ctx, chatID, "And the day? (1–31)")

	case stepDay:
		day, err := strconv.Atoi(input)
		if err != nil || day < 1 || day > 31 {
			b.reply(ctx, chatID, "Please reply with a number 1–31 for the day.")
			return
		}
		conv.profile.BirthDay = day
		conv.step = stepLocation
		b.reply(ctx, chatID, "Where are you located? (city or place)")

	case stepLocation:
		if input == "" {
			b.reply(ctx, chatID, "Where are you located? (city or place)")
			return
		}
		conv.profile.Location = input
		if err := b.profiles.Put(ctx, conv.profile); err != nil {
			b.logger.Error("save profile", "user_id", conv.userID, "error", err)
		}

		b.mu.Lock()
		delete(b.conversations, chatID)
		b.mu.Unlock()

		b.reply(ctx, chatID, "Absorbing… adjusting.")
		_ = b.sleeper.Sleep(ctx, 600*time.Millisecond)
		b.reply(ctx, chatID, "Attunement complete. Type /draw or press the button below after your first card.")
	}
}
