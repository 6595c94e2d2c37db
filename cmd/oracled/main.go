package main

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/randomtoy/oracle-go/internal/adapters/decks"
	httpadapter "github.com/randomtoy/oracle-go/internal/adapters/http"
	"github.com/randomtoy/oracle-go/internal/adapters/profiles/sqlite"
	"github.com/randomtoy/oracle-go/internal/adapters/share"
	"github.com/randomtoy/oracle-go/internal/adapters/telegram"
	"github.com/randomtoy/oracle-go/internal/app"
	"github.com/randomtoy/oracle-go/internal/bot"
	"github.com/randomtoy/oracle-go/internal/config"
)

// stdRNG delegates to math/rand/v2 (auto-seeded).
type stdRNG struct{}

func (stdRNG) Intn(n int) int   { return rand.IntN(n) }
func (stdRNG) Float64() float64 { return rand.Float64() }

// stdSleeper sleeps in real time, waking early on cancellation.
type stdSleeper struct{}

func (stdSleeper) Sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	deckStore := decks.NewFileStore(cfg.DeckFile)

	profileStore, err := sqlite.Open(cfg.ProfileDB)
	if err != nil {
		logger.Error("open profile store", "error", err)
		os.Exit(1)
	}
	defer profileStore.Close()

	shareRenderer, err := share.NewRenderer(cfg.ShareDir, cfg.ShareBackground, cfg.ShareFont, logger)
	if err != nil {
		logger.Error("create share renderer", "error", err)
		os.Exit(1)
	}

	messenger := telegram.NewClient(
		&http.Client{Timeout: cfg.TelegramTimeout},
		cfg.BotToken,
		cfg.TelegramBaseURL,
		logger,
	)

	rng := stdRNG{}
	sleeper := stdSleeper{}

	sink := app.NewRenderSink(messenger, cfg.EditCacheSize)
	animator := app.NewAnimator(sink, messenger, sleeper, rng, app.DefaultPacing())
	svc := app.NewOracleService(deckStore, messenger, animator, shareRenderer, rng, cfg.LastCardSize, logger)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(httpadapter.RequestIDMiddleware())
	e.Use(httpadapter.LoggingMiddleware(logger))
	httpadapter.NewHandler(svc, shareRenderer).Register(e)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go func() {
		logger.Info("starting http server", "addr", cfg.HTTPAddr)
		if err := e.Start(cfg.HTTPAddr); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	if cfg.BotEnabled() {
		oracle := bot.New(messenger, svc, profileStore, sleeper, logger)
		go func() {
			logger.Info("starting bot poll loop")
			if err := oracle.Run(ctx); err != nil && ctx.Err() == nil {
				logger.Error("bot error", "error", err)
			}
		}()
	} else {
		logger.Warn("BOT_TOKEN not set, serving http only")
	}

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
}
