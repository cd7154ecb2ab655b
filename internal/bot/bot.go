// Package bot wires the Telegram transport: update routing, keyboards,
// middleware, and outbound delivery for the order flow.
package bot

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	tele "gopkg.in/telebot.v4"

	"github.com/chartak/orderbot/config"
	"github.com/chartak/orderbot/internal/bot/sender"
	"github.com/chartak/orderbot/internal/cart"
	"github.com/chartak/orderbot/internal/catalog"
	"github.com/chartak/orderbot/internal/logger"
	"github.com/chartak/orderbot/internal/repository"
	"github.com/chartak/orderbot/internal/service"
	"github.com/chartak/orderbot/internal/session"
	"log/slog"
)

// Bot is the assembled Telegram application.
type Bot struct {
	tb       *tele.Bot
	dispatch *sender.Dispatcher
	cfg      *config.Config
	svc      *service.OrderService
}

// New builds the bot: transport, dispatcher, service, and routes.
func New(cfg *config.Config, store repository.Store, sessions session.Manager, cat *catalog.Catalog) (*Bot, error) {
	buildStart := time.Now()
	tb, err := tele.NewBot(tele.Settings{
		Token:  cfg.Telegram.Token,
		Poller: buildPoller(cfg),
		Client: buildHTTPClient(),
	})
	if err != nil {
		return nil, fmt.Errorf("bot initialization failed: %w", err)
	}

	dispatch := sender.NewDispatcher(sender.Options{})
	notifier := newTeleNotifier(tb, dispatch, cfg.Shop.WebAppURL)
	svc := service.NewOrderService(store, sessions, notifier, cfg.Telegram.OperatorChatID)

	h := &handlers{
		svc:          svc,
		sessions:     sessions,
		carts:        cart.NewReconciler(cat),
		operatorChat: cfg.Telegram.OperatorChatID,
		webAppURL:    cfg.Shop.WebAppURL,
		contactText:  cfg.Shop.ContactText,
	}

	tb.Use(recoverMiddleware)
	tb.Use(loggerMiddleware)
	if cfg.RateLimit.IntervalMS > 0 {
		exclude := make(map[string]struct{}, len(cfg.RateLimit.ExcludeUpdates))
		for _, kind := range cfg.RateLimit.ExcludeUpdates {
			exclude[kind] = struct{}{}
		}
		tb.Use(rateLimitMiddleware(rateLimitOptions{
			Interval: time.Duration(cfg.RateLimit.IntervalMS) * time.Millisecond,
			Exclude:  exclude,
		}))
	}
	tb.Use(serializeMiddleware())

	tb.Handle("/start", h.onStart)
	tb.Handle(tele.OnContact, h.onContact)
	tb.Handle(tele.OnLocation, h.onLocation)
	tb.Handle(tele.OnWebApp, h.onWebApp)
	tb.Handle(tele.OnText, h.onText)
	tb.Handle(tele.OnCallback, h.onCallback)

	logger.TG.Info("bot built",
		slog.String("event", "tg.build"),
		slog.String("mode", cfg.Telegram.RunMode),
		slog.Duration("duration", logger.RoundMS(time.Since(buildStart))),
	)
	return &Bot{tb: tb, dispatch: dispatch, cfg: cfg, svc: svc}, nil
}

// Start runs the bot until the context is cancelled, then stops the poller
// and drains the outbound queue.
func (b *Bot) Start(ctx context.Context) error {
	if b.cfg.Telegram.RunMode == config.RunModeLongpoll {
		if err := deleteWebhook(b.cfg.Telegram.Token, false); err != nil {
			logger.TG.Warn("failed to delete webhook",
				slog.String("event", "tg.delete_webhook"),
				slog.String("err", err.Error()),
			)
		}
	}

	runDone := make(chan struct{})
	go func() {
		b.tb.Start()
		close(runDone)
	}()
	logger.TG.Info("bot started", slog.String("event", "tg.start"))

	var runErr error
	select {
	case <-ctx.Done():
		b.tb.Stop()
		<-runDone
		runErr = ctx.Err()
	case <-runDone:
	}

	b.dispatch.Close()
	logger.TG.Info("bot stopped",
		slog.String("event", "tg.stop"),
		slog.Uint64("send_errors", b.dispatch.ErrorCount()),
	)

	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		return runErr
	}
	return nil
}

// deleteWebhook clears a leftover webhook so long polling can receive
// updates again.
func deleteWebhook(token string, dropPending bool) error {
	if strings.TrimSpace(token) == "" {
		return fmt.Errorf("empty token")
	}
	url := fmt.Sprintf("https://api.telegram.org/bot%s/deleteWebhook", token)
	body := "drop_pending_updates=false"
	if dropPending {
		body = "drop_pending_updates=true"
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, strings.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("deleteWebhook status: %s", resp.Status)
	}
	return nil
}
