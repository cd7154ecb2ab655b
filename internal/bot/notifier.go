package bot

import (
	"context"
	"errors"

	tele "gopkg.in/telebot.v4"

	"github.com/chartak/orderbot/internal/bot/sender"
	"github.com/chartak/orderbot/internal/service"
)

// teleNotifier implements service.Notifier over the Telegram transport.
// Deliveries go through the async dispatcher; when the queue is saturated
// or closed the send falls back to the caller's goroutine so nothing is
// silently dropped.
type teleNotifier struct {
	bot       *tele.Bot
	dispatch  *sender.Dispatcher
	webAppURL string
}

var _ service.Notifier = (*teleNotifier)(nil)

func newTeleNotifier(b *tele.Bot, d *sender.Dispatcher, webAppURL string) *teleNotifier {
	return &teleNotifier{bot: b, dispatch: d, webAppURL: webAppURL}
}

func (n *teleNotifier) deliver(ctx context.Context, action string, run func() error) error {
	err := n.dispatch.Enqueue(ctx, action, run)
	if errors.Is(err, sender.ErrQueueFull) || errors.Is(err, sender.ErrQueueClosed) {
		return run()
	}
	return err
}

func (n *teleNotifier) SendText(ctx context.Context, chatID int64, text string) error {
	return n.deliver(ctx, "send_text", func() error {
		_, err := n.bot.Send(tele.ChatID(chatID), text, tele.ModeMarkdown)
		return err
	})
}

func (n *teleNotifier) SendOrderRequest(ctx context.Context, chatID int64, text string, orderID, customerChatID int64) error {
	markup := operatorKeyboard(orderID, customerChatID)
	return n.deliver(ctx, "send_order_request", func() error {
		_, err := n.bot.Send(tele.ChatID(chatID), text, markup, tele.ModeMarkdown)
		return err
	})
}

func (n *teleNotifier) SendLocation(ctx context.Context, chatID int64, lat, lon float32) error {
	loc := &tele.Location{Lat: lat, Lng: lon}
	return n.deliver(ctx, "send_location", func() error {
		_, err := n.bot.Send(tele.ChatID(chatID), loc)
		return err
	})
}

func (n *teleNotifier) SendMainMenu(ctx context.Context, chatID int64, text string) error {
	markup := mainMenuKeyboard(n.webAppURL)
	return n.deliver(ctx, "send_main_menu", func() error {
		_, err := n.bot.Send(tele.ChatID(chatID), text, markup, tele.ModeMarkdown)
		return err
	})
}
