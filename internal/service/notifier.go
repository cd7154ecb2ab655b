package service

import "context"

// Notifier is the outbound messaging capability the service consumes. The
// bot layer implements it over the Telegram transport; tests use fakes.
type Notifier interface {
	// SendText delivers a plain Markdown message to a chat.
	SendText(ctx context.Context, chatID int64, text string) error
	// SendOrderRequest delivers the order summary to the operator with the
	// accept/reject/contact actions for the given order attached.
	SendOrderRequest(ctx context.Context, chatID int64, text string, orderID, customerChatID int64) error
	// SendLocation forwards a live location verbatim.
	SendLocation(ctx context.Context, chatID int64, lat, lon float32) error
	// SendMainMenu delivers a message together with the main menu keyboard.
	SendMainMenu(ctx context.Context, chatID int64, text string) error
}
