// Package repository persists users and orders. The bot consumes it as a
// plain create/read/update record store.
package repository

import (
	"context"
	"errors"

	"github.com/chartak/orderbot/internal/model"
)

// ErrNotFound is returned when a lookup matches no row, including a
// conditional status update that finds no pending order.
var ErrNotFound = errors.New("repository: not found")

// Store is the persistence contract consumed by the order service.
type Store interface {
	FindUserByTelegramID(ctx context.Context, telegramID int64) (model.User, error)
	// UpsertUser creates the user on first contact. Empty name or phone
	// never overwrites a stored value.
	UpsertUser(ctx context.Context, telegramID int64, name, phone string) error
	// CreateOrder inserts the order and its items in one transaction and
	// fills in the assigned identifier.
	CreateOrder(ctx context.Context, order *model.Order) error
	// UpdateOrderStatus transitions a pending order to the given status.
	// It returns ErrNotFound when the order does not exist or has already
	// left pending, so a resolved order can never transition again.
	UpdateOrderStatus(ctx context.Context, orderID int64, status model.OrderStatus) (model.Order, error)
	FindOrder(ctx context.Context, orderID int64) (model.Order, error)
}
