// Package service implements the order flow: registration progress,
// finalization, and the operator approval round trip.
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/chartak/orderbot/internal/logger"
	"github.com/chartak/orderbot/internal/model"
	"github.com/chartak/orderbot/internal/repository"
	"github.com/chartak/orderbot/internal/session"
	"log/slog"
)

const menuHintText = "Yangi buyurtma berish uchun \"🍴 Menyu\" tugmasini bosing."

// OrderService coordinates sessions, persistence, and notifications.
type OrderService struct {
	store        repository.Store
	sessions     session.Manager
	notifier     Notifier
	operatorChat int64
}

// NewOrderService wires the order service dependencies.
func NewOrderService(store repository.Store, sessions session.Manager, notifier Notifier, operatorChat int64) *OrderService {
	return &OrderService{
		store:        store,
		sessions:     sessions,
		notifier:     notifier,
		operatorChat: operatorChat,
	}
}

// Finalize converts the session cart plus a complete registration into a
// durable pending order and starts the approval round trip. It is refused
// outright when no cart is held, which also guards against a stale
// trigger duplicating an order right after a successful finalization.
func (s *OrderService) Finalize(ctx context.Context, chatID int64, customerName string) (model.Order, error) {
	// Claim the cart before any I/O: concurrent triggers race on this
	// update and only one of them sees a cart. The loser is refused with
	// ErrNoActiveCart instead of duplicating the order.
	var sess session.Session
	s.sessions.Update(chatID, func(se *session.Session) {
		sess = *se
		se.Cart = nil
	})
	if sess.Cart == nil || len(sess.Cart.Lines) == 0 {
		return model.Order{}, ErrNoActiveCart
	}
	unclaim := func() {
		s.sessions.Update(chatID, func(se *session.Session) {
			if se.Cart == nil {
				se.Cart = sess.Cart
			}
		})
	}

	user, err := s.store.FindUserByTelegramID(ctx, chatID)
	if errors.Is(err, repository.ErrNotFound) {
		unclaim()
		return model.Order{}, ErrUnknownUser
	}
	if err != nil {
		unclaim()
		return model.Order{}, fmt.Errorf("finalize user lookup: %w", err)
	}

	phone := user.Phone
	if phone == "" {
		phone = sess.Phone
	}

	order := model.Order{
		UserID:         user.ID,
		Phone:          phone,
		TotalAmount:    sess.Cart.TotalAmount,
		CustomerChatID: chatID,
	}
	for _, line := range sess.Cart.Lines {
		order.Items = append(order.Items, model.OrderItem{
			Name:     line.Name,
			Quantity: line.Quantity,
			Price:    line.UnitPrice,
		})
	}

	if err := s.store.CreateOrder(ctx, &order); err != nil {
		unclaim()
		return model.Order{}, fmt.Errorf("create order: %w", err)
	}

	// The order exists from the user's perspective once created; delivery
	// problems past this point are logged, never rolled back.
	summary := operatorSummary(order, customerName, sess)
	if err := s.notifier.SendOrderRequest(ctx, s.operatorChat, summary, order.ID, chatID); err != nil {
		logger.SVCOrders.Error("operator notification failed",
			slog.String("event", "order.notify_operator"),
			slog.Int64("order_id", order.ID),
			slog.String("err", err.Error()),
		)
	}
	if sess.Address.Kind() == session.AddressCoordinates {
		lat, lon := sess.Address.Coords()
		if err := s.notifier.SendLocation(ctx, s.operatorChat, lat, lon); err != nil {
			logger.SVCOrders.Error("location forward failed",
				slog.String("event", "order.forward_location"),
				slog.Int64("order_id", order.ID),
				slog.String("err", err.Error()),
			)
		}
	}
	if err := s.notifier.SendText(ctx, chatID, customerConfirmation(order)); err != nil {
		logger.SVCOrders.Error("customer confirmation failed",
			slog.String("event", "order.confirm"),
			slog.Int64("order_id", order.ID),
			slog.String("err", err.Error()),
		)
	}

	// The cart was already claimed; only the gate needs resetting.
	s.sessions.Update(chatID, func(se *session.Session) {
		se.LastAction = session.ActionMenu
	})
	if err := s.notifier.SendMainMenu(ctx, chatID, menuHintText); err != nil {
		logger.SVCOrders.Warn("menu re-present failed",
			slog.String("event", "order.menu"),
			slog.Int64("order_id", order.ID),
			slog.String("err", err.Error()),
		)
	}

	logger.SVCOrders.Info("order finalized",
		slog.String("event", "order.finalize"),
		slog.String("rid", logger.RIDFrom(ctx)),
		slog.Int64("order_id", order.ID),
		slog.Int64("chat_id", chatID),
		slog.Int64("total", order.TotalAmount),
	)
	return order, nil
}

// Accept resolves a pending order as accepted and notifies the requester.
func (s *OrderService) Accept(ctx context.Context, orderID int64) (model.Order, error) {
	return s.resolve(ctx, orderID, model.OrderStatusAccepted)
}

// Reject resolves a pending order as rejected and notifies the requester.
func (s *OrderService) Reject(ctx context.Context, orderID int64) (model.Order, error) {
	return s.resolve(ctx, orderID, model.OrderStatusRejected)
}

func (s *OrderService) resolve(ctx context.Context, orderID int64, status model.OrderStatus) (model.Order, error) {
	order, err := s.store.UpdateOrderStatus(ctx, orderID, status)
	if errors.Is(err, repository.ErrNotFound) {
		return model.Order{}, ErrOrderNotFound
	}
	if err != nil {
		return model.Order{}, fmt.Errorf("resolve order %d: %w", orderID, err)
	}

	if err := s.notifier.SendText(ctx, order.CustomerChatID, statusMessage(order)); err != nil {
		logger.SVCOrders.Error("status notification failed",
			slog.String("event", "order.notify_status"),
			slog.Int64("order_id", order.ID),
			slog.String("status", string(order.Status)),
			slog.String("err", err.Error()),
		)
	}
	return order, nil
}

// CustomerPhone is the read-only contact-requester lookup. It never
// changes order state and may be called any number of times.
func (s *OrderService) CustomerPhone(ctx context.Context, customerChatID int64) (string, error) {
	user, err := s.store.FindUserByTelegramID(ctx, customerChatID)
	if errors.Is(err, repository.ErrNotFound) {
		return "", ErrUnknownUser
	}
	if err != nil {
		return "", fmt.Errorf("customer lookup: %w", err)
	}
	return user.Phone, nil
}

// RegisterContact stores a freshly shared phone both in the session and
// durably on the user record.
func (s *OrderService) RegisterContact(ctx context.Context, chatID int64, name, phone string) error {
	s.sessions.Update(chatID, func(se *session.Session) {
		se.Phone = phone
	})
	if err := s.store.UpsertUser(ctx, chatID, name, phone); err != nil {
		return fmt.Errorf("register contact: %w", err)
	}
	return nil
}

// StartConversation resets the session and ensures the user record exists.
func (s *OrderService) StartConversation(ctx context.Context, chatID int64, name string) error {
	s.sessions.Reset(chatID)
	s.sessions.Update(chatID, func(se *session.Session) {
		se.LastAction = session.ActionRegistration
	})
	if err := s.store.UpsertUser(ctx, chatID, name, ""); err != nil {
		return fmt.Errorf("start conversation: %w", err)
	}
	return nil
}
