package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/chartak/orderbot/internal/logger"
	"github.com/chartak/orderbot/internal/model"
	"log/slog"
)

// Postgres implements Store on top of sqlx.
type Postgres struct {
	db *sqlx.DB
}

// NewPostgres wraps the given connection pool.
func NewPostgres(db *sqlx.DB) *Postgres {
	return &Postgres{db: db}
}

// FindUserByTelegramID returns the user with the given chat identity.
func (p *Postgres) FindUserByTelegramID(ctx context.Context, telegramID int64) (model.User, error) {
	var u model.User
	err := p.db.GetContext(ctx, &u,
		`SELECT id, telegram_id, name, phone, created_at
		   FROM users
		  WHERE telegram_id = $1`, telegramID)
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, ErrNotFound
	}
	if err != nil {
		return model.User{}, fmt.Errorf("find user: %w", err)
	}
	return u, nil
}

// UpsertUser creates or updates a user keyed by telegram id.
func (p *Postgres) UpsertUser(ctx context.Context, telegramID int64, name, phone string) error {
	_, err := p.db.ExecContext(ctx,
		`INSERT INTO users (telegram_id, name, phone)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (telegram_id) DO UPDATE SET
		   name  = COALESCE(NULLIF(EXCLUDED.name, ''), users.name),
		   phone = COALESCE(NULLIF(EXCLUDED.phone, ''), users.phone)`,
		telegramID, name, phone)
	if err != nil {
		return fmt.Errorf("upsert user: %w", err)
	}
	return nil
}

// CreateOrder inserts the order and its lines atomically.
func (p *Postgres) CreateOrder(ctx context.Context, order *model.Order) error {
	start := time.Now()
	tx, err := p.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin order tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	err = tx.QueryRowxContext(ctx,
		`INSERT INTO orders (user_id, phone, total_amount, status)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at`,
		order.UserID, order.Phone, order.TotalAmount, model.OrderStatusPending,
	).Scan(&order.ID, &order.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	order.Status = model.OrderStatusPending

	for i := range order.Items {
		item := &order.Items[i]
		item.OrderID = order.ID
		err = tx.QueryRowxContext(ctx,
			`INSERT INTO order_items (order_id, name, quantity, price)
			 VALUES ($1, $2, $3, $4)
			 RETURNING id`,
			item.OrderID, item.Name, item.Quantity, item.Price,
		).Scan(&item.ID)
		if err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit order: %w", err)
	}

	logger.DB.Info("order created",
		slog.String("event", "order.create"),
		slog.Int64("order_id", order.ID),
		slog.Int64("user_id", order.UserID),
		slog.Int64("total", order.TotalAmount),
		slog.Int("items", len(order.Items)),
		slog.Duration("duration", logger.Took(start)),
	)
	return nil
}

// UpdateOrderStatus atomically resolves a pending order. The WHERE clause
// is the exactly-once guarantee: an already-resolved order matches no row.
func (p *Postgres) UpdateOrderStatus(ctx context.Context, orderID int64, status model.OrderStatus) (model.Order, error) {
	var o model.Order
	err := p.db.QueryRowxContext(ctx,
		`UPDATE orders SET status = $2
		   FROM users
		  WHERE orders.id = $1
		    AND orders.status = 'pending'
		    AND users.id = orders.user_id
		 RETURNING orders.id, orders.user_id, orders.phone, orders.total_amount,
		           orders.status, orders.created_at, users.telegram_id AS customer_chat_id`,
		orderID, status,
	).StructScan(&o)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Order{}, ErrNotFound
	}
	if err != nil {
		return model.Order{}, fmt.Errorf("update order status: %w", err)
	}

	if o.Items, err = p.orderItems(ctx, o.ID); err != nil {
		return model.Order{}, err
	}

	logger.DB.Info("order resolved",
		slog.String("event", "order.status"),
		slog.Int64("order_id", o.ID),
		slog.String("status", string(o.Status)),
	)
	return o, nil
}

// FindOrder loads one order with its lines.
func (p *Postgres) FindOrder(ctx context.Context, orderID int64) (model.Order, error) {
	var o model.Order
	err := p.db.GetContext(ctx, &o,
		`SELECT o.id, o.user_id, o.phone, o.total_amount, o.status, o.created_at,
		        u.telegram_id AS customer_chat_id
		   FROM orders o
		   JOIN users u ON u.id = o.user_id
		  WHERE o.id = $1`, orderID)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Order{}, ErrNotFound
	}
	if err != nil {
		return model.Order{}, fmt.Errorf("find order: %w", err)
	}
	if o.Items, err = p.orderItems(ctx, o.ID); err != nil {
		return model.Order{}, err
	}
	return o, nil
}

func (p *Postgres) orderItems(ctx context.Context, orderID int64) ([]model.OrderItem, error) {
	var items []model.OrderItem
	err := p.db.SelectContext(ctx, &items,
		`SELECT id, order_id, name, quantity, price
		   FROM order_items
		  WHERE order_id = $1
		  ORDER BY id`, orderID)
	if err != nil {
		return nil, fmt.Errorf("load order items: %w", err)
	}
	return items, nil
}
