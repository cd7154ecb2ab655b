package model

import "time"

// OrderStatus tracks the operator decision for an order.
type OrderStatus string

const (
	// OrderStatusPending marks an order awaiting the operator decision.
	OrderStatusPending OrderStatus = "pending"
	// OrderStatusAccepted marks an order the operator accepted.
	OrderStatusAccepted OrderStatus = "accepted"
	// OrderStatusRejected marks an order the operator rejected.
	OrderStatusRejected OrderStatus = "rejected"
)

// User is a registered customer. The phone stays empty until the user
// shares a contact.
type User struct {
	ID         int64     `db:"id"`
	TelegramID int64     `db:"telegram_id"`
	Name       string    `db:"name"`
	Phone      string    `db:"phone"`
	CreatedAt  time.Time `db:"created_at"`
}

// OrderItem is a line snapshotted from the reconciled cart. The catalog
// reference is not kept after creation.
type OrderItem struct {
	ID       int64  `db:"id"`
	OrderID  int64  `db:"order_id"`
	Name     string `db:"name"`
	Quantity int    `db:"quantity"`
	Price    int64  `db:"price"`
}

// Order is the durable record created by finalization. Status transitions
// exactly once after creation.
type Order struct {
	ID          int64       `db:"id"`
	UserID      int64       `db:"user_id"`
	Phone       string      `db:"phone"`
	TotalAmount int64       `db:"total_amount"`
	Status      OrderStatus `db:"status"`
	CreatedAt   time.Time   `db:"created_at"`

	// CustomerChatID is joined from users for requester notifications.
	CustomerChatID int64 `db:"customer_chat_id"`

	Items []OrderItem `db:"-"`
}
