// Package cart rebuilds untrusted mini-app carts against the catalog.
package cart

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/chartak/orderbot/internal/catalog"
)

var (
	// ErrMalformedPayload is returned when the mini-app payload fails to
	// parse or lacks the expected shape.
	ErrMalformedPayload = errors.New("cart: malformed payload")
	// ErrEmptyCart is returned when no submitted pair survives
	// reconciliation.
	ErrEmptyCart = errors.New("cart: empty after reconciliation")
)

// Line is one reconciled position. Name and UnitPrice come from the
// catalog, never from the client.
type Line struct {
	ID        int64
	Name      string
	Quantity  int
	UnitPrice int64
	LineTotal int64
}

// Cart is the priced, authoritative cart held in the session between
// mini-app submission and finalization.
type Cart struct {
	Lines       []Line
	TotalAmount int64
}

// payload mirrors the mini-app contract. The front end also sends name
// and price fields; they are absent here on purpose so they can never
// cross the trust boundary.
type payload struct {
	Items []struct {
		ID       int64 `json:"id"`
		Quantity int   `json:"quantity"`
	} `json:"items"`
}

// Reconciler converts untrusted item/quantity pairs into a priced cart.
type Reconciler struct {
	catalog *catalog.Catalog
}

// NewReconciler builds a reconciler over the given catalog.
func NewReconciler(cat *catalog.Catalog) *Reconciler {
	return &Reconciler{catalog: cat}
}

// Reconcile parses a raw mini-app payload and rebuilds the cart from the
// catalog. Unknown ids and non-positive quantities are dropped without
// failing the batch. It is pure: the same input always yields the same
// cart.
func (r *Reconciler) Reconcile(raw string) (*Cart, error) {
	var p payload
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	if p.Items == nil {
		return nil, fmt.Errorf("%w: missing items", ErrMalformedPayload)
	}

	out := &Cart{}
	for _, pair := range p.Items {
		if pair.Quantity <= 0 {
			continue
		}
		item, ok := r.catalog.Lookup(pair.ID)
		if !ok {
			continue
		}
		line := Line{
			ID:        item.ID,
			Name:      item.Name,
			Quantity:  pair.Quantity,
			UnitPrice: item.Price,
			LineTotal: item.Price * int64(pair.Quantity),
		}
		out.Lines = append(out.Lines, line)
		out.TotalAmount += line.LineTotal
	}

	if len(out.Lines) == 0 {
		return nil, ErrEmptyCart
	}
	return out, nil
}
