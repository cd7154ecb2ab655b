// Package session keeps ephemeral per-user conversation state. Nothing
// here is persisted; restarting the process restarts every conversation.
package session

import "github.com/chartak/orderbot/internal/cart"

// OrderType is the service kind the user picked.
type OrderType int

const (
	// OrderTypeUnset means the user has not chosen yet.
	OrderTypeUnset OrderType = iota
	// OrderTypeDelivery means the order is delivered to an address.
	OrderTypeDelivery
	// OrderTypePickup means the user collects the order at the branch.
	OrderTypePickup
)

// LastAction gates how the next free-form message is interpreted.
type LastAction string

const (
	// ActionMenu means no special expectation for the next message.
	ActionMenu LastAction = "menu"
	// ActionRegistration marks a conversation restarted from scratch.
	ActionRegistration LastAction = "registration"
	// ActionWaitingLocation means the next location or text message is an
	// address answer. Location messages outside this window are ignored.
	ActionWaitingLocation LastAction = "waiting_location"
)

// AddressKind discriminates the delivery address variant.
type AddressKind int

const (
	// AddressNone means no address is known.
	AddressNone AddressKind = iota
	// AddressCoordinates means the user shared a live location.
	AddressCoordinates
	// AddressFreeText means the user typed the address, or pickup preset it.
	AddressFreeText
)

// DeliveryAddress is a tagged variant: none, coordinates, or free text.
// Exactly one representation is ever set, so the stale-field ambiguity of
// keeping location and address text side by side cannot occur.
type DeliveryAddress struct {
	kind AddressKind
	lat  float32
	lon  float32
	text string
}

// NoAddress returns the empty variant.
func NoAddress() DeliveryAddress {
	return DeliveryAddress{}
}

// Coordinates returns a live-location address.
func Coordinates(lat, lon float32) DeliveryAddress {
	return DeliveryAddress{kind: AddressCoordinates, lat: lat, lon: lon}
}

// FreeText returns a typed-in address.
func FreeText(text string) DeliveryAddress {
	return DeliveryAddress{kind: AddressFreeText, text: text}
}

// Kind reports which variant is held.
func (a DeliveryAddress) Kind() AddressKind {
	return a.kind
}

// IsSet reports whether any address is known.
func (a DeliveryAddress) IsSet() bool {
	return a.kind != AddressNone
}

// Coords returns the coordinates for the AddressCoordinates variant.
func (a DeliveryAddress) Coords() (lat, lon float32) {
	return a.lat, a.lon
}

// Text returns the free-text address for the AddressFreeText variant.
func (a DeliveryAddress) Text() string {
	return a.text
}

// Session is the working state of one conversation.
type Session struct {
	// Cart holds the reconciled cart between mini-app submission and
	// finalization. The cart itself is immutable once reconciled.
	Cart *cart.Cart
	// Phone mirrors the persisted phone during the current conversation.
	Phone      string
	OrderType  OrderType
	Address    DeliveryAddress
	LastAction LastAction
}

// Initial is the fixed value every conversation starts from.
func Initial() Session {
	return Session{LastAction: ActionMenu}
}
