package bot

import (
	"fmt"
	"strconv"
	"strings"
)

// ActionKind enumerates the inline-button actions the bot understands.
type ActionKind int

const (
	// ActionChooseDelivery selects delivery during registration.
	ActionChooseDelivery ActionKind = iota
	// ActionChoosePickup selects pickup during registration.
	ActionChoosePickup
	// ActionAcceptOrder is the operator accepting an order.
	ActionAcceptOrder
	// ActionRejectOrder is the operator rejecting an order.
	ActionRejectOrder
	// ActionContactCustomer is the operator asking for the customer phone.
	ActionContactCustomer
)

// Action is the parsed form of a callback data string. Approval actions
// carry the order id, the contact action carries the customer chat id.
type Action struct {
	Kind           ActionKind
	OrderID        int64
	CustomerChatID int64
}

// Callback data layout, shared with the buttons built in keyboards.go.
const (
	cbTypeDelivery  = "type_delivery"
	cbTypePickup    = "type_pickup"
	cbAcceptPrefix  = "accept_"
	cbRejectPrefix  = "reject_"
	cbContactPrefix = "contact_"
)

// ParseAction decodes raw callback data into a typed action. Parsing
// happens once at the dispatch boundary; handlers never see raw strings.
func ParseAction(data string) (Action, error) {
	// Telebot prefixes callback data with "\f" for unique-tagged buttons.
	data = strings.TrimSpace(strings.TrimPrefix(data, "\f"))

	switch data {
	case cbTypeDelivery:
		return Action{Kind: ActionChooseDelivery}, nil
	case cbTypePickup:
		return Action{Kind: ActionChoosePickup}, nil
	}

	parseID := func(prefix string) (int64, error) {
		id, err := strconv.ParseInt(strings.TrimPrefix(data, prefix), 10, 64)
		if err != nil || id <= 0 {
			return 0, fmt.Errorf("bad action id in %q", data)
		}
		return id, nil
	}

	switch {
	case strings.HasPrefix(data, cbAcceptPrefix):
		id, err := parseID(cbAcceptPrefix)
		if err != nil {
			return Action{}, err
		}
		return Action{Kind: ActionAcceptOrder, OrderID: id}, nil
	case strings.HasPrefix(data, cbRejectPrefix):
		id, err := parseID(cbRejectPrefix)
		if err != nil {
			return Action{}, err
		}
		return Action{Kind: ActionRejectOrder, OrderID: id}, nil
	case strings.HasPrefix(data, cbContactPrefix):
		id, err := parseID(cbContactPrefix)
		if err != nil {
			return Action{}, err
		}
		return Action{Kind: ActionContactCustomer, CustomerChatID: id}, nil
	}
	return Action{}, fmt.Errorf("unknown callback action %q", data)
}
