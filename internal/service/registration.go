package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/chartak/orderbot/internal/repository"
	"github.com/chartak/orderbot/internal/session"
)

// Step is the next piece of missing registration information.
type Step int

const (
	// StepPhone means the user still has to share a phone number.
	StepPhone Step = iota
	// StepOrderType means the delivery/pickup choice is missing.
	StepOrderType
	// StepAddress means a delivery order still lacks an address.
	StepAddress
	// StepComplete means registration is done.
	StepComplete
)

// NextStep decides which piece of information to request next. The
// priority is fixed so the conversation has one deterministic path:
// phone, then order type, then the delivery address. It is pure and
// re-entrant; callers may evaluate it after every session mutation.
func NextStep(phoneOnFile string, s session.Session) Step {
	if phoneOnFile == "" && s.Phone == "" {
		return StepPhone
	}
	if s.OrderType == session.OrderTypeUnset {
		return StepOrderType
	}
	if s.OrderType == session.OrderTypeDelivery && !s.Address.IsSet() {
		return StepAddress
	}
	return StepComplete
}

// RegistrationStep evaluates the next step for a chat, combining the
// persisted phone with the current session. Reaching StepAddress arms the
// waiting_location gate so the next location or text message is treated
// as the address answer.
func (s *OrderService) RegistrationStep(ctx context.Context, chatID int64) (Step, error) {
	sess := s.sessions.Snapshot(chatID)

	phone := ""
	user, err := s.store.FindUserByTelegramID(ctx, chatID)
	switch {
	case err == nil:
		phone = user.Phone
	case errors.Is(err, repository.ErrNotFound):
		// first contact before the upsert landed; treat as no phone
	default:
		return StepPhone, fmt.Errorf("registration lookup: %w", err)
	}

	step := NextStep(phone, sess)
	if step == StepAddress {
		s.sessions.Update(chatID, func(se *session.Session) {
			se.LastAction = session.ActionWaitingLocation
		})
	}
	return step, nil
}
