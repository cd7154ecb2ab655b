package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chartak/orderbot/internal/session"
)

func TestNextStepPriority(t *testing.T) {
	delivery := func(addr session.DeliveryAddress) session.Session {
		return session.Session{OrderType: session.OrderTypeDelivery, Address: addr}
	}

	cases := []struct {
		name  string
		phone string
		sess  session.Session
		want  Step
	}{
		{"nothing known", "", session.Session{}, StepPhone},
		{"session phone counts", "", session.Session{Phone: "998900000000"}, StepOrderType},
		{"phone on file, no type", "998900000000", session.Session{}, StepOrderType},
		{"delivery without address", "998900000000", delivery(session.NoAddress()), StepAddress},
		{"delivery with text address", "998900000000", delivery(session.FreeText("Navoiy 12")), StepComplete},
		{"delivery with location", "998900000000", delivery(session.Coordinates(41, 71)), StepComplete},
		{"pickup never needs address", "998900000000", session.Session{OrderType: session.OrderTypePickup}, StepComplete},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, NextStep(tc.phone, tc.sess))
		})
	}
}

func TestNextStepAddressOnlyMissing(t *testing.T) {
	// A profile missing only the address must always get the address
	// request, never the phone or order-type prompt.
	sess := session.Session{OrderType: session.OrderTypeDelivery}
	for i := 0; i < 5; i++ {
		assert.Equal(t, StepAddress, NextStep("998946777590", sess))
	}
}

func TestRegistrationStepArmsLocationGate(t *testing.T) {
	svc, store, _, sessions := newService(t)
	registerCustomer(t, store)
	sessions.Update(customerChat, func(s *session.Session) {
		s.OrderType = session.OrderTypeDelivery
	})

	step, err := svc.RegistrationStep(context.Background(), customerChat)
	require.NoError(t, err)
	assert.Equal(t, StepAddress, step)
	assert.Equal(t, session.ActionWaitingLocation, sessions.Snapshot(customerChat).LastAction)

	// Re-evaluation is idempotent.
	step, err = svc.RegistrationStep(context.Background(), customerChat)
	require.NoError(t, err)
	assert.Equal(t, StepAddress, step)
}

func TestRegistrationStepUnknownUserAsksPhone(t *testing.T) {
	svc, _, _, _ := newService(t)
	step, err := svc.RegistrationStep(context.Background(), customerChat)
	require.NoError(t, err)
	assert.Equal(t, StepPhone, step)
}
