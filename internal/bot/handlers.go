package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tele "gopkg.in/telebot.v4"

	"github.com/chartak/orderbot/internal/cart"
	"github.com/chartak/orderbot/internal/logger"
	"github.com/chartak/orderbot/internal/service"
	"github.com/chartak/orderbot/internal/session"
)

// handlers holds the state shared by all update handlers.
type handlers struct {
	svc          *service.OrderService
	sessions     session.Manager
	carts        *cart.Reconciler
	operatorChat int64
	webAppURL    string
	contactText  string
}

// ctx builds a request context carrying the correlation id the logging
// middleware stored on the telebot context.
func (h *handlers) ctx(c tele.Context) context.Context {
	ctx := context.Background()
	if rid, ok := c.Get("rid").(string); ok && rid != "" {
		ctx = logger.WithRID(ctx, rid)
	}
	chatID := int64(0)
	if chat := c.Chat(); chat != nil {
		chatID = chat.ID
	}
	userID := int64(0)
	if user := c.Sender(); user != nil {
		userID = user.ID
	}
	return logger.WithUpdateMeta(ctx, c.Update().ID, userID, chatID)
}

func senderName(c tele.Context) string {
	if user := c.Sender(); user != nil {
		return user.FirstName
	}
	return ""
}

// fail shows the generic error text and propagates the error so the
// logging middleware records it.
func (h *handlers) fail(c tele.Context, err error) error {
	_ = c.Send(msgProcessingError)
	return err
}

func (h *handlers) onStart(c tele.Context) error {
	ctx := h.ctx(c)
	chatID := c.Chat().ID
	if err := h.svc.StartConversation(ctx, chatID, senderName(c)); err != nil {
		return h.fail(c, err)
	}
	return h.advance(c)
}

// advance asks for the next missing piece of registration data, or wraps
// up when nothing is missing.
func (h *handlers) advance(c tele.Context) error {
	step, err := h.svc.RegistrationStep(h.ctx(c), c.Chat().ID)
	if err != nil {
		return h.fail(c, err)
	}
	if step == service.StepComplete {
		return h.completed(c)
	}
	return h.promptStep(c, step)
}

// promptStep emits exactly one prompt for the given registration step.
func (h *handlers) promptStep(c tele.Context, step service.Step) error {
	switch step {
	case service.StepPhone:
		return c.Send(msgAskPhone, contactKeyboard())
	case service.StepOrderType:
		return c.Send(msgAskOrderType, orderTypeKeyboard())
	case service.StepAddress:
		return c.Send(msgAskAddress, locationKeyboard(), tele.ModeMarkdown)
	}
	return nil
}

// completed runs once registration has everything it needs: finalize when
// a cart is waiting, otherwise confirm and show the menu.
func (h *handlers) completed(c tele.Context) error {
	sess := h.sessions.Snapshot(c.Chat().ID)
	if sess.Cart != nil && len(sess.Cart.Lines) > 0 {
		return h.finalize(c)
	}
	return c.Send(msgInfoSaved, mainMenuKeyboard(h.webAppURL), tele.ModeMarkdown)
}

func (h *handlers) finalize(c tele.Context) error {
	_, err := h.svc.Finalize(h.ctx(c), c.Chat().ID, senderName(c))
	switch {
	case errors.Is(err, service.ErrNoActiveCart):
		return c.Send(msgCartEmpty)
	case errors.Is(err, service.ErrUnknownUser):
		return c.Send(msgUserNotFound)
	case err != nil:
		return h.fail(c, err)
	}
	return nil
}

func (h *handlers) onContact(c tele.Context) error {
	msg := c.Message()
	if msg == nil || msg.Contact == nil {
		return nil
	}
	phone := strings.TrimPrefix(msg.Contact.PhoneNumber, "+")
	if err := h.svc.RegisterContact(h.ctx(c), c.Chat().ID, senderName(c), phone); err != nil {
		return h.fail(c, err)
	}
	return h.advance(c)
}

func (h *handlers) onLocation(c tele.Context) error {
	msg := c.Message()
	if msg == nil || msg.Location == nil {
		return nil
	}
	chatID := c.Chat().ID
	if h.sessions.Snapshot(chatID).LastAction != session.ActionWaitingLocation {
		// A location shared outside the address step carries no meaning.
		return nil
	}
	loc := msg.Location
	h.sessions.Update(chatID, func(se *session.Session) {
		se.Address = session.Coordinates(loc.Lat, loc.Lng)
		se.LastAction = session.ActionMenu
	})

	if sess := h.sessions.Snapshot(chatID); sess.Cart != nil && len(sess.Cart.Lines) > 0 {
		return h.finalize(c)
	}
	return c.Send(msgAddressAccepted, mainMenuKeyboard(h.webAppURL), tele.ModeMarkdown)
}

func (h *handlers) onText(c tele.Context) error {
	text := c.Text()
	chatID := c.Chat().ID

	if h.sessions.Snapshot(chatID).LastAction == session.ActionWaitingLocation && text != btnCancel {
		h.sessions.Update(chatID, func(se *session.Session) {
			se.Address = session.FreeText(text)
			se.LastAction = session.ActionMenu
		})
		if sess := h.sessions.Snapshot(chatID); sess.Cart != nil && len(sess.Cart.Lines) > 0 {
			return h.finalize(c)
		}
		return c.Send(fmt.Sprintf(msgAddressAcceptedText, text), mainMenuKeyboard(h.webAppURL), tele.ModeMarkdown)
	}

	switch text {
	case btnRestart, btnCancel:
		return h.onStart(c)
	case btnContact:
		return c.Send(h.contactText, tele.ModeMarkdown)
	case btnViewCart:
		return c.Send(msgViewCartHint, mainMenuKeyboard(h.webAppURL))
	}
	return nil
}

// onWebApp receives the mini-app checkout payload. The payload is trusted
// only for item ids and quantities; everything else is rebuilt from the
// catalog before any of it reaches storage.
func (h *handlers) onWebApp(c tele.Context) error {
	msg := c.Message()
	if msg == nil || msg.WebAppData == nil {
		return nil
	}
	chatID := c.Chat().ID

	crt, err := h.carts.Reconcile(msg.WebAppData.Data)
	switch {
	case errors.Is(err, cart.ErrMalformedPayload):
		return c.Send(msgPayloadError)
	case errors.Is(err, cart.ErrEmptyCart):
		return c.Send(msgCartInvalid)
	case err != nil:
		return h.fail(c, err)
	}

	h.sessions.Update(chatID, func(se *session.Session) {
		se.Cart = crt
	})

	step, err := h.svc.RegistrationStep(h.ctx(c), chatID)
	if err != nil {
		return h.fail(c, err)
	}
	if step == service.StepComplete {
		return h.finalize(c)
	}
	if err := c.Send(msgCartReceived); err != nil {
		return err
	}
	return h.promptStep(c, step)
}

func (h *handlers) onCallback(c tele.Context) error {
	cb := c.Callback()
	if cb == nil {
		return nil
	}
	act, err := ParseAction(cb.Data)
	if err != nil {
		return c.Respond()
	}

	switch act.Kind {
	case ActionChooseDelivery:
		return h.chooseDelivery(c)
	case ActionChoosePickup:
		return h.choosePickup(c)
	case ActionAcceptOrder, ActionRejectOrder:
		return h.resolveOrder(c, act)
	case ActionContactCustomer:
		return h.contactCustomer(c, act)
	}
	return c.Respond()
}

func (h *handlers) chooseDelivery(c tele.Context) error {
	_ = c.Respond()
	h.sessions.Update(c.Chat().ID, func(se *session.Session) {
		se.OrderType = session.OrderTypeDelivery
	})
	// Replace the prompt in place so the choice keyboard disappears.
	if err := c.Edit(msgDeliveryChosen, tele.ModeMarkdown); err != nil {
		return err
	}
	return h.advance(c)
}

func (h *handlers) choosePickup(c tele.Context) error {
	_ = c.Respond()
	h.sessions.Update(c.Chat().ID, func(se *session.Session) {
		se.OrderType = session.OrderTypePickup
		se.Address = session.FreeText(msgPickupAddress)
		se.LastAction = session.ActionMenu
	})
	if err := c.Edit(msgPickupChosen, tele.ModeMarkdown); err != nil {
		return err
	}
	return h.advance(c)
}

// resolveOrder handles the operator's accept/reject press. Only the first
// press lands; later presses get a toast and the message stays as is.
func (h *handlers) resolveOrder(c tele.Context, act Action) error {
	if c.Chat().ID != h.operatorChat {
		return c.Respond()
	}
	ctx := h.ctx(c)

	var err error
	toast, mark := toastAccepted, statusMarkAccepted
	if act.Kind == ActionRejectOrder {
		toast, mark = toastRejected, statusMarkRejected
		_, err = h.svc.Reject(ctx, act.OrderID)
	} else {
		_, err = h.svc.Accept(ctx, act.OrderID)
	}
	if errors.Is(err, service.ErrOrderNotFound) {
		return c.Respond(&tele.CallbackResponse{Text: msgOrderResolved})
	}
	if err != nil {
		_ = c.Respond(&tele.CallbackResponse{Text: msgProcessingError})
		return err
	}

	_ = c.Respond(&tele.CallbackResponse{Text: toast})
	if msg := c.Message(); msg != nil {
		return c.Edit(msg.Text+mark, tele.ModeMarkdown)
	}
	return nil
}

func (h *handlers) contactCustomer(c tele.Context, act Action) error {
	if c.Chat().ID != h.operatorChat {
		return c.Respond()
	}
	phone, err := h.svc.CustomerPhone(h.ctx(c), act.CustomerChatID)
	if errors.Is(err, service.ErrUnknownUser) {
		return c.Respond(&tele.CallbackResponse{Text: msgUserNotFound})
	}
	if err != nil {
		_ = c.Respond(&tele.CallbackResponse{Text: msgProcessingError})
		return err
	}
	_ = c.Respond()
	return c.Send(fmt.Sprintf(msgCustomerPhone, phone))
}
