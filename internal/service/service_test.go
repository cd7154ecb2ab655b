package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chartak/orderbot/internal/cart"
	"github.com/chartak/orderbot/internal/model"
	"github.com/chartak/orderbot/internal/repository"
	"github.com/chartak/orderbot/internal/session"
)

type fakeStore struct {
	users  map[int64]model.User // keyed by telegram id
	orders map[int64]*model.Order
	nextID int64

	createCalls int
	failCreate  error

	// lookupGate, when set, parks FindUserByTelegramID until closed.
	lookupGate chan struct{}
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:  make(map[int64]model.User),
		orders: make(map[int64]*model.Order),
	}
}

func (f *fakeStore) FindUserByTelegramID(_ context.Context, telegramID int64) (model.User, error) {
	if f.lookupGate != nil {
		<-f.lookupGate
	}
	u, ok := f.users[telegramID]
	if !ok {
		return model.User{}, repository.ErrNotFound
	}
	return u, nil
}

func (f *fakeStore) UpsertUser(_ context.Context, telegramID int64, name, phone string) error {
	u, ok := f.users[telegramID]
	if !ok {
		u = model.User{ID: telegramID + 1000, TelegramID: telegramID}
	}
	if name != "" {
		u.Name = name
	}
	if phone != "" {
		u.Phone = phone
	}
	f.users[telegramID] = u
	return nil
}

func (f *fakeStore) CreateOrder(_ context.Context, order *model.Order) error {
	f.createCalls++
	if f.failCreate != nil {
		return f.failCreate
	}
	f.nextID++
	order.ID = f.nextID
	order.Status = model.OrderStatusPending
	cp := *order
	f.orders[order.ID] = &cp
	return nil
}

func (f *fakeStore) UpdateOrderStatus(_ context.Context, orderID int64, status model.OrderStatus) (model.Order, error) {
	o, ok := f.orders[orderID]
	if !ok || o.Status != model.OrderStatusPending {
		return model.Order{}, repository.ErrNotFound
	}
	o.Status = status
	return *o, nil
}

func (f *fakeStore) FindOrder(_ context.Context, orderID int64) (model.Order, error) {
	o, ok := f.orders[orderID]
	if !ok {
		return model.Order{}, repository.ErrNotFound
	}
	return *o, nil
}

type sentMessage struct {
	chatID int64
	text   string
}

type orderRequest struct {
	chatID         int64
	text           string
	orderID        int64
	customerChatID int64
}

type fakeNotifier struct {
	texts         []sentMessage
	orderRequests []orderRequest
	locations     []sentMessage
	menus         []sentMessage

	failOrderRequest error
}

func (f *fakeNotifier) SendText(_ context.Context, chatID int64, text string) error {
	f.texts = append(f.texts, sentMessage{chatID, text})
	return nil
}

func (f *fakeNotifier) SendOrderRequest(_ context.Context, chatID int64, text string, orderID, customerChatID int64) error {
	if f.failOrderRequest != nil {
		return f.failOrderRequest
	}
	f.orderRequests = append(f.orderRequests, orderRequest{chatID, text, orderID, customerChatID})
	return nil
}

func (f *fakeNotifier) SendLocation(_ context.Context, chatID int64, lat, lon float32) error {
	f.locations = append(f.locations, sentMessage{chatID, fmt.Sprintf("%v,%v", lat, lon)})
	return nil
}

func (f *fakeNotifier) SendMainMenu(_ context.Context, chatID int64, text string) error {
	f.menus = append(f.menus, sentMessage{chatID, text})
	return nil
}

const (
	customerChat = int64(777)
	operatorChat = int64(42)
)

func testCart() *cart.Cart {
	return &cart.Cart{
		Lines: []cart.Line{
			{ID: 1, Name: "Lepka", Quantity: 2, UnitPrice: 25000, LineTotal: 50000},
		},
		TotalAmount: 50000,
	}
}

func newService(t *testing.T) (*OrderService, *fakeStore, *fakeNotifier, session.Manager) {
	t.Helper()
	store := newFakeStore()
	notifier := &fakeNotifier{}
	sessions := session.NewMemoryManager()
	svc := NewOrderService(store, sessions, notifier, operatorChat)
	return svc, store, notifier, sessions
}

func registerCustomer(t *testing.T, store *fakeStore) {
	t.Helper()
	require.NoError(t, store.UpsertUser(context.Background(), customerChat, "Otabek", "998946777590"))
}

func TestFinalizeRefusedWithoutCart(t *testing.T) {
	svc, store, notifier, _ := newService(t)
	registerCustomer(t, store)

	_, err := svc.Finalize(context.Background(), customerChat, "Otabek")
	assert.ErrorIs(t, err, ErrNoActiveCart)
	assert.Zero(t, store.createCalls, "no order may be created")
	assert.Empty(t, notifier.orderRequests, "no operator message may be sent")
}

func TestFinalizeUnknownUser(t *testing.T) {
	svc, store, _, sessions := newService(t)
	sessions.Update(customerChat, func(s *session.Session) { s.Cart = testCart() })

	_, err := svc.Finalize(context.Background(), customerChat, "Otabek")
	assert.ErrorIs(t, err, ErrUnknownUser)
	assert.Zero(t, store.createCalls)
}

func TestFinalizeHappyPath(t *testing.T) {
	svc, store, notifier, sessions := newService(t)
	registerCustomer(t, store)
	sessions.Update(customerChat, func(s *session.Session) {
		s.Cart = testCart()
		s.OrderType = session.OrderTypeDelivery
		s.Address = session.FreeText("Chartak sh., Navoiy 12")
	})

	order, err := svc.Finalize(context.Background(), customerChat, "Otabek")
	require.NoError(t, err)

	assert.Equal(t, model.OrderStatusPending, order.Status)
	assert.Equal(t, int64(50000), order.TotalAmount)
	assert.Equal(t, "998946777590", order.Phone)
	assert.Equal(t, 1, store.createCalls, "exactly one order created")

	require.Len(t, notifier.orderRequests, 1, "exactly one operator notification")
	req := notifier.orderRequests[0]
	assert.Equal(t, operatorChat, req.chatID)
	assert.Equal(t, order.ID, req.orderID)
	assert.Equal(t, customerChat, req.customerChatID)
	assert.Contains(t, req.text, "Lepka | 2 ta = 50 000 so'm")
	assert.Contains(t, req.text, "JAMI: 50 000 so'm")
	assert.Contains(t, req.text, "Chartak sh., Navoiy 12")

	require.Len(t, notifier.texts, 1)
	assert.Equal(t, customerChat, notifier.texts[0].chatID)
	assert.Contains(t, notifier.texts[0].text, fmt.Sprintf("#%d", order.ID))

	require.Len(t, notifier.menus, 1, "main menu re-presented")
	assert.Empty(t, notifier.locations, "no live location to forward")

	sess := sessions.Snapshot(customerChat)
	assert.Nil(t, sess.Cart, "cart cleared after finalization")

	// A stale second trigger must not duplicate the order.
	_, err = svc.Finalize(context.Background(), customerChat, "Otabek")
	assert.ErrorIs(t, err, ErrNoActiveCart)
	assert.Equal(t, 1, store.createCalls)
}

func TestFinalizeConcurrentTriggersCreateOneOrder(t *testing.T) {
	svc, store, notifier, sessions := newService(t)
	registerCustomer(t, store)
	sessions.Update(customerChat, func(s *session.Session) {
		s.Cart = testCart()
		s.OrderType = session.OrderTypePickup
		s.Address = session.FreeText("Filialdan olib ketish")
	})

	// Hold the winner inside its user lookup so the second trigger runs
	// while the first finalization is still in flight.
	store.lookupGate = make(chan struct{})

	done := make(chan error, 2)
	for i := 0; i < 2; i++ {
		go func() {
			_, err := svc.Finalize(context.Background(), customerChat, "Otabek")
			done <- err
		}()
	}

	// The loser never reaches the store and returns first.
	first := <-done
	assert.ErrorIs(t, first, ErrNoActiveCart)

	close(store.lookupGate)
	second := <-done
	require.NoError(t, second)

	assert.Equal(t, 1, store.createCalls, "exactly one order created")
	assert.Len(t, notifier.orderRequests, 1, "exactly one operator notification")
}

func TestFinalizeRestoresCartOnCreateFailure(t *testing.T) {
	svc, store, _, sessions := newService(t)
	registerCustomer(t, store)
	store.failCreate = errors.New("pq: down")
	sessions.Update(customerChat, func(s *session.Session) {
		s.Cart = testCart()
		s.OrderType = session.OrderTypePickup
		s.Address = session.FreeText("Filialdan olib ketish")
	})

	_, err := svc.Finalize(context.Background(), customerChat, "Otabek")
	require.Error(t, err)
	assert.NotNil(t, sessions.Snapshot(customerChat).Cart, "cart kept for a retry")

	store.failCreate = nil
	_, err = svc.Finalize(context.Background(), customerChat, "Otabek")
	require.NoError(t, err)
	assert.Equal(t, 2, store.createCalls)
}

func TestFinalizeForwardsLiveLocation(t *testing.T) {
	svc, store, notifier, sessions := newService(t)
	registerCustomer(t, store)
	sessions.Update(customerChat, func(s *session.Session) {
		s.Cart = testCart()
		s.OrderType = session.OrderTypeDelivery
		s.Address = session.Coordinates(41.07, 71.82)
	})

	_, err := svc.Finalize(context.Background(), customerChat, "Otabek")
	require.NoError(t, err)

	require.Len(t, notifier.locations, 1)
	assert.Equal(t, operatorChat, notifier.locations[0].chatID)
	require.Len(t, notifier.orderRequests, 1)
	assert.Contains(t, notifier.orderRequests[0].text, "Xaritadagi lokatsiya yuborildi")
}

func TestFinalizeSurvivesOperatorNotificationFailure(t *testing.T) {
	svc, store, notifier, sessions := newService(t)
	registerCustomer(t, store)
	notifier.failOrderRequest = errors.New("telegram: 502")
	sessions.Update(customerChat, func(s *session.Session) {
		s.Cart = testCart()
		s.OrderType = session.OrderTypePickup
		s.Address = session.FreeText("Filialdan olib ketish")
	})

	order, err := svc.Finalize(context.Background(), customerChat, "Otabek")
	require.NoError(t, err, "a created order is never rolled back")
	assert.Equal(t, model.OrderStatusPending, order.Status)
	require.Len(t, notifier.texts, 1, "requester still confirmed")
}

func TestAcceptNotifiesRequesterOnce(t *testing.T) {
	svc, store, notifier, sessions := newService(t)
	registerCustomer(t, store)
	sessions.Update(customerChat, func(s *session.Session) {
		s.Cart = testCart()
		s.OrderType = session.OrderTypePickup
		s.Address = session.FreeText("Filialdan olib ketish")
	})
	order, err := svc.Finalize(context.Background(), customerChat, "Otabek")
	require.NoError(t, err)
	notifier.texts = nil

	resolved, err := svc.Accept(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusAccepted, resolved.Status)

	require.Len(t, notifier.texts, 1)
	assert.Contains(t, notifier.texts[0].text, "qabul qilindi")
}

func TestResolveIsTerminal(t *testing.T) {
	svc, store, notifier, sessions := newService(t)
	registerCustomer(t, store)
	sessions.Update(customerChat, func(s *session.Session) {
		s.Cart = testCart()
		s.OrderType = session.OrderTypePickup
		s.Address = session.FreeText("Filialdan olib ketish")
	})
	order, err := svc.Finalize(context.Background(), customerChat, "Otabek")
	require.NoError(t, err)

	_, err = svc.Reject(context.Background(), order.ID)
	require.NoError(t, err)
	notifier.texts = nil

	// Accept after reject: status stays, no new requester message.
	_, err = svc.Accept(context.Background(), order.ID)
	assert.ErrorIs(t, err, ErrOrderNotFound)

	stored, err := store.FindOrder(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusRejected, stored.Status)
	assert.Empty(t, notifier.texts)
}

func TestResolveUnknownOrder(t *testing.T) {
	svc, _, _, _ := newService(t)
	_, err := svc.Accept(context.Background(), 12345)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestCustomerPhone(t *testing.T) {
	svc, store, _, _ := newService(t)
	registerCustomer(t, store)

	phone, err := svc.CustomerPhone(context.Background(), customerChat)
	require.NoError(t, err)
	assert.Equal(t, "998946777590", phone)

	_, err = svc.CustomerPhone(context.Background(), 555)
	assert.ErrorIs(t, err, ErrUnknownUser)
}

func TestFormatSum(t *testing.T) {
	cases := map[int64]string{
		0:       "0",
		500:     "500",
		25000:   "25 000",
		50000:   "50 000",
		1234567: "1 234 567",
	}
	for in, want := range cases {
		assert.Equal(t, want, FormatSum(in), "FormatSum(%d)", in)
	}
}
