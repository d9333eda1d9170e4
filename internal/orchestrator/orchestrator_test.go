package orchestrator

import (
	"context"
	"errors"
	"testing"

	"weblarek/internal/events"
	"weblarek/internal/model"
	"weblarek/internal/state"
	"weblarek/internal/validation"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockClient is a mock implementation of Client.
type MockClient struct {
	mock.Mock
}

func (m *MockClient) FetchCatalog(ctx context.Context) ([]model.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Product), args.Error(1)
}

func (m *MockClient) SubmitOrder(ctx context.Context, order model.Order) (*model.OrderResult, error) {
	args := m.Called(ctx, order)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.OrderResult), args.Error(1)
}

// fakeView records what the orchestrator asked it to show.
type fakeView struct {
	calls         []string
	catalog       []model.Product
	basket        []model.Product
	total         float64
	counter       int
	preview       *model.Product
	inBasket      bool
	orderValid    bool
	orderErrors   []string
	contactsValid bool
	contactErrors []string
	success       *model.OrderResult
	err           error
}

func (v *fakeView) RenderCatalog(items []model.Product) {
	v.calls = append(v.calls, "RenderCatalog")
	v.catalog = items
}

func (v *fakeView) RenderBasket(items []model.Product, total float64) {
	v.calls = append(v.calls, "RenderBasket")
	v.basket = items
	v.total = total
}

func (v *fakeView) SetCounter(count int) {
	v.calls = append(v.calls, "SetCounter")
	v.counter = count
}

func (v *fakeView) ShowPreview(item model.Product, inBasket bool) {
	v.calls = append(v.calls, "ShowPreview")
	v.preview = &item
	v.inBasket = inBasket
}

func (v *fakeView) ShowBasket() { v.calls = append(v.calls, "ShowBasket") }

func (v *fakeView) ShowOrderForm(model.Order) { v.calls = append(v.calls, "ShowOrderForm") }

func (v *fakeView) ShowContactsForm(model.Order) { v.calls = append(v.calls, "ShowContactsForm") }

func (v *fakeView) SetOrderFormState(valid bool, errs []string) {
	v.calls = append(v.calls, "SetOrderFormState")
	v.orderValid = valid
	v.orderErrors = errs
}

func (v *fakeView) SetContactsFormState(valid bool, errs []string) {
	v.calls = append(v.calls, "SetContactsFormState")
	v.contactsValid = valid
	v.contactErrors = errs
}

func (v *fakeView) ShowSuccess(result model.OrderResult) {
	v.calls = append(v.calls, "ShowSuccess")
	v.success = &result
}

func (v *fakeView) ShowError(err error) {
	v.calls = append(v.calls, "ShowError")
	v.err = err
}

func (v *fakeView) CloseModal() {
	v.calls = append(v.calls, "CloseModal")
	v.preview = nil
}

func (v *fakeView) last() string {
	if len(v.calls) == 0 {
		return ""
	}
	return v.calls[len(v.calls)-1]
}

type fixture struct {
	bus    *events.Bus
	store  *state.AppState
	client *MockClient
	view   *fakeView
	orch   *Orchestrator
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	logger := zerolog.Nop()
	bus := events.NewBus()
	store := state.New(bus, logger)
	client := new(MockClient)
	view := &fakeView{}

	orch := New(bus, store, client, view, InlineRunner{Ctx: context.Background()}, logger)
	orch.Bind()
	t.Cleanup(orch.Close)

	return &fixture{bus: bus, store: store, client: client, view: view, orch: orch}
}

func product(id string, price float64) model.Product {
	return model.Product{ID: id, Title: "Product " + id, Price: model.PriceOf(price)}
}

func (f *fixture) fillCheckout(t *testing.T) {
	t.Helper()
	f.bus.Emit(TopicPaymentSelected, "card")
	f.bus.Emit(TopicAddressEdited, "Main St")
	f.bus.Emit(TopicEmailEdited, "a@b.c")
	f.bus.Emit(TopicPhoneEdited, "+7 900 000 00 00")
}

func TestOrchestrator_Start_LoadsCatalog(t *testing.T) {
	f := newFixture(t)
	items := []model.Product{product("A", 100), product("B", 200)}
	f.client.On("FetchCatalog", mock.Anything).Return(items, nil)

	f.orch.Start()

	assert.Equal(t, items, f.view.catalog)
	assert.Equal(t, items, f.store.Catalog())
	assert.Equal(t, 0, f.view.counter)
	f.client.AssertExpectations(t)
}

func TestOrchestrator_Start_FetchFailureKeepsCatalog(t *testing.T) {
	f := newFixture(t)
	f.store.SetCatalog([]model.Product{product("A", 100)})
	f.client.On("FetchCatalog", mock.Anything).Return(nil, errors.New("connection refused")).Once()

	f.orch.Start()

	assert.Len(t, f.store.Catalog(), 1)
	assert.Equal(t, "ShowError", f.view.last())
	f.client.AssertNumberOfCalls(t, "FetchCatalog", 1)
}

func TestOrchestrator_CatalogRefreshTopic(t *testing.T) {
	f := newFixture(t)
	f.client.On("FetchCatalog", mock.Anything).Return([]model.Product{product("A", 1)}, nil)

	f.bus.Emit(TopicCatalogRefresh, nil)

	assert.Len(t, f.view.catalog, 1)
}

func TestOrchestrator_SelectAndAdd(t *testing.T) {
	f := newFixture(t)
	a := product("A", 100)

	f.bus.Emit(TopicProductSelected, a)
	require.NotNil(t, f.view.preview)
	assert.Equal(t, "A", f.view.preview.ID)
	assert.False(t, f.view.inBasket)

	f.bus.Emit(TopicProductAdded, a)

	assert.True(t, f.store.InBasket("A"))
	assert.Equal(t, 1, f.view.counter)
	assert.Equal(t, 100.0, f.view.total)
	assert.Equal(t, "CloseModal", f.view.last())
	_, previewing := f.store.Preview()
	assert.False(t, previewing)

	f.bus.Emit(TopicProductSelected, &a)
	assert.True(t, f.view.inBasket)
}

func TestOrchestrator_PricelessNotAdded(t *testing.T) {
	f := newFixture(t)

	f.bus.Emit(TopicProductAdded, model.Product{ID: "P", Title: "Priceless"})

	assert.Equal(t, 0, f.store.BasketCount())
	assert.NotContains(t, f.view.calls, "RenderBasket")
}

func TestOrchestrator_RemoveFromPreviewAndBasket(t *testing.T) {
	f := newFixture(t)
	a, b := product("A", 100), product("B", 200)
	f.bus.Emit(TopicProductAdded, a)
	f.bus.Emit(TopicProductAdded, b)

	f.bus.Emit(TopicProductSelected, a)
	f.bus.Emit(TopicProductRemoved, a)
	assert.False(t, f.store.InBasket("A"))
	assert.Equal(t, "CloseModal", f.view.last())

	f.bus.Emit(TopicBasketOpened, nil)
	assert.Equal(t, "ShowBasket", f.view.last())
	f.bus.Emit(TopicProductRemoved, "B")

	assert.Equal(t, 0, f.store.BasketCount())
	assert.Equal(t, 0.0, f.view.total)
	assert.Equal(t, 0, f.view.counter)
	assert.Equal(t, "SetCounter", f.view.last())
}

func TestOrchestrator_CheckoutIgnoredForEmptyBasket(t *testing.T) {
	f := newFixture(t)

	f.bus.Emit(TopicCheckoutStarted, nil)

	assert.NotContains(t, f.view.calls, "ShowOrderForm")
}

func TestOrchestrator_AddressStep(t *testing.T) {
	f := newFixture(t)
	f.bus.Emit(TopicProductAdded, product("A", 100))

	f.bus.Emit(TopicCheckoutStarted, nil)
	assert.Contains(t, f.view.calls, "ShowOrderForm")
	assert.False(t, f.view.orderValid)
	assert.Empty(t, f.view.orderErrors, "no messages before the user edits")

	f.bus.Emit(TopicAddressEdited, "Main St")
	assert.False(t, f.view.orderValid)
	assert.Equal(t, []string{validation.MsgPaymentRequired}, f.view.orderErrors)

	f.bus.Emit(TopicPaymentSelected, model.PaymentCash)
	assert.True(t, f.view.orderValid)
	assert.Empty(t, f.view.orderErrors)

	f.bus.Emit(TopicStep1Submitted, nil)
	assert.Contains(t, f.view.calls, "ShowContactsForm")
	assert.False(t, f.view.contactsValid)
}

func TestOrchestrator_Step1BlockedWhileInvalid(t *testing.T) {
	f := newFixture(t)
	f.bus.Emit(TopicProductAdded, product("A", 100))

	f.bus.Emit(TopicStep1Submitted, nil)

	assert.NotContains(t, f.view.calls, "ShowContactsForm")
	assert.Equal(t, []string{validation.MsgPaymentRequired, validation.MsgAddressRequired}, f.view.orderErrors)
}

func TestOrchestrator_UnknownPayment(t *testing.T) {
	tests := []struct {
		name    string
		payload any
	}{
		{name: "unknown string", payload: "barter"},
		{name: "unknown method", payload: model.PaymentMethod("crypto")},
		{name: "empty string", payload: ""},
		{name: "wrong payload type", payload: 42},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.bus.Emit(TopicPaymentSelected, model.PaymentCard)
			f.view.calls = nil

			f.bus.Emit(TopicPaymentSelected, tt.payload)

			assert.Equal(t, []string{"ShowError"}, f.view.calls)
			assert.ErrorIs(t, f.view.err, model.ErrUnknownPayment)
			assert.Equal(t, model.PaymentCard, f.store.Order().Payment)
		})
	}
}

func TestOrchestrator_ContactFieldsViaPattern(t *testing.T) {
	f := newFixture(t)

	f.bus.Emit(TopicEmailEdited, "a@b.c")
	assert.Equal(t, []string{validation.MsgPhoneRequired}, f.view.contactErrors)

	f.bus.Emit(TopicPhoneEdited, "+7")
	assert.True(t, f.view.contactsValid)

	order := f.store.Order()
	assert.Equal(t, "a@b.c", order.Email)
	assert.Equal(t, "+7", order.Phone)
}

func TestOrchestrator_SubmitOrder_Success(t *testing.T) {
	f := newFixture(t)
	f.bus.Emit(TopicProductAdded, product("A", 100))
	f.bus.Emit(TopicProductAdded, product("B", 200))
	f.fillCheckout(t)

	expected := model.Order{
		Payment: model.PaymentCard,
		Address: "Main St",
		Email:   "a@b.c",
		Phone:   "+7 900 000 00 00",
		Total:   300,
		Items:   []string{"A", "B"},
	}
	result := &model.OrderResult{ID: "order-1", Total: 300}
	f.client.On("SubmitOrder", mock.Anything, expected).Return(result, nil).Once()

	f.bus.Emit(TopicStep2Submitted, nil)

	require.NotNil(t, f.view.success)
	assert.Equal(t, *result, *f.view.success)
	assert.Equal(t, 2, f.store.BasketCount(), "basket kept until the success screen is dismissed")

	f.bus.Emit(TopicSuccessDismissed, nil)

	assert.Equal(t, 0, f.store.BasketCount())
	assert.Equal(t, model.EmptyOrder(), f.store.Order())
	assert.Equal(t, 0, f.view.counter)
	assert.Equal(t, "CloseModal", f.view.last())
	f.client.AssertExpectations(t)
}

func TestOrchestrator_SubmitOrder_ModalCloseCompletesOrder(t *testing.T) {
	f := newFixture(t)
	f.bus.Emit(TopicProductAdded, product("A", 100))
	f.fillCheckout(t)
	f.client.On("SubmitOrder", mock.Anything, mock.AnythingOfType("model.Order")).
		Return(&model.OrderResult{ID: "order-2", Total: 100}, nil)

	f.bus.Emit(TopicStep2Submitted, nil)
	f.bus.Emit(TopicModalClosed, nil)

	assert.Equal(t, 0, f.store.BasketCount())

	// A later close without a placed order keeps the basket.
	f.bus.Emit(TopicProductAdded, product("B", 5))
	f.bus.Emit(TopicModalClosed, nil)
	assert.Equal(t, 1, f.store.BasketCount())
}

func TestOrchestrator_SubmitOrder_FailureKeepsState(t *testing.T) {
	f := newFixture(t)
	f.bus.Emit(TopicProductAdded, product("A", 100))
	f.fillCheckout(t)
	transportErr := errors.New("connection reset")
	f.client.On("SubmitOrder", mock.Anything, mock.AnythingOfType("model.Order")).Return(nil, transportErr).Once()

	f.bus.Emit(TopicStep2Submitted, nil)

	assert.Equal(t, "ShowError", f.view.last())
	assert.ErrorIs(t, f.view.err, transportErr)
	assert.Nil(t, f.view.success)
	assert.Equal(t, 1, f.store.BasketCount())
	order := f.store.Order()
	assert.Equal(t, "Main St", order.Address)
	assert.Equal(t, "a@b.c", order.Email)

	f.bus.Emit(TopicModalClosed, nil)
	assert.Equal(t, 1, f.store.BasketCount())
	f.client.AssertNumberOfCalls(t, "SubmitOrder", 1)
}

func TestOrchestrator_Step2BlockedWhileInvalid(t *testing.T) {
	f := newFixture(t)
	f.bus.Emit(TopicProductAdded, product("A", 100))
	f.bus.Emit(TopicEmailEdited, "a@b.c")

	f.bus.Emit(TopicStep2Submitted, nil)

	f.client.AssertNotCalled(t, "SubmitOrder", mock.Anything, mock.Anything)
	assert.Equal(t, []string{validation.MsgPhoneRequired}, f.view.contactErrors)
}

// deferredRunner holds work until flushed, like a UI loop would.
type deferredRunner struct {
	pending []func(ctx context.Context) func()
}

func (r *deferredRunner) Run(work func(ctx context.Context) func()) {
	r.pending = append(r.pending, work)
}

func (r *deferredRunner) flush() {
	for len(r.pending) > 0 {
		work := r.pending[0]
		r.pending = r.pending[1:]
		if apply := work(context.Background()); apply != nil {
			apply()
		}
	}
}

func TestOrchestrator_SubmitOrder_SingleInFlight(t *testing.T) {
	logger := zerolog.Nop()
	bus := events.NewBus()
	store := state.New(bus, logger)
	client := new(MockClient)
	view := &fakeView{}
	runner := &deferredRunner{}
	orch := New(bus, store, client, view, runner, logger)
	orch.Bind()
	defer orch.Close()

	bus.Emit(TopicProductAdded, product("A", 100))
	bus.Emit(TopicPaymentSelected, "cash")
	bus.Emit(TopicAddressEdited, "Main St")
	bus.Emit(TopicEmailEdited, "a@b.c")
	bus.Emit(TopicPhoneEdited, "+7")
	client.On("SubmitOrder", mock.Anything, mock.AnythingOfType("model.Order")).
		Return(&model.OrderResult{ID: "order-3", Total: 100}, nil).Once()

	bus.Emit(TopicStep2Submitted, nil)
	bus.Emit(TopicStep2Submitted, nil)
	require.Len(t, runner.pending, 1)

	runner.flush()

	client.AssertNumberOfCalls(t, "SubmitOrder", 1)
	require.NotNil(t, view.success)
}

func TestOrchestrator_Close_Unsubscribes(t *testing.T) {
	f := newFixture(t)

	f.orch.Close()
	f.bus.Emit(TopicProductAdded, product("A", 100))

	assert.Equal(t, 0, f.store.BasketCount())
	assert.Equal(t, 0, f.bus.HandlerCount(TopicProductAdded))
}
