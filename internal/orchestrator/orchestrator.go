// Package orchestrator connects view events to the application state and
// routes state changes back to the view.
package orchestrator

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"weblarek/internal/events"
	"weblarek/internal/model"
	"weblarek/internal/state"
	"weblarek/internal/validation"

	"github.com/rs/zerolog"
)

// Bus is the event bus the orchestrator subscribes to.
type Bus interface {
	Subscribe(matcher events.Matcher, handler events.Handler) events.Subscription
	SubscribeAll(handler events.Handler) events.Subscription
	Unsubscribe(sub events.Subscription)
	Emit(topic string, payload any)
}

// Client is the shop API as seen by the storefront.
type Client interface {
	FetchCatalog(ctx context.Context) ([]model.Product, error)
	SubmitOrder(ctx context.Context, order model.Order) (*model.OrderResult, error)
}

// View renders what the orchestrator tells it to.
type View interface {
	RenderCatalog(items []model.Product)
	RenderBasket(items []model.Product, total float64)
	SetCounter(count int)
	ShowPreview(item model.Product, inBasket bool)
	ShowBasket()
	ShowOrderForm(order model.Order)
	ShowContactsForm(order model.Order)
	SetOrderFormState(valid bool, errors []string)
	SetContactsFormState(valid bool, errors []string)
	ShowSuccess(result model.OrderResult)
	ShowError(err error)
	CloseModal()
}

// Orchestrator wires the storefront together.
type Orchestrator struct {
	bus    Bus
	store  *state.AppState
	client Client
	view   View
	runner Runner
	logger zerolog.Logger

	subs       []events.Subscription
	submitting bool
	placed     *model.OrderResult
}

// New creates an orchestrator. Call Bind before emitting view events.
func New(bus Bus, store *state.AppState, client Client, view View, runner Runner, logger zerolog.Logger) *Orchestrator {
	return &Orchestrator{
		bus:    bus,
		store:  store,
		client: client,
		view:   view,
		runner: runner,
		logger: logger.With().Str("component", "orchestrator").Logger(),
	}
}

// Bind registers all subscriptions.
func (o *Orchestrator) Bind() {
	o.subs = append(o.subs, o.bus.SubscribeAll(o.trace))

	o.on(state.TopicItemsChanged, o.onItemsChanged)
	o.on(state.TopicBasketChanged, o.onBasketChanged)
	o.on(state.TopicPreviewChanged, o.onPreviewChanged)
	o.on(state.TopicAddressErrorsChanged, o.onAddressErrors)
	o.on(state.TopicContactErrorsChanged, o.onContactErrors)

	o.on(TopicProductSelected, o.onProductSelected)
	o.on(TopicProductAdded, o.onProductAdded)
	o.on(TopicProductRemoved, o.onProductRemoved)
	o.on(TopicBasketOpened, o.onBasketOpened)
	o.on(TopicCheckoutStarted, o.onCheckoutStarted)
	o.on(TopicPaymentSelected, o.onPaymentSelected)
	o.on(TopicAddressEdited, o.onAddressEdited)
	o.subs = append(o.subs, o.bus.Subscribe(
		events.Pattern(regexp.MustCompile(contactFieldTopics)),
		o.onContactEdited,
	))
	o.on(TopicStep1Submitted, o.onStep1Submitted)
	o.on(TopicStep2Submitted, o.onStep2Submitted)
	o.on(TopicSuccessDismissed, o.onSuccessDismissed)
	o.on(TopicModalClosed, o.onModalClosed)
	o.on(TopicCatalogRefresh, func(string, any) { o.LoadCatalog() })
}

// Close removes every subscription made by Bind.
func (o *Orchestrator) Close() {
	for _, sub := range o.subs {
		o.bus.Unsubscribe(sub)
	}
	o.subs = nil
}

// Start performs the initial catalogue fetch.
func (o *Orchestrator) Start() {
	o.LoadCatalog()
}

// LoadCatalog fetches the catalogue once. A failure is logged and leaves the
// current catalogue in place.
func (o *Orchestrator) LoadCatalog() {
	o.runner.Run(func(ctx context.Context) func() {
		items, err := o.client.FetchCatalog(ctx)
		return func() {
			if err != nil {
				o.logger.Error().Err(err).Msg("failed to load catalogue")
				o.view.ShowError(err)
				return
			}
			o.store.SetCatalog(items)
		}
	})
}

func (o *Orchestrator) on(topic string, handler events.Handler) {
	o.subs = append(o.subs, o.bus.Subscribe(events.Exact(topic), handler))
}

func (o *Orchestrator) trace(topic string, payload any) {
	o.logger.Debug().Str("topic", topic).Str("payload_type", fmt.Sprintf("%T", payload)).Msg("event")
}

func (o *Orchestrator) onItemsChanged(_ string, payload any) {
	changed, ok := payload.(state.CatalogChanged)
	if !ok {
		changed = state.CatalogChanged{Catalog: o.store.Catalog()}
	}
	o.view.RenderCatalog(changed.Catalog)
	o.view.SetCounter(o.store.BasketCount())
}

func (o *Orchestrator) onBasketChanged(string, any) {
	o.view.RenderBasket(o.store.Basket(), o.store.Total())
	o.view.SetCounter(o.store.BasketCount())
}

func (o *Orchestrator) onPreviewChanged(_ string, payload any) {
	item, _ := payload.(*model.Product)
	if item == nil {
		o.view.CloseModal()
		return
	}
	o.view.ShowPreview(*item, o.store.InBasket(item.ID))
}

func (o *Orchestrator) onAddressErrors(_ string, payload any) {
	errs, _ := payload.(model.FormErrors)
	o.view.SetOrderFormState(validation.Valid(errs), validation.Messages(errs))
}

func (o *Orchestrator) onContactErrors(_ string, payload any) {
	errs, _ := payload.(model.FormErrors)
	o.view.SetContactsFormState(validation.Valid(errs), validation.Messages(errs))
}

func (o *Orchestrator) onProductSelected(_ string, payload any) {
	item, ok := productPayload(payload)
	if !ok {
		o.logger.Warn().Str("payload_type", fmt.Sprintf("%T", payload)).Msg("product selection without product")
		return
	}
	o.store.SetPreview(&item)
}

func (o *Orchestrator) onProductAdded(_ string, payload any) {
	item, ok := productPayload(payload)
	if !ok {
		return
	}
	if item.Priceless() {
		o.logger.Warn().Str("product_id", item.ID).Msg("priceless product cannot be added to the basket")
		return
	}
	o.store.AddToBasket(item)
	o.store.SetPreview(nil)
}

func (o *Orchestrator) onProductRemoved(_ string, payload any) {
	var id string
	switch v := payload.(type) {
	case string:
		id = v
	default:
		item, ok := productPayload(payload)
		if !ok {
			return
		}
		id = item.ID
	}

	o.store.RemoveFromBasket(id)
	if previewed, ok := o.store.Preview(); ok && previewed == id {
		o.store.SetPreview(nil)
	}
}

func (o *Orchestrator) onBasketOpened(string, any) {
	if _, ok := o.store.Preview(); ok {
		o.store.SetPreview(nil)
	}
	o.view.RenderBasket(o.store.Basket(), o.store.Total())
	o.view.ShowBasket()
}

func (o *Orchestrator) onCheckoutStarted(string, any) {
	if o.store.BasketCount() == 0 {
		o.logger.Debug().Msg("checkout ignored for an empty basket")
		return
	}
	order := o.store.Order()
	o.view.ShowOrderForm(order)
	o.view.SetOrderFormState(validation.Valid(validation.Address(order)), nil)
}

func (o *Orchestrator) onPaymentSelected(_ string, payload any) {
	var (
		method model.PaymentMethod
		err    error
	)
	switch v := payload.(type) {
	case model.PaymentMethod:
		method, err = model.ParsePaymentMethod(string(v))
	case string:
		method, err = model.ParsePaymentMethod(v)
	default:
		err = model.ErrUnknownPayment
	}
	if err == nil {
		err = o.store.SetPaymentMethod(method)
	}

	if err != nil {
		o.logger.Error().Err(err).Str("payment", fmt.Sprint(payload)).Msg("payment selection rejected")
		o.view.ShowError(err)
	}
}

func (o *Orchestrator) onAddressEdited(_ string, payload any) {
	value, _ := payload.(string)
	o.store.SetAddress(value)
}

func (o *Orchestrator) onContactEdited(topic string, payload any) {
	value, _ := payload.(string)
	field := strings.TrimSuffix(topic, "-edited")
	if err := o.store.SetContactField(field, value); err != nil {
		o.logger.Error().Err(err).Str("field", field).Msg("contact edit rejected")
	}
}

func (o *Orchestrator) onStep1Submitted(string, any) {
	if !validation.Valid(validation.Address(o.store.Order())) {
		o.store.ValidateAddress()
		return
	}
	order := o.store.Order()
	o.view.ShowContactsForm(order)
	o.view.SetContactsFormState(validation.Valid(validation.Contact(order)), nil)
}

func (o *Orchestrator) onStep2Submitted(string, any) {
	if !validation.Valid(validation.Contact(o.store.Order())) {
		o.store.ValidateContact()
		return
	}
	if o.submitting {
		o.logger.Debug().Msg("order submission already in flight")
		return
	}

	order := o.store.SnapshotOrder()
	if len(order.Items) == 0 {
		o.view.ShowError(model.ErrEmptyOrder)
		return
	}

	o.submitting = true
	o.logger.Info().
		Int("item_count", len(order.Items)).
		Float64("total", order.Total).
		Msg("submitting order")

	o.runner.Run(func(ctx context.Context) func() {
		result, err := o.client.SubmitOrder(ctx, order)
		return func() {
			o.submitting = false
			if err != nil {
				o.logger.Error().Err(err).Msg("order submission failed")
				o.view.ShowError(err)
				return
			}
			o.placed = result
			o.view.ShowSuccess(*result)
		}
	})
}

func (o *Orchestrator) onSuccessDismissed(string, any) {
	o.completeOrder()
	o.view.CloseModal()
}

func (o *Orchestrator) onModalClosed(string, any) {
	if _, ok := o.store.Preview(); ok {
		o.store.SetPreview(nil)
	}
	o.completeOrder()
}

// completeOrder clears the basket once a placed order has been acknowledged.
func (o *Orchestrator) completeOrder() {
	if o.placed == nil {
		return
	}
	o.logger.Info().Str("order_id", o.placed.ID).Msg("order completed, clearing basket")
	o.placed = nil
	o.store.ClearBasket()
}

func productPayload(payload any) (model.Product, bool) {
	switch v := payload.(type) {
	case model.Product:
		return v, v.ID != ""
	case *model.Product:
		if v == nil {
			return model.Product{}, false
		}
		return *v, v.ID != ""
	}
	return model.Product{}, false
}
