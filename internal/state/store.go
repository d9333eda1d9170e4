// Package state owns the storefront application data: catalogue, basket,
// draft order, form errors and the previewed product.
package state

import (
	"weblarek/internal/model"
	"weblarek/internal/validation"

	"github.com/rs/zerolog"
)

// Emitter is the part of the event bus the store needs.
type Emitter interface {
	Emit(topic string, payload any)
}

// AppState is the single owner of application data. It is not safe for
// concurrent use; all calls happen on the UI loop.
type AppState struct {
	events     Emitter
	logger     zerolog.Logger
	catalog    []model.Product
	basket     []model.Product
	order      model.Order
	preview    string
	formErrors model.FormErrors
}

// New creates an AppState with an empty draft order.
func New(events Emitter, logger zerolog.Logger) *AppState {
	return &AppState{
		events:     events,
		logger:     logger.With().Str("component", "app-state").Logger(),
		order:      model.EmptyOrder(),
		formErrors: model.FormErrors{},
	}
}

// SetCatalog replaces the catalogue. Products are de-duplicated by id and the
// first occurrence wins; products without an id are dropped.
func (s *AppState) SetCatalog(items []model.Product) {
	seen := make(map[string]struct{}, len(items))
	catalog := make([]model.Product, 0, len(items))
	for _, item := range items {
		if item.ID == "" {
			continue
		}
		if _, dup := seen[item.ID]; dup {
			s.logger.Debug().Str("product_id", item.ID).Msg("duplicate catalogue entry dropped")
			continue
		}
		seen[item.ID] = struct{}{}
		catalog = append(catalog, item)
	}
	s.catalog = catalog

	s.logger.Debug().Int("count", len(catalog)).Msg("catalogue replaced")
	s.events.Emit(TopicItemsChanged, CatalogChanged{Catalog: s.Catalog()})
}

// Catalog returns a copy of the catalogue.
func (s *AppState) Catalog() []model.Product {
	return append([]model.Product(nil), s.catalog...)
}

// AddToBasket appends item unless a product with the same id is already there.
func (s *AppState) AddToBasket(item model.Product) {
	if item.ID == "" || s.InBasket(item.ID) {
		return
	}
	s.basket = append(s.basket, item)
	s.events.Emit(TopicBasketChanged, nil)
}

// RemoveFromBasket removes the product with id. Unknown ids are ignored.
func (s *AppState) RemoveFromBasket(id string) {
	for i, item := range s.basket {
		if item.ID == id {
			s.basket = append(s.basket[:i:i], s.basket[i+1:]...)
			s.events.Emit(TopicBasketChanged, nil)
			return
		}
	}
}

// ClearBasket empties the basket and resets the draft order.
func (s *AppState) ClearBasket() {
	s.basket = nil
	s.events.Emit(TopicBasketChanged, nil)
	s.ResetOrder()
}

// Basket returns the basket contents in insertion order.
func (s *AppState) Basket() []model.Product {
	return append([]model.Product(nil), s.basket...)
}

// BasketCount returns the number of products in the basket.
func (s *AppState) BasketCount() int {
	return len(s.basket)
}

// InBasket reports whether a product with id is in the basket.
func (s *AppState) InBasket(id string) bool {
	for _, item := range s.basket {
		if item.ID == id {
			return true
		}
	}
	return false
}

// Total sums the basket prices. Priceless products are excluded.
func (s *AppState) Total() float64 {
	var total float64
	for _, item := range s.basket {
		total += item.Amount()
	}
	return total
}

// SetPreview selects the product shown in the detail view; nil clears it.
func (s *AppState) SetPreview(item *model.Product) {
	if item == nil {
		s.preview = ""
		s.events.Emit(TopicPreviewChanged, (*model.Product)(nil))
		return
	}
	selected := *item
	s.preview = selected.ID
	s.events.Emit(TopicPreviewChanged, &selected)
}

// Preview returns the id of the previewed product.
func (s *AppState) Preview() (string, bool) {
	return s.preview, s.preview != ""
}

// SnapshotOrder copies the basket ids and total into the draft order and
// returns a copy of it.
func (s *AppState) SnapshotOrder() model.Order {
	items := make([]string, len(s.basket))
	for i, item := range s.basket {
		items[i] = item.ID
	}
	s.order.Items = items
	s.order.Total = s.Total()
	return s.order.Clone()
}

// Order returns a copy of the draft order.
func (s *AppState) Order() model.Order {
	return s.order.Clone()
}

// ResetOrder puts the draft order back to its empty template.
func (s *AppState) ResetOrder() {
	s.order = model.EmptyOrder()
	s.formErrors = model.FormErrors{}
}

// SetPaymentMethod sets the payment option and revalidates the delivery step.
// Values other than card or cash are rejected with model.ErrUnknownPayment
// and leave the order untouched.
func (s *AppState) SetPaymentMethod(method model.PaymentMethod) error {
	if !method.Valid() {
		s.logger.Warn().Str("payment", string(method)).Msg("unknown payment method")
		return model.ErrUnknownPayment
	}
	s.order.Payment = method
	s.ValidateAddress()
	return nil
}

// SetAddress sets the delivery address and revalidates the delivery step.
func (s *AppState) SetAddress(value string) {
	s.order.Address = value
	s.ValidateAddress()
}

// SetEmail sets the email and revalidates the contact step.
func (s *AppState) SetEmail(value string) {
	s.order.Email = value
	s.ValidateContact()
}

// SetPhone sets the phone and revalidates the contact step.
func (s *AppState) SetPhone(value string) {
	s.order.Phone = value
	s.ValidateContact()
}

// SetContactField sets a contact step field by name.
func (s *AppState) SetContactField(field, value string) error {
	switch field {
	case model.FieldEmail:
		s.SetEmail(value)
	case model.FieldPhone:
		s.SetPhone(value)
	default:
		return model.ErrUnknownField
	}
	return nil
}

// ValidateAddress replaces the form errors with the delivery step findings
// and emits them. It reports whether the step is valid.
func (s *AppState) ValidateAddress() bool {
	s.formErrors = validation.Address(s.order)
	s.events.Emit(TopicAddressErrorsChanged, s.formErrors.Clone())
	return validation.Valid(s.formErrors)
}

// ValidateContact replaces the form errors with the contact step findings
// and emits them. It reports whether the step is valid.
func (s *AppState) ValidateContact() bool {
	s.formErrors = validation.Contact(s.order)
	s.events.Emit(TopicContactErrorsChanged, s.formErrors.Clone())
	return validation.Valid(s.formErrors)
}

// FormErrors returns the errors of the most recently validated step.
func (s *AppState) FormErrors() model.FormErrors {
	return s.formErrors.Clone()
}
