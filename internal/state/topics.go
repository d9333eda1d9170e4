package state

import "weblarek/internal/model"

// Topics emitted by AppState.
const (
	TopicItemsChanged         = "items:changed"
	TopicBasketChanged        = "basket:changed"
	TopicPreviewChanged       = "preview:changed"
	TopicAddressErrorsChanged = "order-address-errors:changed"
	TopicContactErrorsChanged = "order-contact-errors:changed"
)

// CatalogChanged is the payload of TopicItemsChanged.
type CatalogChanged struct {
	Catalog []model.Product
}
