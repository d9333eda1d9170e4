package orchestrator

// Topics the view emits into the core.
const (
	TopicProductSelected  = "product-selected"
	TopicProductAdded     = "product-added"
	TopicProductRemoved   = "product-removed"
	TopicBasketOpened     = "basket-opened"
	TopicCheckoutStarted  = "checkout-started"
	TopicPaymentSelected  = "payment-selected"
	TopicAddressEdited    = "address-edited"
	TopicEmailEdited      = "email-edited"
	TopicPhoneEdited      = "phone-edited"
	TopicStep1Submitted   = "checkout-step-1-submitted"
	TopicStep2Submitted   = "checkout-step-2-submitted"
	TopicSuccessDismissed = "success-dismissed"
	TopicModalClosed      = "modal-closed"
	TopicCatalogRefresh   = "catalog-refresh-requested"
)

// contactFieldTopics matches the contact step field edits; the field name is
// the part before "-edited".
const contactFieldTopics = `^(email|phone)-edited$`
