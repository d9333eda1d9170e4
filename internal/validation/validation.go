// Package validation holds the presence checks for the two checkout steps.
// The functions are pure: they read a draft order and return its errors.
package validation

import (
	"strings"

	"weblarek/internal/model"
)

// Messages shown next to the checkout forms.
const (
	MsgPaymentRequired = "payment required"
	MsgAddressRequired = "address required"
	MsgEmailRequired   = "email required"
	MsgPhoneRequired   = "phone required"
)

// fieldOrder fixes the display order of messages.
var fieldOrder = []string{
	model.FieldPayment,
	model.FieldAddress,
	model.FieldEmail,
	model.FieldPhone,
}

// Address checks the delivery step: payment method and address.
func Address(order model.Order) model.FormErrors {
	errs := model.FormErrors{}
	if !order.Payment.Valid() {
		errs[model.FieldPayment] = MsgPaymentRequired
	}
	if blank(order.Address) {
		errs[model.FieldAddress] = MsgAddressRequired
	}
	return errs
}

// Contact checks the contact step: email and phone.
func Contact(order model.Order) model.FormErrors {
	errs := model.FormErrors{}
	if blank(order.Email) {
		errs[model.FieldEmail] = MsgEmailRequired
	}
	if blank(order.Phone) {
		errs[model.FieldPhone] = MsgPhoneRequired
	}
	return errs
}

// Order checks both steps at once. Used by the shop API before accepting an order.
func Order(order model.Order) model.FormErrors {
	errs := Address(order)
	for k, v := range Contact(order) {
		errs[k] = v
	}
	return errs
}

// Valid reports whether a group produced no errors.
func Valid(errs model.FormErrors) bool {
	return len(errs) == 0
}

// Messages lists the error messages in a stable field order.
func Messages(errs model.FormErrors) []string {
	msgs := make([]string, 0, len(errs))
	for _, field := range fieldOrder {
		if msg, ok := errs[field]; ok {
			msgs = append(msgs, msg)
		}
	}
	return msgs
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
