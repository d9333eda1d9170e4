package model

// Form field names used as FormErrors keys.
const (
	FieldPayment = "payment"
	FieldAddress = "address"
	FieldEmail   = "email"
	FieldPhone   = "phone"
)

// FormErrors maps a form field name to a human-readable message.
// An empty mapping means the form group is valid.
type FormErrors map[string]string

// Clone returns a copy that is safe to hand to subscribers.
func (e FormErrors) Clone() FormErrors {
	c := make(FormErrors, len(e))
	for k, v := range e {
		c[k] = v
	}
	return c
}
