package model

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Payment is the payment method chosen on the order form.
type Payment string

const (
	PaymentNone Payment = ""
	PaymentCard Payment = "card"
	PaymentCash Payment = "cash"
)

// Valid reports whether p is a known payment method. The empty method is
// not valid.
func (p Payment) Valid() bool {
	return p == PaymentCard || p == PaymentCash
}

// OrderField names one field of the order draft.
type OrderField string

const (
	FieldPayment OrderField = "payment"
	FieldAddress OrderField = "address"
	FieldEmail   OrderField = "email"
	FieldPhone   OrderField = "phone"
)

// OrderFields lists the draft fields in display order.
var OrderFields = []OrderField{FieldPayment, FieldAddress, FieldEmail, FieldPhone}

// ErrUnknownField is returned for a field name outside the order draft.
var ErrUnknownField = errors.New("unknown order field")

// ParseOrderField converts a form input name to an OrderField.
func ParseOrderField(name string) (OrderField, error) {
	for _, f := range OrderFields {
		if string(f) == name {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownField, name)
}

// OrderDraft is the order being filled in across the two forms.
//
// The validate tags are checked by the application state; "phone" is a
// custom rule registered there.
type OrderDraft struct {
	Payment Payment `json:"payment" validate:"required"`
	Address string  `json:"address" validate:"required"`
	Email   string  `json:"email" validate:"required,contains=@"`
	Phone   string  `json:"phone" validate:"required,phone"`
}

// Get returns the value of field f.
func (d OrderDraft) Get(f OrderField) string {
	switch f {
	case FieldPayment:
		return string(d.Payment)
	case FieldAddress:
		return d.Address
	case FieldEmail:
		return d.Email
	case FieldPhone:
		return d.Phone
	}
	return ""
}

// Set assigns value to field f.
func (d *OrderDraft) Set(f OrderField, value string) error {
	switch f {
	case FieldPayment:
		d.Payment = Payment(value)
	case FieldAddress:
		d.Address = value
	case FieldEmail:
		d.Email = value
	case FieldPhone:
		d.Phone = value
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, f)
	}
	return nil
}

// ValidationErrors maps a field to its message. A missing key means the
// field is valid.
type ValidationErrors map[OrderField]string

// Has reports whether any of fields has an error.
func (e ValidationErrors) Has(fields ...OrderField) bool {
	for _, f := range fields {
		if _, ok := e[f]; ok {
			return true
		}
	}
	return false
}

// Join returns the messages for fields, in the given order, joined with
// sep. Valid fields are skipped.
func (e ValidationErrors) Join(sep string, fields ...OrderField) string {
	var msgs []string
	for _, f := range fields {
		if msg := e[f]; msg != "" {
			msgs = append(msgs, msg)
		}
	}
	return strings.Join(msgs, sep)
}

// Clone returns a copy of e.
func (e ValidationErrors) Clone() ValidationErrors {
	out := make(ValidationErrors, len(e))
	for k, v := range e {
		out[k] = v
	}
	return out
}

// OrderPayload is the body of POST /order.
type OrderPayload struct {
	Payment Payment         `json:"payment"`
	Address string          `json:"address"`
	Email   string          `json:"email"`
	Phone   string          `json:"phone"`
	Items   []string        `json:"items"`
	Total   decimal.Decimal `json:"total"`
}

// OrderResult is the response body of POST /order.
type OrderResult struct {
	ID    string          `json:"id"`
	Total decimal.Decimal `json:"total"`
}
