package events

import (
	"github.com/ivanmalyshevv/weblarek/internal/event"
	"github.com/ivanmalyshevv/weblarek/internal/event/topic"
	"github.com/ivanmalyshevv/weblarek/internal/model"
)

// Order event topics.
const (
	// TopicOrderChanged is published when the order draft is cleared.
	TopicOrderChanged topic.Topic = "order.changed"

	// TopicFormErrorsChanged is published after every validation pass.
	TopicFormErrorsChanged topic.Topic = "form.errors.changed"

	// TopicFormInputChange is published on any input inside a form.
	TopicFormInputChange topic.Topic = "form.input.change"

	// TopicPaymentChange is published by the payment method buttons.
	TopicPaymentChange topic.Topic = "payment.change"

	// TopicOrderOpen is published by the basket's checkout button.
	TopicOrderOpen topic.Topic = "order.open"

	// TopicOrderSubmit is published when the payment/address form is submitted.
	TopicOrderSubmit topic.Topic = "order.submit"

	// TopicContactsSubmit is published when the contacts form is submitted.
	TopicContactsSubmit topic.Topic = "contacts.submit"

	// TopicOrderFailed is published when order submission fails.
	TopicOrderFailed topic.Topic = "order.failed"

	// TopicOrderFinished is published by the success panel's close button.
	TopicOrderFinished topic.Topic = "order.finished"
)

// FormErrorsChanged carries the complete error set of the latest validation.
type FormErrorsChanged struct {
	Errors model.ValidationErrors
}

// InputChange carries the name and value of the input that changed.
type InputChange struct {
	Field string
	Value string
}

// PaymentChange carries the chosen payment method.
type PaymentChange struct {
	Payment model.Payment
}

// OrderFailed carries a user-facing description of the failure.
type OrderFailed struct {
	Message string
}

var (
	OrderChangedKey      = event.NewKey[Signal](TopicOrderChanged)
	FormErrorsChangedKey = event.NewKey[FormErrorsChanged](TopicFormErrorsChanged)
	FormInputChangeKey   = event.NewKey[InputChange](TopicFormInputChange)
	PaymentChangeKey     = event.NewKey[PaymentChange](TopicPaymentChange)
	OrderOpenKey         = event.NewKey[Signal](TopicOrderOpen)
	OrderSubmitKey       = event.NewKey[Signal](TopicOrderSubmit)
	ContactsSubmitKey    = event.NewKey[Signal](TopicContactsSubmit)
	OrderFailedKey       = event.NewKey[OrderFailed](TopicOrderFailed)
	OrderFinishedKey     = event.NewKey[Signal](TopicOrderFinished)
)
