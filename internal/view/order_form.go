package view

import (
	"golang.org/x/net/html"

	"github.com/ivanmalyshevv/weblarek/internal/dom"
	"github.com/ivanmalyshevv/weblarek/internal/event/events"
	"github.com/ivanmalyshevv/weblarek/internal/model"
)

// PaymentActiveClass marks the chosen payment button.
const PaymentActiveClass = "button_alt-active"

// OrderFormPatch updates the payment/address step.
type OrderFormPatch struct {
	FormPatch
	Payment *model.Payment
	Address *string
}

// OrderForm is the first checkout step. Payment buttons publish
// payment.change; submitting publishes order.submit.
type OrderForm struct {
	form
	payments map[model.Payment]*html.Node
}

// NewOrderForm clones the order template.
func NewOrderForm(env Env) (*OrderForm, error) {
	f, err := newForm(env, TemplateOrder)
	if err != nil {
		return nil, err
	}
	o := &OrderForm{form: f, payments: make(map[model.Payment]*html.Node)}
	o.bind(events.OrderSubmitKey)

	for _, p := range []model.Payment{model.PaymentCard, model.PaymentCash} {
		p := p // per-iteration copy; go.mod targets go 1.21
		btn := dom.Find(o.root, "button[name="+string(p)+"]")
		if btn == nil {
			continue
		}
		o.payments[p] = btn
		o.on(btn, dom.Click, emit(&o.component, events.PaymentChangeKey, func() events.PaymentChange {
			return events.PaymentChange{Payment: p}
		}))
	}
	return o, nil
}

// Render applies patch and returns the root.
func (o *OrderForm) Render(patch OrderFormPatch) *html.Node {
	o.apply(patch.FormPatch)
	if patch.Payment != nil {
		o.TogglePayment(*patch.Payment)
	}
	if patch.Address != nil {
		o.setInput(string(model.FieldAddress), *patch.Address)
	}
	return o.root
}

// TogglePayment highlights the button of p and clears the others.
func (o *OrderForm) TogglePayment(p model.Payment) {
	o.ClearPayment()
	dom.ToggleClass(o.payments[p], PaymentActiveClass, true)
}

// ClearPayment removes the highlight from every payment button.
func (o *OrderForm) ClearPayment() {
	for _, btn := range o.payments {
		dom.ToggleClass(btn, PaymentActiveClass, false)
	}
}

// ActivePayment returns the highlighted payment method.
func (o *OrderForm) ActivePayment() model.Payment {
	for p, btn := range o.payments {
		if dom.HasClass(btn, PaymentActiveClass) {
			return p
		}
	}
	return model.PaymentNone
}
