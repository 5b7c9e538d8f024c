package view

import (
	"context"

	"golang.org/x/net/html"

	"github.com/ivanmalyshevv/weblarek/internal/dom"
	"github.com/ivanmalyshevv/weblarek/internal/event"
	"github.com/ivanmalyshevv/weblarek/internal/event/events"
)

// FormPatch updates the state shared by all forms.
type FormPatch struct {
	Valid  *bool
	Errors *string
}

// form is the behavior common to the order and contacts forms: any input
// publishes form.input.change, and submitting publishes the form's submit
// key.
type form struct {
	component
	submit *html.Node
	errors *html.Node
	inputs map[string]*html.Node
}

func newForm(env Env, tmpl string) (form, error) {
	c, err := fromTemplate(env, tmpl, "view.form."+tmpl)
	if err != nil {
		return form{}, err
	}
	f := form{component: c, inputs: make(map[string]*html.Node)}
	if f.submit, err = c.ensure("button[type=submit]"); err != nil {
		return form{}, err
	}
	if f.errors, err = c.ensure(".form__errors"); err != nil {
		return form{}, err
	}
	for _, n := range dom.FindAll(c.root, "input[name], textarea[name]") {
		name, _ := dom.Attr(n, "name")
		f.inputs[name] = n
		env.Doc.Ref(n)
	}
	return f, nil
}

// bind registers the form listeners. It runs after the form has its final
// address so the closures see the right component.
func (f *form) bind(submitKey event.Key[events.Signal]) {
	f.on(f.root, dom.Input, func(ctx context.Context, e *dom.Event) error {
		name, ok := dom.Attr(e.Target, "name")
		if !ok {
			return nil
		}
		return event.Emit(ctx, f.pub, events.FormInputChangeKey, events.InputChange{
			Field: name,
			Value: e.Value,
		})
	})
	// A form whose submit control is disabled cannot be submitted.
	f.on(f.root, dom.Submit, func(ctx context.Context, _ *dom.Event) error {
		if !f.Valid() {
			return nil
		}
		return event.Emit(ctx, f.pub, submitKey, events.Signal{})
	})
}

func (f *form) apply(p FormPatch) {
	if p.Valid != nil {
		dom.SetDisabled(f.submit, !*p.Valid)
	}
	if p.Errors != nil {
		dom.SetText(f.errors, *p.Errors)
	}
}

// setInput sets the value of the named control.
func (f *form) setInput(name, value string) {
	dom.SetValue(f.inputs[name], value)
}

// Valid reports whether the submit control is enabled.
func (f *form) Valid() bool {
	return !dom.IsDisabled(f.submit)
}

// Errors returns the displayed error text.
func (f *form) Errors() string {
	return dom.Text(f.errors)
}
