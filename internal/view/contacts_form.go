package view

import (
	"golang.org/x/net/html"

	"github.com/ivanmalyshevv/weblarek/internal/event/events"
	"github.com/ivanmalyshevv/weblarek/internal/model"
)

// ContactsFormPatch updates the contacts step.
type ContactsFormPatch struct {
	FormPatch
	Email *string
	Phone *string
}

// ContactsForm is the second checkout step. Submitting publishes
// contacts.submit.
type ContactsForm struct {
	form
}

// NewContactsForm clones the contacts template.
func NewContactsForm(env Env) (*ContactsForm, error) {
	f, err := newForm(env, TemplateContacts)
	if err != nil {
		return nil, err
	}
	c := &ContactsForm{form: f}
	c.bind(events.ContactsSubmitKey)
	return c, nil
}

// Render applies patch and returns the root.
func (c *ContactsForm) Render(patch ContactsFormPatch) *html.Node {
	c.apply(patch.FormPatch)
	if patch.Email != nil {
		c.setInput(string(model.FieldEmail), *patch.Email)
	}
	if patch.Phone != nil {
		c.setInput(string(model.FieldPhone), *patch.Phone)
	}
	return c.root
}
