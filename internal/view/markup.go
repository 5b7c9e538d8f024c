package view

import (
	"bytes"
	_ "embed"

	"github.com/ivanmalyshevv/weblarek/internal/dom"
)

// Markup is the built-in page with every template the views need.
//
//go:embed index.html
var Markup []byte

// Template ids.
const (
	TemplateCardCatalog = "card-catalog"
	TemplateCardPreview = "card-preview"
	TemplateCardBasket  = "card-basket"
	TemplateBasket      = "basket"
	TemplateOrder       = "order"
	TemplateContacts    = "contacts"
	TemplateSuccess     = "success"
)

// Templates lists the template ids a page must provide.
var Templates = []string{
	TemplateCardCatalog, TemplateCardPreview, TemplateCardBasket,
	TemplateBasket, TemplateOrder, TemplateContacts, TemplateSuccess,
}

// NewDocument parses the built-in page.
func NewDocument() (*dom.Document, error) {
	return dom.Parse(bytes.NewReader(Markup))
}
