package view

import (
	"github.com/shopspring/decimal"
	"golang.org/x/net/html"

	"github.com/ivanmalyshevv/weblarek/internal/dom"
	"github.com/ivanmalyshevv/weblarek/internal/event/events"
	"github.com/ivanmalyshevv/weblarek/internal/model"
)

// Price texts.
const (
	Priceless = "Бесценно"
)

// categoryClasses maps a product category to its label modifier.
var categoryClasses = map[string]string{
	"софт-скил":      "card__category_soft",
	"хард-скил":      "card__category_hard",
	"другое":         "card__category_other",
	"дополнительное": "card__category_additional",
	"кнопка":         "card__category_button",
}

// CategoryClass returns the modifier class for category, or "".
func CategoryClass(category string) string {
	return categoryClasses[category]
}

// CardPatch updates the fields shared by all product cards.
type CardPatch struct {
	ID          *string
	Title       *string
	Image       *string
	Description *string
	Category    *string
	Price       *decimal.NullDecimal
	Button      *string
}

// ProductPatch fills every card field from p.
func ProductPatch(p model.Product) CardPatch {
	return CardPatch{
		ID:          Ptr(p.ID),
		Title:       Ptr(p.Title),
		Image:       Ptr(p.Image),
		Description: Ptr(p.Description),
		Category:    Ptr(p.Category),
		Price:       Ptr(p.Price),
	}
}

// card is a product card. Only the title and price elements are required;
// the rest depend on the template.
type card struct {
	component
	id string

	title       *html.Node
	price       *html.Node
	image       *html.Node
	category    *html.Node
	description *html.Node
	button      *html.Node
}

func newCard(env Env, tmpl, source string) (card, error) {
	c, err := fromTemplate(env, tmpl, source)
	if err != nil {
		return card{}, err
	}
	cd := card{component: c}
	if cd.title, err = c.ensure(".card__title"); err != nil {
		return card{}, err
	}
	if cd.price, err = c.ensure(".card__price"); err != nil {
		return card{}, err
	}
	cd.image = c.find(".card__image")
	cd.category = c.find(".card__category")
	cd.description = c.find(".card__text")
	cd.button = c.find(".card__button")
	return cd, nil
}

// ID returns the product id shown by the card.
func (c *card) ID() string {
	return c.id
}

func (c *card) apply(p CardPatch) {
	if p.ID != nil {
		c.id = *p.ID
		dom.SetAttr(c.root, "data-id", c.id)
	}
	if p.Title != nil {
		dom.SetText(c.title, *p.Title)
		if c.image != nil {
			dom.SetAttr(c.image, "alt", *p.Title)
		}
	}
	if p.Image != nil {
		alt := ""
		if p.Title != nil {
			alt = *p.Title
		}
		dom.SetImage(c.image, *p.Image, alt)
	}
	if p.Description != nil {
		dom.SetText(c.description, *p.Description)
	}
	if p.Category != nil {
		c.setCategory(*p.Category)
	}
	if p.Price != nil {
		c.setPrice(*p.Price)
	}
	if p.Button != nil {
		dom.SetText(c.button, *p.Button)
	}
}

func (c *card) setCategory(category string) {
	if c.category == nil {
		return
	}
	dom.SetText(c.category, category)
	for _, class := range categoryClasses {
		dom.ToggleClass(c.category, class, false)
	}
	if class := CategoryClass(category); class != "" {
		dom.ToggleClass(c.category, class, true)
	}
}

// setPrice shows the price, or "Бесценно" with the button disabled.
func (c *card) setPrice(price decimal.NullDecimal) {
	if price.Valid {
		dom.SetText(c.price, c.env.Format.Synapses(price.Decimal))
		dom.SetDisabled(c.button, false)
		return
	}
	dom.SetText(c.price, Priceless)
	dom.SetDisabled(c.button, true)
}

// CatalogCard is a gallery item. Clicking it publishes catalog.select.
type CatalogCard struct {
	card
}

// NewCatalogCard clones the catalog card template.
func NewCatalogCard(env Env) (*CatalogCard, error) {
	cd, err := newCard(env, TemplateCardCatalog, "view.card.catalog")
	if err != nil {
		return nil, err
	}
	c := &CatalogCard{card: cd}
	c.on(c.root, dom.Click, emit(&c.component, events.CatalogSelectKey, func() events.ItemRef {
		return events.ItemRef{ID: c.id}
	}))
	return c, nil
}

// Render applies p and returns the root.
func (c *CatalogCard) Render(p CardPatch) *html.Node {
	c.apply(p)
	return c.root
}

// PreviewCard shows one product in the modal. Its button publishes
// preview.toggle.
type PreviewCard struct {
	card
}

// NewPreviewCard clones the preview card template.
func NewPreviewCard(env Env) (*PreviewCard, error) {
	cd, err := newCard(env, TemplateCardPreview, "view.card.preview")
	if err != nil {
		return nil, err
	}
	c := &PreviewCard{card: cd}
	c.on(c.button, dom.Click, emit(&c.component, events.PreviewToggleKey, func() events.ItemRef {
		return events.ItemRef{ID: c.id}
	}))
	return c, nil
}

// Render applies p and returns the root.
func (c *PreviewCard) Render(p CardPatch) *html.Node {
	c.apply(p)
	return c.root
}

// BasketCardPatch adds the position to the card fields.
type BasketCardPatch struct {
	CardPatch
	Index *int
}

// BasketCard is a basket line. Its delete button publishes basket.delete.
type BasketCard struct {
	card
	index  *html.Node
	delete *html.Node
}

// NewBasketCard clones the basket card template.
func NewBasketCard(env Env) (*BasketCard, error) {
	cd, err := newCard(env, TemplateCardBasket, "view.card.basket")
	if err != nil {
		return nil, err
	}
	c := &BasketCard{card: cd}
	if c.index, err = c.ensure(".basket__item-index"); err != nil {
		return nil, err
	}
	if c.delete, err = c.ensure(".basket__item-delete"); err != nil {
		return nil, err
	}
	c.on(c.delete, dom.Click, emit(&c.component, events.BasketDeleteKey, func() events.ItemRef {
		return events.ItemRef{ID: c.id}
	}))
	return c, nil
}

// Render applies p and returns the root.
func (c *BasketCard) Render(p BasketCardPatch) *html.Node {
	c.apply(p.CardPatch)
	if p.Index != nil {
		dom.SetText(c.index, c.env.Format.Int(*p.Index))
	}
	return c.root
}
