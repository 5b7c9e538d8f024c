package state

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/ivanmalyshevv/weblarek/internal/event"
	"github.com/ivanmalyshevv/weblarek/internal/event/events"
	"github.com/ivanmalyshevv/weblarek/internal/model"
)

// Button labels for the preview card.
const (
	LabelNotForSale = "Не продается"
	LabelRemove     = "Удалить из корзины"
	LabelBuy        = "Купить"
)

var (
	// ErrProductNotFound is returned when an id is not in the catalog.
	ErrProductNotFound = errors.New("product not found")

	// ErrNotForSale is returned when adding a product without a price to the
	// basket.
	ErrNotForSale = errors.New("product is not for sale")
)

// State is the application state of one session.
type State struct {
	pub      *event.Publisher
	validate *validator.Validate

	catalog    []model.Product
	preview    string
	hasPreview bool
	basket     []model.Product
	order      model.OrderDraft
	formErrors model.ValidationErrors
}

// New creates an empty state publishing on bus.
func New(bus event.Bus) *State {
	return &State{
		pub:        event.NewPublisher(bus, "state"),
		validate:   newValidator(),
		formErrors: make(model.ValidationErrors),
	}
}

// SetCatalog replaces the catalog and publishes catalog.changed.
func (s *State) SetCatalog(ctx context.Context, items []model.Product) error {
	s.catalog = append([]model.Product(nil), items...)
	return event.Emit(ctx, s.pub, events.CatalogChangedKey, events.CatalogChanged{
		Items: s.Catalog(),
	})
}

// SetPreview selects the product with the given id and publishes
// preview.changed with its full record. An unknown id leaves the selection
// unchanged and publishes nothing.
func (s *State) SetPreview(ctx context.Context, id string) error {
	p, ok := s.Product(id)
	if !ok {
		return fmt.Errorf("%w: %q", ErrProductNotFound, id)
	}
	s.preview = id
	s.hasPreview = true
	return event.Emit(ctx, s.pub, events.PreviewChangedKey, events.PreviewChanged{Product: p})
}

// Preview returns the selected product id.
func (s *State) Preview() (string, bool) {
	return s.preview, s.hasPreview
}

// Product looks up a catalog product by id.
func (s *State) Product(id string) (model.Product, bool) {
	return model.FindProduct(s.catalog, id)
}

// Catalog returns a copy of the catalog.
func (s *State) Catalog() []model.Product {
	return append([]model.Product(nil), s.catalog...)
}

// Basket returns a copy of the basket in insertion order.
func (s *State) Basket() []model.Product {
	return append([]model.Product(nil), s.basket...)
}

// InBasket reports whether a product with id is in the basket.
func (s *State) InBasket(id string) bool {
	_, ok := model.FindProduct(s.basket, id)
	return ok
}

// AddToBasket appends a copy of p and publishes basket.changed. Products
// without a price are rejected with ErrNotForSale. Adding a product that is
// already present changes nothing and publishes nothing.
func (s *State) AddToBasket(ctx context.Context, p model.Product) error {
	if !p.ForSale() {
		return fmt.Errorf("%w: %q", ErrNotForSale, p.ID)
	}
	if s.InBasket(p.ID) {
		return nil
	}
	s.basket = append(s.basket, p)
	return event.Emit(ctx, s.pub, events.BasketChangedKey, events.Signal{})
}

// RemoveFromBasket removes the product with id and publishes basket.changed.
func (s *State) RemoveFromBasket(ctx context.Context, id string) error {
	kept := s.basket[:0:0]
	for _, p := range s.basket {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	s.basket = kept
	return event.Emit(ctx, s.pub, events.BasketChangedKey, events.Signal{})
}

// ToggleBasket removes p when it is in the basket and adds it otherwise.
func (s *State) ToggleBasket(ctx context.Context, p model.Product) error {
	if s.InBasket(p.ID) {
		return s.RemoveFromBasket(ctx, p.ID)
	}
	return s.AddToBasket(ctx, p)
}

// ButtonLabel returns the label of the preview card's buy button for p.
func (s *State) ButtonLabel(p model.Product) string {
	switch {
	case !p.ForSale():
		return LabelNotForSale
	case s.InBasket(p.ID):
		return LabelRemove
	default:
		return LabelBuy
	}
}

// BasketTotal sums the basket prices.
func (s *State) BasketTotal() decimal.Decimal {
	total := decimal.Zero
	for _, p := range s.basket {
		total = total.Add(p.PriceOrZero())
	}
	return total
}

// BasketCount returns the number of basket items.
func (s *State) BasketCount() int {
	return len(s.basket)
}

// BasketIndex returns the 1-based position of p in the basket, or 0.
func (s *State) BasketIndex(p model.Product) int {
	for i, item := range s.basket {
		if item.ID == p.ID {
			return i + 1
		}
	}
	return 0
}

// Order returns the order draft.
func (s *State) Order() model.OrderDraft {
	return s.order
}

// FormErrors returns a copy of the errors of the latest validation.
func (s *State) FormErrors() model.ValidationErrors {
	return s.formErrors.Clone()
}

// SetOrderField assigns value to field and validates the whole draft.
func (s *State) SetOrderField(ctx context.Context, field model.OrderField, value string) error {
	if err := s.order.Set(field, value); err != nil {
		return err
	}
	_, err := s.ValidateOrder(ctx)
	return err
}

// SetOrderPayment sets the payment method. It does not validate.
func (s *State) SetOrderPayment(payment model.Payment) {
	s.order.Payment = payment
}

// OrderPayload projects the draft and the basket into the order request.
func (s *State) OrderPayload() model.OrderPayload {
	return model.OrderPayload{
		Payment: s.order.Payment,
		Address: s.order.Address,
		Email:   s.order.Email,
		Phone:   s.order.Phone,
		Items:   model.IDs(s.basket),
		Total:   s.BasketTotal(),
	}
}

// ValidateOrder validates the whole draft, stores the result, and publishes
// form.errors.changed. valid is true when no field has an error; err only
// reports failed event delivery.
func (s *State) ValidateOrder(ctx context.Context) (valid bool, err error) {
	s.formErrors = validateDraft(s.validate, s.order)
	err = event.Emit(ctx, s.pub, events.FormErrorsChangedKey, events.FormErrorsChanged{
		Errors: s.FormErrors(),
	})
	return len(s.formErrors) == 0, err
}

// ClearBasket empties the basket and publishes basket.changed.
func (s *State) ClearBasket(ctx context.Context) error {
	s.basket = nil
	return event.Emit(ctx, s.pub, events.BasketChangedKey, events.Signal{})
}

// ClearOrder resets the draft and publishes order.changed.
func (s *State) ClearOrder(ctx context.Context) error {
	s.order = model.OrderDraft{}
	return event.Emit(ctx, s.pub, events.OrderChangedKey, events.Signal{})
}
