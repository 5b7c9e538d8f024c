package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/net/html"

	"github.com/ivanmalyshevv/weblarek/internal/api"
	"github.com/ivanmalyshevv/weblarek/internal/event"
	"github.com/ivanmalyshevv/weblarek/internal/event/events"
	"github.com/ivanmalyshevv/weblarek/internal/model"
	"github.com/ivanmalyshevv/weblarek/internal/view"
)

// errorSeparator joins the messages shown under a form.
const errorSeparator = " и "

// Fields gating each checkout step.
var (
	orderStepFields    = []model.OrderField{model.FieldPayment, model.FieldAddress}
	contactsStepFields = []model.OrderField{model.FieldEmail, model.FieldPhone}
)

// msgOrderFailed is shown on the contacts form when submission fails.
const msgOrderFailed = "Не удалось оформить заказ"

// wire registers every subscription connecting views, state and backend.
func (s *Session) wire() error {
	// Every publication is counted after its regular handlers ran.
	if _, err := s.sub.SubscribeFunc("**", s.countEvent, event.WithPriority(event.PriorityLow)); err != nil {
		return err
	}

	subs := []func() error{
		func() error { return on(s, events.CatalogChangedKey, s.onCatalogChanged) },
		func() error { return on(s, events.CatalogSelectKey, s.onCatalogSelect) },
		func() error { return on(s, events.CatalogRefreshKey, s.onCatalogRefresh) },
		func() error { return on(s, events.PreviewChangedKey, s.onPreviewChanged) },
		func() error { return on(s, events.PreviewToggleKey, s.onPreviewToggle) },
		func() error { return on(s, events.BasketOpenKey, s.onBasketOpen) },
		func() error { return on(s, events.BasketChangedKey, s.onBasketChanged) },
		func() error { return on(s, events.BasketDeleteKey, s.onBasketDelete) },
		func() error { return on(s, events.OrderOpenKey, s.onOrderOpen) },
		func() error { return on(s, events.FormInputChangeKey, s.onInputChange) },
		func() error { return on(s, events.PaymentChangeKey, s.onPaymentChange) },
		func() error { return on(s, events.FormErrorsChangedKey, s.onFormErrors) },
		func() error { return on(s, events.OrderSubmitKey, s.onOrderSubmit) },
		func() error { return on(s, events.ContactsSubmitKey, s.onContactsSubmit) },
		func() error { return on(s, events.OrderFailedKey, s.onOrderFailed) },
		func() error { return on(s, events.OrderChangedKey, s.onOrderChanged) },
		func() error { return on(s, events.OrderFinishedKey, s.onOrderFinished) },
		func() error { return on(s, events.ModalOpenKey, s.onModal(true)) },
		func() error { return on(s, events.ModalCloseKey, s.onModal(false)) },
	}
	for _, subscribe := range subs {
		if err := subscribe(); err != nil {
			return err
		}
	}
	return nil
}

func on[T any](s *Session, k event.Key[T], fn func(ctx context.Context, payload T) error) error {
	_, err := event.On(s.sub, k, fn)
	return err
}

func (s *Session) countEvent(_ context.Context, ev any) error {
	tp := event.TopicOf(ev)
	s.metrics.RecordEvent(tp.String())

	log := s.log.WithField("topic", tp.String())
	if mp, ok := ev.(event.MetadataProvider); ok {
		md := mp.EventMetadata()
		log = log.WithField("source", md.Source).WithField("event_id", md.ID)
	}
	log.Debug("event published")
	return nil
}

// Catalog

func (s *Session) onCatalogChanged(_ context.Context, p events.CatalogChanged) error {
	nodes := make([]*html.Node, 0, len(p.Items))
	for _, item := range p.Items {
		card, err := view.NewCatalogCard(s.views.env)
		if err != nil {
			return &PartError{Part: "view.card.catalog", Action: "build", Err: err}
		}
		nodes = append(nodes, card.Render(view.ProductPatch(item)))
	}
	s.views.page.Render(view.PagePatch{Catalog: &nodes})
	return nil
}

func (s *Session) onCatalogSelect(ctx context.Context, ref events.ItemRef) error {
	return s.state.SetPreview(ctx, ref.ID)
}

func (s *Session) onCatalogRefresh(context.Context, events.Signal) error {
	s.loadCatalog()
	return nil
}

// loadCatalog fetches the catalog off the loop. A failure is logged and
// leaves the state untouched.
func (s *Session) loadCatalog() {
	s.goAsync("catalog.load", func(ctx context.Context) func(context.Context) error {
		start := time.Now()
		items, err := s.backend.Products(ctx)
		if err != nil {
			s.log.WithError(err).Error("loading catalog")
			return nil
		}
		s.log.WithField("items", len(items)).WithField("took", time.Since(start).String()).Info("catalog loaded")
		return func(ctx context.Context) error {
			return s.state.SetCatalog(ctx, items)
		}
	})
}

// Preview

func (s *Session) onPreviewChanged(ctx context.Context, p events.PreviewChanged) error {
	patch := view.ProductPatch(p.Product)
	patch.Button = view.Ptr(s.state.ButtonLabel(p.Product))
	_, err := s.views.modal.Render(ctx, view.ModalPatch{Content: s.views.preview.Render(patch)})
	return err
}

func (s *Session) onPreviewToggle(ctx context.Context, ref events.ItemRef) error {
	p, ok := s.state.Product(ref.ID)
	if !ok {
		return fmt.Errorf("toggle basket %s: %w", ref.ID, errUnknownProduct)
	}
	if err := s.state.ToggleBasket(ctx, p); err != nil {
		return err
	}
	return s.views.modal.Close(ctx)
}

var errUnknownProduct = errors.New("unknown product")

// Basket

func (s *Session) onBasketOpen(ctx context.Context, _ events.Signal) error {
	_, err := s.views.modal.Render(ctx, view.ModalPatch{Content: s.views.basket.Root()})
	return err
}

func (s *Session) onBasketChanged(context.Context, events.Signal) error {
	basket := s.state.Basket()
	nodes := make([]*html.Node, 0, len(basket))
	for _, item := range basket {
		card, err := view.NewBasketCard(s.views.env)
		if err != nil {
			return &PartError{Part: "view.card.basket", Action: "build", Err: err}
		}
		nodes = append(nodes, card.Render(view.BasketCardPatch{
			CardPatch: view.ProductPatch(item),
			Index:     view.Ptr(s.state.BasketIndex(item)),
		}))
	}

	s.views.page.Render(view.PagePatch{Counter: view.Ptr(s.state.BasketCount())})
	s.views.basket.Render(view.BasketPatch{
		Items:    &nodes,
		Total:    view.Ptr(s.state.BasketTotal()),
		Selected: view.Ptr(len(nodes)),
	})
	return nil
}

func (s *Session) onBasketDelete(ctx context.Context, ref events.ItemRef) error {
	return s.state.RemoveFromBasket(ctx, ref.ID)
}

// Checkout

func (s *Session) onOrderOpen(ctx context.Context, _ events.Signal) error {
	order := s.state.Order()
	s.views.order.ClearPayment()
	if _, err := s.state.ValidateOrder(ctx); err != nil {
		return err
	}
	patch := view.OrderFormPatch{
		FormPatch: view.FormPatch{Errors: view.Ptr("")},
		Address:   view.Ptr(order.Address),
	}
	if order.Payment.Valid() {
		patch.Payment = view.Ptr(order.Payment)
	}
	_, err := s.views.modal.Render(ctx, view.ModalPatch{Content: s.views.order.Render(patch)})
	return err
}

func (s *Session) onInputChange(ctx context.Context, in events.InputChange) error {
	field, err := model.ParseOrderField(in.Field)
	if err != nil {
		return err
	}
	return s.state.SetOrderField(ctx, field, in.Value)
}

func (s *Session) onPaymentChange(ctx context.Context, p events.PaymentChange) error {
	s.views.order.TogglePayment(p.Payment)
	s.state.SetOrderPayment(p.Payment)
	_, err := s.state.ValidateOrder(ctx)
	return err
}

// onFormErrors gates each form on its own fields even though validation
// covers the whole draft.
func (s *Session) onFormErrors(_ context.Context, p events.FormErrorsChanged) error {
	s.views.order.Render(view.OrderFormPatch{FormPatch: view.FormPatch{
		Valid:  view.Ptr(!p.Errors.Has(orderStepFields...)),
		Errors: view.Ptr(p.Errors.Join(errorSeparator, orderStepFields...)),
	}})
	s.views.contacts.Render(view.ContactsFormPatch{FormPatch: view.FormPatch{
		Valid:  view.Ptr(!p.Errors.Has(contactsStepFields...)),
		Errors: view.Ptr(p.Errors.Join(errorSeparator, contactsStepFields...)),
	}})
	return nil
}

func (s *Session) onOrderSubmit(ctx context.Context, _ events.Signal) error {
	order := s.state.Order()
	if _, err := s.state.ValidateOrder(ctx); err != nil {
		return err
	}
	_, err := s.views.modal.Render(ctx, view.ModalPatch{Content: s.views.contacts.Render(view.ContactsFormPatch{
		FormPatch: view.FormPatch{Errors: view.Ptr("")},
		Email:     view.Ptr(order.Email),
		Phone:     view.Ptr(order.Phone),
	})})
	return err
}

// onContactsSubmit validates the whole draft and submits it. Only one
// submission runs at a time.
func (s *Session) onContactsSubmit(ctx context.Context, _ events.Signal) error {
	if s.submitting {
		return ErrSubmitInFlight
	}
	valid, err := s.state.ValidateOrder(ctx)
	if err != nil {
		return err
	}
	if !valid {
		msg := s.state.FormErrors().Join(errorSeparator, model.OrderFields...)
		return event.Emit(ctx, s.pub, events.OrderFailedKey, events.OrderFailed{Message: msg})
	}

	payload := s.state.OrderPayload()
	s.submitting = true
	s.views.contacts.Render(view.ContactsFormPatch{FormPatch: view.FormPatch{Valid: view.Ptr(false)}})

	s.goAsync("order.submit", func(ctx context.Context) func(context.Context) error {
		result, err := s.backend.SubmitOrder(ctx, payload)
		return func(ctx context.Context) error {
			s.submitting = false
			if err != nil {
				s.log.WithError(err).Error("submitting order")
				return event.Emit(ctx, s.pub, events.OrderFailedKey, events.OrderFailed{Message: failureMessage(err)})
			}
			s.log.WithField("order", result.ID).WithField("total", result.Total.String()).Info("order placed")
			return s.completeOrder(ctx, payload.Total)
		}
	})
	return nil
}

// completeOrder shows the success panel and clears basket and draft.
func (s *Session) completeOrder(ctx context.Context, total decimal.Decimal) error {
	content := s.views.success.Render(view.SuccessPatch{Total: view.Ptr(total)})
	if _, err := s.views.modal.Render(ctx, view.ModalPatch{Content: content}); err != nil {
		return err
	}
	return errors.Join(s.state.ClearBasket(ctx), s.state.ClearOrder(ctx))
}

func failureMessage(err error) string {
	var apiErr *api.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return msgOrderFailed + ": " + apiErr.Message
	}
	return msgOrderFailed
}

// onOrderFailed keeps the contacts form enabled so the user can retry.
func (s *Session) onOrderFailed(_ context.Context, p events.OrderFailed) error {
	s.views.contacts.Render(view.ContactsFormPatch{FormPatch: view.FormPatch{
		Valid:  view.Ptr(true),
		Errors: view.Ptr(p.Message),
	}})
	return nil
}

// onOrderChanged resets the form controls to the cleared draft.
func (s *Session) onOrderChanged(context.Context, events.Signal) error {
	order := s.state.Order()
	s.views.order.ClearPayment()
	s.views.order.Render(view.OrderFormPatch{Address: view.Ptr(order.Address)})
	s.views.contacts.Render(view.ContactsFormPatch{
		Email: view.Ptr(order.Email),
		Phone: view.Ptr(order.Phone),
	})
	return nil
}

func (s *Session) onOrderFinished(ctx context.Context, _ events.Signal) error {
	return s.views.modal.Close(ctx)
}

func (s *Session) onModal(locked bool) func(context.Context, events.Signal) error {
	return func(context.Context, events.Signal) error {
		s.views.page.Render(view.PagePatch{Locked: view.Ptr(locked)})
		return nil
	}
}

// Refresh asks the session to reload the catalog.
func (s *Session) Refresh(ctx context.Context) error {
	return s.Do(ctx, "catalog.refresh", func(ctx context.Context) error {
		return event.Emit(ctx, s.pub, events.CatalogRefreshKey, events.Signal{})
	})
}
