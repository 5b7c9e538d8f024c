package view

import (
	"context"

	"golang.org/x/net/html"

	"github.com/ivanmalyshevv/weblarek/internal/dom"
	"github.com/ivanmalyshevv/weblarek/internal/event"
	"github.com/ivanmalyshevv/weblarek/internal/event/events"
)

// ActiveClass marks an open modal.
const ActiveClass = "modal_active"

// ModalState is the state of the modal.
type ModalState int

const (
	ModalClosed ModalState = iota
	ModalOpen
)

func (s ModalState) String() string {
	if s == ModalOpen {
		return "open"
	}
	return "closed"
}

// ModalPatch swaps the content.
type ModalPatch struct {
	Content *html.Node
}

// Modal is the single modal container.
//
//	Closed --Render/Open--> Open
//	Open --close button/backdrop/Close--> Closed
//
// modal.open and modal.close are published on transitions only. Clicks
// inside the content do not reach the backdrop.
type Modal struct {
	component
	state   ModalState
	content *html.Node
	close   *html.Node
}

// NewModal binds to #modal-container.
func NewModal(env Env) (*Modal, error) {
	root, err := dom.Ensure(env.Doc.Body(), "#modal-container")
	if err != nil {
		return nil, err
	}
	m := &Modal{component: newComponent(env, root, "view.modal")}
	if m.content, err = m.ensure(".modal__content"); err != nil {
		return nil, err
	}
	if m.close, err = m.ensure(".modal__close"); err != nil {
		return nil, err
	}

	closeFn := func(ctx context.Context, _ *dom.Event) error {
		return m.Close(ctx)
	}
	m.on(m.close, dom.Click, closeFn)
	m.on(m.root, dom.Click, closeFn)
	m.on(m.content, dom.Click, func(_ context.Context, e *dom.Event) error {
		e.StopPropagation()
		return nil
	})
	return m, nil
}

// State returns the current state.
func (m *Modal) State() ModalState {
	return m.state
}

// Content returns the node currently shown, or nil.
func (m *Modal) Content() *html.Node {
	return m.content.FirstChild
}

// Render swaps the content when set and opens the modal.
func (m *Modal) Render(ctx context.Context, patch ModalPatch) (*html.Node, error) {
	if patch.Content != nil {
		dom.ReplaceChildren(m.content, patch.Content)
	}
	return m.root, m.Open(ctx)
}

// Open shows the modal and locks page scrolling.
func (m *Modal) Open(ctx context.Context) error {
	if m.state == ModalOpen {
		return nil
	}
	m.state = ModalOpen
	dom.ToggleClass(m.root, ActiveClass, true)
	body := m.env.Doc.Body()
	dom.SetStyle(body, "overflow", "hidden")
	dom.SetStyle(body, "width", "100%")
	return event.Emit(ctx, m.pub, events.ModalOpenKey, events.Signal{})
}

// Close hides the modal and unlocks scrolling. The content is always
// cleared, even when already closed.
func (m *Modal) Close(ctx context.Context) error {
	dom.ReplaceChildren(m.content)
	if m.state == ModalClosed {
		return nil
	}
	m.state = ModalClosed
	dom.ToggleClass(m.root, ActiveClass, false)
	body := m.env.Doc.Body()
	dom.SetStyle(body, "overflow", "")
	dom.SetStyle(body, "width", "")
	return event.Emit(ctx, m.pub, events.ModalCloseKey, events.Signal{})
}
