package view

import (
	"github.com/shopspring/decimal"
	"golang.org/x/net/html"

	"github.com/ivanmalyshevv/weblarek/internal/dom"
	"github.com/ivanmalyshevv/weblarek/internal/event/events"
)

// SuccessPatch updates the success panel.
type SuccessPatch struct {
	Total *decimal.Decimal
}

// Success confirms a placed order. Its close button publishes
// order.finished.
type Success struct {
	component
	description *html.Node
	close       *html.Node
}

// NewSuccess clones the success template.
func NewSuccess(env Env) (*Success, error) {
	c, err := fromTemplate(env, TemplateSuccess, "view.success")
	if err != nil {
		return nil, err
	}
	s := &Success{component: c}
	if s.description, err = s.ensure(".order-success__description"); err != nil {
		return nil, err
	}
	if s.close, err = s.ensure(".order-success__close"); err != nil {
		return nil, err
	}
	s.on(s.close, dom.Click, emit(&s.component, events.OrderFinishedKey, func() events.Signal {
		return events.Signal{}
	}))
	return s, nil
}

// Render applies patch and returns the root.
func (s *Success) Render(patch SuccessPatch) *html.Node {
	if patch.Total != nil {
		dom.SetText(s.description, s.env.Format.Charged(*patch.Total))
	}
	return s.root
}
