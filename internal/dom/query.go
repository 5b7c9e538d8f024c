package dom

import (
	"errors"
	"fmt"
	"sync"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

// ErrElementNotFound is returned by Ensure when nothing matches.
var ErrElementNotFound = errors.New("element not found")

var selectors sync.Map // string -> cascadia.Selector

func compile(sel string) (cascadia.Selector, error) {
	if s, ok := selectors.Load(sel); ok {
		return s.(cascadia.Selector), nil
	}
	s, err := cascadia.Compile(sel)
	if err != nil {
		return nil, fmt.Errorf("selector %q: %w", sel, err)
	}
	selectors.Store(sel, s)
	return s, nil
}

// Find returns the first element under root (root included) matching the
// CSS selector, or nil.
func Find(root *html.Node, sel string) *html.Node {
	if root == nil {
		return nil
	}
	s, err := compile(sel)
	if err != nil {
		return nil
	}
	return s.MatchFirst(root)
}

// FindAll returns every element under root matching the CSS selector.
func FindAll(root *html.Node, sel string) []*html.Node {
	if root == nil {
		return nil
	}
	s, err := compile(sel)
	if err != nil {
		return nil
	}
	return s.MatchAll(root)
}

// Ensure is Find for required elements. A missing element or an invalid
// selector is an error.
func Ensure(root *html.Node, sel string) (*html.Node, error) {
	if root == nil {
		return nil, fmt.Errorf("%w: %s (nil root)", ErrElementNotFound, sel)
	}
	s, err := compile(sel)
	if err != nil {
		return nil, err
	}
	n := s.MatchFirst(root)
	if n == nil {
		return nil, fmt.Errorf("%w: %s", ErrElementNotFound, sel)
	}
	return n, nil
}
