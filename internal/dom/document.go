package dom

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// RefAttr is the attribute carrying a node's reference.
const RefAttr = "data-ref"

var (
	// ErrTemplateNotFound is returned for an unknown template id.
	ErrTemplateNotFound = errors.New("template not found")

	// ErrUnknownRef is returned when no attached node carries a reference.
	ErrUnknownRef = errors.New("unknown node reference")
)

// Document is a parsed page with its templates.
type Document struct {
	root      *html.Node
	body      *html.Node
	templates map[string]*html.Node
	listeners map[*html.Node][]listener
	nextRef   int
}

// Parse reads an HTML page. Templates with an id are removed from the tree
// and kept for Template.
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}

	d := &Document{
		root:      root,
		templates: extractTemplates(root),
		listeners: make(map[*html.Node][]listener),
	}
	d.body = Find(root, "body")
	if d.body == nil {
		return nil, fmt.Errorf("parse document: %w: body", ErrElementNotFound)
	}
	return d, nil
}

// ParseString is Parse for an in-memory page.
func ParseString(s string) (*Document, error) {
	return Parse(strings.NewReader(s))
}

func extractTemplates(root *html.Node) map[string]*html.Node {
	var found []*html.Node
	Walk(root, func(n *html.Node) bool {
		if n.Type == html.ElementNode && n.DataAtom == atom.Template {
			found = append(found, n)
		}
		return true
	})

	out := make(map[string]*html.Node, len(found))
	for _, t := range found {
		id, ok := Attr(t, "id")
		if !ok {
			continue
		}
		Detach(t)
		out[id] = t
	}
	return out
}

// Root returns the document node.
func (d *Document) Root() *html.Node {
	return d.root
}

// Body returns the body element.
func (d *Document) Body() *html.Node {
	return d.body
}

// Template clones the first element of template id.
func (d *Document) Template(id string) (*html.Node, error) {
	t, ok := d.templates[id]
	if !ok {
		return nil, fmt.Errorf("%w: #%s", ErrTemplateNotFound, id)
	}
	for c := t.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			return Clone(c), nil
		}
	}
	return nil, fmt.Errorf("%w: #%s is empty", ErrTemplateNotFound, id)
}

// HasTemplate reports whether template id exists.
func (d *Document) HasTemplate(id string) bool {
	_, ok := d.templates[id]
	return ok
}

// ReloadTemplates replaces the template set with the templates of the page
// read from r. The live tree is not touched; nodes cloned afterwards use
// the new markup.
func (d *Document) ReloadTemplates(r io.Reader) error {
	root, err := html.Parse(r)
	if err != nil {
		return fmt.Errorf("reload templates: %w", err)
	}
	templates := extractTemplates(root)
	for id := range d.templates {
		if _, ok := templates[id]; !ok {
			return fmt.Errorf("reload templates: %w: #%s", ErrTemplateNotFound, id)
		}
	}
	d.templates = templates
	return nil
}

// Ref returns the reference of n, assigning one if needed.
func (d *Document) Ref(n *html.Node) string {
	if ref, ok := Attr(n, RefAttr); ok {
		return ref
	}
	d.nextRef++
	ref := "n" + strconv.Itoa(d.nextRef)
	SetAttr(n, RefAttr, ref)
	return ref
}

// NodeByRef returns the attached node carrying ref.
func (d *Document) NodeByRef(ref string) (*html.Node, error) {
	var found *html.Node
	Walk(d.root, func(n *html.Node) bool {
		if n.Type == html.ElementNode {
			if v, ok := Attr(n, RefAttr); ok && v == ref {
				found = n
				return false
			}
		}
		return true
	})
	if found == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownRef, ref)
	}
	return found, nil
}

// Render writes the live document as HTML.
func (d *Document) Render(w io.Writer) error {
	return html.Render(w, d.root)
}

// Bytes renders the document into memory.
func (d *Document) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := d.Render(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// RenderNode renders a single subtree. It is used for partial updates and
// tests.
func RenderNode(n *html.Node) string {
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return ""
	}
	return buf.String()
}
