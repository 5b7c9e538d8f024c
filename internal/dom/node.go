package dom

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Clone returns a deep copy of n without a parent or siblings.
func Clone(n *html.Node) *html.Node {
	c := &html.Node{
		Type:      n.Type,
		DataAtom:  n.DataAtom,
		Data:      n.Data,
		Namespace: n.Namespace,
		Attr:      append([]html.Attribute(nil), n.Attr...),
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		c.AppendChild(Clone(child))
	}
	return c
}

// Detach removes n from its parent, if any.
func Detach(n *html.Node) {
	if n != nil && n.Parent != nil {
		n.Parent.RemoveChild(n)
	}
}

// ReplaceChildren removes every child of parent and appends children.
// Children attached elsewhere are moved.
func ReplaceChildren(parent *html.Node, children ...*html.Node) {
	for parent.FirstChild != nil {
		parent.RemoveChild(parent.FirstChild)
	}
	for _, c := range children {
		if c == nil {
			continue
		}
		Detach(c)
		parent.AppendChild(c)
	}
}

// Text returns the text content of n.
func Text(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		b.WriteString(Text(c))
	}
	return b.String()
}

// SetText replaces the children of n with a single text node. A nil node is
// ignored.
func SetText(n *html.Node, text string) {
	if n == nil {
		return
	}
	ReplaceChildren(n, &html.Node{Type: html.TextNode, Data: text})
}

// Attr returns the value of attribute key.
func Attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// HasAttr reports whether n carries attribute key.
func HasAttr(n *html.Node, key string) bool {
	_, ok := Attr(n, key)
	return ok
}

// SetAttr sets attribute key to val.
func SetAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

// RemoveAttr deletes attribute key.
func RemoveAttr(n *html.Node, key string) {
	out := n.Attr[:0]
	for _, a := range n.Attr {
		if a.Namespace != "" || a.Key != key {
			out = append(out, a)
		}
	}
	n.Attr = out
}

// SetDisabled adds or removes the disabled attribute. A nil node is ignored.
func SetDisabled(n *html.Node, disabled bool) {
	if n == nil {
		return
	}
	if disabled {
		SetAttr(n, "disabled", "disabled")
	} else {
		RemoveAttr(n, "disabled")
	}
}

// IsDisabled reports whether n carries the disabled attribute.
func IsDisabled(n *html.Node) bool {
	return HasAttr(n, "disabled")
}

// SetImage sets src and, when alt is not empty, alt. A nil node is ignored.
func SetImage(n *html.Node, src, alt string) {
	if n == nil {
		return
	}
	SetAttr(n, "src", src)
	if alt != "" {
		SetAttr(n, "alt", alt)
	}
}

// Classes returns the class list of n.
func Classes(n *html.Node) []string {
	v, _ := Attr(n, "class")
	return strings.Fields(v)
}

// HasClass reports whether n has class name.
func HasClass(n *html.Node, name string) bool {
	for _, c := range Classes(n) {
		if c == name {
			return true
		}
	}
	return false
}

// ToggleClass adds name when on is true and removes it otherwise.
func ToggleClass(n *html.Node, name string, on bool) {
	if n == nil {
		return
	}
	classes := Classes(n)
	out := classes[:0]
	for _, c := range classes {
		if c != name {
			out = append(out, c)
		}
	}
	if on {
		out = append(out, name)
	}
	if len(out) == 0 {
		RemoveAttr(n, "class")
		return
	}
	SetAttr(n, "class", strings.Join(out, " "))
}

// SetStyle sets one inline style property. An empty value removes it.
func SetStyle(n *html.Node, prop, value string) {
	raw, _ := Attr(n, "style")

	var decls []string
	found := false
	for _, d := range strings.Split(raw, ";") {
		name, _, ok := strings.Cut(d, ":")
		if !ok {
			continue
		}
		if strings.TrimSpace(name) == prop {
			found = true
			if value != "" {
				decls = append(decls, prop+": "+value)
			}
			continue
		}
		decls = append(decls, strings.TrimSpace(d))
	}
	if !found && value != "" {
		decls = append(decls, prop+": "+value)
	}

	if len(decls) == 0 {
		RemoveAttr(n, "style")
		return
	}
	SetAttr(n, "style", strings.Join(decls, "; "))
}

// Style returns the value of an inline style property.
func Style(n *html.Node, prop string) string {
	raw, _ := Attr(n, "style")
	for _, d := range strings.Split(raw, ";") {
		name, val, ok := strings.Cut(d, ":")
		if ok && strings.TrimSpace(name) == prop {
			return strings.TrimSpace(val)
		}
	}
	return ""
}

// SetValue sets the current value of a form control.
func SetValue(n *html.Node, value string) {
	if n == nil {
		return
	}
	if n.DataAtom == atom.Textarea {
		SetText(n, value)
		return
	}
	SetAttr(n, "value", value)
}

// Value returns the current value of a form control.
func Value(n *html.Node) string {
	if n.DataAtom == atom.Textarea {
		return Text(n)
	}
	v, _ := Attr(n, "value")
	return v
}

// Walk calls fn for n and every descendant in document order until fn
// returns false.
func Walk(n *html.Node, fn func(*html.Node) bool) bool {
	if !fn(n) {
		return false
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if !Walk(c, fn) {
			return false
		}
	}
	return true
}

// Contains reports whether n is root or one of its descendants.
func Contains(root, n *html.Node) bool {
	for ; n != nil; n = n.Parent {
		if n == root {
			return true
		}
	}
	return false
}

func isFormControl(n *html.Node) bool {
	switch n.DataAtom {
	case atom.Input, atom.Textarea, atom.Select:
		return true
	}
	return false
}
