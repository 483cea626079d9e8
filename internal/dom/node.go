package dom

import (
	"slices"
	"strings"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

// Selector matches elements. Compile selectors once with MustCompile.
type Selector = cascadia.Selector

// MustCompile compiles a CSS selector and panics if it is invalid.
func MustCompile(sel string) Selector {
	return cascadia.MustCompile(sel)
}

// Node is an element in a Document.
type Node struct {
	n *html.Node
}

func wrap(n *html.Node) *Node {
	if n == nil {
		return nil
	}
	return &Node{n: n}
}

// Same reports whether both wrap the same element.
func (n *Node) Same(other *Node) bool {
	return n != nil && other != nil && n.n == other.n
}

// Tag returns the lower-case element name.
func (n *Node) Tag() string {
	return n.n.Data
}

// Attr returns the named attribute.
func (n *Node) Attr(name string) (string, bool) {
	for _, a := range n.n.Attr {
		if a.Key == name {
			return a.Val, true
		}
	}
	return "", false
}

// SetAttr sets or replaces an attribute.
func (n *Node) SetAttr(name, val string) {
	for i, a := range n.n.Attr {
		if a.Key == name {
			n.n.Attr[i].Val = val
			return
		}
	}
	n.n.Attr = append(n.n.Attr, html.Attribute{Key: name, Val: val})
}

// RemoveAttr deletes an attribute if present.
func (n *Node) RemoveAttr(name string) {
	n.n.Attr = slices.DeleteFunc(n.n.Attr, func(a html.Attribute) bool { return a.Key == name })
}

// Data returns the data-<name> attribute. It satisfies playback.Element.
func (n *Node) Data(name string) (string, bool) {
	return n.Attr("data-" + name)
}

// HasClass reports whether the class attribute lists class.
func (n *Node) HasClass(class string) bool {
	v, _ := n.Attr("class")
	return slices.Contains(strings.Fields(v), class)
}

// Disabled reports whether the element carries the disabled attribute.
func (n *Node) Disabled() bool {
	_, ok := n.Attr("disabled")
	return ok
}

// Matches reports whether the element matches sel.
func (n *Node) Matches(sel Selector) bool {
	return sel.Match(n.n)
}

// Closest returns the nearest inclusive ancestor matching sel, or nil.
func (n *Node) Closest(sel Selector) *Node {
	for p := n.n; p != nil; p = p.Parent {
		if p.Type == html.ElementNode && sel.Match(p) {
			return wrap(p)
		}
	}
	return nil
}

// Parent returns the parent element, or nil.
func (n *Node) Parent() *Node {
	if p := n.n.Parent; p != nil && p.Type == html.ElementNode {
		return wrap(p)
	}
	return nil
}

// Children returns the direct child elements matching sel.
func (n *Node) Children(sel Selector) []*Node {
	var out []*Node
	for c := n.n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && sel.Match(c) {
			out = append(out, wrap(c))
		}
	}
	return out
}

// Text returns the concatenated text content.
func (n *Node) Text() string {
	var b strings.Builder
	walk(n.n, func(c *html.Node) bool {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
		}
		return true
	})
	return b.String()
}

// Visible reports whether neither the element nor an ancestor is hidden by
// the hidden attribute or an inline display:none.
func (n *Node) Visible() bool {
	for p := n.n; p != nil; p = p.Parent {
		if p.Type != html.ElementNode {
			continue
		}
		w := &Node{n: p}
		if _, hidden := w.Attr("hidden"); hidden || w.displayNone() {
			return false
		}
	}
	return true
}

// Show removes the element's own hidden attribute and display:none style.
func (n *Node) Show() {
	n.RemoveAttr("hidden")
	style, ok := n.Attr("style")
	if !ok {
		return
	}
	var kept []string
	for _, decl := range strings.Split(style, ";") {
		if isDisplayNone(decl) || strings.TrimSpace(decl) == "" {
			continue
		}
		kept = append(kept, strings.TrimSpace(decl))
	}
	if len(kept) == 0 {
		n.RemoveAttr("style")
		return
	}
	n.SetAttr("style", strings.Join(kept, "; "))
}

// Unwrap replaces the element with its children.
func (n *Node) Unwrap() {
	parent := n.n.Parent
	if parent == nil {
		return
	}
	for c := n.n.FirstChild; c != nil; {
		next := c.NextSibling
		n.n.RemoveChild(c)
		parent.InsertBefore(c, n.n)
		c = next
	}
	parent.RemoveChild(n.n)
}

// Attached reports whether the element still has a parent.
func (n *Node) Attached() bool {
	return n.n.Parent != nil
}

func (n *Node) displayNone() bool {
	style, _ := n.Attr("style")
	for _, decl := range strings.Split(style, ";") {
		if isDisplayNone(decl) {
			return true
		}
	}
	return false
}

func isDisplayNone(decl string) bool {
	prop, val, ok := strings.Cut(decl, ":")
	return ok &&
		strings.EqualFold(strings.TrimSpace(prop), "display") &&
		strings.EqualFold(strings.TrimSpace(val), "none")
}
