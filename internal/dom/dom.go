// Package dom models a rendered story passage as a queryable element tree
// with a delegated event root, the minimum the sound gateway needs from a
// browser DOM.
package dom

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// EventClick is the only event type the gateway listens for.
const EventClick = "click"

// Event is a dispatched UI event.
type Event struct {
	Type   string
	Target *Node
}

// Document is a parsed passage plus its delegation root.
type Document struct {
	root *html.Node

	mu        sync.RWMutex
	listeners map[string][]func(Event)
}

// Parse reads an HTML passage.
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing passage: %w", err)
	}
	return &Document{root: root, listeners: make(map[string][]func(Event))}, nil
}

// ParseString reads an HTML passage from s.
func ParseString(s string) (*Document, error) {
	return Parse(strings.NewReader(s))
}

// On registers fn for events of the given type bubbling to the root.
func (d *Document) On(eventType string, fn func(Event)) {
	d.mu.Lock()
	d.listeners[eventType] = append(d.listeners[eventType], fn)
	d.mu.Unlock()
}

// Off removes every listener for the event type.
func (d *Document) Off(eventType string) {
	d.mu.Lock()
	delete(d.listeners, eventType)
	d.mu.Unlock()
}

// Dispatch delivers ev to the root's listeners. Events whose target is not
// attached to this document are dropped.
func (d *Document) Dispatch(ev Event) {
	if ev.Target == nil || !d.contains(ev.Target.n) {
		return
	}
	d.mu.RLock()
	fns := append([]func(Event){}, d.listeners[ev.Type]...)
	d.mu.RUnlock()

	for _, fn := range fns {
		fn(ev)
	}
}

// Click dispatches a click on target.
func (d *Document) Click(target *Node) {
	d.Dispatch(Event{Type: EventClick, Target: target})
}

// ByID returns the element with the given id attribute, or nil.
func (d *Document) ByID(id string) *Node {
	var found *html.Node
	walk(d.root, func(n *html.Node) bool {
		if n.Type == html.ElementNode && attr(n, "id") == id {
			found = n
			return false
		}
		return true
	})
	return wrap(found)
}

// Query returns the first element matching sel, or nil.
func (d *Document) Query(sel string) (*Node, error) {
	m, err := cascadia.Compile(sel)
	if err != nil {
		return nil, fmt.Errorf("compiling selector %q: %w", sel, err)
	}
	return wrap(cascadia.Query(d.root, m)), nil
}

// QueryAll returns every element matching sel in document order.
func (d *Document) QueryAll(sel string) ([]*Node, error) {
	m, err := cascadia.Compile(sel)
	if err != nil {
		return nil, fmt.Errorf("compiling selector %q: %w", sel, err)
	}
	found := cascadia.QueryAll(d.root, m)
	out := make([]*Node, 0, len(found))
	for _, n := range found {
		out = append(out, wrap(n))
	}
	return out, nil
}

// Body returns the body element.
func (d *Document) Body() *Node {
	var found *html.Node
	walk(d.root, func(n *html.Node) bool {
		if n.Type == html.ElementNode && n.DataAtom == atom.Body {
			found = n
			return false
		}
		return true
	})
	return wrap(found)
}

// HTML renders the body's inner HTML.
func (d *Document) HTML() string {
	body := d.Body()
	if body == nil {
		return ""
	}
	var buf bytes.Buffer
	for c := body.n.FirstChild; c != nil; c = c.NextSibling {
		_ = html.Render(&buf, c)
	}
	return buf.String()
}

func (d *Document) contains(n *html.Node) bool {
	for ; n != nil; n = n.Parent {
		if n == d.root {
			return true
		}
	}
	return false
}

// walk visits nodes depth-first until fn returns false.
func walk(n *html.Node, fn func(*html.Node) bool) bool {
	if n == nil {
		return true
	}
	if !fn(n) {
		return false
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if !walk(c, fn) {
			return false
		}
	}
	return true
}

func attr(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}
