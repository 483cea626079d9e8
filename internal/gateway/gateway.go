// Package gateway installs the delegated click listener that plays sounds for
// story controls once the sound system is ready.
package gateway

import (
	"sync/atomic"

	"github.com/zjrosen/chime/internal/dom"
	"github.com/zjrosen/chime/internal/log"
	"github.com/zjrosen/chime/internal/playback"
	"github.com/zjrosen/chime/internal/sound"
)

var (
	controlSelector = dom.MustCompile("button, a.link-internal")
	wrapperSelector = dom.MustCompile(".reveal-wrapper")
	textSelector    = dom.MustCompile(".reveal-text")
)

// Toggle reports whether sounds apply to every control. It is read on every
// click, so changes take effect without re-binding.
type Toggle interface {
	Enabled() bool
}

// ToggleFunc adapts a function to Toggle.
type ToggleFunc func() bool

// Enabled calls f.
func (f ToggleFunc) Enabled() bool { return f() }

// Player plays the sound configured on an element.
//
//go:generate mockery --name Player --with-expecter --output ../mocks --outpkg mocks
type Player interface {
	Play(el playback.Element)
}

// Root is the delegation root clicks bubble to.
type Root interface {
	On(eventType string, fn func(dom.Event))
}

// Readiness fires once the sound table is complete.
type Readiness interface {
	Subscribe(fn func(sound.Summary))
}

// Gateway routes clicks on controls to a Player.
type Gateway struct {
	toggle Toggle
	player Player
	active atomic.Bool
}

// New returns a gateway that binds its click listener to root when ready
// fires. Clicks before then are ignored.
func New(root Root, toggle Toggle, player Player, ready Readiness) *Gateway {
	g := &Gateway{toggle: toggle, player: player}
	ready.Subscribe(func(s sound.Summary) {
		log.Info(log.CatGateway, "Binding click gateway",
			"loaded", s.Loaded, "failed", s.Failed, "has_click", s.HasClick)
		root.On(dom.EventClick, g.handle)
		g.active.Store(true)
	})
	return g
}

// Active reports whether the click listener is bound.
func (g *Gateway) Active() bool {
	return g.active.Load()
}

func (g *Gateway) handle(ev dom.Event) {
	if !g.toggle.Enabled() || ev.Target == nil {
		return
	}
	ctrl := ev.Target.Closest(controlSelector)
	if ctrl == nil {
		return
	}
	// Reveal links play through Reveal.
	if ev.Target.Closest(wrapperSelector) != nil {
		return
	}
	if ctrl.Disabled() {
		log.Debug(log.CatGateway, "Ignoring disabled control", "tag", ctrl.Tag())
		return
	}
	g.player.Play(ctrl)
}

// Reveal handles activation of a reveal link: the first activation plays the
// link's sound, shows the hidden text and replaces the link with its own
// content. Later activations, or links whose text is already visible, do
// nothing.
func Reveal(link *dom.Node, player Player) bool {
	if link == nil || !link.Attached() {
		return false
	}
	var texts []*dom.Node
	if wrapper := link.Closest(wrapperSelector); wrapper != nil {
		texts = wrapper.Children(textSelector)
	} else {
		log.Debug(log.CatGateway, "Reveal link has no wrapper; unwrapping only")
	}
	for _, t := range texts {
		if t.Visible() {
			return false
		}
	}
	player.Play(link)
	for _, t := range texts {
		t.Show()
	}
	link.Unwrap()
	return true
}
