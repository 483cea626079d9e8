package dom

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const passage = `
<div id="p">
  <button id="b1" data-sfx-preset="ding" data-sfx-volume="0.2">Go <span id="inner">on</span></button>
  <button id="b2" disabled>Nope</button>
  <a id="l1" class="link-internal" href="#">next</a>
  <span class="reveal-wrapper" id="w">
    <a id="l2" class="link-internal" href="#">open</a>
    <span class="reveal-text" id="t" style="color: red; display: none">secret</span>
  </span>
  <div hidden><p id="buried">x</p></div>
</div>`

func mustParse(t *testing.T) *Document {
	t.Helper()
	doc, err := ParseString(passage)
	require.NoError(t, err)
	return doc
}

func TestByIDAndData(t *testing.T) {
	doc := mustParse(t)

	b := doc.ByID("b1")
	require.NotNil(t, b)
	require.Equal(t, "button", b.Tag())

	v, ok := b.Data("sfx-preset")
	require.True(t, ok)
	require.Equal(t, "ding", v)

	_, ok = b.Data("sfx")
	require.False(t, ok)

	require.Nil(t, doc.ByID("missing"))
}

func TestClosestIsInclusive(t *testing.T) {
	doc := mustParse(t)
	controls := MustCompile("button, a.link-internal")

	inner := doc.ByID("inner")
	require.True(t, inner.Closest(controls).Same(doc.ByID("b1")))

	l1 := doc.ByID("l1")
	require.True(t, l1.Closest(controls).Same(l1))

	require.Nil(t, doc.ByID("p").Closest(controls))
}

func TestDisabledAndClasses(t *testing.T) {
	doc := mustParse(t)
	require.True(t, doc.ByID("b2").Disabled())
	require.False(t, doc.ByID("b1").Disabled())
	require.True(t, doc.ByID("l1").HasClass("link-internal"))
	require.False(t, doc.ByID("l1").HasClass("link"))
}

func TestVisibility(t *testing.T) {
	doc := mustParse(t)

	require.True(t, doc.ByID("b1").Visible())
	require.False(t, doc.ByID("t").Visible())
	require.False(t, doc.ByID("buried").Visible(), "hidden ancestor hides descendants")

	text := doc.ByID("t")
	text.Show()
	require.True(t, text.Visible())
	style, ok := text.Attr("style")
	require.True(t, ok)
	require.Equal(t, "color: red", style)
}

func TestChildren(t *testing.T) {
	doc := mustParse(t)
	kids := doc.ByID("w").Children(MustCompile(".reveal-text"))
	require.Len(t, kids, 1)
	require.Equal(t, "secret", kids[0].Text())
}

func TestUnwrapKeepsChildren(t *testing.T) {
	doc := mustParse(t)
	link := doc.ByID("l2")
	link.Unwrap()

	require.False(t, link.Attached())
	require.Nil(t, doc.ByID("l2"))
	require.Contains(t, doc.ByID("w").Text(), "open")
}

func TestDispatchDelegatesToRoot(t *testing.T) {
	doc := mustParse(t)

	var got []*Node
	doc.On(EventClick, func(ev Event) { got = append(got, ev.Target) })

	doc.Click(doc.ByID("inner"))
	doc.Dispatch(Event{Type: "keydown", Target: doc.ByID("b1")})
	require.Len(t, got, 1)
	require.True(t, got[0].Same(doc.ByID("inner")))

	doc.Off(EventClick)
	doc.Click(doc.ByID("b1"))
	require.Len(t, got, 1)
}

func TestDispatchIgnoresDetachedTargets(t *testing.T) {
	doc := mustParse(t)
	other := mustParse(t)

	called := false
	doc.On(EventClick, func(Event) { called = true })
	doc.Click(other.ByID("b1"))
	doc.Click(nil)
	require.False(t, called)
}

func TestQuery(t *testing.T) {
	doc := mustParse(t)

	n, err := doc.Query("a.link-internal")
	require.NoError(t, err)
	require.True(t, n.Same(doc.ByID("l1")))

	all, err := doc.QueryAll("[data-sfx-preset]")
	require.NoError(t, err)
	require.Len(t, all, 1)

	_, err = doc.Query("[[")
	require.Error(t, err)
}

func TestHTMLRendersBody(t *testing.T) {
	doc, err := ParseString(`<p class="x">hi</p>`)
	require.NoError(t, err)
	require.Equal(t, `<p class="x">hi</p>`, doc.HTML())
}
