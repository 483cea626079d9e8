package playback

import (
	"math"
	"strconv"
	"strings"

	"github.com/zjrosen/chime/internal/log"
)

// Data attribute names read from elements, without the "data-" prefix.
const (
	AttrSound  = "sfx"        // one-off sound source
	AttrPreset = "sfx-preset" // named preset key
	AttrVolume = "sfx-volume" // per-call volume override
)

// Element is anything that declares sound preferences through data attributes.
type Element interface {
	Data(name string) (string, bool)
}

// Attrs is an Element backed by a map, keyed by attribute name.
type Attrs map[string]string

// Data implements Element.
func (a Attrs) Data(name string) (string, bool) {
	v, ok := a[name]
	return v, ok
}

// Prefs are the sound preferences an element declares.
type Prefs struct {
	Path      string
	Preset    string
	Volume    float64
	HasVolume bool
}

// ReadPrefs extracts preferences from el. An unparsable volume is ignored;
// a parsed one is clamped to [0, 1].
func ReadPrefs(el Element) Prefs {
	var p Prefs
	if v, ok := el.Data(AttrSound); ok {
		p.Path = strings.TrimSpace(v)
	}
	if v, ok := el.Data(AttrPreset); ok {
		p.Preset = strings.TrimSpace(v)
	}
	if v, ok := el.Data(AttrVolume); ok {
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil || math.IsNaN(f) {
			log.Warn(log.CatPlayback, "Ignoring invalid volume override", "value", v)
			return p
		}
		p.Volume = min(max(f, 0), 1)
		p.HasVolume = true
	}
	return p
}
