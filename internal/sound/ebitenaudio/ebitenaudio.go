// Package ebitenaudio implements sound.Backend on top of Ebitengine's audio
// package. WAV, MP3 and Ogg Vorbis sources are decoded fully into memory
// before Load returns, which is this backend's "can play through" point.
package ebitenaudio

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/audio/mp3"
	"github.com/hajimehoshi/ebiten/v2/audio/vorbis"
	"github.com/hajimehoshi/ebiten/v2/audio/wav"

	"github.com/zjrosen/chime/internal/assets"
	"github.com/zjrosen/chime/internal/log"
	"github.com/zjrosen/chime/internal/sound"
)

// pollInterval is how often a playing handle checks for the end of playback.
const pollInterval = 10 * time.Millisecond

// Backend loads sources through a fetcher and plays them on an audio context.
type Backend struct {
	ctx     *audio.Context
	fetcher assets.Fetcher
}

// New creates a backend. Ebitengine allows one audio context per process;
// an existing context is reused when its sample rate matches.
func New(fetcher assets.Fetcher, sampleRate int) (*Backend, error) {
	ctx := audio.CurrentContext()
	if ctx == nil {
		ctx = audio.NewContext(sampleRate)
	} else if ctx.SampleRate() != sampleRate {
		return nil, fmt.Errorf("audio context already running at %d Hz, want %d Hz", ctx.SampleRate(), sampleRate)
	}
	return &Backend{ctx: ctx, fetcher: fetcher}, nil
}

// Load implements sound.Backend.
func (b *Backend) Load(ctx context.Context, source string) (sound.Handle, error) {
	data, err := b.fetcher.Fetch(ctx, source)
	if err != nil {
		return nil, err
	}

	stream, err := decode(b.ctx.SampleRate(), sound.DetectFormat(source, data), data)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", source, err)
	}

	p, err := b.ctx.NewPlayer(stream)
	if err != nil {
		return nil, fmt.Errorf("creating player for %s: %w", source, err)
	}
	return &handle{source: source, player: p}, nil
}

func decode(sampleRate int, f sound.Format, data []byte) (io.ReadSeeker, error) {
	r := bytes.NewReader(data)
	switch f {
	case sound.FormatWAV:
		return wav.DecodeWithSampleRate(sampleRate, r)
	case sound.FormatMP3:
		return mp3.DecodeWithSampleRate(sampleRate, r)
	case sound.FormatVorbis:
		return vorbis.DecodeWithSampleRate(sampleRate, r)
	default:
		return nil, sound.ErrUnsupportedFormat
	}
}

// handle adapts *audio.Player to sound.Handle and reports the end of playback.
type handle struct {
	source string
	player *audio.Player

	mu       sync.Mutex
	onEnded  func()
	watching bool
	closed   bool
}

func (h *handle) Play() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return fmt.Errorf("playing %s: handle closed", h.source)
	}
	h.player.Play()
	if !h.watching {
		h.watching = true
		go h.watch()
	}
	return nil
}

// watch polls until playback stops, then runs the ended callback.
func (h *handle) watch() {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for range ticker.C {
		h.mu.Lock()
		if h.closed {
			h.watching = false
			h.mu.Unlock()
			return
		}
		if h.player.IsPlaying() {
			h.mu.Unlock()
			continue
		}
		h.watching = false
		fn := h.onEnded
		h.mu.Unlock()

		if fn != nil {
			fn()
		}
		log.Debug(log.CatSound, "Playback ended", "source", h.source)
		return
	}
}

func (h *handle) Rewind() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.player.Rewind()
}

func (h *handle) Volume() float64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.player.Volume()
}

func (h *handle) SetVolume(v float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.player.SetVolume(v)
}

func (h *handle) OnEnded(fn func()) {
	h.mu.Lock()
	h.onEnded = fn
	h.mu.Unlock()
}

func (h *handle) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil
	}
	h.closed = true
	return h.player.Close()
}
