package sound

import (
	"context"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/chime/internal/assets"
	"github.com/zjrosen/chime/internal/log"
)

var tracer = otel.Tracer("github.com/zjrosen/chime/internal/sound")

// Builder turns a registry into a Table.
type Builder struct {
	backend Backend
	volume  float64
}

// NewBuilder creates a builder loading through backend. Loaded entries start
// at volume; a value outside [0, 1] falls back to DefaultVolume.
func NewBuilder(backend Backend, volume float64) *Builder {
	if volume < 0 || volume > 1 {
		volume = DefaultVolume
	}
	return &Builder{backend: backend, volume: volume}
}

// Build starts loading every registry entry and returns the table at once.
// Wait on Table.Ready for the outcome. Every key gets exactly one load
// attempt; readiness fires after the last attempt settles, or immediately
// for an empty registry.
func (b *Builder) Build(ctx context.Context, reg assets.Registry) *Table {
	table := NewTable()
	start := time.Now()

	keys := reg.Keys()
	total := len(keys)
	if total == 0 {
		log.Warn(log.CatSound, "No sound data loaded; check the manifest and descriptor documents")
		table.finalize(Summary{Elapsed: time.Since(start)})
		return table
	}

	ctx, span := tracer.Start(ctx, "sound.Build", trace.WithAttributes(attribute.Int("sound.total", total)))

	var settled, loaded atomic.Int64
	settle := func() {
		if settled.Add(1) != int64(total) {
			return
		}
		s := Summary{
			Total:   total,
			Loaded:  int(loaded.Load()),
			Failed:  total - int(loaded.Load()),
			Elapsed: time.Since(start),
		}
		span.SetAttributes(attribute.Int("sound.loaded", s.Loaded), attribute.Int("sound.failed", s.Failed))
		span.End()
		if table.finalize(s) {
			log.Info(log.CatSound, "Sound system ready",
				"loaded", s.Loaded, "failed", s.Failed, "elapsed", s.Elapsed)
		}
	}

	for _, key := range keys {
		source, _ := reg.Source(key)
		go func() {
			defer settle()

			h, err := b.backend.Load(ctx, source)
			if err != nil {
				log.Error(log.CatSound, "Sound failed to load", "key", key, "source", source, "error", err)
				return
			}
			h.SetVolume(b.volume)
			table.put(&Entry{Key: key, Source: source, Handle: h, DefaultVolume: b.volume})
			n := loaded.Add(1)
			log.Debug(log.CatSound, "Sound ready", "key", key, "progress", n, "total", total)
		}()
	}

	return table
}
