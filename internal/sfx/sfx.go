// Package sfx wires the sound pipeline together: manifest, descriptors,
// sound table, then readiness.
package sfx

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/zjrosen/chime/internal/assets"
	"github.com/zjrosen/chime/internal/latch"
	"github.com/zjrosen/chime/internal/log"
	"github.com/zjrosen/chime/internal/playback"
	"github.com/zjrosen/chime/internal/sound"
)

var tracer = otel.Tracer("github.com/zjrosen/chime/internal/sfx")

// Options configures a System.
type Options struct {
	Fetcher          assets.Fetcher
	Backend          sound.Backend
	ManifestLocation string
	DefaultVolume    float64

	// Observer is called after every started playback.
	Observer func(playback.Event)
}

// System is one running sound session.
type System struct {
	dispatcher *playback.Dispatcher
	ready      *latch.Latch[sound.Summary]
	fatal      *latch.Latch[error]

	mu          sync.RWMutex
	table       *sound.Table
	registry    assets.Registry
	descriptors []assets.DescriptorResult
}

// Start launches the pipeline in the background and returns immediately.
// The dispatcher is usable at once; it plays nothing until ready.
func Start(ctx context.Context, opts Options) *System {
	var dopts []playback.Option
	if opts.Observer != nil {
		dopts = append(dopts, playback.WithObserver(opts.Observer))
	}
	s := &System{
		dispatcher: playback.NewDispatcher(ctx, opts.Backend, dopts...),
		ready:      latch.New[sound.Summary](),
		fatal:      latch.New[error](),
	}
	go s.run(ctx, opts)
	return s
}

func (s *System) run(ctx context.Context, opts Options) {
	ctx, span := tracer.Start(ctx, "sfx.Start")
	span.SetAttributes(attribute.String("sfx.manifest", opts.ManifestLocation))

	m, err := assets.LoadManifest(ctx, opts.Fetcher, opts.ManifestLocation)
	if err != nil {
		log.Error(log.CatAssets, "Sound system disabled", "manifest", opts.ManifestLocation, "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "manifest")
		span.End()
		s.fatal.Fire(err)
		return
	}

	reg, results := assets.LoadDescriptors(ctx, opts.Fetcher, m)
	table := sound.NewBuilder(opts.Backend, opts.DefaultVolume).Build(ctx, reg)

	s.mu.Lock()
	s.table = table
	s.registry = reg
	s.descriptors = results
	s.mu.Unlock()

	s.dispatcher.Attach(table)
	table.Ready().Subscribe(func(sum sound.Summary) {
		span.SetAttributes(attribute.Int("sfx.loaded", sum.Loaded), attribute.Bool("sfx.has_click", sum.HasClick))
		span.End()
		s.ready.Fire(sum)
	})
}

// Dispatcher returns the playback entry point.
func (s *System) Dispatcher() *playback.Dispatcher {
	return s.dispatcher
}

// Ready fires once the sound table is complete. It never fires when the
// manifest could not be loaded.
func (s *System) Ready() *latch.Latch[sound.Summary] {
	return s.ready
}

// Wait blocks until the system is ready, the manifest fails, or ctx ends.
func (s *System) Wait(ctx context.Context) (sound.Summary, error) {
	select {
	case <-s.ready.Done():
		sum, _ := s.ready.Value()
		return sum, nil
	case <-s.fatal.Done():
		err, _ := s.fatal.Value()
		return sound.Summary{}, err
	case <-ctx.Done():
		return sound.Summary{}, ctx.Err()
	}
}

// Table returns the sound table, or nil before the descriptors settled.
func (s *System) Table() *sound.Table {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.table
}

// Registry returns the merged key to source mapping.
func (s *System) Registry() assets.Registry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.registry
}

// Descriptors returns the per-descriptor load outcomes in manifest order.
func (s *System) Descriptors() []assets.DescriptorResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.descriptors
}
