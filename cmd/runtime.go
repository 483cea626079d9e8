package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/zjrosen/chime/internal/assets"
	"github.com/zjrosen/chime/internal/config"
	"github.com/zjrosen/chime/internal/playback"
	"github.com/zjrosen/chime/internal/sfx"
	"github.com/zjrosen/chime/internal/sound"
	"github.com/zjrosen/chime/internal/sound/ebitenaudio"
)

// newFetcher returns an HTTP fetcher when base_url is set, otherwise a
// filesystem fetcher rooted at asset_dir.
func newFetcher(sc config.SoundConfig) (assets.Fetcher, error) {
	if sc.BaseURL != "" {
		return assets.NewHTTPFetcher(sc.BaseURL, nil, sc.FetchTimeout)
	}
	info, err := os.Stat(sc.AssetDir)
	if err != nil {
		return nil, fmt.Errorf("asset directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("asset directory %s is not a directory", sc.AssetDir)
	}
	return assets.FSFetcher{FS: os.DirFS(sc.AssetDir)}, nil
}

// newBackend is replaced in tests.
var newBackend = func(sc config.SoundConfig, fetcher assets.Fetcher) (sound.Backend, error) {
	return ebitenaudio.New(assets.NewCachingFetcher(fetcher, sc.CacheTTL), sc.SampleRate)
}

// startSystem builds the fetcher and backend from config and starts the
// sound pipeline.
func startSystem(ctx context.Context, sc config.SoundConfig, observer func(playback.Event)) (*sfx.System, error) {
	fetcher, err := newFetcher(sc)
	if err != nil {
		return nil, err
	}
	backend, err := newBackend(sc, fetcher)
	if err != nil {
		return nil, fmt.Errorf("opening audio output: %w", err)
	}
	return sfx.Start(ctx, sfx.Options{
		Fetcher:          fetcher,
		Backend:          backend,
		ManifestLocation: sc.Manifest,
		DefaultVolume:    sc.DefaultVolume,
		Observer:         observer,
	}), nil
}
