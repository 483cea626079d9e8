package sfx_test

import (
	"context"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/chime/internal/assets"
	"github.com/zjrosen/chime/internal/dom"
	"github.com/zjrosen/chime/internal/gateway"
	"github.com/zjrosen/chime/internal/playback"
	"github.com/zjrosen/chime/internal/sfx"
	"github.com/zjrosen/chime/internal/sound"
	"github.com/zjrosen/chime/internal/sound/soundtest"
	"github.com/zjrosen/chime/internal/story"
)

func storyFS() fstest.MapFS {
	return fstest.MapFS{
		"scripts/assetList.yaml": &fstest.MapFile{Data: []byte("assetList:\n  - scripts/ui.yaml\n  - scripts/missing.yaml\n")},
		"scripts/ui.yaml":        &fstest.MapFile{Data: []byte("click: audio/click.wav\nding: audio/ding.wav\n")},
	}
}

func waitCtx(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func TestSystem_ReadyDespiteFailedDescriptor(t *testing.T) {
	backend := soundtest.NewBackend()
	sys := sfx.Start(context.Background(), sfx.Options{
		Fetcher:          assets.FSFetcher{FS: storyFS()},
		Backend:          backend,
		ManifestLocation: "scripts/assetList.yaml",
		DefaultVolume:    0.5,
	})

	sum, err := sys.Wait(waitCtx(t))
	require.NoError(t, err)
	require.Equal(t, 2, sum.Loaded)
	require.True(t, sum.HasClick)

	results := sys.Descriptors()
	require.Len(t, results, 2)
	require.NoError(t, results[0].Err)
	require.ErrorIs(t, results[1].Err, assets.ErrNotFound)

	require.Equal(t, []string{"click", "ding"}, sys.Registry().Keys())
	require.True(t, sys.Table().IsReady())
}

func TestSystem_ReadyWhenEveryDescriptorFails(t *testing.T) {
	backend := soundtest.NewBackend()
	played := make(chan playback.Event, 1)
	sys := sfx.Start(context.Background(), sfx.Options{
		Fetcher: assets.FSFetcher{FS: fstest.MapFS{
			"scripts/assetList.yaml": &fstest.MapFile{Data: []byte("assetList:\n  - scripts/gone.yaml\n  - scripts/also-gone.yaml\n")},
		}},
		Backend:          backend,
		ManifestLocation: "scripts/assetList.yaml",
		DefaultVolume:    0.5,
		Observer:         func(ev playback.Event) { played <- ev },
	})

	sum, err := sys.Wait(waitCtx(t))
	require.NoError(t, err)
	require.Zero(t, sum.Loaded)
	require.False(t, sum.HasClick)
	require.True(t, sys.Ready().Fired())
	require.True(t, sys.Table().IsReady())
	require.Empty(t, sys.Registry().Keys())
	for _, r := range sys.Descriptors() {
		require.ErrorIs(t, r.Err, assets.ErrNotFound)
	}

	require.NotPanics(t, func() {
		sys.Dispatcher().Play(playback.Attrs{})
		sys.Dispatcher().Play(playback.Attrs{playback.AttrPreset: "ding"})
		sys.Dispatcher().Play(playback.Attrs{playback.AttrSound: "audio/one-off.wav"})
	})
	select {
	case ev := <-played:
		require.Failf(t, "unexpected playback", "%+v", ev)
	case <-time.After(50 * time.Millisecond):
	}
	require.Empty(t, backend.Loads())
}

func TestSystem_FatalManifestStaysUnready(t *testing.T) {
	backend := soundtest.NewBackend()
	sys := sfx.Start(context.Background(), sfx.Options{
		Fetcher:          assets.FSFetcher{FS: fstest.MapFS{}},
		Backend:          backend,
		ManifestLocation: "scripts/assetList.yaml",
	})

	_, err := sys.Wait(waitCtx(t))
	require.ErrorIs(t, err, assets.ErrManifest)
	require.False(t, sys.Ready().Fired())
	require.Nil(t, sys.Table())

	require.NotPanics(t, func() {
		sys.Dispatcher().Play(playback.Attrs{})
	})
	require.Empty(t, backend.Loads())
}

func TestSystem_WaitHonoursContext(t *testing.T) {
	backend := soundtest.NewBackend()
	release := backend.Hold("audio/click.wav")
	defer release()

	sys := sfx.Start(context.Background(), sfx.Options{
		Fetcher:          assets.FSFetcher{FS: storyFS()},
		Backend:          backend,
		ManifestLocation: "scripts/assetList.yaml",
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := sys.Wait(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestSystem_ClickThroughGatewayPlaysDefault(t *testing.T) {
	backend := soundtest.NewBackend()
	played := make(chan playback.Event, 4)
	sys := sfx.Start(context.Background(), sfx.Options{
		Fetcher:          assets.FSFetcher{FS: storyFS()},
		Backend:          backend,
		ManifestLocation: "scripts/assetList.yaml",
		DefaultVolume:    0.5,
		Observer:         func(ev playback.Event) { played <- ev },
	})

	doc, err := dom.ParseString(`<button id="go">Go</button><button id="ding" data-sfx-preset="ding">Ding</button>`)
	require.NoError(t, err)
	vars := story.NewStore(map[string]any{"applySfxToAllButtons": true})
	g := gateway.New(doc, story.NewToggle(vars, "applySfxToAllButtons"), sys.Dispatcher(), sys.Ready())

	_, err = sys.Wait(waitCtx(t))
	require.NoError(t, err)
	require.Eventually(t, g.Active, time.Second, 5*time.Millisecond)

	doc.Click(doc.ByID("go"))
	ev := <-played
	require.Equal(t, playback.BranchDefault, ev.Branch)
	require.Equal(t, sound.ClickKey, ev.Key, "default aliases click")

	doc.Click(doc.ByID("ding"))
	ev = <-played
	require.Equal(t, playback.BranchPreset, ev.Branch)
	require.Equal(t, "ding", ev.Key)

	vars.Set("applySfxToAllButtons", false)
	doc.Click(doc.ByID("go"))
	select {
	case ev := <-played:
		require.Failf(t, "unexpected playback", "%+v", ev)
	case <-time.After(50 * time.Millisecond):
	}
}
