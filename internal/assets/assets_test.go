package assets

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func storyFS() fstest.MapFS {
	return fstest.MapFS{
		"scripts/assetList.yaml": &fstest.MapFile{Data: []byte(`assetList:
  - scripts/ui.yaml
  - scripts/ambient.yaml
chime: audio/chime.wav
`)},
		"scripts/ui.yaml": &fstest.MapFile{Data: []byte(`click: audio/click.wav
page: audio/page.mp3
`)},
		"scripts/ambient.yaml": &fstest.MapFile{Data: []byte(`rain: audio/rain.ogg
page: audio/page-soft.mp3
`)},
	}
}

func TestLoadManifest_ParsesListAndInlineEntries(t *testing.T) {
	m, err := LoadManifest(context.Background(), FSFetcher{FS: storyFS()}, "scripts/assetList.yaml")

	require.NoError(t, err)
	require.Equal(t, "scripts/assetList.yaml", m.Location)
	require.Equal(t, []string{"scripts/ui.yaml", "scripts/ambient.yaml"}, m.Descriptors)
	require.Equal(t, map[string]string{"chime": "audio/chime.wav"}, m.Inline)
}

func TestLoadManifest_FatalErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"missing list", "click: audio/click.wav\n"},
		{"list of maps", "assetList:\n  - a: b\n"},
		{"list is scalar", "assetList: scripts/ui.yaml\n"},
		{"malformed yaml", "assetList: [unterminated\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fsys := fstest.MapFS{"m.yaml": &fstest.MapFile{Data: []byte(tt.data)}}
			_, err := LoadManifest(context.Background(), FSFetcher{FS: fsys}, "m.yaml")
			require.ErrorIs(t, err, ErrManifest)
		})
	}
}

func TestLoadManifest_MissingResource(t *testing.T) {
	_, err := LoadManifest(context.Background(), FSFetcher{FS: fstest.MapFS{}}, "scripts/assetList.yaml")

	require.ErrorIs(t, err, ErrManifest)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestLoadDescriptors_MergesInManifestOrder(t *testing.T) {
	f := FSFetcher{FS: storyFS()}
	m, err := LoadManifest(context.Background(), f, "scripts/assetList.yaml")
	require.NoError(t, err)

	reg, results := LoadDescriptors(context.Background(), f, m)

	require.Len(t, results, 2)
	for _, r := range results {
		require.NoError(t, r.Err)
	}
	require.Equal(t, []string{"chime", "click", "page", "rain"}, reg.Keys())

	src, ok := reg.Source("page")
	require.True(t, ok)
	require.Equal(t, "audio/page-soft.mp3", src, "later descriptor wins on collision")
}

func TestLoadDescriptors_ToleratesFailures(t *testing.T) {
	fsys := storyFS()
	fsys["scripts/broken.yaml"] = &fstest.MapFile{Data: []byte("click: [oops\n")}
	m := Manifest{Descriptors: []string{"scripts/missing.yaml", "scripts/broken.yaml", "scripts/ui.yaml"}}

	reg, results := LoadDescriptors(context.Background(), FSFetcher{FS: fsys}, m)

	require.Len(t, results, 3)
	require.ErrorIs(t, results[0].Err, ErrNotFound)
	require.Error(t, results[1].Err)
	require.NoError(t, results[2].Err)
	require.Equal(t, []string{"click", "page"}, reg.Keys())
}

func TestLoadDescriptors_AllFailYieldsEmptyRegistry(t *testing.T) {
	m := Manifest{Descriptors: []string{"a.yaml", "b.yaml"}}

	reg, results := LoadDescriptors(context.Background(), FSFetcher{FS: fstest.MapFS{}}, m)

	require.Len(t, results, 2)
	require.Zero(t, reg.Len())
}

func TestLoadDescriptors_SkipsNonStringValues(t *testing.T) {
	fsys := fstest.MapFS{"d.yaml": &fstest.MapFile{Data: []byte(`click: audio/click.wav
volume: 0.5
nested:
  a: b
empty: ""
`)}}

	reg, _ := LoadDescriptors(context.Background(), FSFetcher{FS: fsys}, Manifest{Descriptors: []string{"d.yaml"}})

	require.Equal(t, []string{"click"}, reg.Keys())
}

func TestRegistry_DropsManifestKey(t *testing.T) {
	reg := NewRegistry(map[string]string{ManifestKey: "x", "click": "audio/click.wav"})

	require.Equal(t, 1, reg.Len())
	_, ok := reg.Source(ManifestKey)
	require.False(t, ok)

	entries := reg.Entries()
	entries["click"] = "mutated"
	src, _ := reg.Source("click")
	require.Equal(t, "audio/click.wav", src, "Entries returns a copy")
}

// flakyFetcher fails the locations listed in fail and records call counts.
type flakyFetcher struct {
	fail  map[string]bool
	calls atomic.Int32
}

func (f *flakyFetcher) Fetch(_ context.Context, location string) ([]byte, error) {
	f.calls.Add(1)
	if f.fail[location] {
		return nil, errors.New("network down")
	}
	return []byte(fmt.Sprintf("%s: audio/%s.wav\n", location, location)), nil
}

// TestProperty_AnySubsetOfFailuresSettles verifies every descriptor is
// attempted exactly once and exactly the successful ones contribute keys.
func TestProperty_AnySubsetOfFailuresSettles(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(0, 12).Draw(t, "descriptors")
		locs := make([]string, n)
		fail := make(map[string]bool)
		succeeded := 0
		for i := range locs {
			locs[i] = fmt.Sprintf("d%d", i)
			if rapid.Bool().Draw(t, locs[i]) {
				fail[locs[i]] = true
			} else {
				succeeded++
			}
		}

		f := &flakyFetcher{fail: fail}
		reg, results := LoadDescriptors(context.Background(), f, Manifest{Descriptors: locs})

		if int(f.calls.Load()) != n {
			t.Fatalf("fetched %d times, want %d", f.calls.Load(), n)
		}
		if len(results) != n {
			t.Fatalf("got %d results, want %d", len(results), n)
		}
		if reg.Len() != succeeded {
			t.Fatalf("registry has %d keys, want %d", reg.Len(), succeeded)
		}
		for _, loc := range locs {
			_, ok := reg.Source(loc)
			if ok == fail[loc] {
				t.Fatalf("key %s present=%v but failed=%v", loc, ok, fail[loc])
			}
		}
	})
}

func TestHTTPFetcher_ResolvesAgainstBase(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/story/scripts/ui.yaml":
			_, _ = w.Write([]byte("click: audio/click.wav\n"))
		case "/story/boom":
			w.WriteHeader(http.StatusInternalServerError)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	f, err := NewHTTPFetcher(srv.URL+"/story/", srv.Client(), 0)
	require.NoError(t, err)

	data, err := f.Fetch(context.Background(), "scripts/ui.yaml")
	require.NoError(t, err)
	require.Equal(t, "click: audio/click.wav\n", string(data))

	_, err = f.Fetch(context.Background(), "scripts/missing.yaml")
	require.ErrorIs(t, err, ErrNotFound)

	_, err = f.Fetch(context.Background(), "boom")
	require.Error(t, err)
	require.Contains(t, err.Error(), "500")
}

func TestHTTPFetcher_RejectsOversizedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/big.wav":
			_, _ = w.Write(bytes.Repeat([]byte{0}, maxBodySize+1))
		case "/exact.wav":
			_, _ = w.Write(bytes.Repeat([]byte{0}, maxBodySize))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	f, err := NewHTTPFetcher(srv.URL, srv.Client(), 0)
	require.NoError(t, err)

	data, err := f.Fetch(context.Background(), "big.wav")
	require.ErrorIs(t, err, ErrTooLarge)
	require.Nil(t, data)

	data, err = f.Fetch(context.Background(), "exact.wav")
	require.NoError(t, err)
	require.Len(t, data, maxBodySize)
}

func TestHTTPFetcher_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	f, err := NewHTTPFetcher(srv.URL, srv.Client(), 20*time.Millisecond)
	require.NoError(t, err)

	_, err = f.Fetch(context.Background(), "slow.yaml")
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestNewHTTPFetcher_RejectsNonHTTP(t *testing.T) {
	_, err := NewHTTPFetcher("ftp://example.com/", nil, 0)
	require.Error(t, err)
}

func TestFSFetcher_RejectsRemoteLocations(t *testing.T) {
	_, err := FSFetcher{FS: fstest.MapFS{}}.Fetch(context.Background(), "https://example.com/a.wav")
	require.Error(t, err)
}

func TestCachingFetcher_ServesRepeatsFromMemory(t *testing.T) {
	next := &flakyFetcher{fail: map[string]bool{"bad": true}}
	f := NewCachingFetcher(next, time.Minute)

	for i := 0; i < 3; i++ {
		_, err := f.Fetch(context.Background(), "good")
		require.NoError(t, err)
	}
	require.Equal(t, int32(1), next.calls.Load())

	for i := 0; i < 2; i++ {
		_, err := f.Fetch(context.Background(), "bad")
		require.Error(t, err)
	}
	require.Equal(t, int32(3), next.calls.Load(), "errors are not cached")
}

func TestNewCachingFetcher_ZeroTTLDisablesCache(t *testing.T) {
	next := &flakyFetcher{}
	require.Same(t, Fetcher(next), NewCachingFetcher(next, 0))
}
