package story

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStore_Bool(t *testing.T) {
	s := NewStore(map[string]any{
		"on":     true,
		"off":    false,
		"str":    "true",
		"one":    "1",
		"junk":   "maybe",
		"number": 1,
	})

	tests := []struct {
		name string
		want bool
	}{
		{"on", true},
		{"off", false},
		{"str", false},
		{"one", false},
		{"junk", false},
		{"number", false},
		{"missing", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, s.Bool(tt.name))
		})
	}
}

func TestReadVars_QuotedTrueDoesNotEnableToggle(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vars.yaml")
	require.NoError(t, os.WriteFile(path, []byte("applySfxToAllButtons: \"true\"\n"), 0o600))

	vars, err := ReadVars(path)
	require.NoError(t, err)

	s := NewStore(vars)
	require.False(t, NewToggle(s, "applySfxToAllButtons").Enabled())

	s.Set("applySfxToAllButtons", true)
	require.True(t, NewToggle(s, "applySfxToAllButtons").Enabled())
}

func TestStore_SeedIsCopied(t *testing.T) {
	seed := map[string]any{"a": 1}
	s := NewStore(seed)
	seed["a"] = 2

	v, ok := s.Get("a")
	require.True(t, ok)
	require.Equal(t, 1, v)
}

func TestStore_ReplaceAndSnapshot(t *testing.T) {
	s := NewStore(nil)
	s.Set("x", true)
	s.Replace(map[string]any{"y": "z"})

	_, ok := s.Get("x")
	require.False(t, ok)

	snap := s.Snapshot()
	snap["y"] = "mutated"
	v, _ := s.Get("y")
	require.Equal(t, "z", v)
}

func TestToggle_ReadsAtCallTime(t *testing.T) {
	s := NewStore(nil)
	toggle := NewToggle(s, "applySfxToAllButtons")
	require.False(t, toggle.Enabled())

	s.Set("applySfxToAllButtons", true)
	require.True(t, toggle.Enabled())

	s.Set("applySfxToAllButtons", false)
	require.False(t, toggle.Enabled())
}

func TestReadVars(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "vars.yaml")
	require.NoError(t, os.WriteFile(path, []byte("applySfxToAllButtons: true\nname: Ada\n"), 0o644))

	vars, err := ReadVars(path)
	require.NoError(t, err)
	require.Equal(t, true, vars["applySfxToAllButtons"])
	require.Equal(t, "Ada", vars["name"])

	require.NoError(t, os.WriteFile(path, []byte("- not\n- a map\n"), 0o644))
	_, err = ReadVars(path)
	require.Error(t, err)

	_, err = ReadVars(filepath.Join(dir, "missing.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}
