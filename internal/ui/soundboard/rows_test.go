package soundboard

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/chime/internal/assets"
	"github.com/zjrosen/chime/internal/sound"
	"github.com/zjrosen/chime/internal/sound/soundtest"
)

func TestRowsFromTable_SkipsDefaultAlias(t *testing.T) {
	reg := assets.NewRegistry(map[string]string{
		"click": "audio/click.wav",
		"ding":  "audio/ding.wav",
	})
	table := sound.NewBuilder(soundtest.NewBackend(), 0.4).Build(context.Background(), reg)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := table.Ready().Wait(ctx)
	require.NoError(t, err)

	got := RowsFromTable(table)
	require.Equal(t, []Row{
		{Key: "click", Source: "audio/click.wav", Volume: 0.4},
		{Key: "ding", Source: "audio/ding.wav", Volume: 0.4},
	}, got)

	require.Nil(t, RowsFromTable(nil))
}
