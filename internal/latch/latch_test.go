package latch

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestLatch_FireOnce(t *testing.T) {
	l := New[int]()
	require.False(t, l.Fired())

	_, ok := l.Value()
	require.False(t, ok)

	require.True(t, l.Fire(1))
	require.False(t, l.Fire(2), "second Fire must be a no-op")

	v, ok := l.Value()
	require.True(t, ok)
	require.Equal(t, 1, v, "value from the first Fire is kept")
}

func TestLatch_SubscribeBeforeAndAfterFire(t *testing.T) {
	l := New[string]()

	var got []string
	l.Subscribe(func(v string) { got = append(got, "early:"+v) })
	l.Subscribe(func(v string) { got = append(got, "early2:"+v) })

	l.Fire("ready")
	l.Subscribe(func(v string) { got = append(got, "late:"+v) })

	require.Equal(t, []string{"early:ready", "early2:ready", "late:ready"}, got)
}

func TestLatch_WaitReturnsOnFire(t *testing.T) {
	l := New[int]()
	go func() {
		time.Sleep(10 * time.Millisecond)
		l.Fire(42)
	}()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	v, err := l.Wait(ctx)
	require.NoError(t, err)
	require.Equal(t, 42, v)
}

func TestLatch_WaitHonoursContext(t *testing.T) {
	l := New[int]()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := l.Wait(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestLatch_ConcurrentFire(t *testing.T) {
	l := New[int]()

	var calls atomic.Int32
	l.Subscribe(func(int) { calls.Add(1) })

	var wins atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if l.Fire(i) {
				wins.Add(1)
			}
		}(i)
	}
	wg.Wait()

	require.Equal(t, int32(1), wins.Load())
	require.Equal(t, int32(1), calls.Load())
}

// TestProperty_SubscribersRunExactlyOnce interleaves subscriptions and fires
// in arbitrary order; every subscriber runs exactly once with the first value.
func TestProperty_SubscribersRunExactlyOnce(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		l := New[int]()
		ops := rapid.SliceOfN(rapid.Bool(), 1, 30).Draw(t, "ops")

		var counts []int
		var values []int
		first := -1
		for i, subscribe := range ops {
			if subscribe {
				idx := len(counts)
				counts = append(counts, 0)
				values = append(values, -1)
				l.Subscribe(func(v int) {
					counts[idx]++
					values[idx] = v
				})
				continue
			}
			if l.Fire(i) && first == -1 {
				first = i
			}
		}
		if first == -1 {
			l.Fire(len(ops))
			first = len(ops)
		}

		for i, c := range counts {
			if c != 1 {
				t.Fatalf("subscriber %d ran %d times", i, c)
			}
			if values[i] != first {
				t.Fatalf("subscriber %d saw %d, want %d", i, values[i], first)
			}
		}
	})
}
