package cache

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// tick is a hand-driven epoch source.
type tick struct{ n uint64 }

func (t *tick) Epoch() uint64 { return t.n }

func TestGetMemoizes(t *testing.T) {
	c := New()
	calls := 0
	f := func() []float64 {
		calls++
		return []float64{1, 2, 3}
	}

	a := Get(c, "gamma", f)
	b := Get(c, "gamma", f)
	require.Equal(t, 1, calls)
	// Hits return the stored slice itself, not a recomputation.
	require.Same(t, &a[0], &b[0])
	require.Equal(t, 1, c.Len())
}

func TestInvalidateForcesRecompute(t *testing.T) {
	c := New()
	calls := 0
	f := func() int { calls++; return calls }

	require.Equal(t, 1, Get(c, "k", f))
	c.Invalidate()
	require.Equal(t, 2, Get(c, "k", f))
	require.Equal(t, 2, Get(c, "k", f))
	require.Equal(t, 2, calls)
}

func TestUpstreamEpochPropagates(t *testing.T) {
	up := &tick{}
	c := New(up)
	calls := 0
	f := func() int { calls++; return calls }

	Get(c, "k", f)
	Get(c, "k", f)
	require.Equal(t, 1, calls)

	up.n++
	require.Equal(t, 2, Get(c, "k", f))
	require.Equal(t, 2, calls)
}

func TestTransitiveChain(t *testing.T) {
	base := New()
	mid := New(base)
	top := New(mid)

	before := top.Epoch()
	base.Invalidate()
	require.Greater(t, top.Epoch(), before)
}

func TestDistinctKeysAreIndependent(t *testing.T) {
	c := New()
	ka, kb := 0, 0
	Get(c, "a", func() int { ka++; return ka })
	Get(c, "b", func() int { kb++; return kb })
	Get(c, "a", func() int { ka++; return ka })
	require.Equal(t, 1, ka)
	require.Equal(t, 1, kb)
	require.Equal(t, 2, c.Len())
}

func TestReentrantCompute(t *testing.T) {
	c := New()
	inner := 0
	outer := Get(c, "outer", func() int {
		return 10 + Get(c, "inner", func() int { inner++; return inner })
	})
	require.Equal(t, 11, outer)

	// The inner entry was stored during the outer compute and stays warm.
	require.Equal(t, 1, Get(c, "inner", func() int { inner++; return inner }))
	require.Equal(t, 1, inner)
}

func TestEpochMonotonic(t *testing.T) {
	up := &tick{}
	c := New(up)
	prev := c.Epoch()
	for i := 0; i < 5; i++ {
		c.Invalidate()
		up.n += 3
		cur := c.Epoch()
		require.Greater(t, cur, prev)
		prev = cur
	}
}
