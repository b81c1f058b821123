package onboarding

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestRegistryOpenReplacesFlow(t *testing.T) {
	h := newHarness(2)
	reg, err := NewRegistry(h.deps, 2, time.Minute)
	require.NoError(t, err)

	id := uuid.New()
	_, err = reg.Get(id)
	require.ErrorIs(t, err, ErrNoFlow)

	first, err := reg.Open(id)
	require.NoError(t, err)
	got, err := reg.Get(id)
	require.NoError(t, err)
	require.Same(t, first, got)

	second, err := reg.Open(id)
	require.NoError(t, err)
	require.NotSame(t, first, second)
	got, err = reg.Get(id)
	require.NoError(t, err)
	require.Same(t, second, got)
	require.Equal(t, 1, reg.Len())

	reg.Close(id)
	_, err = reg.Get(id)
	require.ErrorIs(t, err, ErrNoFlow)
}

func TestRegistryEvictsLeastRecentlyUsed(t *testing.T) {
	h := newHarness(1)
	reg, err := NewRegistry(h.deps, 1, time.Minute)
	require.NoError(t, err)

	a, b := uuid.New(), uuid.New()
	_, err = reg.Open(a)
	require.NoError(t, err)
	_, err = reg.Open(b)
	require.NoError(t, err)

	_, err = reg.Get(a)
	require.ErrorIs(t, err, ErrNoFlow)
	_, err = reg.Get(b)
	require.NoError(t, err)
}
