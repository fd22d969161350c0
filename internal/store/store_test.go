package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignite/fuel-alert/internal/cycle"
)

var testCities = []string{"sydney", "melbourne", "perth"}

func newFileStores(t *testing.T) (*StateStore, *SubscriberStore) {
	t.Helper()
	backend := NewFileBackend(t.TempDir())
	return NewStateStore(backend, testCities), NewSubscriberStore(backend, testCities)
}

func TestStateStoreDefaultsToUnknown(t *testing.T) {
	states, _ := newFileStores(t)

	rec, err := states.Load(context.Background())
	require.NoError(t, err)

	assert.Len(t, rec, len(testCities))
	for _, city := range testCities {
		assert.Equal(t, cycle.PhaseUnknown, rec[city], city)
	}
}

func TestStateStoreRoundTrip(t *testing.T) {
	states, _ := newFileStores(t)
	ctx := context.Background()

	rec := cycle.StateRecord{"sydney": cycle.PhaseBuy, "melbourne": cycle.PhaseWait, "perth": cycle.PhaseWait}
	require.NoError(t, states.Save(ctx, rec))

	loaded, err := states.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, rec, loaded)
}

func TestStateStoreDropsUnknownCities(t *testing.T) {
	backend := NewFileBackend(t.TempDir())
	ctx := context.Background()

	// A previously configured city lingers in the persisted file
	require.NoError(t, backend.SaveState(ctx, cycle.StateRecord{
		"sydney": cycle.PhaseBuy,
		"hobart": cycle.PhaseWait,
	}))

	states := NewStateStore(backend, testCities)
	rec, err := states.Load(ctx)
	require.NoError(t, err)

	assert.Equal(t, cycle.PhaseBuy, rec["sydney"])
	assert.NotContains(t, rec, "hobart")
	assert.Equal(t, cycle.PhaseUnknown, rec["perth"])
}

func TestSubscriberAddIsIdempotent(t *testing.T) {
	_, subs := newFileStores(t)
	ctx := context.Background()

	status, err := subs.Add(ctx, "sydney", "User@Example.com ")
	require.NoError(t, err)
	assert.Equal(t, Added, status)

	// Second add of a differently cased spelling is a no-op
	status, err = subs.Add(ctx, "sydney", "user@example.com")
	require.NoError(t, err)
	assert.Equal(t, AlreadySubscribed, status)

	reg, err := subs.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"user@example.com"}, reg["sydney"])
}

func TestSubscriberRemove(t *testing.T) {
	_, subs := newFileStores(t)
	ctx := context.Background()

	_, err := subs.Add(ctx, "perth", "a@example.com")
	require.NoError(t, err)
	_, err = subs.Add(ctx, "perth", "b@example.com")
	require.NoError(t, err)

	status, err := subs.Remove(ctx, "perth", "a@example.com")
	require.NoError(t, err)
	assert.Equal(t, Removed, status)

	reg, err := subs.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"b@example.com"}, reg["perth"])
}

func TestSubscriberRemoveAbsentIsNoop(t *testing.T) {
	_, subs := newFileStores(t)
	ctx := context.Background()

	status, err := subs.Remove(ctx, "sydney", "ghost@example.com")
	require.NoError(t, err)
	assert.Equal(t, NotSubscribed, status)

	reg, err := subs.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, reg["sydney"])
}

func TestSubscriberRejectsUnknownCity(t *testing.T) {
	_, subs := newFileStores(t)
	ctx := context.Background()

	_, err := subs.Add(ctx, "hobart", "user@example.com")
	assert.Error(t, err)

	_, err = subs.Remove(ctx, "hobart", "user@example.com")
	assert.Error(t, err)

	// Nothing was persisted
	reg, err := subs.Load(ctx)
	require.NoError(t, err)
	for _, city := range testCities {
		assert.Empty(t, reg[city])
	}
}

func TestSubscribersPerCityIsolation(t *testing.T) {
	_, subs := newFileStores(t)
	ctx := context.Background()

	_, err := subs.Add(ctx, "sydney", "user@example.com")
	require.NoError(t, err)

	reg, err := subs.Load(ctx)
	require.NoError(t, err)
	assert.True(t, reg.Has("sydney", "user@example.com"))
	assert.False(t, reg.Has("melbourne", "user@example.com"))
}

func TestNewBackendSelection(t *testing.T) {
	b, err := NewBackend(configFor("file", t.TempDir()))
	require.NoError(t, err)
	assert.IsType(t, &FileBackend{}, b)

	_, err = NewBackend(configFor("carrier-pigeon", ""))
	assert.Error(t, err)
}
