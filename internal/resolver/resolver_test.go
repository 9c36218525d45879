package resolver

import (
	"context"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MaximilianIsing/SNAPwise-NYC/internal/geo"
	"github.com/MaximilianIsing/SNAPwise-NYC/internal/model"
)

type fakeTier struct {
	name   string
	result TierResult
	calls  int
}

func (f *fakeTier) Name() string { return f.name }

func (f *fakeTier) Resolve(_ context.Context, _ string) TierResult {
	f.calls++
	return f.result
}

var testCoord = model.Coordinate{Latitude: 40.7, Longitude: -73.99}

func TestResolve_FirstHitWins(t *testing.T) {
	first := &fakeTier{name: "first", result: Hit(testCoord)}
	second := &fakeTier{name: "second", result: Hit(model.Coordinate{Latitude: 1, Longitude: 1})}

	got, err := New(first, second).Resolve(context.Background(), "10003")
	require.NoError(t, err)
	assert.Equal(t, testCoord, got)
	assert.Equal(t, 1, first.calls)
	assert.Equal(t, 0, second.calls, "later tiers are never consulted after a hit")
}

func TestResolve_SkipFallsThrough(t *testing.T) {
	first := &fakeTier{name: "first", result: Skip()}
	second := &fakeTier{name: "second", result: Hit(testCoord)}

	got, err := New(first, second).Resolve(context.Background(), "10003")
	require.NoError(t, err)
	assert.Equal(t, testCoord, got)
	assert.Equal(t, 1, first.calls)
}

func TestResolve_FailureDoesNotPropagate(t *testing.T) {
	failing := &fakeTier{name: "failing", result: Fail(eris.New("upstream down"))}
	second := &fakeTier{name: "second", result: Hit(testCoord)}

	got, err := New(failing, second).Resolve(context.Background(), "10003")
	require.NoError(t, err, "a failing tier is logged and skipped")
	assert.Equal(t, testCoord, got)
}

func TestResolve_Exhausted(t *testing.T) {
	_, err := New(
		&fakeTier{name: "a", result: Skip()},
		&fakeTier{name: "b", result: Fail(eris.New("down"))},
	).Resolve(context.Background(), "10003")

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestResolve_InvalidZip(t *testing.T) {
	tier := &fakeTier{name: "a", result: Hit(testCoord)}

	for _, raw := range []string{"", "   ", "N/A"} {
		_, err := New(tier).Resolve(context.Background(), raw)
		assert.ErrorIs(t, err, geo.ErrInvalidInput, "raw=%q", raw)
	}
	assert.Equal(t, 0, tier.calls, "invalid input never reaches the tiers")
}

func TestResolve_NormalizesBeforeTiers(t *testing.T) {
	var seen string
	rec := tierFunc(func(_ context.Context, zip string) TierResult {
		seen = zip
		return Hit(testCoord)
	})

	_, err := New(rec).Resolve(context.Background(), "10003-1234")
	require.NoError(t, err)
	assert.Equal(t, "10003", seen)
}

type tierFunc func(ctx context.Context, zip string) TierResult

func (f tierFunc) Name() string { return "func" }

func (f tierFunc) Resolve(ctx context.Context, zip string) TierResult { return f(ctx, zip) }
