package rediscache_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"parceltrack/internal/adapters/out/rediscache"
	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/core/ports"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockReverseGeocoder struct {
	mock.Mock
}

func (m *MockReverseGeocoder) ReverseGeocode(ctx context.Context, location kernel.Location) (string, error) {
	args := m.Called(ctx, location)
	return args.String(0), args.Error(1)
}

func newCache(t *testing.T, ttl time.Duration) (*rediscache.LabelCache, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	cache, err := rediscache.NewLabelCache("redis://"+mr.Addr(), ttl)
	require.NoError(t, err)
	t.Cleanup(func() { _ = cache.Close() })

	return cache, mr
}

func location(t *testing.T, lat, lng float64) kernel.Location {
	t.Helper()
	loc, err := kernel.NewLocation(lat, lng)
	require.NoError(t, err)
	return loc
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestLabelCache_GetSet(t *testing.T) {
	cache, mr := newCache(t, time.Hour)
	ctx := t.Context()
	loc := location(t, 51.339712, 12.373098)

	_, err := cache.Get(ctx, loc)
	require.ErrorIs(t, err, rediscache.ErrLabelNotCached)

	require.NoError(t, cache.Set(ctx, loc, "Leipzig"))

	label, err := cache.Get(ctx, loc)
	require.NoError(t, err)
	assert.Equal(t, "Leipzig", label)
	assert.True(t, mr.Exists("label:51.3397:12.3731"))
}

func TestLabelCache_NearbyPointsShareKey(t *testing.T) {
	cache, _ := newCache(t, time.Hour)
	ctx := t.Context()

	require.NoError(t, cache.Set(ctx, location(t, 51.33971, 12.37309), "Leipzig"))

	label, err := cache.Get(ctx, location(t, 51.33969, 12.37311))
	require.NoError(t, err)
	assert.Equal(t, "Leipzig", label)
}

func TestLabelCache_TTL(t *testing.T) {
	cache, mr := newCache(t, time.Minute)
	ctx := t.Context()
	loc := location(t, 48.1351, 11.582)

	require.NoError(t, cache.Set(ctx, loc, "Munich"))
	assert.Equal(t, time.Minute, mr.TTL("label:48.1351:11.5820"))

	mr.FastForward(2 * time.Minute)

	_, err := cache.Get(ctx, loc)
	require.ErrorIs(t, err, rediscache.ErrLabelNotCached)
}

func TestLabelCache_DefaultTTL(t *testing.T) {
	cache, mr := newCache(t, 0)

	require.NoError(t, cache.Set(t.Context(), location(t, 0, 0), "Null Island"))

	assert.Equal(t, rediscache.DefaultLabelTTL, mr.TTL("label:0.0000:0.0000"))
}

func TestLabelCache_Ping(t *testing.T) {
	cache, _ := newCache(t, time.Hour)
	assert.NoError(t, cache.Ping(t.Context()))
}

func TestNewLabelCache_InvalidURL(t *testing.T) {
	_, err := rediscache.NewLabelCache("invalid://url", time.Hour)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse Redis URL")
}

func TestCachingReverseGeocoder(t *testing.T) {
	t.Run("miss asks provider and fills cache", func(t *testing.T) {
		cache, _ := newCache(t, time.Hour)
		loc := location(t, 52.52, 13.405)

		next := new(MockReverseGeocoder)
		next.On("ReverseGeocode", mock.Anything, loc).Return("Berlin", nil).Once()

		geocoder := rediscache.NewCachingReverseGeocoder(next, cache, discardLogger())

		label, err := geocoder.ReverseGeocode(t.Context(), loc)
		require.NoError(t, err)
		assert.Equal(t, "Berlin", label)

		label, err = geocoder.ReverseGeocode(t.Context(), loc)
		require.NoError(t, err)
		assert.Equal(t, "Berlin", label)

		next.AssertExpectations(t)
	})

	t.Run("provider errors are returned and not cached", func(t *testing.T) {
		cache, _ := newCache(t, time.Hour)
		loc := location(t, 10, 10)

		next := new(MockReverseGeocoder)
		next.On("ReverseGeocode", mock.Anything, loc).Return("", ports.ErrProviderUnavailable).Twice()

		geocoder := rediscache.NewCachingReverseGeocoder(next, cache, discardLogger())

		for range 2 {
			_, err := geocoder.ReverseGeocode(t.Context(), loc)
			require.ErrorIs(t, err, ports.ErrProviderUnavailable)
		}
		next.AssertExpectations(t)
	})

	t.Run("unreachable cache is bypassed", func(t *testing.T) {
		cache, mr := newCache(t, time.Hour)
		mr.SetError("ERR simulated outage")
		loc := location(t, 50.1109, 8.6821)

		next := new(MockReverseGeocoder)
		next.On("ReverseGeocode", mock.Anything, loc).Return("Frankfurt", nil).Once()

		geocoder := rediscache.NewCachingReverseGeocoder(next, cache, discardLogger())

		label, err := geocoder.ReverseGeocode(t.Context(), loc)
		require.NoError(t, err)
		assert.Equal(t, "Frankfurt", label)
		next.AssertExpectations(t)
	})

	t.Run("invalid location", func(t *testing.T) {
		cache, _ := newCache(t, time.Hour)
		next := new(MockReverseGeocoder)
		geocoder := rediscache.NewCachingReverseGeocoder(next, cache, discardLogger())

		_, err := geocoder.ReverseGeocode(t.Context(), kernel.Location{})

		require.True(t, errors.Is(err, kernel.ErrLocationIsNotConstructed))
		next.AssertNotCalled(t, "ReverseGeocode", mock.Anything, mock.Anything)
	})
}
