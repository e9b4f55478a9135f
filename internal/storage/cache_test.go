// Copyright (c) 2024-2025 Velora App
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/velora-app/velora-tui/internal/api"
)

func openTestCache(t *testing.T) *Cache {
	t.Helper()
	cache, err := Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { cache.Close() })
	return cache
}

func TestCacheMissBeforeFirstWrite(t *testing.T) {
	cache := openTestCache(t)
	ctx := context.Background()

	_, _, err := cache.Categories(ctx)
	assert.True(t, errors.Is(err, ErrCacheMiss))

	_, _, err = cache.Services(ctx, 0)
	assert.True(t, errors.Is(err, ErrCacheMiss))

	_, err = cache.Service(ctx, 1)
	assert.True(t, errors.Is(err, ErrCacheMiss))
}

func TestCategoriesRoundTrip(t *testing.T) {
	cache := openTestCache(t)
	ctx := context.Background()

	in := []api.Category{{ID: 1, Name: "Nails"}, {ID: 2, Name: "Spa"}}
	require.NoError(t, cache.PutCategories(ctx, in))

	out, at, err := cache.Categories(ctx)
	require.NoError(t, err)
	assert.Equal(t, in, out)
	assert.False(t, at.IsZero())

	// A later put replaces, not appends.
	require.NoError(t, cache.PutCategories(ctx, []api.Category{{ID: 3, Name: "Gym"}}))
	out, _, err = cache.Categories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []api.Category{{ID: 3, Name: "Gym"}}, out)
}

func TestServicesUpsertAndFilter(t *testing.T) {
	cache := openTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.PutServices(ctx, []api.Service{
		{ID: 1, Name: "Gel Manicure", CategoryID: 1, Price: 250000, DurationMin: 45},
		{ID: 2, Name: "Hot Stone Massage", CategoryID: 2, Price: 600000, DurationMin: 90},
	}))

	// Upsert updates in place.
	require.NoError(t, cache.PutServices(ctx, []api.Service{
		{ID: 1, Name: "Gel Manicure Deluxe", CategoryID: 1, Price: 300000, DurationMin: 60},
	}))

	all, _, err := cache.Services(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	nails, _, err := cache.Services(ctx, 1)
	require.NoError(t, err)
	require.Len(t, nails, 1)
	assert.Equal(t, "Gel Manicure Deluxe", nails[0].Name)
	assert.Equal(t, int64(300000), nails[0].Price)

	svc, err := cache.Service(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "Hot Stone Massage", svc.Name)
}

func TestNotificationsRoundTripAndMarkRead(t *testing.T) {
	cache := openTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.PutNotifications(ctx, []api.Notification{
		{ID: 1, Title: "Booking confirmed", Read: false},
		{ID: 2, Title: "New promotion", Read: false},
	}))

	out, _, err := cache.Notifications(ctx)
	require.NoError(t, err)
	require.Len(t, out, 2)
	// Newest first.
	assert.Equal(t, 2, out[0].ID)

	require.NoError(t, cache.MarkRead(ctx, 1))
	out, _, err = cache.Notifications(ctx)
	require.NoError(t, err)
	for _, n := range out {
		if n.ID == 1 {
			assert.True(t, n.Read)
		} else {
			assert.False(t, n.Read)
		}
	}
}

func TestClear(t *testing.T) {
	cache := openTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.PutCategories(ctx, []api.Category{{ID: 1, Name: "Nails"}}))
	require.NoError(t, cache.PutServices(ctx, []api.Service{{ID: 1, Name: "Gel Manicure", CategoryID: 1}}))
	require.NoError(t, cache.Clear(ctx))

	_, _, err := cache.Categories(ctx)
	assert.True(t, errors.Is(err, ErrCacheMiss), "clear must also drop fetch markers")

	stats := cache.Stats()
	assert.Zero(t, stats.Categories)
	assert.Zero(t, stats.Services)
}

func TestStats(t *testing.T) {
	cache := openTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.PutCategories(ctx, []api.Category{{ID: 1, Name: "Nails"}, {ID: 2, Name: "Spa"}}))
	stats := cache.Stats()
	assert.Equal(t, 2, stats.Categories)
}
