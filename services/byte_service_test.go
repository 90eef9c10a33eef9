package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	byteType "dailyByteAPI/internal/byte"
)

func TestByteService_GetTodayPrefersTodaysByte(t *testing.T) {
	pool := setupTestDB(t)
	svc := NewByteService(pool)
	ctx := context.Background()

	now := time.Now().UTC()
	createTestByte(t, pool, "Yesterday's byte", now.Add(-24*time.Hour))
	todays := createTestByte(t, pool, "Today's byte", now.Add(-time.Minute))

	got, fallback, err := svc.GetToday(ctx, now)
	require.NoError(t, err)
	assert.False(t, fallback)
	assert.Equal(t, todays.ID, got.ID)
}

func TestByteService_GetTodayFallsBackToLatest(t *testing.T) {
	pool := setupTestDB(t)
	svc := NewByteService(pool)
	ctx := context.Background()

	now := time.Now().UTC()
	createTestByte(t, pool, "A while ago", now.Add(-72*time.Hour))
	latest := createTestByte(t, pool, "Most recent", now.Add(-36*time.Hour))

	got, fallback, err := svc.GetToday(ctx, now)
	require.NoError(t, err)
	assert.True(t, fallback)
	assert.Equal(t, latest.ID, got.ID)
}

func TestByteService_ListFiltersAndPaginates(t *testing.T) {
	pool := setupTestDB(t)
	svc := NewByteService(pool)
	ctx := context.Background()

	now := time.Now().UTC()
	// 13 bytes -> 3 pages of 6
	for i := 0; i < 13; i++ {
		tags := []string{"memory"}
		if i%2 == 0 {
			tags = append(tags, "bias")
		}
		createTestByte(t, pool, "Byte", now.Add(-time.Duration(i)*time.Hour), tags...)
	}

	result, err := svc.List(ctx, byteType.Filter{Category: "TestCategory"}, 1)
	require.NoError(t, err)
	assert.Len(t, result.Items, byteType.PageSize)
	assert.Equal(t, 13, result.Pagination.TotalCount)
	assert.Equal(t, 3, result.Pagination.TotalPages)
	assert.Contains(t, result.Metadata.Categories, "TestCategory")
	assert.Contains(t, result.Metadata.Tags, "memory")
	assert.Contains(t, result.Metadata.Tags, "bias")

	// newest first
	require.True(t, len(result.Items) > 1)
	assert.True(t, !result.Items[0].DatePublished.Before(result.Items[1].DatePublished))

	// page past the end is empty, not an error
	empty, err := svc.List(ctx, byteType.Filter{Category: "TestCategory"}, 4)
	require.NoError(t, err)
	assert.Empty(t, empty.Items)
	assert.Equal(t, 3, empty.Pagination.TotalPages)

	// tag filter ANDs with category
	tagged, err := svc.List(ctx, byteType.Filter{Category: "TestCategory", Tag: "bias"}, 1)
	require.NoError(t, err)
	assert.Equal(t, 7, tagged.Pagination.TotalCount)
}

func TestByteService_GetByCategoryNotFound(t *testing.T) {
	pool := setupTestDB(t)
	svc := NewByteService(pool)

	_, err := svc.GetByCategory(context.Background(), "NoSuchCategory")
	assert.ErrorIs(t, err, byteType.ErrNotFound)
}
