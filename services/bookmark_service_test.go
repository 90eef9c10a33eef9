package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	byteType "dailyByteAPI/internal/byte"
)

func TestBookmarkService_AddCheckRemove(t *testing.T) {
	pool := setupTestDB(t)
	u := createTestUser(t, pool)
	b := createTestByte(t, pool, "Bookmark target", time.Now().UTC(), "memory")
	svc := NewBookmarkService(pool)
	ctx := context.Background()

	bm, err := svc.Add(ctx, u.ID, b.ID)
	require.NoError(t, err)
	assert.Equal(t, u.ID, bm.UserID)
	assert.Equal(t, b.ID, bm.ByteID)

	saved, err := svc.Check(ctx, u.ID, b.ID)
	require.NoError(t, err)
	assert.True(t, saved)

	require.NoError(t, svc.Remove(ctx, u.ID, b.ID))

	saved, err = svc.Check(ctx, u.ID, b.ID)
	require.NoError(t, err)
	assert.False(t, saved)

	// removing again is fine
	require.NoError(t, svc.Remove(ctx, u.ID, b.ID))
}

func TestBookmarkService_DuplicateAddIsIdempotent(t *testing.T) {
	pool := setupTestDB(t)
	u := createTestUser(t, pool)
	b := createTestByte(t, pool, "Dup target", time.Now().UTC())
	svc := NewBookmarkService(pool)
	ctx := context.Background()

	first, err := svc.Add(ctx, u.ID, b.ID)
	require.NoError(t, err)

	second, err := svc.Add(ctx, u.ID, b.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID, "duplicate add must not create a second row")

	list, err := svc.List(ctx, u.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestBookmarkService_AddUnknownByte(t *testing.T) {
	pool := setupTestDB(t)
	u := createTestUser(t, pool)
	svc := NewBookmarkService(pool)

	_, err := svc.Add(context.Background(), u.ID, uuid.New())
	assert.ErrorIs(t, err, byteType.ErrNotFound)
}

func TestBookmarkService_ListJoinsByteContent(t *testing.T) {
	pool := setupTestDB(t)
	u := createTestUser(t, pool)
	older := createTestByte(t, pool, "Older byte", time.Now().UTC().Add(-48*time.Hour))
	newer := createTestByte(t, pool, "Newer byte", time.Now().UTC())
	svc := NewBookmarkService(pool)
	ctx := context.Background()

	_, err := svc.Add(ctx, u.ID, older.ID)
	require.NoError(t, err)
	_, err = svc.Add(ctx, u.ID, newer.ID)
	require.NoError(t, err)

	list, err := svc.List(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)

	// most recently bookmarked first, byte content attached
	assert.Equal(t, newer.ID, list[0].ByteID)
	require.NotNil(t, list[0].Byte)
	assert.Equal(t, "Newer byte", list[0].Byte.Title)
	assert.Equal(t, "Older byte", list[1].Byte.Title)
}
