package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"dailyByteAPI/internal/bookmark"
	byteType "dailyByteAPI/internal/byte"
)

type BookmarkService struct {
	db *pgxpool.Pool
}

func NewBookmarkService(db *pgxpool.Pool) *BookmarkService {
	return &BookmarkService{db: db}
}

// Add saves a byte for the user. Re-adding an existing bookmark is a
// no-op that returns the existing row; the (user_id, byte_id) unique key
// keeps the set free of duplicates.
func (s *BookmarkService) Add(ctx context.Context, userID, byteID uuid.UUID) (*bookmark.Bookmark, error) {
	var exists bool
	err := s.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM bytes WHERE id = $1)`, byteID).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("failed to check byte: %w", err)
	}
	if !exists {
		return nil, byteType.ErrNotFound
	}

	// DO UPDATE on conflict so RETURNING always yields the row, new or
	// pre-existing.
	query := `
	INSERT INTO bookmarks (id, user_id, byte_id, created_at)
	VALUES ($1, $2, $3, NOW())
	ON CONFLICT (user_id, byte_id) DO UPDATE SET byte_id = EXCLUDED.byte_id
	RETURNING id, user_id, byte_id, created_at
	`

	b := &bookmark.Bookmark{}
	err = s.db.QueryRow(ctx, query, uuid.New(), userID, byteID).Scan(&b.ID, &b.UserID, &b.ByteID, &b.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to add bookmark: %w", err)
	}

	return b, nil
}

// Remove deletes the pair if present. Removing a bookmark that does not
// exist is not an error.
func (s *BookmarkService) Remove(ctx context.Context, userID, byteID uuid.UUID) error {
	_, err := s.db.Exec(ctx, `DELETE FROM bookmarks WHERE user_id = $1 AND byte_id = $2`, userID, byteID)
	if err != nil {
		return fmt.Errorf("failed to remove bookmark: %w", err)
	}
	return nil
}

func (s *BookmarkService) Check(ctx context.Context, userID, byteID uuid.UUID) (bool, error) {
	var exists bool
	err := s.db.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM bookmarks WHERE user_id = $1 AND byte_id = $2)
	`, userID, byteID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check bookmark: %w", err)
	}
	return exists, nil
}

// List returns the user's saved bytes, most recently bookmarked first,
// each joined with the byte's current content.
func (s *BookmarkService) List(ctx context.Context, userID uuid.UUID) ([]*bookmark.WithByte, error) {
	query := `
	SELECT bm.id, bm.user_id, bm.byte_id, bm.created_at,
	       b.id, b.title, b.summary, b.example, b.category, b.tags, b.date_published,
	       b.quiz_question, b.quiz_options, b.quiz_correct_answer, b.created_at
	FROM bookmarks bm
	JOIN bytes b ON b.id = bm.byte_id
	WHERE bm.user_id = $1
	ORDER BY bm.created_at DESC, bm.id DESC
	`

	rows, err := s.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookmarks: %w", err)
	}
	defer rows.Close()

	bookmarks := []*bookmark.WithByte{}
	for rows.Next() {
		item := &bookmark.WithByte{Byte: &byteType.Byte{}}
		err := rows.Scan(
			&item.ID,
			&item.UserID,
			&item.ByteID,
			&item.CreatedAt,
			&item.Byte.ID,
			&item.Byte.Title,
			&item.Byte.Summary,
			&item.Byte.Example,
			&item.Byte.Category,
			&item.Byte.Tags,
			&item.Byte.DatePublished,
			&item.Byte.Quiz.Question,
			&item.Byte.Quiz.Options,
			&item.Byte.Quiz.CorrectAnswer,
			&item.Byte.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bookmark: %w", err)
		}
		bookmarks = append(bookmarks, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read bookmarks: %w", err)
	}

	return bookmarks, nil
}
