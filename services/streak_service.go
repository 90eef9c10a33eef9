package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"dailyByteAPI/internal/streak"
)

type StreakService struct {
	db *pgxpool.Pool
}

func NewStreakService(db *pgxpool.Pool) *StreakService {
	return &StreakService{db: db}
}

type StreakInfo struct {
	CurrentStreak  int            `json:"currentStreak"`
	MaxStreak      int            `json:"maxStreak"`
	LastSolvedDate *time.Time     `json:"lastSolvedDate,omitempty"`
	Badges         []streak.Badge `json:"badges"`
}

// RecordSolve advances the user's streak for a correct quiz answer at
// now and awards any badges the new streak length unlocks. The whole
// read-modify-write runs in one transaction with the row locked, so two
// same-day solves cannot both get past the already-solved check.
func (s *StreakService) RecordSolve(ctx context.Context, userID uuid.UUID, now time.Time) (*StreakInfo, []streak.Badge, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	rec := &streak.Streak{UserID: userID}
	err = tx.QueryRow(ctx, `
		SELECT id, user_id, current_streak, max_streak, last_solved_date
		FROM streaks
		WHERE user_id = $1
		FOR UPDATE
	`, userID).Scan(&rec.ID, &rec.UserID, &rec.CurrentStreak, &rec.MaxStreak, &rec.LastSolvedDate)

	switch {
	case errors.Is(err, pgx.ErrNoRows):
		if err := rec.RecordSolve(now); err != nil {
			return nil, nil, err
		}
		err = tx.QueryRow(ctx, `
			INSERT INTO streaks (id, user_id, current_streak, max_streak, last_solved_date, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
			RETURNING id
		`, uuid.New(), userID, rec.CurrentStreak, rec.MaxStreak, rec.LastSolvedDate).Scan(&rec.ID)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create streak: %w", err)
		}
	case err != nil:
		return nil, nil, fmt.Errorf("failed to load streak: %w", err)
	default:
		if err := rec.RecordSolve(now); err != nil {
			return nil, nil, err
		}
		_, err = tx.Exec(ctx, `
			UPDATE streaks
			SET current_streak = $2, max_streak = $3, last_solved_date = $4, updated_at = NOW()
			WHERE user_id = $1
		`, userID, rec.CurrentStreak, rec.MaxStreak, rec.LastSolvedDate)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to update streak: %w", err)
		}
	}

	existing, err := loadBadges(ctx, tx, userID)
	if err != nil {
		return nil, nil, err
	}

	newBadges := []streak.Badge{}
	for _, badgeType := range streak.NewlyEarned(rec.CurrentStreak, existing) {
		b := streak.Badge{Type: badgeType, AwardedAt: now.UTC()}
		_, err = tx.Exec(ctx, `
			INSERT INTO streak_badges (id, user_id, badge_type, awarded_at)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (user_id, badge_type) DO NOTHING
		`, uuid.New(), userID, b.Type, b.AwardedAt)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to award badge: %w", err)
		}
		newBadges = append(newBadges, b)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, nil, fmt.Errorf("failed to commit streak update: %w", err)
	}

	info := &StreakInfo{
		CurrentStreak:  rec.CurrentStreak,
		MaxStreak:      rec.MaxStreak,
		LastSolvedDate: rec.LastSolvedDate,
		Badges:         append(existing, newBadges...),
	}
	return info, newBadges, nil
}

// GetInfo returns the user's streak state, lazily zeroing a streak
// whose last solve is more than a day old. Users with no record get a
// zero-value view; no row is created for them.
func (s *StreakService) GetInfo(ctx context.Context, userID uuid.UUID, now time.Time) (*StreakInfo, error) {
	rec := &streak.Streak{UserID: userID}
	err := s.db.QueryRow(ctx, `
		SELECT id, user_id, current_streak, max_streak, last_solved_date
		FROM streaks
		WHERE user_id = $1
	`, userID).Scan(&rec.ID, &rec.UserID, &rec.CurrentStreak, &rec.MaxStreak, &rec.LastSolvedDate)

	if errors.Is(err, pgx.ErrNoRows) {
		return &StreakInfo{Badges: []streak.Badge{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load streak: %w", err)
	}

	if rec.Decay(now) {
		_, err = s.db.Exec(ctx, `
			UPDATE streaks SET current_streak = 0, updated_at = NOW() WHERE user_id = $1
		`, userID)
		if err != nil {
			return nil, fmt.Errorf("failed to reset stale streak: %w", err)
		}
	}

	badges, err := loadBadges(ctx, s.db, userID)
	if err != nil {
		return nil, err
	}

	return &StreakInfo{
		CurrentStreak:  rec.CurrentStreak,
		MaxStreak:      rec.MaxStreak,
		LastSolvedDate: rec.LastSolvedDate,
		Badges:         badges,
	}, nil
}

// querier lets badge loading run either on the pool or inside a
// transaction.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func loadBadges(ctx context.Context, q querier, userID uuid.UUID) ([]streak.Badge, error) {
	rows, err := q.Query(ctx, `
		SELECT badge_type, awarded_at
		FROM streak_badges
		WHERE user_id = $1
		ORDER BY awarded_at, badge_type
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load badges: %w", err)
	}
	defer rows.Close()

	badges := []streak.Badge{}
	for rows.Next() {
		var b streak.Badge
		if err := rows.Scan(&b.Type, &b.AwardedAt); err != nil {
			return nil, fmt.Errorf("failed to scan badge: %w", err)
		}
		badges = append(badges, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read badges: %w", err)
	}

	return badges, nil
}
