package streak

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrAlreadySolvedToday rejects a second qualifying solve on the same
// calendar day. The record is left untouched.
var ErrAlreadySolvedToday = errors.New("already completed today's byte")

type Streak struct {
	ID             uuid.UUID  `json:"id" db:"id"`
	UserID         uuid.UUID  `json:"user_id" db:"user_id"`
	CurrentStreak  int        `json:"currentStreak" db:"current_streak"`
	MaxStreak      int        `json:"maxStreak" db:"max_streak"`
	LastSolvedDate *time.Time `json:"lastSolvedDate" db:"last_solved_date"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at" db:"updated_at"`
}

type BadgeType string

const (
	BadgeWeek   BadgeType = "WEEK_STREAK"
	BadgeBiweek BadgeType = "BIWEEK_STREAK"
	BadgeMonth  BadgeType = "MONTH_STREAK"
)

type Badge struct {
	Type      BadgeType `json:"type" db:"badge_type"`
	AwardedAt time.Time `json:"awardedAt" db:"awarded_at"`
}

type BadgeThreshold struct {
	MinStreak int
	Type      BadgeType
}

// Thresholds maps streak lengths to the badge they unlock, largest
// first. Each entry is an independent predicate over the current streak,
// so every qualifying badge not yet held is awarded in one pass.
var Thresholds = []BadgeThreshold{
	{MinStreak: 30, Type: BadgeMonth},
	{MinStreak: 15, Type: BadgeBiweek},
	{MinStreak: 7, Type: BadgeWeek},
}

// NormalizeDate truncates a timestamp to midnight UTC. All day-level
// comparisons use this so a solve at 23:59 and one at 00:01 land on
// different days regardless of time-of-day.
func NormalizeDate(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the whole calendar days from a to b (negative when
// a is after b).
func DaysBetween(a, b time.Time) int {
	return int(NormalizeDate(b).Sub(NormalizeDate(a)).Hours() / 24)
}

// RecordSolve advances the streak for a qualifying solve at now.
// Same-day repeats fail with ErrAlreadySolvedToday; a consecutive day
// extends the run; any other gap (including a last-solved date in the
// future) resets the run to 1. MaxStreak only ever grows.
func (s *Streak) RecordSolve(now time.Time) error {
	today := NormalizeDate(now)

	if s.LastSolvedDate == nil {
		s.CurrentStreak = 1
		s.MaxStreak = 1
		s.LastSolvedDate = &today
		return nil
	}

	switch diff := DaysBetween(*s.LastSolvedDate, today); diff {
	case 0:
		return ErrAlreadySolvedToday
	case 1:
		s.CurrentStreak++
		if s.CurrentStreak > s.MaxStreak {
			s.MaxStreak = s.CurrentStreak
		}
	default:
		s.CurrentStreak = 1
	}

	s.LastSolvedDate = &today
	return nil
}

// Decay zeroes a stale streak on read: if more than one day has passed
// since the last solve the run is over, even though no solve came in to
// observe that. Returns true when the record changed and needs saving.
func (s *Streak) Decay(now time.Time) bool {
	if s.LastSolvedDate == nil || s.CurrentStreak == 0 {
		return false
	}
	if DaysBetween(*s.LastSolvedDate, NormalizeDate(now)) > 1 {
		s.CurrentStreak = 0
		return true
	}
	return false
}

// NewlyEarned returns the badges unlocked by the given streak length
// that are not already held, in threshold-table order. Badges are
// one-time awards, so a badge already in existing never comes back.
func NewlyEarned(currentStreak int, existing []Badge) []BadgeType {
	held := make(map[BadgeType]bool, len(existing))
	for _, b := range existing {
		held[b.Type] = true
	}

	var earned []BadgeType
	for _, th := range Thresholds {
		if currentStreak >= th.MinStreak && !held[th.Type] {
			earned = append(earned, th.Type)
		}
	}
	return earned
}
