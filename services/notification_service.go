package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"dailyByteAPI/internal/notification"
)

// PushProvider abstracts the push transport so the service works (as a
// no-op) when FCM credentials are absent.
type PushProvider interface {
	SendPush(ctx context.Context, tokens []notification.DeviceToken, title, body string, data map[string]string) error
}

type NotificationService struct {
	db   *pgxpool.Pool
	push PushProvider
}

func NewNotificationService(db *pgxpool.Pool) *NotificationService {
	return &NotificationService{db: db}
}

func (s *NotificationService) SetPushProvider(p PushProvider) {
	s.push = p
}

// RegisterDevice stores a push token for the user. Tokens are unique;
// re-registering moves the token to the latest user (device handoff).
func (s *NotificationService) RegisterDevice(ctx context.Context, userID uuid.UUID, req *notification.RegisterDeviceRequest) (*notification.DeviceToken, error) {
	if req.Token == "" {
		return nil, fmt.Errorf("device token is required")
	}

	query := `
	INSERT INTO device_tokens (id, user_id, token, platform, created_at)
	VALUES ($1, $2, $3, $4, NOW())
	ON CONFLICT (token) DO UPDATE SET user_id = EXCLUDED.user_id, platform = EXCLUDED.platform
	RETURNING id, user_id, token, platform, created_at
	`

	t := &notification.DeviceToken{}
	err := s.db.QueryRow(ctx, query, uuid.New(), userID, req.Token, req.Platform).Scan(
		&t.ID, &t.UserID, &t.Token, &t.Platform, &t.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to register device: %w", err)
	}

	return t, nil
}

// atRiskTokens finds device tokens of users who solved yesterday but not
// yet today, i.e. whose streak dies at midnight.
func (s *NotificationService) atRiskTokens(ctx context.Context, now time.Time) ([]notification.DeviceToken, error) {
	query := `
	SELECT dt.id, dt.user_id, dt.token, dt.platform, dt.created_at
	FROM device_tokens dt
	JOIN streaks s ON s.user_id = dt.user_id
	WHERE s.current_streak > 0
	  AND s.last_solved_date >= $1 AND s.last_solved_date < $2
	`

	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	yesterdayStart := todayStart.Add(-24 * time.Hour)

	rows, err := s.db.Query(ctx, query, yesterdayStart, todayStart)
	if err != nil {
		return nil, fmt.Errorf("failed to find at-risk users: %w", err)
	}
	defer rows.Close()

	tokens := []notification.DeviceToken{}
	for rows.Next() {
		var t notification.DeviceToken
		if err := rows.Scan(&t.ID, &t.UserID, &t.Token, &t.Platform, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan device token: %w", err)
		}
		tokens = append(tokens, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read device tokens: %w", err)
	}

	return tokens, nil
}

// reminders go out in the evening, UTC, once per day
const reminderHourUTC = 18

// StartReminderWorker runs a ticker goroutine that pushes a streak
// reminder to users who have not solved today's byte yet. It returns
// immediately; cancel ctx to stop the worker.
func (s *NotificationService) StartReminderWorker(ctx context.Context) {
	ticker := time.NewTicker(time.Hour)

	go func() {
		defer ticker.Stop()

		var lastSent time.Time
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				now := time.Now().UTC()
				if now.Hour() < reminderHourUTC {
					continue
				}
				today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
				if !lastSent.Before(today) {
					continue
				}
				if err := s.sendReminders(ctx, now); err != nil {
					log.Printf("Reminder worker: %v", err)
					continue
				}
				lastSent = today
			}
		}
	}()
}

func (s *NotificationService) sendReminders(ctx context.Context, now time.Time) error {
	if s.push == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	tokens, err := s.atRiskTokens(ctx, now)
	if err != nil {
		return err
	}
	if len(tokens) == 0 {
		return nil
	}

	log.Printf("Reminder worker: notifying %d devices", len(tokens))
	return s.push.SendPush(ctx, tokens,
		"Keep your streak alive",
		"Today's byte is waiting. Answer the quiz before midnight to keep your streak.",
		map[string]string{"type": "streak_reminder"},
	)
}
