package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"
	"google.golang.org/api/idtoken"

	"dailyByteAPI/internal/user"
	"dailyByteAPI/utils"
)

type UserService struct {
	db *pgxpool.Pool
}

func NewUserService(db *pgxpool.Pool) *UserService {
	return &UserService{db: db}
}

const userColumns = `id, first_name, last_name, email, COALESCE(password_hash, ''), COALESCE(avatar, ''), google_id, created_at`

func scanUser(row pgx.Row) (*user.User, error) {
	u := &user.User{}
	err := row.Scan(
		&u.ID,
		&u.FirstName,
		&u.LastName,
		&u.Email,
		&u.PasswordHash,
		&u.Avatar,
		&u.GoogleID,
		&u.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return u, nil
}

// Register creates an email/password account. The email is the unique
// key; a taken email fails with ErrUserExists.
func (s *UserService) Register(ctx context.Context, req *user.RegisterRequest) (*user.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	var exists bool
	err := s.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`, email).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("failed to check user: %w", err)
	}
	if exists {
		return nil, user.ErrUserExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	query := `
	INSERT INTO users (id, first_name, last_name, email, password_hash, avatar, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, NOW())
	RETURNING ` + userColumns

	u, err := scanUser(s.db.QueryRow(
		ctx,
		query,
		uuid.New(),
		req.FirstName,
		req.LastName,
		email,
		string(hash),
		utils.DefaultAvatarURL(req.FirstName, req.LastName),
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return u, nil
}

// Login checks email/password credentials. Unknown email and wrong
// password produce the same error so the response leaks nothing about
// which half was wrong.
func (s *UserService) Login(ctx context.Context, email, password string) (*user.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	u, err := scanUser(s.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, user.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if u.PasswordHash == "" {
		// Google-only account, no password to match against
		return nil, user.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, user.ErrInvalidCredentials
	}

	return u, nil
}

// GoogleLogin verifies a Google ID token against GOOGLE_CLIENT_ID and
// signs the holder in, linking the Google subject to an existing account
// with the same email or creating a fresh account.
func (s *UserService) GoogleLogin(ctx context.Context, rawIDToken string) (*user.User, error) {
	clientID := os.Getenv("GOOGLE_CLIENT_ID")
	if clientID == "" {
		return nil, fmt.Errorf("GOOGLE_CLIENT_ID environment variable is not set")
	}

	payload, err := idtoken.Validate(ctx, rawIDToken, clientID)
	if err != nil {
		return nil, user.ErrInvalidCredentials
	}

	email, _ := payload.Claims["email"].(string)
	if email == "" {
		return nil, user.ErrInvalidCredentials
	}
	email = strings.ToLower(email)
	googleID := payload.Subject
	firstName, _ := payload.Claims["given_name"].(string)
	lastName, _ := payload.Claims["family_name"].(string)
	picture, _ := payload.Claims["picture"].(string)

	u, err := scanUser(s.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email))
	if err == nil {
		if u.GoogleID == nil {
			err = s.db.QueryRow(ctx, `
				UPDATE users
				SET google_id = $2, avatar = COALESCE(NULLIF($3, ''), avatar)
				WHERE id = $1
				RETURNING `+userColumns, u.ID, googleID, picture,
			).Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.PasswordHash, &u.Avatar, &u.GoogleID, &u.CreatedAt)
			if err != nil {
				return nil, fmt.Errorf("failed to link google account: %w", err)
			}
		}
		return u, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if picture == "" {
		picture = utils.DefaultAvatarURL(firstName, lastName)
	}

	query := `
	INSERT INTO users (id, first_name, last_name, email, avatar, google_id, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, NOW())
	RETURNING ` + userColumns

	u, err = scanUser(s.db.QueryRow(ctx, query, uuid.New(), firstName, lastName, email, picture, googleID))
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return u, nil
}

func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	u, err := scanUser(s.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, user.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}
