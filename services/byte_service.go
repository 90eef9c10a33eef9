package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	byteType "dailyByteAPI/internal/byte"
)

type ByteService struct {
	db *pgxpool.Pool
}

func NewByteService(db *pgxpool.Pool) *ByteService {
	return &ByteService{db: db}
}

const byteColumns = `id, title, summary, example, category, tags, date_published, quiz_question, quiz_options, quiz_correct_answer, created_at`

func scanByte(row pgx.Row) (*byteType.Byte, error) {
	b := &byteType.Byte{}
	err := row.Scan(
		&b.ID,
		&b.Title,
		&b.Summary,
		&b.Example,
		&b.Category,
		&b.Tags,
		&b.DatePublished,
		&b.Quiz.Question,
		&b.Quiz.Options,
		&b.Quiz.CorrectAnswer,
		&b.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (s *ByteService) Create(ctx context.Context, req *byteType.CreateByteRequest) (*byteType.Byte, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	datePublished := req.DatePublished
	if datePublished.IsZero() {
		datePublished = time.Now().UTC()
	}

	query := `
	INSERT INTO bytes (id, title, summary, example, category, tags, date_published, quiz_question, quiz_options, quiz_correct_answer, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW())
	RETURNING ` + byteColumns

	row := s.db.QueryRow(
		ctx,
		query,
		uuid.New(),
		req.Title,
		req.Summary,
		req.Example,
		req.Category,
		req.Tags,
		datePublished,
		req.Quiz.Question,
		req.Quiz.Options,
		req.Quiz.CorrectAnswer,
	)

	b, err := scanByte(row)
	if err != nil {
		return nil, fmt.Errorf("failed to create byte: %w", err)
	}

	return b, nil
}

// GetToday returns the byte published inside [today 00:00 UTC, +24h),
// preferring the latest when several were published. When today has no
// byte the newest byte overall is returned with fallback=true so the
// handler can attach an advisory message.
func (s *ByteService) GetToday(ctx context.Context, now time.Time) (*byteType.Byte, bool, error) {
	now = now.UTC()
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	tomorrowStart := todayStart.Add(24 * time.Hour)

	query := `
	SELECT ` + byteColumns + `
	FROM bytes
	WHERE date_published >= $1 AND date_published < $2
	ORDER BY date_published DESC, id DESC
	LIMIT 1
	`

	b, err := scanByte(s.db.QueryRow(ctx, query, todayStart, tomorrowStart))
	if err == nil {
		return b, false, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, false, fmt.Errorf("failed to get today's byte: %w", err)
	}

	fallbackQuery := `
	SELECT ` + byteColumns + `
	FROM bytes
	ORDER BY date_published DESC, id DESC
	LIMIT 1
	`

	b, err = scanByte(s.db.QueryRow(ctx, fallbackQuery))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, byteType.ErrNotFound
		}
		return nil, false, fmt.Errorf("failed to get latest byte: %w", err)
	}

	return b, true, nil
}

// List returns one page of bytes newest-first, filtered by category
// and/or tag when set, plus page metadata and the store-wide distinct
// category and tag sets for the filter UI.
func (s *ByteService) List(ctx context.Context, filter byteType.Filter, page int) (*byteType.ListResult, error) {
	where := ""
	args := []any{}

	if filter.Category != "" {
		args = append(args, filter.Category)
		where = fmt.Sprintf("WHERE category = $%d", len(args))
	}
	if filter.Tag != "" {
		args = append(args, filter.Tag)
		clause := fmt.Sprintf("$%d = ANY(tags)", len(args))
		if where == "" {
			where = "WHERE " + clause
		} else {
			where += " AND " + clause
		}
	}

	var totalCount int
	countQuery := "SELECT COUNT(*) FROM bytes " + where
	if err := s.db.QueryRow(ctx, countQuery, args...).Scan(&totalCount); err != nil {
		return nil, fmt.Errorf("failed to count bytes: %w", err)
	}

	pagination := byteType.Paginate(totalCount, page)

	// date_published alone is not unique; id breaks ties so pages never
	// overlap between requests.
	listQuery := fmt.Sprintf(`
	SELECT `+byteColumns+`
	FROM bytes
	%s
	ORDER BY date_published DESC, id DESC
	LIMIT $%d OFFSET $%d
	`, where, len(args)+1, len(args)+2)

	listArgs := append(args, byteType.PageSize, byteType.Offset(page))
	rows, err := s.db.Query(ctx, listQuery, listArgs...)
	if err != nil {
		return nil, fmt.Errorf("failed to list bytes: %w", err)
	}
	defer rows.Close()

	items := []*byteType.Byte{}
	for rows.Next() {
		b, err := scanByte(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan byte: %w", err)
		}
		items = append(items, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read bytes: %w", err)
	}

	metadata, err := s.listMetadata(ctx)
	if err != nil {
		return nil, err
	}

	return &byteType.ListResult{
		Items:      items,
		Pagination: pagination,
		Metadata:   *metadata,
	}, nil
}

// listMetadata reports the full distinct sets across all bytes, not
// just the filtered page.
func (s *ByteService) listMetadata(ctx context.Context) (*byteType.Metadata, error) {
	categories, err := s.GetCategories(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.Query(ctx, `SELECT DISTINCT unnest(tags) AS tag FROM bytes ORDER BY tag`)
	if err != nil {
		return nil, fmt.Errorf("failed to get tags: %w", err)
	}
	defer rows.Close()

	tags := []string{}
	for rows.Next() {
		var tag string
		if err := rows.Scan(&tag); err != nil {
			return nil, fmt.Errorf("failed to scan tag: %w", err)
		}
		tags = append(tags, tag)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read tags: %w", err)
	}

	return &byteType.Metadata{Categories: categories, Tags: tags}, nil
}

func (s *ByteService) GetByID(ctx context.Context, id uuid.UUID) (*byteType.Byte, error) {
	query := `SELECT ` + byteColumns + ` FROM bytes WHERE id = $1`

	b, err := scanByte(s.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, byteType.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get byte: %w", err)
	}

	return b, nil
}

func (s *ByteService) GetByCategory(ctx context.Context, category string) ([]*byteType.Byte, error) {
	query := `
	SELECT ` + byteColumns + `
	FROM bytes
	WHERE category = $1
	ORDER BY date_published DESC, id DESC
	`

	rows, err := s.db.Query(ctx, query, category)
	if err != nil {
		return nil, fmt.Errorf("failed to get bytes by category: %w", err)
	}
	defer rows.Close()

	bytes := []*byteType.Byte{}
	for rows.Next() {
		b, err := scanByte(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan byte: %w", err)
		}
		bytes = append(bytes, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read bytes: %w", err)
	}

	if len(bytes) == 0 {
		return nil, byteType.ErrNotFound
	}

	return bytes, nil
}

func (s *ByteService) GetCategories(ctx context.Context) ([]string, error) {
	rows, err := s.db.Query(ctx, `SELECT DISTINCT category FROM bytes ORDER BY category`)
	if err != nil {
		return nil, fmt.Errorf("failed to get categories: %w", err)
	}
	defer rows.Close()

	categories := []string{}
	for rows.Next() {
		var category string
		if err := rows.Scan(&category); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, category)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read categories: %w", err)
	}

	return categories, nil
}
