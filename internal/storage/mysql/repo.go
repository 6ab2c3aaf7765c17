package mysql

import (
	"context"
	"database/sql"
	"time"
	"unicode/utf8"

	"smart_travel/internal/domain"
)

const maxReason = 512

func valStr(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func clip(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

// Repo stores one row per category search.
type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

func (r *Repo) Record(ctx context.Context, e domain.SearchLogEntry) error {
	_, err := r.db.ExecContext(ctx, insertSearchSQL,
		clip(e.Location, 255),
		e.Category,
		clip(e.Query, 320),
		e.Results,
		e.Status,
		valStr(clip(e.Reason, maxReason)),
	)
	return err
}

func (r *Repo) Recent(ctx context.Context, limit int) ([]domain.SearchLogEntry, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx, recentSearchesSQL, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.SearchLogEntry, 0, limit)
	for rows.Next() {
		var (
			e      domain.SearchLogEntry
			reason sql.NullString
			at     time.Time
		)
		if err := rows.Scan(&e.ID, &e.Location, &e.Category, &e.Query, &e.Results, &e.Status, &reason, &at); err != nil {
			return nil, err
		}
		e.Reason = reason.String
		e.CreatedAt = at.UTC().Format(time.RFC3339)
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
