package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"gitfolio/internal/db"
)

// CacheRepository persists the two cache blobs the UI keeps across page
// loads: the per-session starred map and the resolved icon url per language.
// Both are plain key→JSON rows, replaced wholesale on write.
type CacheRepository struct {
	db *db.Database
}

func NewCacheRepository(db *db.Database) *CacheRepository {
	return &CacheRepository{db: db}
}

func (r *CacheRepository) StarMap(ctx context.Context, session string) (map[string]bool, error) {
	sql, args, err := sq.
		Select("starred").
		From("star_maps").
		Where(sq.Eq{"session": session}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	var raw []byte
	err = r.db.Pool.QueryRow(ctx, sql, args...).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	starred := make(map[string]bool)
	if err := json.Unmarshal(raw, &starred); err != nil {
		return nil, fmt.Errorf("decoding star map failed: %w", err)
	}

	return starred, nil
}

func (r *CacheRepository) SaveStarMap(ctx context.Context, session string, starred map[string]bool) error {
	raw, err := json.Marshal(starred)
	if err != nil {
		return err
	}

	sql, args, err := sq.
		Insert("star_maps").
		Columns("session", "starred").
		Values(session, raw).
		Suffix(`
			ON CONFLICT (session)
			DO UPDATE SET
				starred = EXCLUDED.starred,
				updated_at = now()
		`).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	_, err = r.db.Pool.Exec(ctx, sql, args...)
	return err
}

func (r *CacheRepository) IconURL(ctx context.Context, lang string) (string, bool, error) {
	sql, args, err := sq.
		Select("url").
		From("icon_urls").
		Where(sq.Eq{"language": lang}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return "", false, fmt.Errorf("error building SQL: %w", err)
	}

	var url string
	err = r.db.Pool.QueryRow(ctx, sql, args...).Scan(&url)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}

	return url, true, nil
}

func (r *CacheRepository) SaveIconURL(ctx context.Context, lang, url string) error {
	sql, args, err := sq.
		Insert("icon_urls").
		Columns("language", "url").
		Values(lang, url).
		Suffix(`
			ON CONFLICT (language)
			DO UPDATE SET url = EXCLUDED.url
		`).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	_, err = r.db.Pool.Exec(ctx, sql, args...)
	return err
}
