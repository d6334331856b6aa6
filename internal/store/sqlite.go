package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/localpages/directory-cli/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS businesses (
	id               TEXT PRIMARY KEY,
	slug             TEXT NOT NULL UNIQUE,
	place_id         TEXT,
	category         TEXT NOT NULL,
	city             TEXT NOT NULL,
	state            TEXT NOT NULL,
	featured         INTEGER NOT NULL DEFAULT 0,
	record           TEXT NOT NULL,
	cached           TEXT,
	last_enriched_at DATETIME,
	created_at       DATETIME NOT NULL DEFAULT (datetime('now')),
	updated_at       DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_businesses_category ON businesses(category);
CREATE INDEX IF NOT EXISTS idx_businesses_city_state ON businesses(city, state);
CREATE INDEX IF NOT EXISTS idx_businesses_place_id ON businesses(place_id);
CREATE INDEX IF NOT EXISTS idx_businesses_last_enriched ON businesses(last_enriched_at);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) UpsertBusiness(ctx context.Context, b *model.Business) (bool, error) {
	if b.Slug == "" {
		return false, eris.New("sqlite: business slug is required")
	}
	now := time.Now().UTC()

	existing, err := s.GetBusinessBySlug(ctx, b.Slug)
	if err != nil && !eris.Is(err, ErrNotFound) {
		return false, err
	}

	if existing != nil {
		// Refresh raw fields; the cache tier column is untouched.
		b.ID = existing.ID
		b.CreatedAt = existing.CreatedAt
		b.UpdatedAt = now
		recordJSON, err := json.Marshal(rawRecord(*b))
		if err != nil {
			return false, eris.Wrap(err, "sqlite: marshal business")
		}
		_, err = s.db.ExecContext(ctx,
			`UPDATE businesses SET place_id = ?, category = ?, city = ?, state = ?, featured = ?, record = ?, updated_at = ? WHERE id = ?`,
			nullStr(b.PlaceID), b.Category, b.City, b.State, b.Featured, string(recordJSON), now, b.ID,
		)
		if err != nil {
			return false, eris.Wrapf(err, "sqlite: update business %s", b.ID)
		}
		// Surface the stored cache tier on the in-memory record too.
		b.CachedImageURLs = existing.CachedImageURLs
		b.CachedPhone = existing.CachedPhone
		b.CachedWebsite = existing.CachedWebsite
		b.CachedHours = existing.CachedHours
		b.CachedReviews = existing.CachedReviews
		b.MapsURL = existing.MapsURL
		b.LastEnrichedAt = existing.LastEnrichedAt
		return false, nil
	}

	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	b.CreatedAt = now
	b.UpdatedAt = now
	recordJSON, err := json.Marshal(rawRecord(*b))
	if err != nil {
		return false, eris.Wrap(err, "sqlite: marshal business")
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO businesses (id, slug, place_id, category, city, state, featured, record, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		b.ID, b.Slug, nullStr(b.PlaceID), b.Category, b.City, b.State, b.Featured, string(recordJSON), now, now,
	)
	if err != nil {
		return false, eris.Wrapf(err, "sqlite: insert business %s", b.Slug)
	}
	return true, nil
}

func (s *SQLiteStore) GetBusinessByID(ctx context.Context, id string) (*model.Business, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT record, cached, last_enriched_at, created_at, updated_at FROM businesses WHERE id = ?`,
		id,
	)
	return scanBusiness(row, id)
}

func (s *SQLiteStore) GetBusinessBySlug(ctx context.Context, slug string) (*model.Business, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT record, cached, last_enriched_at, created_at, updated_at FROM businesses WHERE slug = ?`,
		slug,
	)
	return scanBusiness(row, slug)
}

func (s *SQLiteStore) ListBusinesses(ctx context.Context, filter BusinessFilter) ([]model.Business, error) {
	query := `SELECT record, cached, last_enriched_at, created_at, updated_at FROM businesses WHERE 1=1`
	var args []any

	if filter.Category != "" {
		query += ` AND category = ?`
		args = append(args, filter.Category)
	}
	if filter.City != "" {
		query += ` AND city = ?`
		args = append(args, filter.City)
	}
	if filter.State != "" {
		query += ` AND state = ?`
		args = append(args, filter.State)
	}
	if filter.FeaturedOnly {
		query += ` AND featured = 1`
	}
	if filter.StaleAsOf != nil {
		query += ` AND (last_enriched_at IS NULL OR last_enriched_at <= ?)`
		args = append(args, filter.StaleAsOf.UTC())
	}
	query += ` ORDER BY created_at DESC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += ` LIMIT ?`
	args = append(args, limit)

	if filter.Offset > 0 {
		query += ` OFFSET ?`
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list businesses")
	}
	defer rows.Close()

	var businesses []model.Business
	for rows.Next() {
		b, err := scanBusiness(rows, "")
		if err != nil {
			return nil, err
		}
		businesses = append(businesses, *b)
	}
	return businesses, eris.Wrap(rows.Err(), "sqlite: list businesses iterate")
}

func (s *SQLiteStore) UpdateBusinessCache(ctx context.Context, id string, patch model.CachePatch) error {
	cachedJSON, err := json.Marshal(patch)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal cache patch")
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE businesses SET cached = ?, last_enriched_at = ?, updated_at = ? WHERE id = ?`,
		string(cachedJSON), patch.EnrichedAt.UTC(), time.Now().UTC(), id,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: update business cache %s", id)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "sqlite: rows affected")
	}
	if n == 0 {
		return eris.Wrapf(ErrNotFound, "business %s", id)
	}
	return nil
}

// helpers

// ErrNotFound is returned when a lookup matches no business.
var ErrNotFound = eris.New("business not found")

type scannable interface {
	Scan(dest ...any) error
}

func scanBusiness(row scannable, key string) (*model.Business, error) {
	var recordJSON string
	var cachedJSON sql.NullString
	var lastEnrichedAt sql.NullTime
	var createdAt, updatedAt time.Time

	err := row.Scan(&recordJSON, &cachedJSON, &lastEnrichedAt, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, eris.Wrapf(ErrNotFound, "business %s", key)
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: scan business")
	}

	var b model.Business
	if err := json.Unmarshal([]byte(recordJSON), &b); err != nil {
		return nil, eris.Wrap(err, "sqlite: unmarshal business")
	}
	b.CreatedAt = createdAt
	b.UpdatedAt = updatedAt

	var enrichedAt *time.Time
	if lastEnrichedAt.Valid {
		t := lastEnrichedAt.Time
		enrichedAt = &t
	}
	var cached []byte
	if cachedJSON.Valid {
		cached = []byte(cachedJSON.String)
	}
	if err := overlayCache(&b, cached, enrichedAt); err != nil {
		return nil, err
	}
	return &b, nil
}

func nullStr(s *string) any {
	if s == nil || *s == "" {
		return nil
	}
	return *s
}
