package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/localpages/directory-cli/internal/db"
	"github.com/localpages/directory-cli/internal/model"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    db.Pool
	closeFn func()
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// preparedStatements lists queries to prepare on each new connection for the
// hot read path (detail/listing pages) and the cache write-back.
var preparedStatements = map[string]string{
	"get_business_by_id":   `SELECT record, cached, last_enriched_at, created_at, updated_at FROM businesses WHERE id = $1`,
	"get_business_by_slug": `SELECT record, cached, last_enriched_at, created_at, updated_at FROM businesses WHERE slug = $1`,
	"update_business_cache": `UPDATE businesses SET cached = $1, last_enriched_at = $2, updated_at = $3 WHERE id = $4`,
	"insert_business": `INSERT INTO businesses (id, slug, place_id, category, city, state, featured, record, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
	"update_business": `UPDATE businesses SET place_id = $1, category = $2, city = $3, state = $4, featured = $5, record = $6, updated_at = $7 WHERE id = $8`,
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pgxCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		for name, sql := range preparedStatements {
			if _, err := conn.Prepare(ctx, name, sql); err != nil {
				return eris.Wrapf(err, "postgres: prepare %s", name)
			}
		}
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

// NewPostgresWithPool wraps an existing pool (used by tests with pgxmock).
func NewPostgresWithPool(pool db.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS businesses (
	id               TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	slug             TEXT NOT NULL UNIQUE,
	place_id         TEXT,
	category         TEXT NOT NULL,
	city             TEXT NOT NULL,
	state            TEXT NOT NULL,
	featured         BOOLEAN NOT NULL DEFAULT false,
	record           JSONB NOT NULL,
	cached           JSONB,
	last_enriched_at TIMESTAMPTZ,
	created_at       TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at       TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_businesses_category ON businesses(category);
CREATE INDEX IF NOT EXISTS idx_businesses_city_state ON businesses(city, state);
CREATE INDEX IF NOT EXISTS idx_businesses_place_id ON businesses(place_id);
CREATE INDEX IF NOT EXISTS idx_businesses_last_enriched ON businesses(last_enriched_at);
`

func (s *PostgresStore) Ping(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, "SELECT 1")
	return eris.Wrap(err, "postgres: ping")
}

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

func (s *PostgresStore) UpsertBusiness(ctx context.Context, b *model.Business) (bool, error) {
	if b.Slug == "" {
		return false, eris.New("postgres: business slug is required")
	}
	now := time.Now().UTC()

	existing, err := s.GetBusinessBySlug(ctx, b.Slug)
	if err != nil && !eris.Is(err, ErrNotFound) {
		return false, err
	}

	if existing != nil {
		b.ID = existing.ID
		b.CreatedAt = existing.CreatedAt
		b.UpdatedAt = now
		recordJSON, err := json.Marshal(rawRecord(*b))
		if err != nil {
			return false, eris.Wrap(err, "postgres: marshal business")
		}
		_, err = s.pool.Exec(ctx,
			`UPDATE businesses SET place_id = $1, category = $2, city = $3, state = $4, featured = $5, record = $6, updated_at = $7 WHERE id = $8`,
			b.PlaceID, b.Category, b.City, b.State, b.Featured, recordJSON, now, b.ID,
		)
		if err != nil {
			return false, eris.Wrapf(err, "postgres: update business %s", b.ID)
		}
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
		return false, eris.Wrap(err, "postgres: marshal business")
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO businesses (id, slug, place_id, category, city, state, featured, record, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		b.ID, b.Slug, b.PlaceID, b.Category, b.City, b.State, b.Featured, recordJSON, now, now,
	)
	if err != nil {
		return false, eris.Wrapf(err, "postgres: insert business %s", b.Slug)
	}
	return true, nil
}

func (s *PostgresStore) GetBusinessByID(ctx context.Context, id string) (*model.Business, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT record, cached, last_enriched_at, created_at, updated_at FROM businesses WHERE id = $1`,
		id,
	)
	return scanBusinessPg(row, id)
}

func (s *PostgresStore) GetBusinessBySlug(ctx context.Context, slug string) (*model.Business, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT record, cached, last_enriched_at, created_at, updated_at FROM businesses WHERE slug = $1`,
		slug,
	)
	return scanBusinessPg(row, slug)
}

func (s *PostgresStore) ListBusinesses(ctx context.Context, filter BusinessFilter) ([]model.Business, error) {
	query := `SELECT record, cached, last_enriched_at, created_at, updated_at FROM businesses WHERE 1=1`
	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return placeholder(len(args))
	}

	if filter.Category != "" {
		query += ` AND category = ` + arg(filter.Category)
	}
	if filter.City != "" {
		query += ` AND city = ` + arg(filter.City)
	}
	if filter.State != "" {
		query += ` AND state = ` + arg(filter.State)
	}
	if filter.FeaturedOnly {
		query += ` AND featured = true`
	}
	if filter.StaleAsOf != nil {
		query += ` AND (last_enriched_at IS NULL OR last_enriched_at <= ` + arg(filter.StaleAsOf.UTC()) + `)`
	}
	query += ` ORDER BY created_at DESC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += ` LIMIT ` + arg(limit)
	if filter.Offset > 0 {
		query += ` OFFSET ` + arg(filter.Offset)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list businesses")
	}
	defer rows.Close()

	var businesses []model.Business
	for rows.Next() {
		b, err := scanBusinessPg(rows, "")
		if err != nil {
			return nil, err
		}
		businesses = append(businesses, *b)
	}
	return businesses, eris.Wrap(rows.Err(), "postgres: list businesses iterate")
}

func (s *PostgresStore) UpdateBusinessCache(ctx context.Context, id string, patch model.CachePatch) error {
	cachedJSON, err := json.Marshal(patch)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal cache patch")
	}

	tag, err := s.pool.Exec(ctx,
		`UPDATE businesses SET cached = $1, last_enriched_at = $2, updated_at = $3 WHERE id = $4`,
		cachedJSON, patch.EnrichedAt.UTC(), time.Now().UTC(), id,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: update business cache %s", id)
	}
	if tag.RowsAffected() == 0 {
		return eris.Wrapf(ErrNotFound, "business %s", id)
	}
	return nil
}

// helpers

func scanBusinessPg(row pgx.Row, key string) (*model.Business, error) {
	var recordJSON, cachedJSON []byte
	var lastEnrichedAt *time.Time
	var createdAt, updatedAt time.Time

	err := row.Scan(&recordJSON, &cachedJSON, &lastEnrichedAt, &createdAt, &updatedAt)
	if eris.Is(err, pgx.ErrNoRows) {
		return nil, eris.Wrapf(ErrNotFound, "business %s", key)
	}
	if err != nil {
		return nil, eris.Wrap(err, "postgres: scan business")
	}

	var b model.Business
	if err := json.Unmarshal(recordJSON, &b); err != nil {
		return nil, eris.Wrap(err, "postgres: unmarshal business")
	}
	b.CreatedAt = createdAt
	b.UpdatedAt = updatedAt

	if err := overlayCache(&b, cachedJSON, lastEnrichedAt); err != nil {
		return nil, err
	}
	return &b, nil
}

func placeholder(n int) string {
	return fmt.Sprintf("$%d", n)
}
