package store

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockPostgres(t *testing.T) (*PostgresStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return NewPostgresWithPool(mock), mock
}

func TestPostgresGetBusinessByID(t *testing.T) {
	s, mock := newMockPostgres(t)

	b := sampleBusiness("pg-get")
	b.ID = "b1"
	recordJSON, err := json.Marshal(rawRecord(*b))
	require.NoError(t, err)

	now := time.Now().UTC()
	mock.ExpectQuery("SELECT record, cached, last_enriched_at, created_at, updated_at FROM businesses WHERE id =").
		WithArgs("b1").
		WillReturnRows(pgxmock.NewRows([]string{"record", "cached", "last_enriched_at", "created_at", "updated_at"}).
			AddRow(recordJSON, []byte(nil), (*time.Time)(nil), now, now))

	got, err := s.GetBusinessByID(context.Background(), "b1")
	require.NoError(t, err)
	assert.Equal(t, "pg-get", got.Slug)
	assert.Nil(t, got.LastEnrichedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresGetBusinessByID_NotFound(t *testing.T) {
	s, mock := newMockPostgres(t)

	mock.ExpectQuery("SELECT record, cached, last_enriched_at, created_at, updated_at FROM businesses WHERE id =").
		WithArgs("missing").
		WillReturnRows(pgxmock.NewRows([]string{"record", "cached", "last_enriched_at", "created_at", "updated_at"}))

	_, err := s.GetBusinessByID(context.Background(), "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresGetBusinessByID_CacheOverlay(t *testing.T) {
	s, mock := newMockPostgres(t)

	b := sampleBusiness("pg-cached")
	b.ID = "b2"
	recordJSON, err := json.Marshal(rawRecord(*b))
	require.NoError(t, err)

	patch := samplePatch()
	cachedJSON, err := json.Marshal(patch)
	require.NoError(t, err)

	now := time.Now().UTC()
	enrichedAt := patch.EnrichedAt
	mock.ExpectQuery("SELECT record, cached, last_enriched_at, created_at, updated_at FROM businesses WHERE id =").
		WithArgs("b2").
		WillReturnRows(pgxmock.NewRows([]string{"record", "cached", "last_enriched_at", "created_at", "updated_at"}).
			AddRow(recordJSON, cachedJSON, &enrichedAt, now, now))

	got, err := s.GetBusinessByID(context.Background(), "b2")
	require.NoError(t, err)
	require.NotNil(t, got.CachedPhone)
	assert.Equal(t, "(972) 555-0142", *got.CachedPhone)
	assert.Equal(t, patch.ImageURLs, got.CachedImageURLs)
	require.NotNil(t, got.LastEnrichedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUpdateBusinessCache(t *testing.T) {
	s, mock := newMockPostgres(t)

	mock.ExpectExec("UPDATE businesses SET cached =").
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), "b1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := s.UpdateBusinessCache(context.Background(), "b1", samplePatch())
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUpdateBusinessCache_NotFound(t *testing.T) {
	s, mock := newMockPostgres(t)

	mock.ExpectExec("UPDATE businesses SET cached =").
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), "ghost").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := s.UpdateBusinessCache(context.Background(), "ghost", samplePatch())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUpsertBusiness_Insert(t *testing.T) {
	s, mock := newMockPostgres(t)

	mock.ExpectQuery("SELECT record, cached, last_enriched_at, created_at, updated_at FROM businesses WHERE slug =").
		WithArgs("pg-new").
		WillReturnRows(pgxmock.NewRows([]string{"record", "cached", "last_enriched_at", "created_at", "updated_at"}))

	mock.ExpectExec("INSERT INTO businesses").
		WithArgs(pgxmock.AnyArg(), "pg-new", pgxmock.AnyArg(), "water-damage-repair", "Plano", "TX",
			false, pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	b := sampleBusiness("pg-new")
	created, err := s.UpsertBusiness(context.Background(), b)
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotEmpty(t, b.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresMigrate(t *testing.T) {
	s, mock := newMockPostgres(t)

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS businesses").
		WillReturnResult(pgxmock.NewResult("CREATE", 0))

	assert.NoError(t, s.Migrate(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresListBusinesses_StaleFilter(t *testing.T) {
	s, mock := newMockPostgres(t)

	b := sampleBusiness("pg-stale")
	b.ID = "b3"
	recordJSON, err := json.Marshal(rawRecord(*b))
	require.NoError(t, err)

	now := time.Now().UTC()
	cutoff := now.Add(-7 * 24 * time.Hour)
	mock.ExpectQuery("SELECT record, cached, last_enriched_at, created_at, updated_at FROM businesses WHERE 1=1 AND \\(last_enriched_at IS NULL OR last_enriched_at <=").
		WithArgs(cutoff, 100).
		WillReturnRows(pgxmock.NewRows([]string{"record", "cached", "last_enriched_at", "created_at", "updated_at"}).
			AddRow(recordJSON, []byte(nil), (*time.Time)(nil), now, now))

	got, err := s.ListBusinesses(context.Background(), BusinessFilter{StaleAsOf: &cutoff})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "pg-stale", got[0].Slug)
	assert.NoError(t, mock.ExpectationsWereMet())
}
