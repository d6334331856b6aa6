package enrich

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCacheValid_NilTimestamp(t *testing.T) {
	assert.False(t, CacheValid(nil, time.Now(), DefaultCacheTTL))
}

func TestCacheValid_Boundary(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		age  time.Duration
		want bool
	}{
		{"just enriched", 0, true},
		{"two days old", 48 * time.Hour, true},
		{"one ms inside the window", DefaultCacheTTL - time.Millisecond, true},
		{"exactly at the window", DefaultCacheTTL, false},
		{"one ms past the window", DefaultCacheTTL + time.Millisecond, false},
		{"ten days old", 240 * time.Hour, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enrichedAt := now.Add(-tt.age)
			assert.Equal(t, tt.want, CacheValid(&enrichedAt, now, DefaultCacheTTL))
		})
	}
}

func TestCacheValid_CustomTTL(t *testing.T) {
	now := time.Now()
	enrichedAt := now.Add(-2 * time.Hour)

	assert.True(t, CacheValid(&enrichedAt, now, 3*time.Hour))
	assert.False(t, CacheValid(&enrichedAt, now, time.Hour))
}

func TestCacheValid_ZeroTTLUsesDefault(t *testing.T) {
	now := time.Now()
	twoDays := now.Add(-48 * time.Hour)
	tenDays := now.Add(-240 * time.Hour)

	assert.True(t, CacheValid(&twoDays, now, 0))
	assert.False(t, CacheValid(&tenDays, now, 0))
}
