package places

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPriceLevelTier(t *testing.T) {
	tests := []struct {
		level string
		want  int // 0 = nil expected
	}{
		{"PRICE_LEVEL_FREE", 1},
		{"PRICE_LEVEL_INEXPENSIVE", 1},
		{"PRICE_LEVEL_MODERATE", 2},
		{"PRICE_LEVEL_EXPENSIVE", 3},
		{"PRICE_LEVEL_VERY_EXPENSIVE", 4},
		{"PRICE_LEVEL_UNSPECIFIED", 0},
		{"", 0},
	}
	for _, tt := range tests {
		got := priceLevelTier(tt.level)
		if tt.want == 0 {
			assert.Nil(t, got, tt.level)
			continue
		}
		require.NotNil(t, got, tt.level)
		assert.Equal(t, tt.want, *got, tt.level)
	}
}

func TestParseWeekdayDescriptions(t *testing.T) {
	hours := parseWeekdayDescriptions([]string{
		"Monday: 9:00 AM – 5:00 PM",
		"Saturday: Closed",
		"garbage line without separator",
		"",
	})
	require.Len(t, hours, 2)
	assert.Equal(t, "9:00 AM – 5:00 PM", hours["Monday"])
	assert.Equal(t, "Closed", hours["Saturday"])
}

func TestParseWeekdayDescriptions_Empty(t *testing.T) {
	assert.Nil(t, parseWeekdayDescriptions(nil))
	assert.Nil(t, parseWeekdayDescriptions([]string{"no separator here"}))
}

func TestParsePublishTime(t *testing.T) {
	assert.Equal(t, int64(0), parsePublishTime(""))
	assert.Equal(t, int64(0), parsePublishTime("not-a-time"))
	assert.Equal(t, int64(1749999845), parsePublishTime("2025-06-15T15:04:05Z"))
}
