package places

import (
	"strings"
	"time"
)

// priceLevelTier maps the provider's price level enum to a 1–4 tier.
// Unknown or unspecified levels map to nil rather than a guessed tier.
func priceLevelTier(level string) *int {
	var tier int
	switch level {
	case "PRICE_LEVEL_FREE", "PRICE_LEVEL_INEXPENSIVE":
		tier = 1
	case "PRICE_LEVEL_MODERATE":
		tier = 2
	case "PRICE_LEVEL_EXPENSIVE":
		tier = 3
	case "PRICE_LEVEL_VERY_EXPENSIVE":
		tier = 4
	default:
		return nil
	}
	return &tier
}

// parseWeekdayDescriptions splits the provider's "Monday: 9 AM – 5 PM" strings
// into a weekday → hours map. Lines without a separator are dropped.
func parseWeekdayDescriptions(lines []string) map[string]string {
	if len(lines) == 0 {
		return nil
	}
	hours := make(map[string]string, len(lines))
	for _, line := range lines {
		day, rest, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		day = strings.TrimSpace(day)
		rest = strings.TrimSpace(rest)
		if day == "" || rest == "" {
			continue
		}
		hours[day] = rest
	}
	if len(hours) == 0 {
		return nil
	}
	return hours
}

// parsePublishTime converts an RFC3339 publish time to epoch seconds.
// Returns 0 when the provider omits or mangles the timestamp.
func parsePublishTime(s string) int64 {
	if s == "" {
		return 0
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return 0
	}
	return t.Unix()
}
