package dateutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatAndParseDate(t *testing.T) {
	ts := time.Date(2025, 3, 9, 14, 30, 45, 0, time.UTC)

	assert.Equal(t, "2025-03-09", FormatDate(ts))
	assert.Equal(t, "14:30:45", FormatTime(ts))

	parsed, err := ParseDate("2025-03-09")
	require.NoError(t, err)
	assert.Equal(t, 2025, parsed.Year())
	assert.Equal(t, time.March, parsed.Month())
	assert.Equal(t, 9, parsed.Day())
}

func TestParseDateInvalid(t *testing.T) {
	for _, s := range []string{"", "2025/03/09", "09-03-2025", "not a date"} {
		_, err := ParseDate(s)
		assert.Error(t, err, s)
	}
}

func TestParseDateTime(t *testing.T) {
	got := ParseDateTime("2025-03-09", "14:30:45")
	assert.Equal(t, time.Date(2025, 3, 9, 14, 30, 45, 0, time.UTC), got)

	// 时间无效时退化为当天零点
	got = ParseDateTime("2025-03-09", "bogus")
	assert.Equal(t, time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC), got)

	// 日期无效时返回零值
	assert.True(t, ParseDateTime("bogus", "14:30:45").IsZero())
}

func TestParseDateTimeOrdering(t *testing.T) {
	earlier := ParseDateTime("2025-03-09", "08:00:00")
	later := ParseDateTime("2025-03-09", "19:15:00")
	nextDay := ParseDateTime("2025-03-10", "07:00:00")

	assert.True(t, earlier.Before(later))
	assert.True(t, later.Before(nextDay))
}

func TestTruncate(t *testing.T) {
	ts := time.Date(2025, 3, 9, 23, 59, 59, 0, time.UTC)
	assert.Equal(t, time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC), Truncate(ts))
}
