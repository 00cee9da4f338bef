package finance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePeriod(t *testing.T) {
	p, err := ParsePeriod("2025-03")
	require.NoError(t, err)
	assert.Equal(t, 2025, p.Year)
	assert.Equal(t, time.March, p.Month)
	assert.Equal(t, "2025-03", p.String())

	for _, bad := range []string{
		"", "2025-13", "2025-00", "2025-3", "202503", "abcd-ef", "2025/03",
		"2025-1x", "2025-1 ", "+202-01", "2025- 1", "20 5-01",
	} {
		_, err := ParsePeriod(bad)
		assert.ErrorIs(t, err, ErrInvalidPeriod, "input %q", bad)
	}
}

func TestPeriodLastDay(t *testing.T) {
	cases := []struct {
		period string
		day    int
	}{
		{"2025-01", 31},
		{"2025-02", 28},
		{"2024-02", 29}, // leap year
		{"2025-04", 30},
		{"2025-12", 31},
	}
	for _, tc := range cases {
		p, err := ParsePeriod(tc.period)
		require.NoError(t, err)
		assert.Equal(t, tc.day, p.LastDay().Day(), "period %s", tc.period)
	}
}

func TestPeriodPrevCrossesYear(t *testing.T) {
	p := Period{Year: 2025, Month: time.January}
	prev := p.Prev()
	assert.Equal(t, 2024, prev.Year)
	assert.Equal(t, time.December, prev.Month)
}

func TestPeriodShortLabel(t *testing.T) {
	assert.Equal(t, "ene", Period{Year: 2025, Month: time.January}.ShortLabel())
	assert.Equal(t, "dic", Period{Year: 2025, Month: time.December}.ShortLabel())
}

func TestPeriodContains(t *testing.T) {
	p := Period{Year: 2025, Month: time.March}
	assert.True(t, p.Contains(time.Date(2025, 3, 1, 0, 0, 0, 0, time.Local)))
	assert.True(t, p.Contains(time.Date(2025, 3, 31, 23, 59, 0, 0, time.Local)))
	assert.False(t, p.Contains(time.Date(2025, 4, 1, 0, 0, 0, 0, time.Local)))
	assert.False(t, p.Contains(time.Date(2024, 3, 15, 0, 0, 0, 0, time.Local)))
}

func TestLastPeriods(t *testing.T) {
	end := Period{Year: 2025, Month: time.February}
	got := LastPeriods(end, 4)
	require.Len(t, got, 4)
	assert.Equal(t, "2024-11", got[0].String())
	assert.Equal(t, "2024-12", got[1].String())
	assert.Equal(t, "2025-01", got[2].String())
	assert.Equal(t, "2025-02", got[3].String())
}
