package interval

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestTimesOverlap(t *testing.T) {
	tests := []struct {
		name                       string
		start1, end1, start2, end2 string
		want                       bool
	}{
		{"identical", "09:00", "10:00", "09:00", "10:00", true},
		{"contained", "09:00", "12:00", "10:00", "11:00", true},
		{"partial", "09:00", "10:30", "10:00", "11:00", true},
		{"back to back", "09:00", "10:00", "10:00", "11:00", false},
		{"back to back reversed", "10:00", "11:00", "09:00", "10:00", false},
		{"disjoint", "08:00", "09:00", "13:00", "14:00", false},
		{"one minute overlap", "09:00", "10:01", "10:00", "11:00", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TimesOverlap(tt.start1, tt.end1, tt.start2, tt.end2))
			// The predicate is symmetric.
			assert.Equal(t, tt.want, TimesOverlap(tt.start2, tt.end2, tt.start1, tt.end1))
		})
	}
}

func TestDatesOverlap(t *testing.T) {
	tests := []struct {
		name                       string
		start1, end1, start2, end2 string
		want                       bool
	}{
		{"identical", "2025-02-01", "2025-02-05", "2025-02-01", "2025-02-05", true},
		{"shared boundary day", "2025-02-01", "2025-02-05", "2025-02-05", "2025-02-07", true},
		{"day after return", "2025-02-01", "2025-02-05", "2025-02-06", "2025-02-08", false},
		{"contained", "2025-02-01", "2025-02-10", "2025-02-03", "2025-02-04", true},
		{"single day both", "2025-02-01", "2025-02-01", "2025-02-01", "2025-02-01", true},
		{"disjoint", "2025-02-01", "2025-02-02", "2025-03-01", "2025-03-02", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DatesOverlap(date(tt.start1), date(tt.end1), date(tt.start2), date(tt.end2))
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want, DatesOverlap(date(tt.start2), date(tt.end2), date(tt.start1), date(tt.end1)))
		})
	}
}

func TestDatesOverlapIgnoresTimeOfDay(t *testing.T) {
	a := time.Date(2025, 2, 5, 23, 30, 0, 0, time.UTC)
	b := time.Date(2025, 2, 5, 1, 0, 0, 0, time.UTC)
	assert.True(t, DatesOverlap(a, a, b, b))
}

func TestSameDay(t *testing.T) {
	assert.True(t, SameDay(
		time.Date(2025, 1, 10, 8, 0, 0, 0, time.UTC),
		time.Date(2025, 1, 10, 19, 0, 0, 0, time.UTC),
	))
	assert.False(t, SameDay(date("2025-01-10"), date("2025-01-11")))
}

func TestParseTime(t *testing.T) {
	got, err := ParseTime("09:30")
	require.NoError(t, err)
	assert.Equal(t, "09:30", got)

	_, err = ParseTime("9:30am")
	assert.Error(t, err)

	_, err = ParseTime("")
	assert.Error(t, err)
}

func TestParseFormatDate(t *testing.T) {
	got, err := ParseDate("2025-01-10")
	require.NoError(t, err)
	assert.Equal(t, "2025-01-10", FormatDate(got))

	_, err = ParseDate("10.01.2025")
	assert.Error(t, err)
}
