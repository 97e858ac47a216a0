package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTime(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int
		wantErr error
	}{
		{name: "morning", input: "08:00", want: 480},
		{name: "single digit hour", input: "8:30", want: 510},
		{name: "midnight", input: "00:00", want: 0},
		{name: "last minute", input: "23:59", want: 1439},
		{name: "hour out of range", input: "24:00", wantErr: ErrInvalidTime},
		{name: "minute out of range", input: "12:60", wantErr: ErrInvalidTime},
		{name: "garbage", input: "abc", wantErr: ErrInvalidTime},
		{name: "missing minutes", input: "12", wantErr: ErrInvalidTime},
		{name: "empty", input: "", wantErr: ErrInvalidTime},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTime(tt.input)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatTime(t *testing.T) {
	assert.Equal(t, "08:00", FormatTime(480))
	assert.Equal(t, "00:05", FormatTime(5))
	assert.Equal(t, "23:59", FormatTime(1439))
}

func TestParseDayRange(t *testing.T) {
	dr, err := ParseDayRange(1, "08:00", "12:00")
	require.NoError(t, err)
	assert.Equal(t, 1, dr.Weekday)
	assert.Equal(t, 480, dr.Start)
	assert.Equal(t, 720, dr.End)

	_, err = ParseDayRange(7, "08:00", "12:00")
	assert.ErrorIs(t, err, ErrInvalidWeekday)

	_, err = ParseDayRange(-1, "08:00", "12:00")
	assert.ErrorIs(t, err, ErrInvalidWeekday)

	_, err = ParseDayRange(1, "12:00", "12:00")
	assert.ErrorIs(t, err, ErrEndNotAfter)

	_, err = ParseDayRange(1, "13:00", "12:00")
	assert.ErrorIs(t, err, ErrEndNotAfter)
}

func TestParseRanges(t *testing.T) {
	t.Run("standard work day totals eight hours", func(t *testing.T) {
		ranges, err := ParseRanges([][2]string{{"08:00", "12:00"}, {"13:00", "17:00"}})
		require.NoError(t, err)
		require.Len(t, ranges, 2)

		total := 0
		for _, r := range ranges {
			total += r.End - r.Start
		}
		assert.Equal(t, 8*60, total)
	})

	t.Run("overlapping range rejected", func(t *testing.T) {
		_, err := ParseRanges([][2]string{
			{"08:00", "12:00"},
			{"13:00", "17:00"},
			{"11:30", "14:00"},
		})
		assert.ErrorIs(t, err, ErrOverlap)
	})

	t.Run("touching ranges allowed", func(t *testing.T) {
		ranges, err := ParseRanges([][2]string{{"12:00", "13:00"}, {"08:00", "12:00"}})
		require.NoError(t, err)
		// Sorted by start time.
		assert.Equal(t, 480, ranges[0].Start)
		assert.Equal(t, 720, ranges[1].Start)
	})

	t.Run("empty input rejected", func(t *testing.T) {
		_, err := ParseRanges(nil)
		assert.ErrorIs(t, err, ErrEmptyRanges)
	})

	t.Run("individually invalid range rejected", func(t *testing.T) {
		_, err := ParseRanges([][2]string{{"08:00", "99:00"}})
		assert.ErrorIs(t, err, ErrInvalidTime)
	})
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name string
		a, b Range
		want bool
	}{
		{name: "disjoint", a: Range{480, 720}, b: Range{780, 1020}, want: false},
		{name: "touching", a: Range{480, 720}, b: Range{720, 780}, want: false},
		{name: "contained", a: Range{480, 1020}, b: Range{600, 660}, want: true},
		{name: "partial", a: Range{480, 720}, b: Range{690, 840}, want: true},
		{name: "identical", a: Range{480, 720}, b: Range{480, 720}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Overlaps(tt.a, tt.b))
			assert.Equal(t, tt.want, Overlaps(tt.b, tt.a))
		})
	}
}

func TestHasConflict(t *testing.T) {
	existing := []Range{{480, 720}, {780, 1020}}

	assert.False(t, HasConflict(existing, Range{720, 780}))
	assert.True(t, HasConflict(existing, Range{690, 840}))
	assert.False(t, HasConflict(nil, Range{0, 1439}))
}
