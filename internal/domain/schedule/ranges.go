// Package schedule holds the pure time-range logic shared by the client
// mutation handlers and the server reconciliation service.
package schedule

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
)

const (
	MinWeekday = 0
	MaxWeekday = 6

	// MinutesPerDay bounds start/end values: valid minutes are [0, 1439].
	MinutesPerDay = 24 * 60
)

var (
	ErrInvalidWeekday = errors.New("Dia da semana inválido")
	ErrInvalidTime    = errors.New("Horário inválido")
	ErrEndNotAfter    = errors.New("Fim deve ser maior que início")
	ErrEmptyRanges    = errors.New("Informe ao menos um horário")
	ErrOverlap        = errors.New("Horários conflitantes")
)

var timePattern = regexp.MustCompile(`^(\d{1,2}):(\d{2})$`)

// Range is a half-open [Start, End) block of minutes within one day.
type Range struct {
	Start int
	End   int
}

// DayRange is a Range bound to a weekday (0 = Sunday).
type DayRange struct {
	Weekday int
	Range
}

// ParseTime converts "HH:MM" to minutes since midnight.
func ParseTime(s string) (int, error) {
	m := timePattern.FindStringSubmatch(s)
	if m == nil {
		return 0, ErrInvalidTime
	}
	var hour, min int
	fmt.Sscanf(m[1], "%d", &hour)
	fmt.Sscanf(m[2], "%d", &min)
	if hour > 23 || min > 59 {
		return 0, ErrInvalidTime
	}
	return hour*60 + min, nil
}

// FormatTime renders minutes since midnight as "HH:MM".
func FormatTime(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// NormalizeWeekday validates a weekday index.
func NormalizeWeekday(weekday int) (int, error) {
	if weekday < MinWeekday || weekday > MaxWeekday {
		return 0, ErrInvalidWeekday
	}
	return weekday, nil
}

// ParseRange parses a start/end pair and requires end > start.
func ParseRange(start, end string) (Range, error) {
	s, err := ParseTime(start)
	if err != nil {
		return Range{}, err
	}
	e, err := ParseTime(end)
	if err != nil {
		return Range{}, err
	}
	if e <= s {
		return Range{}, ErrEndNotAfter
	}
	return Range{Start: s, End: e}, nil
}

// ParseDayRange parses a weekday plus a start/end pair.
func ParseDayRange(weekday int, start, end string) (DayRange, error) {
	wd, err := NormalizeWeekday(weekday)
	if err != nil {
		return DayRange{}, err
	}
	r, err := ParseRange(start, end)
	if err != nil {
		return DayRange{}, err
	}
	return DayRange{Weekday: wd, Range: r}, nil
}

// ParseRanges parses a set of ranges intended for the same day, sorts them
// by start time and rejects any overlap. Touching ranges (end == next
// start) are allowed.
func ParseRanges(pairs [][2]string) ([]Range, error) {
	if len(pairs) == 0 {
		return nil, ErrEmptyRanges
	}

	ranges := make([]Range, 0, len(pairs))
	for _, p := range pairs {
		r, err := ParseRange(p[0], p[1])
		if err != nil {
			return nil, err
		}
		ranges = append(ranges, r)
	}

	sort.Slice(ranges, func(i, j int) bool { return ranges[i].Start < ranges[j].Start })

	for i := 1; i < len(ranges); i++ {
		if ranges[i].Start < ranges[i-1].End {
			return nil, ErrOverlap
		}
	}

	return ranges, nil
}

// Overlaps reports whether two ranges intersect.
func Overlaps(a, b Range) bool {
	return a.Start < b.End && b.Start < a.End
}

// HasConflict reports whether the candidate range intersects any existing
// active range.
func HasConflict(existing []Range, candidate Range) bool {
	for _, r := range existing {
		if Overlaps(r, candidate) {
			return true
		}
	}
	return false
}
