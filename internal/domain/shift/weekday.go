package shift

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

var weekdayNames = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
	"sun":       time.Sunday,
	"mon":       time.Monday,
	"tue":       time.Tuesday,
	"wed":       time.Wednesday,
	"thu":       time.Thursday,
	"fri":       time.Friday,
	"sat":       time.Saturday,
}

// NormalizeRecurrenceDay converts a stored or submitted recurrence day into
// the canonical time.Weekday. Accepted inputs are weekday names (full or
// three-letter, case-insensitive) and numeric indices 0-6 with Sunday as 0;
// 7 is also accepted as Sunday for ISO-style input. Normalization happens
// at write time so the resolver only ever compares canonical values.
func NormalizeRecurrenceDay(input string) (time.Weekday, error) {
	s := strings.ToLower(strings.TrimSpace(input))
	if s == "" {
		return 0, fmt.Errorf("%w: empty value", ErrInvalidRecurrenceDay)
	}

	if d, ok := weekdayNames[s]; ok {
		return d, nil
	}

	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidRecurrenceDay, input)
	}
	if n == 7 {
		return time.Sunday, nil
	}
	if n < 0 || n > 6 {
		return 0, fmt.Errorf("%w: index %d out of range", ErrInvalidRecurrenceDay, n)
	}
	return time.Weekday(n), nil
}

// NormalizeRecurrenceDays normalizes and deduplicates a set of inputs.
func NormalizeRecurrenceDays(inputs []string) ([]time.Weekday, error) {
	seen := make(map[time.Weekday]bool, len(inputs))
	days := make([]time.Weekday, 0, len(inputs))
	for _, in := range inputs {
		d, err := NormalizeRecurrenceDay(in)
		if err != nil {
			return nil, err
		}
		if !seen[d] {
			seen[d] = true
			days = append(days, d)
		}
	}
	return days, nil
}
