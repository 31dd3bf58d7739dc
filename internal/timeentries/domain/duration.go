package domain

import (
	"math"
	"regexp"
	"strconv"

	"github.com/ranwip/pm-backend/internal/apperr"
)

// Tolerance is how far declared hours may drift from the clock interval.
const Tolerance = 0.5

const minutesPerDay = 24 * 60

var clockPattern = regexp.MustCompile(`^([01]\d|2[0-3]):([0-5]\d)$`)

// ClockMinutes converts "HH:mm" to minutes since midnight.
func ClockMinutes(s string) (int, error) {
	m := clockPattern.FindStringSubmatch(s)
	if m == nil {
		return 0, apperr.Validation("invalid time %q, want HH:mm", s)
	}
	h, _ := strconv.Atoi(m[1])
	min, _ := strconv.Atoi(m[2])
	return h*60 + min, nil
}

// ImpliedHours is the length of start..end in hours, rounded to two
// decimals. An end before the start crosses midnight.
func ImpliedHours(start, end string) (float64, error) {
	s, err := ClockMinutes(start)
	if err != nil {
		return 0, err
	}
	e, err := ClockMinutes(end)
	if err != nil {
		return 0, err
	}

	diff := e - s
	if e < s {
		diff = minutesPerDay - s + e
	}
	return math.Round(float64(diff)/60*100) / 100, nil
}

// CheckDuration fails when hours is more than Tolerance away from the
// start..end interval.
func CheckDuration(start, end string, hours int) error {
	implied, err := ImpliedHours(start, end)
	if err != nil {
		return err
	}
	if math.Abs(implied-float64(hours)) > Tolerance {
		return apperr.Validation("Hours logged (%d) don't match the calculated time difference (%s)",
			hours, strconv.FormatFloat(implied, 'f', -1, 64))
	}
	return nil
}

// Validate checks an entry before it is first stored, including the
// interval check when both clock times are present.
func Validate(e TimeEntry) error {
	if err := ValidateFields(e); err != nil {
		return err
	}
	if e.StartTime != nil && e.EndTime != nil {
		return CheckDuration(*e.StartTime, *e.EndTime, e.Hours)
	}
	return nil
}

// ValidateFields checks field ranges and formats only.
func ValidateFields(e TimeEntry) error {
	if e.Hours < MinHours || e.Hours > MaxHours {
		return apperr.Validation("hours must be between %d and %d", MinHours, MaxHours)
	}
	if e.Description != nil && len([]rune(*e.Description)) > MaxDescriptionLen {
		return apperr.Validation("description must be at most %d characters", MaxDescriptionLen)
	}
	if e.Date.IsZero() {
		return apperr.Validation("date is required")
	}
	for _, t := range []*string{e.StartTime, e.EndTime} {
		if t == nil {
			continue
		}
		if _, err := ClockMinutes(*t); err != nil {
			return err
		}
	}
	return nil
}
