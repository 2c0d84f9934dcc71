package recurrence

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Dias221467/PawPack_Tracker/internal/models"
)

// Calculator computes the next occurrence of a reminder. It is pure: no
// clock access, no I/O. All math runs in one deployment-wide time zone.
type Calculator struct {
	loc *time.Location
}

// NewCalculator creates a Calculator evaluating all dates in loc.
func NewCalculator(loc *time.Location) *Calculator {
	if loc == nil {
		loc = time.UTC
	}
	return &Calculator{loc: loc}
}

// ComputeNext returns the next firing instant of the reminder strictly
// after now, or nil when a one-time reminder has no future occurrence left.
// Daily, weekly and monthly reminders always have a next occurrence.
func (c *Calculator) ComputeNext(r *models.Reminder, now time.Time) (*time.Time, error) {
	hour, minute, err := ParseTimeOfDay(r.TimeOfDay)
	if err != nil {
		return nil, err
	}
	now = now.In(c.loc)

	switch r.Frequency {
	case models.FrequencyOnce:
		if r.SpecificDate == nil {
			return nil, &models.ValidationError{Field: "specific_date", Reason: "required for one-time reminders"}
		}
		d := r.SpecificDate.In(c.loc)
		at := time.Date(d.Year(), d.Month(), d.Day(), hour, minute, 0, 0, c.loc)
		if !at.After(now) {
			// The date has passed; the reminder is spent.
			return nil, nil
		}
		return &at, nil

	case models.FrequencyDaily:
		at := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, c.loc)
		if !at.After(now) {
			at = at.AddDate(0, 0, 1)
		}
		return &at, nil

	case models.FrequencyWeekly:
		if r.DayOfWeek == nil {
			return nil, &models.ValidationError{Field: "day_of_week", Reason: "required for weekly reminders"}
		}
		target := *r.DayOfWeek
		if target < 0 || target > 6 {
			return nil, &models.ValidationError{Field: "day_of_week", Reason: "must be between 0 (Sunday) and 6 (Saturday)"}
		}
		delta := (target - int(now.Weekday()) + 7) % 7
		if delta == 0 {
			today := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, c.loc)
			if !today.After(now) {
				// Same weekday but the hour already passed; next week.
				delta = 7
			}
		}
		day := now.AddDate(0, 0, delta)
		at := time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, c.loc)
		return &at, nil

	case models.FrequencyMonthly:
		if r.DayOfMonth == nil {
			return nil, &models.ValidationError{Field: "day_of_month", Reason: "required for monthly reminders"}
		}
		want := *r.DayOfMonth
		if want < 1 || want > 31 {
			return nil, &models.ValidationError{Field: "day_of_month", Reason: "must be between 1 and 31"}
		}
		day := clampDay(want, now.Year(), now.Month())
		at := time.Date(now.Year(), now.Month(), day, hour, minute, 0, 0, c.loc)
		if !at.After(now) {
			// Re-clamp against the next month's length: day 31 lands on
			// the 30th of a 30-day month, not a carried-over value.
			first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, c.loc).AddDate(0, 1, 0)
			day = clampDay(want, first.Year(), first.Month())
			at = time.Date(first.Year(), first.Month(), day, hour, minute, 0, 0, c.loc)
		}
		return &at, nil

	default:
		return nil, &models.ValidationError{Field: "frequency", Reason: fmt.Sprintf("unknown frequency %q", r.Frequency)}
	}
}

// ParseTimeOfDay parses an "HH:MM" wall-clock string.
func ParseTimeOfDay(s string) (hour, minute int, err error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, 0, &models.ValidationError{Field: "time_of_day", Reason: fmt.Sprintf("expected HH:MM, got %q", s)}
	}
	hour, err = strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, &models.ValidationError{Field: "time_of_day", Reason: fmt.Sprintf("invalid hour in %q", s)}
	}
	minute, err = strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, &models.ValidationError{Field: "time_of_day", Reason: fmt.Sprintf("invalid minute in %q", s)}
	}
	return hour, minute, nil
}

// daysIn returns the number of days in the given month.
func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// clampDay caps a wanted day-of-month to the month's actual length. Days
// beyond the end of a month clamp down, they never roll into the next one.
func clampDay(want, year int, month time.Month) int {
	if last := daysIn(year, month); want > last {
		return last
	}
	return want
}
