package recurrence

import (
	"testing"
	"time"

	"github.com/Dias221467/PawPack_Tracker/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func datePtr(year int, month time.Month, day int) *time.Time {
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestComputeNext_Daily(t *testing.T) {
	calc := NewCalculator(time.UTC)
	r := &models.Reminder{Frequency: models.FrequencyDaily, TimeOfDay: "09:00"}

	// Before the hour: fires today.
	now := time.Date(2025, time.January, 15, 8, 0, 0, 0, time.UTC)
	next, err := calc.ComputeNext(r, now)
	require.NoError(t, err)
	require.NotNil(t, next)
	assert.Equal(t, time.Date(2025, time.January, 15, 9, 0, 0, 0, time.UTC), *next)

	// Exactly at the hour: rolls to tomorrow.
	now = time.Date(2025, time.January, 15, 9, 0, 0, 0, time.UTC)
	next, err = calc.ComputeNext(r, now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, time.January, 16, 9, 0, 0, 0, time.UTC), *next)

	// After the hour: tomorrow as well.
	now = time.Date(2025, time.January, 15, 10, 30, 0, 0, time.UTC)
	next, err = calc.ComputeNext(r, now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, time.January, 16, 9, 0, 0, 0, time.UTC), *next)
}

func TestComputeNext_Weekly(t *testing.T) {
	calc := NewCalculator(time.UTC)
	// 2025-01-15 is a Wednesday (weekday 3).
	wednesday := time.Date(2025, time.January, 15, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		dayOfWeek int
		timeOfDay string
		want      time.Time
	}{
		{"later this week", 5, "09:00", time.Date(2025, time.January, 17, 9, 0, 0, 0, time.UTC)},
		{"earlier weekday wraps to next week", 1, "09:00", time.Date(2025, time.January, 20, 9, 0, 0, 0, time.UTC)},
		{"same day, hour still ahead", 3, "18:00", time.Date(2025, time.January, 15, 18, 0, 0, 0, time.UTC)},
		{"same day, hour passed", 3, "09:00", time.Date(2025, time.January, 22, 9, 0, 0, 0, time.UTC)},
		{"same day, exactly now", 3, "10:00", time.Date(2025, time.January, 22, 10, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &models.Reminder{
				Frequency: models.FrequencyWeekly,
				DayOfWeek: intPtr(tt.dayOfWeek),
				TimeOfDay: tt.timeOfDay,
			}
			next, err := calc.ComputeNext(r, wednesday)
			require.NoError(t, err)
			require.NotNil(t, next)
			assert.Equal(t, tt.want, *next)
			assert.Equal(t, tt.dayOfWeek, int(next.Weekday()))
			assert.True(t, next.After(wednesday))
		})
	}
}

func TestComputeNext_Monthly(t *testing.T) {
	calc := NewCalculator(time.UTC)

	tests := []struct {
		name       string
		dayOfMonth int
		now        time.Time
		want       time.Time
	}{
		{
			"later this month",
			20,
			time.Date(2025, time.March, 10, 8, 0, 0, 0, time.UTC),
			time.Date(2025, time.March, 20, 9, 0, 0, 0, time.UTC),
		},
		{
			"day passed, next month",
			5,
			time.Date(2025, time.March, 10, 8, 0, 0, 0, time.UTC),
			time.Date(2025, time.April, 5, 9, 0, 0, 0, time.UTC),
		},
		{
			"day 31 clamps to 28 in february",
			31,
			time.Date(2025, time.February, 1, 8, 0, 0, 0, time.UTC),
			time.Date(2025, time.February, 28, 9, 0, 0, 0, time.UTC),
		},
		{
			"day 31 clamps to 29 in leap february",
			31,
			time.Date(2024, time.February, 1, 8, 0, 0, 0, time.UTC),
			time.Date(2024, time.February, 29, 9, 0, 0, 0, time.UTC),
		},
		{
			"clamp recomputed per month: 31 lands on april 30",
			31,
			time.Date(2025, time.April, 1, 8, 0, 0, 0, time.UTC),
			time.Date(2025, time.April, 30, 9, 0, 0, 0, time.UTC),
		},
		{
			"rollover re-clamps: after march 31 comes april 30",
			31,
			time.Date(2025, time.March, 31, 10, 0, 0, 0, time.UTC),
			time.Date(2025, time.April, 30, 9, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &models.Reminder{
				Frequency:  models.FrequencyMonthly,
				DayOfMonth: intPtr(tt.dayOfMonth),
				TimeOfDay:  "09:00",
			}
			next, err := calc.ComputeNext(r, tt.now)
			require.NoError(t, err)
			require.NotNil(t, next)
			assert.Equal(t, tt.want, *next)
		})
	}
}

func TestComputeNext_Once(t *testing.T) {
	calc := NewCalculator(time.UTC)
	now := time.Date(2025, time.June, 10, 12, 0, 0, 0, time.UTC)

	r := &models.Reminder{
		Frequency:    models.FrequencyOnce,
		TimeOfDay:    "15:00",
		SpecificDate: datePtr(2025, time.June, 20),
	}
	next, err := calc.ComputeNext(r, now)
	require.NoError(t, err)
	require.NotNil(t, next)
	assert.Equal(t, time.Date(2025, time.June, 20, 15, 0, 0, 0, time.UTC), *next)

	// Past date: terminal, no occurrence.
	r.SpecificDate = datePtr(2025, time.June, 1)
	next, err = calc.ComputeNext(r, now)
	require.NoError(t, err)
	assert.Nil(t, next)

	// Same day with the hour already passed is terminal too.
	r.SpecificDate = datePtr(2025, time.June, 10)
	r.TimeOfDay = "11:00"
	next, err = calc.ComputeNext(r, now)
	require.NoError(t, err)
	assert.Nil(t, next)
}

func TestComputeNext_Validation(t *testing.T) {
	calc := NewCalculator(time.UTC)
	now := time.Date(2025, time.June, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		reminder models.Reminder
	}{
		{"weekly without day_of_week", models.Reminder{Frequency: models.FrequencyWeekly, TimeOfDay: "09:00"}},
		{"weekly with day_of_week out of range", models.Reminder{Frequency: models.FrequencyWeekly, DayOfWeek: intPtr(7), TimeOfDay: "09:00"}},
		{"monthly without day_of_month", models.Reminder{Frequency: models.FrequencyMonthly, TimeOfDay: "09:00"}},
		{"monthly with day_of_month out of range", models.Reminder{Frequency: models.FrequencyMonthly, DayOfMonth: intPtr(32), TimeOfDay: "09:00"}},
		{"once without specific_date", models.Reminder{Frequency: models.FrequencyOnce, TimeOfDay: "09:00"}},
		{"unknown frequency", models.Reminder{Frequency: "yearly", TimeOfDay: "09:00"}},
		{"malformed time of day", models.Reminder{Frequency: models.FrequencyDaily, TimeOfDay: "9am"}},
		{"hour out of range", models.Reminder{Frequency: models.FrequencyDaily, TimeOfDay: "24:00"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, err := calc.ComputeNext(&tt.reminder, now)
			require.Error(t, err)
			assert.Nil(t, next)
			var verr *models.ValidationError
			assert.ErrorAs(t, err, &verr)
		})
	}
}

func TestComputeNext_UsesConfiguredZone(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Almaty")
	require.NoError(t, err)
	calc := NewCalculator(loc)

	r := &models.Reminder{Frequency: models.FrequencyDaily, TimeOfDay: "09:00"}
	// 04:30 UTC is 09:30 in Almaty (+05), so today's 09:00 has passed there.
	now := time.Date(2025, time.January, 15, 4, 30, 0, 0, time.UTC)
	next, err := calc.ComputeNext(r, now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, time.January, 16, 9, 0, 0, 0, loc), (*next).In(loc))
	assert.True(t, next.After(now))
}
