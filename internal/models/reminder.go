package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Frequency describes how often a reminder fires.
type Frequency string

const (
	FrequencyOnce    Frequency = "once"
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
)

// AllowedFrequencies lists every valid frequency value.
var AllowedFrequencies = map[Frequency]bool{
	FrequencyOnce:    true,
	FrequencyDaily:   true,
	FrequencyWeekly:  true,
	FrequencyMonthly: true,
}

// Reminder represents a recurring or one-time care obligation for an animal.
// DayOfWeek is required for weekly reminders (0 = Sunday .. 6 = Saturday),
// DayOfMonth for monthly ones (1..31, clamped to short months) and
// SpecificDate for one-time ones. TimeOfDay is an "HH:MM" wall-clock string
// evaluated in the deployment time zone.
type Reminder struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	AnimalID       primitive.ObjectID `bson:"animal_id" json:"animal_id"`
	TaskTypeID     primitive.ObjectID `bson:"task_type_id" json:"task_type_id"`
	CreatedBy      primitive.ObjectID `bson:"created_by" json:"created_by"`
	Title          string             `bson:"title" json:"title"`
	Description    string             `bson:"description,omitempty" json:"description,omitempty"`
	Frequency      Frequency          `bson:"frequency" json:"frequency"`
	DayOfWeek      *int               `bson:"day_of_week,omitempty" json:"day_of_week,omitempty"`
	DayOfMonth     *int               `bson:"day_of_month,omitempty" json:"day_of_month,omitempty"`
	TimeOfDay      string             `bson:"time_of_day" json:"time_of_day"`
	SpecificDate   *time.Time         `bson:"specific_date,omitempty" json:"specific_date,omitempty"`
	IsActive       bool               `bson:"is_active" json:"is_active"`
	NextOccurrence *time.Time         `bson:"next_occurrence" json:"next_occurrence"`
	CreatedAt      time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time          `bson:"updated_at" json:"updated_at"`
}

// DueReminder couples a due reminder with the animal it belongs to, which
// carries the pack reference needed to address the notification audience.
type DueReminder struct {
	Reminder Reminder `json:"reminder"`
	Animal   Animal   `json:"animal"`
}
