package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TaskType is a category of care work (feeding, medication, grooming...).
type TaskType struct {
	ID   primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name string             `bson:"name" json:"name"`
	Icon string             `bson:"icon,omitempty" json:"icon,omitempty"`
}

// TaskLog records one completed care task. ReminderID is set when the task
// was completed from a reminder and is detached (set to null) if that
// reminder is later deleted; the log itself is never cascade-deleted.
type TaskLog struct {
	ID         primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	AnimalID   primitive.ObjectID  `bson:"animal_id" json:"animal_id"`
	TaskTypeID primitive.ObjectID  `bson:"task_type_id" json:"task_type_id"`
	ReminderID *primitive.ObjectID `bson:"reminder_id,omitempty" json:"reminder_id,omitempty"`
	DoneBy     primitive.ObjectID  `bson:"done_by" json:"done_by"`
	DoneAt     time.Time           `bson:"done_at" json:"done_at"`
	Notes      string              `bson:"notes,omitempty" json:"notes,omitempty"`
}
