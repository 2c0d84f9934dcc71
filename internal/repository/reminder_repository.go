package repository

import (
	"context"
	"time"

	"github.com/Dias221467/PawPack_Tracker/internal/models"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ReminderRepository handles database operations related to reminders.
type ReminderRepository struct {
	collection *mongo.Collection
	taskLogs   *mongo.Collection
}

// NewReminderRepository creates a new instance of ReminderRepository.
func NewReminderRepository(db *mongo.Database) *ReminderRepository {
	return &ReminderRepository{
		collection: db.Collection("reminders"),
		taskLogs:   db.Collection("task_logs"),
	}
}

// CreateReminder inserts a new reminder.
func (r *ReminderRepository) CreateReminder(ctx context.Context, reminder *models.Reminder) (*models.Reminder, error) {
	reminder.CreatedAt = time.Now()
	reminder.UpdatedAt = time.Now()

	result, err := r.collection.InsertOne(ctx, reminder)
	if err != nil {
		logrus.WithError(err).Error("Failed to insert reminder")
		return nil, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		logrus.Error("Failed to cast inserted reminder ID")
		return nil, mongo.ErrNilDocument
	}
	reminder.ID = insertedID

	logrus.WithField("reminder_id", reminder.ID.Hex()).Info("Reminder created successfully")
	return reminder, nil
}

// GetReminderByID fetches a reminder by its ID.
func (r *ReminderRepository) GetReminderByID(ctx context.Context, id primitive.ObjectID) (*models.Reminder, error) {
	var reminder models.Reminder
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&reminder)
	if err != nil {
		logrus.WithError(err).WithField("reminder_id", id.Hex()).Error("Failed to find reminder by ID")
		return nil, err
	}
	return &reminder, nil
}

// UpdateReminder persists the mutable fields of a reminder. The update is
// written field by field so a cleared next_occurrence is stored as null
// rather than left stale.
func (r *ReminderRepository) UpdateReminder(ctx context.Context, reminder *models.Reminder) error {
	reminder.UpdatedAt = time.Now()

	_, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": reminder.ID},
		bson.M{"$set": bson.M{
			"task_type_id":    reminder.TaskTypeID,
			"title":           reminder.Title,
			"description":     reminder.Description,
			"frequency":       reminder.Frequency,
			"day_of_week":     reminder.DayOfWeek,
			"day_of_month":    reminder.DayOfMonth,
			"time_of_day":     reminder.TimeOfDay,
			"specific_date":   reminder.SpecificDate,
			"is_active":       reminder.IsActive,
			"next_occurrence": reminder.NextOccurrence,
			"updated_at":      reminder.UpdatedAt,
		}},
	)
	if err != nil {
		logrus.WithError(err).WithField("reminder_id", reminder.ID.Hex()).Error("Failed to update reminder")
		return err
	}
	return nil
}

// DeleteReminder removes a reminder and detaches any task logs that
// reference it. Logs are kept; only their reminder reference is nulled.
func (r *ReminderRepository) DeleteReminder(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		logrus.WithError(err).WithField("reminder_id", id.Hex()).Error("Failed to delete reminder")
		return err
	}

	result, err := r.taskLogs.UpdateMany(
		ctx,
		bson.M{"reminder_id": id},
		bson.M{"$set": bson.M{"reminder_id": nil}},
	)
	if err != nil {
		logrus.WithError(err).WithField("reminder_id", id.Hex()).Error("Failed to detach task logs")
		return err
	}
	if result.ModifiedCount > 0 {
		logrus.WithFields(logrus.Fields{
			"reminder_id": id.Hex(),
			"detached":    result.ModifiedCount,
		}).Info("Detached task logs from deleted reminder")
	}
	return nil
}

// FindDue returns all active reminders whose next occurrence is at or
// before now.
func (r *ReminderRepository) FindDue(ctx context.Context, now time.Time) ([]models.Reminder, error) {
	filter := bson.M{
		"is_active":       true,
		"next_occurrence": bson.M{"$ne": nil, "$lte": now},
	}

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		logrus.WithError(err).Error("Failed to query due reminders")
		return nil, err
	}
	defer cursor.Close(ctx)

	var reminders []models.Reminder
	if err := cursor.All(ctx, &reminders); err != nil {
		return nil, err
	}
	return reminders, nil
}

// FindUpcoming returns active reminders of the given animals whose next
// occurrence falls within [from, to], ascending by occurrence.
func (r *ReminderRepository) FindUpcoming(ctx context.Context, animalIDs []primitive.ObjectID, from, to time.Time) ([]models.Reminder, error) {
	filter := bson.M{
		"animal_id":       bson.M{"$in": animalIDs},
		"is_active":       true,
		"next_occurrence": bson.M{"$gte": from, "$lte": to},
	}
	opts := options.Find().SetSort(bson.D{{Key: "next_occurrence", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		logrus.WithError(err).Error("Failed to query upcoming reminders")
		return nil, err
	}
	defer cursor.Close(ctx)

	var reminders []models.Reminder
	if err := cursor.All(ctx, &reminders); err != nil {
		return nil, err
	}
	return reminders, nil
}
