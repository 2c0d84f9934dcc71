package repository

import (
	"context"

	"github.com/Dias221467/PawPack_Tracker/internal/models"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// TaskLogRepository handles database operations related to task logs.
type TaskLogRepository struct {
	collection *mongo.Collection
}

// NewTaskLogRepository creates a new instance of TaskLogRepository.
func NewTaskLogRepository(db *mongo.Database) *TaskLogRepository {
	return &TaskLogRepository{
		collection: db.Collection("task_logs"),
	}
}

// CreateTaskLog inserts a completed-task record.
func (r *TaskLogRepository) CreateTaskLog(ctx context.Context, log *models.TaskLog) (*models.TaskLog, error) {
	result, err := r.collection.InsertOne(ctx, log)
	if err != nil {
		logrus.WithError(err).Error("Failed to insert task log")
		return nil, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		logrus.Error("Failed to cast inserted task log ID")
		return nil, mongo.ErrNilDocument
	}
	log.ID = insertedID
	return log, nil
}

// GetLogsByAnimal returns an animal's care history, newest first.
func (r *TaskLogRepository) GetLogsByAnimal(ctx context.Context, animalID primitive.ObjectID) ([]models.TaskLog, error) {
	opts := options.Find().SetSort(bson.D{{Key: "done_at", Value: -1}})

	cursor, err := r.collection.Find(ctx, bson.M{"animal_id": animalID}, opts)
	if err != nil {
		logrus.WithError(err).Error("Failed to query task logs")
		return nil, err
	}
	defer cursor.Close(ctx)

	var logs []models.TaskLog
	if err := cursor.All(ctx, &logs); err != nil {
		return nil, err
	}
	return logs, nil
}
