package services

import (
	"context"
	"time"

	"github.com/Dias221467/PawPack_Tracker/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Repository contracts consumed by the service layer. The MongoDB
// implementations live in internal/repository; tests substitute fakes.

type ReminderRepository interface {
	CreateReminder(ctx context.Context, reminder *models.Reminder) (*models.Reminder, error)
	GetReminderByID(ctx context.Context, id primitive.ObjectID) (*models.Reminder, error)
	UpdateReminder(ctx context.Context, reminder *models.Reminder) error
	DeleteReminder(ctx context.Context, id primitive.ObjectID) error
	FindDue(ctx context.Context, now time.Time) ([]models.Reminder, error)
	FindUpcoming(ctx context.Context, animalIDs []primitive.ObjectID, from, to time.Time) ([]models.Reminder, error)
}

type AnimalRepository interface {
	CreateAnimal(ctx context.Context, animal *models.Animal) (*models.Animal, error)
	GetAnimalByID(ctx context.Context, id primitive.ObjectID) (*models.Animal, error)
	GetAnimalsByPacks(ctx context.Context, packIDs []primitive.ObjectID) ([]models.Animal, error)
}

type PackRepository interface {
	CreatePack(ctx context.Context, pack *models.Pack) (*models.Pack, error)
	GetPackByID(ctx context.Context, id primitive.ObjectID) (*models.Pack, error)
	GetPacksByMember(ctx context.Context, userID primitive.ObjectID) ([]models.Pack, error)
	AddMember(ctx context.Context, packID, userID primitive.ObjectID) error
}

type SubscriptionRepository interface {
	Upsert(ctx context.Context, userID primitive.ObjectID, endpoint, p256dh, auth string) (*models.PushSubscription, error)
	FindByUser(ctx context.Context, userID primitive.ObjectID) ([]models.PushSubscription, error)
	FindByPackMembers(ctx context.Context, packID primitive.ObjectID) ([]models.PushSubscription, error)
	DeleteByEndpoint(ctx context.Context, endpoint string) (bool, error)
	TouchEndpoints(ctx context.Context, endpoints []string, at time.Time) error
}

type TaskLogRepository interface {
	CreateTaskLog(ctx context.Context, log *models.TaskLog) (*models.TaskLog, error)
	GetLogsByAnimal(ctx context.Context, animalID primitive.ObjectID) ([]models.TaskLog, error)
}

type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
}
