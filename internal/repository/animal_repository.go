package repository

import (
	"context"
	"time"

	"github.com/Dias221467/PawPack_Tracker/internal/models"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// AnimalRepository handles database operations related to animals.
type AnimalRepository struct {
	collection *mongo.Collection
}

// NewAnimalRepository creates a new instance of AnimalRepository.
func NewAnimalRepository(db *mongo.Database) *AnimalRepository {
	return &AnimalRepository{
		collection: db.Collection("animals"),
	}
}

// CreateAnimal inserts a new animal.
func (r *AnimalRepository) CreateAnimal(ctx context.Context, animal *models.Animal) (*models.Animal, error) {
	animal.CreatedAt = time.Now()
	animal.UpdatedAt = time.Now()

	result, err := r.collection.InsertOne(ctx, animal)
	if err != nil {
		logrus.WithError(err).Error("Failed to insert animal")
		return nil, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		logrus.Error("Failed to cast inserted animal ID")
		return nil, mongo.ErrNilDocument
	}
	animal.ID = insertedID
	return animal, nil
}

// GetAnimalByID fetches an animal by its ID.
func (r *AnimalRepository) GetAnimalByID(ctx context.Context, id primitive.ObjectID) (*models.Animal, error) {
	var animal models.Animal
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&animal)
	if err != nil {
		logrus.WithError(err).WithField("animal_id", id.Hex()).Error("Failed to find animal by ID")
		return nil, err
	}
	return &animal, nil
}

// GetAnimalsByPacks returns every animal belonging to any of the packs.
func (r *AnimalRepository) GetAnimalsByPacks(ctx context.Context, packIDs []primitive.ObjectID) ([]models.Animal, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"pack_id": bson.M{"$in": packIDs}})
	if err != nil {
		logrus.WithError(err).Error("Failed to query animals by packs")
		return nil, err
	}
	defer cursor.Close(ctx)

	var animals []models.Animal
	if err := cursor.All(ctx, &animals); err != nil {
		return nil, err
	}
	return animals, nil
}
