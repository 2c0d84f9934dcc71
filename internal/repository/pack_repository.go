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

// PackRepository handles database operations related to packs.
type PackRepository struct {
	collection *mongo.Collection
}

// NewPackRepository creates a new instance of PackRepository.
func NewPackRepository(db *mongo.Database) *PackRepository {
	return &PackRepository{
		collection: db.Collection("packs"),
	}
}

// CreatePack inserts a new pack.
func (r *PackRepository) CreatePack(ctx context.Context, pack *models.Pack) (*models.Pack, error) {
	pack.CreatedAt = time.Now()
	pack.UpdatedAt = time.Now()

	result, err := r.collection.InsertOne(ctx, pack)
	if err != nil {
		logrus.WithError(err).Error("Failed to insert pack")
		return nil, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		logrus.Error("Failed to cast inserted pack ID")
		return nil, mongo.ErrNilDocument
	}
	pack.ID = insertedID
	return pack, nil
}

// GetPackByID fetches a pack by its ID.
func (r *PackRepository) GetPackByID(ctx context.Context, id primitive.ObjectID) (*models.Pack, error) {
	var pack models.Pack
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&pack)
	if err != nil {
		logrus.WithError(err).WithField("pack_id", id.Hex()).Error("Failed to find pack by ID")
		return nil, err
	}
	return &pack, nil
}

// GetPacksByMember returns every pack the user belongs to.
func (r *PackRepository) GetPacksByMember(ctx context.Context, userID primitive.ObjectID) ([]models.Pack, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"member_ids": userID})
	if err != nil {
		logrus.WithError(err).Error("Failed to query packs by member")
		return nil, err
	}
	defer cursor.Close(ctx)

	var packs []models.Pack
	if err := cursor.All(ctx, &packs); err != nil {
		return nil, err
	}
	return packs, nil
}

// AddMember adds a user to a pack's member list, once.
func (r *PackRepository) AddMember(ctx context.Context, packID, userID primitive.ObjectID) error {
	_, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": packID},
		bson.M{
			"$addToSet": bson.M{"member_ids": userID},
			"$set":      bson.M{"updated_at": time.Now()},
		},
	)
	if err != nil {
		logrus.WithError(err).WithField("pack_id", packID.Hex()).Error("Failed to add pack member")
		return err
	}
	return nil
}
