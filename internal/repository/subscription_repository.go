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

// SubscriptionRepository handles database operations related to push
// subscriptions. It reads the packs collection to resolve pack audiences.
type SubscriptionRepository struct {
	collection *mongo.Collection
	packs      *mongo.Collection
}

// NewSubscriptionRepository creates a new instance of
// SubscriptionRepository.
func NewSubscriptionRepository(db *mongo.Database) *SubscriptionRepository {
	return &SubscriptionRepository{
		collection: db.Collection("push_subscriptions"),
		packs:      db.Collection("packs"),
	}
}

// Upsert stores a subscription keyed by its endpoint. Subscribing again
// with a known endpoint updates the keys and owner in place; endpoints are
// globally unique.
func (r *SubscriptionRepository) Upsert(ctx context.Context, userID primitive.ObjectID, endpoint, p256dh, auth string) (*models.PushSubscription, error) {
	now := time.Now()
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var sub models.PushSubscription
	err := r.collection.FindOneAndUpdate(
		ctx,
		bson.M{"endpoint": endpoint},
		bson.M{
			"$set": bson.M{
				"user_id": userID,
				"p256dh":  p256dh,
				"auth":    auth,
			},
			"$setOnInsert": bson.M{"created_at": now},
		},
		opts,
	).Decode(&sub)
	if err != nil {
		logrus.WithError(err).Error("Failed to upsert push subscription")
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"user_id":  userID.Hex(),
		"endpoint": endpoint,
	}).Info("Push subscription stored")
	return &sub, nil
}

// FindByUser returns all subscriptions of one user.
func (r *SubscriptionRepository) FindByUser(ctx context.Context, userID primitive.ObjectID) ([]models.PushSubscription, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"user_id": userID})
	if err != nil {
		logrus.WithError(err).Error("Failed to query user subscriptions")
		return nil, err
	}
	defer cursor.Close(ctx)

	var subs []models.PushSubscription
	if err := cursor.All(ctx, &subs); err != nil {
		return nil, err
	}
	return subs, nil
}

// FindByPackMembers returns the subscriptions of every member of a pack.
func (r *SubscriptionRepository) FindByPackMembers(ctx context.Context, packID primitive.ObjectID) ([]models.PushSubscription, error) {
	var pack models.Pack
	if err := r.packs.FindOne(ctx, bson.M{"_id": packID}).Decode(&pack); err != nil {
		logrus.WithError(err).WithField("pack_id", packID.Hex()).Error("Failed to resolve pack for subscriptions")
		return nil, err
	}
	if len(pack.MemberIDs) == 0 {
		return []models.PushSubscription{}, nil
	}

	cursor, err := r.collection.Find(ctx, bson.M{"user_id": bson.M{"$in": pack.MemberIDs}})
	if err != nil {
		logrus.WithError(err).Error("Failed to query pack subscriptions")
		return nil, err
	}
	defer cursor.Close(ctx)

	var subs []models.PushSubscription
	if err := cursor.All(ctx, &subs); err != nil {
		return nil, err
	}
	return subs, nil
}

// DeleteByEndpoint removes the subscription with the given endpoint and
// reports whether one existed.
func (r *SubscriptionRepository) DeleteByEndpoint(ctx context.Context, endpoint string) (bool, error) {
	result, err := r.collection.DeleteOne(ctx, bson.M{"endpoint": endpoint})
	if err != nil {
		logrus.WithError(err).WithField("endpoint", endpoint).Error("Failed to delete subscription")
		return false, err
	}
	return result.DeletedCount > 0, nil
}

// TouchEndpoints stamps last_used_at on subscriptions that just received a
// successful delivery.
func (r *SubscriptionRepository) TouchEndpoints(ctx context.Context, endpoints []string, at time.Time) error {
	if len(endpoints) == 0 {
		return nil
	}
	_, err := r.collection.UpdateMany(
		ctx,
		bson.M{"endpoint": bson.M{"$in": endpoints}},
		bson.M{"$set": bson.M{"last_used_at": at}},
	)
	return err
}

// EnsureIndexes creates the unique endpoint index backing the upsert
// semantics.
func (r *SubscriptionRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "endpoint", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
