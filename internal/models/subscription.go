package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PushSubscription is one browser/device Web Push endpoint of a user.
// Endpoints are globally unique: subscribing again with a known endpoint
// updates the stored keys and owner instead of inserting a duplicate row.
type PushSubscription struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID     primitive.ObjectID `bson:"user_id" json:"user_id"`
	Endpoint   string             `bson:"endpoint" json:"endpoint"`
	P256dh     string             `bson:"p256dh" json:"p256dh"`
	Auth       string             `bson:"auth" json:"auth"`
	LastUsedAt *time.Time         `bson:"last_used_at,omitempty" json:"last_used_at,omitempty"`
	CreatedAt  time.Time          `bson:"created_at" json:"created_at"`
}
