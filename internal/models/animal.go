package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Animal is one pet tracked by a pack.
type Animal struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	PackID    primitive.ObjectID `bson:"pack_id" json:"pack_id"`
	Name      string             `bson:"name" json:"name"`
	Species   string             `bson:"species" json:"species"`
	BirthDate *time.Time         `bson:"birth_date,omitempty" json:"birth_date,omitempty"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}

// Pack is a household of users sharing care duties for its animals.
type Pack struct {
	ID        primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Name      string               `bson:"name" json:"name"`
	OwnerID   primitive.ObjectID   `bson:"owner_id" json:"owner_id"`
	MemberIDs []primitive.ObjectID `bson:"member_ids" json:"member_ids"`
	CreatedAt time.Time            `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time            `bson:"updated_at" json:"updated_at"`
}
