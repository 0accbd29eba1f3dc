package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Review is a single rating plus comment submitted by one user against one
// product. Reviews live inside the parent product document and are
// append-only: there is no edit or delete operation.
type Review struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name" json:"name"`
	Rating    float64            `bson:"rating" json:"rating"`
	Comment   string             `bson:"comment" json:"comment"`
	UserID    string             `bson:"user" json:"user"`
	CreatedAt time.Time          `bson:"createdAt" json:"created_at"`
}
