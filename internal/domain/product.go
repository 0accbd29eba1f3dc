package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Product is a catalog entry with descriptive fields, stock count, and
// aggregate review statistics. Reviews are embedded in the product document;
// NumReviews and Rating are derived from them and recomputed on every
// review addition.
type Product struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	Price        float64            `bson:"price" json:"price"`
	Image        string             `bson:"image" json:"image"`
	Brand        string             `bson:"brand" json:"brand"`
	Category     string             `bson:"category" json:"category"`
	CountInStock int                `bson:"countInStock" json:"countInStock"`
	Description  string             `bson:"description" json:"description"`
	Reviews      []Review           `bson:"reviews" json:"reviews"`
	NumReviews   int                `bson:"numReviews" json:"numReviews"`
	Rating       float64            `bson:"rating" json:"rating"`
	CreatedAt    time.Time          `bson:"createdAt" json:"created_at"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updated_at"`
}

// HasReviewFrom reports whether the given user already has a review on
// this product.
func (p *Product) HasReviewFrom(userID string) bool {
	for _, r := range p.Reviews {
		if r.UserID == userID {
			return true
		}
	}
	return false
}

// AddReview appends a review and recomputes the derived aggregates:
// NumReviews is the new review count and Rating is the arithmetic mean of
// all review ratings.
func (p *Product) AddReview(review Review) {
	p.Reviews = append(p.Reviews, review)
	p.NumReviews = len(p.Reviews)

	var sum float64
	for _, r := range p.Reviews {
		sum += r.Rating
	}
	p.Rating = sum / float64(len(p.Reviews))
}
