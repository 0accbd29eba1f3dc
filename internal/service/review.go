package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/okoshku/catalog-service/internal/domain"
	apperrors "github.com/okoshku/catalog-service/pkg/errors"
)

// CreateReviewInput holds the parameters for submitting a review.
// UserID and UserName come from the authenticated identity, never from the
// request body. The rating range is deliberately not validated.
type CreateReviewInput struct {
	ProductID string
	UserID    string
	UserName  string
	Rating    float64
	Comment   string
}

// CreateReview appends a review to a product and recomputes its aggregates.
// A user may review a product at most once; a second submission is rejected
// without mutation.
//
// The load, mutate, and replace are three separate steps against the store
// with no transaction or compare-and-swap, so concurrent submissions race.
func (s *ProductService) CreateReview(ctx context.Context, input *CreateReviewInput) error {
	product, err := s.repo.FindByID(ctx, input.ProductID)
	if err != nil {
		return fmt.Errorf("get product for review: %w", err)
	}

	if product.HasReviewFrom(input.UserID) {
		return apperrors.AlreadyReviewed(input.ProductID)
	}

	review := domain.Review{
		ID:        primitive.NewObjectID(),
		Name:      input.UserName,
		Rating:    input.Rating,
		Comment:   input.Comment,
		UserID:    input.UserID,
		CreatedAt: time.Now().UTC(),
	}

	product.AddReview(review)
	product.UpdatedAt = review.CreatedAt

	if err := s.repo.Replace(ctx, product); err != nil {
		return fmt.Errorf("save product review: %w", err)
	}

	if err := s.producer.PublishReviewAdded(ctx, product, &review); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish product.review_added event",
			slog.String("product_id", input.ProductID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "review added",
		slog.String("product_id", input.ProductID),
		slog.String("user_id", input.UserID),
		slog.Float64("rating", input.Rating),
		slog.Int("num_reviews", product.NumReviews),
	)

	return nil
}
