package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/okoshku/catalog-service/internal/domain"
	apperrors "github.com/okoshku/catalog-service/pkg/errors"
)

func reviewInput(productID, userID string, rating float64) *CreateReviewInput {
	return &CreateReviewInput{
		ProductID: productID,
		UserID:    userID,
		UserName:  "Reviewer " + userID,
		Rating:    rating,
		Comment:   "ok",
	}
}

func TestCreateReview_FirstReview(t *testing.T) {
	repo := new(mockProductRepo)
	svc := newTestService(repo)
	ctx := context.Background()

	stored := storedProduct()
	repo.On("FindByID", ctx, stored.ID.Hex()).Return(stored, nil)

	var saved *domain.Product
	repo.On("Replace", ctx, mock.AnythingOfType("*domain.Product")).
		Run(func(args mock.Arguments) {
			saved = args.Get(1).(*domain.Product)
		}).
		Return(nil)

	err := svc.CreateReview(ctx, reviewInput(stored.ID.Hex(), "user-1", 4))

	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.Equal(t, 1, saved.NumReviews)
	assert.InDelta(t, 4.0, saved.Rating, 1e-9)
	require.Len(t, saved.Reviews, 1)
	assert.Equal(t, "user-1", saved.Reviews[0].UserID)
	assert.Equal(t, "Reviewer user-1", saved.Reviews[0].Name)
	assert.Equal(t, "ok", saved.Reviews[0].Comment)
	assert.False(t, saved.Reviews[0].ID.IsZero())
	repo.AssertExpectations(t)
}

func TestCreateReview_Duplicate_NoMutation(t *testing.T) {
	repo := new(mockProductRepo)
	svc := newTestService(repo)
	ctx := context.Background()

	stored := storedProduct()
	stored.Reviews = []domain.Review{{ID: primitive.NewObjectID(), UserID: "user-1", Rating: 4}}
	stored.NumReviews = 1
	stored.Rating = 4
	repo.On("FindByID", ctx, stored.ID.Hex()).Return(stored, nil)

	err := svc.CreateReview(ctx, reviewInput(stored.ID.Hex(), "user-1", 5))

	assert.ErrorIs(t, err, apperrors.ErrAlreadyReviewed)
	repo.AssertNotCalled(t, "Replace", mock.Anything, mock.Anything)

	// Loaded state is untouched.
	assert.Equal(t, 1, stored.NumReviews)
	assert.InDelta(t, 4.0, stored.Rating, 1e-9)
	assert.Len(t, stored.Reviews, 1)
}

func TestCreateReview_SecondUser_MeanRating(t *testing.T) {
	repo := new(mockProductRepo)
	svc := newTestService(repo)
	ctx := context.Background()

	stored := storedProduct()
	stored.Reviews = []domain.Review{{ID: primitive.NewObjectID(), UserID: "user-1", Rating: 4, Comment: "ok"}}
	stored.NumReviews = 1
	stored.Rating = 4
	repo.On("FindByID", ctx, stored.ID.Hex()).Return(stored, nil)

	var saved *domain.Product
	repo.On("Replace", ctx, mock.AnythingOfType("*domain.Product")).
		Run(func(args mock.Arguments) {
			saved = args.Get(1).(*domain.Product)
		}).
		Return(nil)

	input := reviewInput(stored.ID.Hex(), "user-2", 2)
	input.Comment = "meh"

	err := svc.CreateReview(ctx, input)

	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.Equal(t, 2, saved.NumReviews)
	assert.InDelta(t, 3.0, saved.Rating, 1e-9)
	repo.AssertExpectations(t)
}

func TestCreateReview_ProductNotFound(t *testing.T) {
	repo := new(mockProductRepo)
	svc := newTestService(repo)
	ctx := context.Background()

	repo.On("FindByID", ctx, "missing").Return(nil, apperrors.NotFound("product", "missing"))

	err := svc.CreateReview(ctx, reviewInput("missing", "user-1", 4))

	// A missing product is not-found, never confused with the
	// duplicate-review rejection.
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NotErrorIs(t, err, apperrors.ErrAlreadyReviewed)
	repo.AssertNotCalled(t, "Replace", mock.Anything, mock.Anything)
}

func TestCreateReview_RatingRangeNotValidated(t *testing.T) {
	repo := new(mockProductRepo)
	svc := newTestService(repo)
	ctx := context.Background()

	stored := storedProduct()
	repo.On("FindByID", ctx, stored.ID.Hex()).Return(stored, nil)

	var saved *domain.Product
	repo.On("Replace", ctx, mock.AnythingOfType("*domain.Product")).
		Run(func(args mock.Arguments) {
			saved = args.Get(1).(*domain.Product)
		}).
		Return(nil)

	// Out-of-range ratings pass through untouched.
	err := svc.CreateReview(ctx, reviewInput(stored.ID.Hex(), "user-1", 11))

	require.NoError(t, err)
	assert.InDelta(t, 11.0, saved.Rating, 1e-9)
}
