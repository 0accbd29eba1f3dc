package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/okoshku/catalog-service/internal/service"
	"github.com/okoshku/catalog-service/pkg/httputil"
	"github.com/okoshku/catalog-service/pkg/middleware"
	"github.com/okoshku/catalog-service/pkg/validator"
)

// ReviewHandler handles HTTP requests for review endpoints.
type ReviewHandler struct {
	service *service.ProductService
	logger  *slog.Logger
}

// NewReviewHandler creates a new review HTTP handler.
func NewReviewHandler(svc *service.ProductService, logger *slog.Logger) *ReviewHandler {
	return &ReviewHandler{
		service: svc,
		logger:  logger,
	}
}

// --- Request DTOs ---

// CreateReviewRequest is the JSON request body for submitting a review.
// Rating is a pointer so an explicit zero is distinguishable from a missing
// field; the value range is intentionally not constrained.
type CreateReviewRequest struct {
	Rating  *float64 `json:"rating" validate:"required"`
	Comment string   `json:"comment"`
}

// --- Handlers ---

// CreateReview handles POST /api/v1/products/{id}/reviews
// The reviewer's identity comes from the auth middleware, never from the body.
func (h *ReviewHandler) CreateReview(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "id")

	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		httputil.WriteJSON(w, http.StatusUnauthorized, httputil.ErrorBody{
			Code: "UNAUTHORIZED", Message: "authentication required",
		})
		return
	}

	// Limit request body to 1MB to prevent DoS via large payloads.
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req CreateReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorBody{
			Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error(),
		})
		return
	}

	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	input := &service.CreateReviewInput{
		ProductID: productID,
		UserID:    identity.UserID,
		UserName:  identity.Name,
		Rating:    *req.Rating,
		Comment:   req.Comment,
	}

	if err := h.service.CreateReview(r.Context(), input); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Message{Message: "Review added"})
}
