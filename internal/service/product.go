package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/okoshku/catalog-service/internal/domain"
	"github.com/okoshku/catalog-service/internal/event"
	"github.com/okoshku/catalog-service/internal/repository"
)

// Placeholder values for newly created products. Creation is a
// "create a stub, then edit" workflow: the request body is ignored and
// every field starts from these values.
const (
	sampleName        = "Sample name"
	sampleImage       = "/images/sample.jpg"
	sampleBrand       = "Sample brand"
	sampleCategory    = "Sample category"
	sampleDescription = "Sample description"
)

// ProductService implements the catalog operations: product CRUD plus
// review submission with aggregate recomputation.
type ProductService struct {
	repo     repository.ProductRepository
	producer *event.Producer
	logger   *slog.Logger
}

// NewProductService creates a new product service.
func NewProductService(repo repository.ProductRepository, producer *event.Producer, logger *slog.Logger) *ProductService {
	return &ProductService{
		repo:     repo,
		producer: producer,
		logger:   logger,
	}
}

// UpdateProductInput holds the full replacement set of editable fields.
// Updates have no partial semantics: every field is applied.
type UpdateProductInput struct {
	Name         string
	Price        float64
	Description  string
	Image        string
	Brand        string
	Category     string
	CountInStock int
}

// ListProducts returns all products in store-native order.
func (s *ProductService) ListProducts(ctx context.Context) ([]domain.Product, error) {
	products, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

// GetProduct retrieves a product by its ID.
func (s *ProductService) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product by id: %w", err)
	}
	return product, nil
}

// CreateProduct inserts a new product with fixed placeholder values and
// returns it with the store-assigned identifier.
func (s *ProductService) CreateProduct(ctx context.Context) (*domain.Product, error) {
	now := time.Now().UTC()
	product := &domain.Product{
		Name:         sampleName,
		Price:        0,
		Image:        sampleImage,
		Brand:        sampleBrand,
		Category:     sampleCategory,
		CountInStock: 0,
		Description:  sampleDescription,
		Reviews:      []domain.Review{},
		NumReviews:   0,
		Rating:       0,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Insert(ctx, product); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}

	if err := s.producer.PublishProductCreated(ctx, product); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish product.created event",
			slog.String("product_id", product.ID.Hex()),
			slog.String("error", err.Error()),
		)
		// Do not fail the operation if event publishing fails.
	}

	s.logger.InfoContext(ctx, "product created",
		slog.String("product_id", product.ID.Hex()),
	)

	return product, nil
}

// UpdateProduct loads the product and unconditionally overwrites all seven
// editable fields with the supplied values. The identifier, reviews, and
// review aggregates are untouched.
func (s *ProductService) UpdateProduct(ctx context.Context, id string, input *UpdateProductInput) (*domain.Product, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product for update: %w", err)
	}

	product.Name = input.Name
	product.Price = input.Price
	product.Description = input.Description
	product.Image = input.Image
	product.Brand = input.Brand
	product.Category = input.Category
	product.CountInStock = input.CountInStock
	product.UpdatedAt = time.Now().UTC()

	if err := s.repo.Replace(ctx, product); err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}

	if err := s.producer.PublishProductUpdated(ctx, product); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish product.updated event",
			slog.String("product_id", product.ID.Hex()),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "product updated",
		slog.String("product_id", product.ID.Hex()),
	)

	return product, nil
}

// DeleteProduct removes a product by its ID.
func (s *ProductService) DeleteProduct(ctx context.Context, id string) error {
	// Verify the product exists before deleting.
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return fmt.Errorf("get product for delete: %w", err)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}

	if err := s.producer.PublishProductDeleted(ctx, id); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish product.deleted event",
			slog.String("product_id", id),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "product deleted",
		slog.String("product_id", id),
	)

	return nil
}
