package repository

import (
	"context"

	"github.com/okoshku/catalog-service/internal/domain"
)

// ProductRepository defines the interface for product persistence operations.
type ProductRepository interface {
	// FindAll returns every product in store-native order.
	FindAll(ctx context.Context) ([]domain.Product, error)

	// FindByID retrieves a product by its identifier.
	FindByID(ctx context.Context, id string) (*domain.Product, error)

	// Insert stores a new product and assigns its identifier.
	Insert(ctx context.Context, product *domain.Product) error

	// Replace overwrites the stored document for the product's identifier.
	Replace(ctx context.Context, product *domain.Product) error

	// Delete removes a product from the store by its identifier.
	Delete(ctx context.Context, id string) error
}
