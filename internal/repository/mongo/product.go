package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/okoshku/catalog-service/internal/domain"
	apperrors "github.com/okoshku/catalog-service/pkg/errors"
)

// CollectionProducts is the name of the products collection.
const CollectionProducts = "products"

// ProductRepository implements repository.ProductRepository on a MongoDB
// collection. Products are stored as single documents with reviews embedded;
// there is no optimistic-concurrency token on the document, so callers doing
// load-mutate-Replace get last-writer-wins semantics.
type ProductRepository struct {
	collection *mongo.Collection
}

// NewProductRepository creates a MongoDB-backed product repository.
func NewProductRepository(db *mongo.Database) *ProductRepository {
	return &ProductRepository{collection: db.Collection(CollectionProducts)}
}

// FindAll returns every product in store-native order.
func (r *ProductRepository) FindAll(ctx context.Context) ([]domain.Product, error) {
	cursor, err := r.collection.Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("find products: %w", err)
	}
	defer cursor.Close(ctx)

	products := []domain.Product{}
	if err := cursor.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}
	return products, nil
}

// FindByID retrieves a product by its identifier. A malformed identifier and
// a true miss both surface as NotFound, matching the observable contract of
// the lookup endpoint.
func (r *ProductRepository) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperrors.NotFound("product", id)
	}

	var product domain.Product
	err = r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&product)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.NotFound("product", id)
		}
		return nil, fmt.Errorf("find product by id: %w", err)
	}
	return &product, nil
}

// Insert stores a new product and assigns the store-generated identifier.
func (r *ProductRepository) Insert(ctx context.Context, product *domain.Product) error {
	result, err := r.collection.InsertOne(ctx, product)
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		product.ID = oid
	}
	return nil
}

// Replace overwrites the stored document for the product's identifier.
func (r *ProductRepository) Replace(ctx context.Context, product *domain.Product) error {
	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": product.ID}, product)
	if err != nil {
		return fmt.Errorf("replace product: %w", err)
	}
	if result.MatchedCount == 0 {
		return apperrors.NotFound("product", product.ID.Hex())
	}
	return nil
}

// Delete removes a product by its identifier.
func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return apperrors.NotFound("product", id)
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if result.DeletedCount == 0 {
		return apperrors.NotFound("product", id)
	}
	return nil
}
