package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/okoshku/catalog-service/internal/domain"
	pkgkafka "github.com/okoshku/catalog-service/pkg/kafka"
)

// Kafka topic constants for catalog domain events.
const (
	TopicProductCreated = "catalog.product.created"
	TopicProductUpdated = "catalog.product.updated"
	TopicProductDeleted = "catalog.product.deleted"
	TopicReviewAdded    = "catalog.product.review_added"
)

// Aggregate type constant.
const AggregateTypeProduct = "product"

// Source identifier for events originating from this service.
const SourceCatalogService = "catalog-service"

// ProductData is the payload for product.created and product.updated events.
type ProductData struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Price        float64 `json:"price"`
	Image        string  `json:"image"`
	Brand        string  `json:"brand"`
	Category     string  `json:"category"`
	CountInStock int     `json:"count_in_stock"`
	Description  string  `json:"description"`
	NumReviews   int     `json:"num_reviews"`
	Rating       float64 `json:"rating"`
}

// ProductDeletedData is the payload for a product.deleted event.
type ProductDeletedData struct {
	ID string `json:"id"`
}

// ReviewAddedData is the payload for a product.review_added event.
type ReviewAddedData struct {
	ProductID  string  `json:"product_id"`
	UserID     string  `json:"user_id"`
	Rating     float64 `json:"rating"`
	NumReviews int     `json:"num_reviews"`
	AvgRating  float64 `json:"avg_rating"`
}

// Producer publishes catalog domain events to Kafka.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates a new event producer for the catalog service.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

func productData(p *domain.Product) ProductData {
	return ProductData{
		ID:           p.ID.Hex(),
		Name:         p.Name,
		Price:        p.Price,
		Image:        p.Image,
		Brand:        p.Brand,
		Category:     p.Category,
		CountInStock: p.CountInStock,
		Description:  p.Description,
		NumReviews:   p.NumReviews,
		Rating:       p.Rating,
	}
}

// PublishProductCreated publishes a product.created event.
func (p *Producer) PublishProductCreated(ctx context.Context, product *domain.Product) error {
	return p.publish(ctx, TopicProductCreated, product.ID.Hex(), productData(product))
}

// PublishProductUpdated publishes a product.updated event.
func (p *Producer) PublishProductUpdated(ctx context.Context, product *domain.Product) error {
	return p.publish(ctx, TopicProductUpdated, product.ID.Hex(), productData(product))
}

// PublishProductDeleted publishes a product.deleted event.
func (p *Producer) PublishProductDeleted(ctx context.Context, id string) error {
	return p.publish(ctx, TopicProductDeleted, id, ProductDeletedData{ID: id})
}

// PublishReviewAdded publishes a product.review_added event with the
// recomputed aggregates.
func (p *Producer) PublishReviewAdded(ctx context.Context, product *domain.Product, review *domain.Review) error {
	data := ReviewAddedData{
		ProductID:  product.ID.Hex(),
		UserID:     review.UserID,
		Rating:     review.Rating,
		NumReviews: product.NumReviews,
		AvgRating:  product.Rating,
	}
	return p.publish(ctx, TopicReviewAdded, product.ID.Hex(), data)
}

func (p *Producer) publish(ctx context.Context, topic, aggregateID string, data any) error {
	event, err := pkgkafka.NewEvent(topic, aggregateID, AggregateTypeProduct, SourceCatalogService, data)
	if err != nil {
		return fmt.Errorf("create %s event: %w", topic, err)
	}

	if err := p.kafka.Publish(ctx, topic, event); err != nil {
		return fmt.Errorf("publish %s event: %w", topic, err)
	}

	p.logger.DebugContext(ctx, "published catalog event",
		slog.String("topic", topic),
		slog.String("product_id", aggregateID),
	)

	return nil
}
