package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/awaisahmed1123/hadeedcart-backend/internal/domain"
	pkgkafka "github.com/awaisahmed1123/hadeedcart-backend/pkg/kafka"
	"github.com/awaisahmed1123/hadeedcart-backend/pkg/logger"
	"github.com/awaisahmed1123/hadeedcart-backend/pkg/middleware"
)

// Kafka topics for product domain events.
var (
	TopicProductCreated = pkgkafka.Topic("product", "created")
	TopicProductUpdated = pkgkafka.Topic("product", "updated")
	TopicProductDeleted = pkgkafka.Topic("product", "deleted")
)

const (
	AggregateTypeProduct = "product"
	Source               = "hadeedcart-backend"
)

// ProductData is the payload of product.created and product.updated.
type ProductData struct {
	ID          string               `json:"id"`
	Name        string               `json:"name"`
	ProductType domain.ProductType   `json:"productType"`
	PriceRange  domain.PriceRange    `json:"priceRange"`
	SKU         *string              `json:"sku,omitempty"`
	InStock     bool                 `json:"inStock"`
	Status      domain.ProductStatus `json:"status"`
	Category    string               `json:"category"`
	Brand       string               `json:"brand"`
	VendorID    string               `json:"vendorId"`
	Tags        []string             `json:"tags"`
}

// ProductDeletedData is the payload of product.deleted.
type ProductDeletedData struct {
	ID       string   `json:"id"`
	AssetIDs []string `json:"assetIds"`
}

// Publisher writes an event envelope to a topic. *pkgkafka.Producer
// satisfies it.
type Publisher interface {
	Publish(ctx context.Context, topic string, event *pkgkafka.Event) error
}

// Producer publishes product domain events.
type Producer struct {
	publisher Publisher
	logger    *slog.Logger
}

// NewProducer creates a product event producer.
func NewProducer(publisher Publisher, logger *slog.Logger) *Producer {
	return &Producer{
		publisher: publisher,
		logger:    logger,
	}
}

func productData(p *domain.Product) ProductData {
	return ProductData{
		ID:          p.ID,
		Name:        p.Name,
		ProductType: p.ProductType,
		PriceRange:  p.PriceRange,
		SKU:         p.SKU,
		InStock:     p.InStock,
		Status:      p.Status,
		Category:    p.Category,
		Brand:       p.Brand,
		VendorID:    p.VendorID,
		Tags:        p.Tags,
	}
}

// PublishProductCreated publishes a product.created event.
func (p *Producer) PublishProductCreated(ctx context.Context, product *domain.Product) error {
	return p.publish(ctx, TopicProductCreated, product.ID, productData(product))
}

// PublishProductUpdated publishes a product.updated event.
func (p *Producer) PublishProductUpdated(ctx context.Context, product *domain.Product) error {
	return p.publish(ctx, TopicProductUpdated, product.ID, productData(product))
}

// PublishProductDeleted publishes a product.deleted event.
func (p *Producer) PublishProductDeleted(ctx context.Context, product *domain.Product) error {
	return p.publish(ctx, TopicProductDeleted, product.ID, ProductDeletedData{
		ID:       product.ID,
		AssetIDs: product.AssetIDs(),
	})
}

func (p *Producer) publish(ctx context.Context, topic, productID string, data any) error {
	ev, err := pkgkafka.NewEvent(topic, productID, AggregateTypeProduct, Source, data)
	if err != nil {
		return fmt.Errorf("create %s event: %w", topic, err)
	}
	ev.WithCorrelationID(logger.CorrelationIDFromContext(ctx)).
		WithActor(middleware.UserIDFromContext(ctx))

	if err := p.publisher.Publish(ctx, topic, ev); err != nil {
		return fmt.Errorf("publish %s event: %w", topic, err)
	}

	p.logger.DebugContext(ctx, "published product event",
		slog.String("topic", topic),
		slog.String("product_id", productID),
	)
	return nil
}
