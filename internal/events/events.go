// Package events описывает доменные события каталога и отзывов.
// События пишутся в outbox в одной транзакции с бизнес-данными,
// отдельный воркер доставляет их в Kafka.
package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"example.com/storefront/internal/domain"
	"example.com/storefront/pkg/outbox"
)

// Kafka топики доменных событий.
const (
	TopicCatalog = "catalog.events"
	TopicReviews = "review.events"
)

// Типы событий каталога.
const (
	TypeProductCreated = "catalog.product.created"
	TypeProductUpdated = "catalog.product.updated"
	TypeProductDeleted = "catalog.product.deleted"
)

// Типы событий отзывов.
const (
	TypeReviewCreated = "review.created"
	TypeReviewUpdated = "review.updated"
	TypeReviewDeleted = "review.deleted"
)

// ProductPayload — JSON payload события каталога.
type ProductPayload struct {
	ProductID     string    `json:"productId"`
	Name          string    `json:"name"`
	Price         float64   `json:"price"`
	Category      string    `json:"category"`
	InStock       bool      `json:"inStock"`
	StockQuantity int       `json:"stockQuantity"`
	OccurredAt    time.Time `json:"occurredAt"`
}

// ReviewPayload — JSON payload события отзыва.
type ReviewPayload struct {
	ReviewID   string    `json:"reviewId"`
	ProductID  string    `json:"productId"`
	Rating     int       `json:"rating"`
	OccurredAt time.Time `json:"occurredAt"`
}

// NewProductEvent формирует outbox-запись для события каталога.
// Партиционирование по ID товара сохраняет порядок событий одного товара.
func NewProductEvent(eventType string, p *domain.Product) (*outbox.Outbox, error) {
	prim := p.Primitives()
	data, err := json.Marshal(ProductPayload{
		ProductID:     prim.ID,
		Name:          prim.Name,
		Price:         prim.Price,
		Category:      prim.Category,
		InStock:       prim.InStock,
		StockQuantity: prim.StockQuantity,
		OccurredAt:    time.Now(),
	})
	if err != nil {
		return nil, fmt.Errorf("ошибка сериализации события товара: %w", err)
	}

	return &outbox.Outbox{
		ID:            uuid.New().String(),
		AggregateType: "product",
		AggregateID:   prim.ID,
		EventType:     eventType,
		Topic:         TopicCatalog,
		MessageKey:    prim.ID,
		Payload:       data,
		CreatedAt:     time.Now(),
	}, nil
}

// NewReviewEvent формирует outbox-запись для события отзыва.
// Партиционирование по ID товара: события отзывов одного товара упорядочены.
func NewReviewEvent(eventType string, r *domain.Review) (*outbox.Outbox, error) {
	prim := r.Primitives()
	data, err := json.Marshal(ReviewPayload{
		ReviewID:   prim.ID,
		ProductID:  prim.ProductID,
		Rating:     prim.Rating,
		OccurredAt: time.Now(),
	})
	if err != nil {
		return nil, fmt.Errorf("ошибка сериализации события отзыва: %w", err)
	}

	return &outbox.Outbox{
		ID:            uuid.New().String(),
		AggregateType: "review",
		AggregateID:   prim.ID,
		EventType:     eventType,
		Topic:         TopicReviews,
		MessageKey:    prim.ProductID,
		Payload:       data,
		CreatedAt:     time.Now(),
	}, nil
}
