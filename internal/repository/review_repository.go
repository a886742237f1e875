package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"example.com/storefront/internal/domain"
	"example.com/storefront/pkg/outbox"
)

// ReviewRepository определяет интерфейс для работы с отзывами в БД.
type ReviewRepository interface {
	// Save создаёт или обновляет отзыв (upsert по ID).
	// Если evt != nil, outbox-запись пишется в той же транзакции.
	Save(ctx context.Context, review *domain.Review, evt *outbox.Outbox) error

	// GetByID возвращает отзыв по ID.
	// Возвращает domain.ErrReviewNotFound, если отзыв не существует.
	GetByID(ctx context.Context, id string) (*domain.Review, error)

	// ListByProductID возвращает отзывы товара с пагинацией
	// и общее количество отзывов этого товара.
	ListByProductID(ctx context.Context, productID string, offset, limit int) ([]*domain.Review, int64, error)

	// Delete удаляет отзыв по ID.
	// Возвращает domain.ErrReviewNotFound, если отзыва не было.
	Delete(ctx context.Context, id string, evt *outbox.Outbox) error
}

// ReviewModel — GORM модель для таблицы reviews.
type ReviewModel struct {
	ID         string    `gorm:"column:id;type:varchar(36);primaryKey"`
	ProductID  string    `gorm:"column:product_id;type:varchar(36);not null;index"`
	Rating     int       `gorm:"column:rating;not null"`
	Comment    string    `gorm:"column:comment;type:text;not null"`
	AuthorName string    `gorm:"column:author_name;type:varchar(100);not null"`
	CreatedAt  time.Time `gorm:"column:created_at"`
	UpdatedAt  time.Time `gorm:"column:updated_at"`
}

// TableName возвращает имя таблицы в БД.
func (ReviewModel) TableName() string {
	return "reviews"
}

// toDomain конвертирует GORM модель в доменную сущность.
func (m *ReviewModel) toDomain() (*domain.Review, error) {
	return domain.ReviewFromPrimitives(domain.ReviewPrimitives{
		ID:         m.ID,
		ProductID:  m.ProductID,
		Rating:     m.Rating,
		Comment:    m.Comment,
		AuthorName: m.AuthorName,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	})
}

// reviewModelFromDomain конвертирует доменную сущность в GORM модель.
func reviewModelFromDomain(r *domain.Review) *ReviewModel {
	prim := r.Primitives()
	return &ReviewModel{
		ID:         prim.ID,
		ProductID:  prim.ProductID,
		Rating:     prim.Rating,
		Comment:    prim.Comment,
		AuthorName: prim.AuthorName,
		CreatedAt:  prim.CreatedAt,
		UpdatedAt:  prim.UpdatedAt,
	}
}

// reviewRepository — GORM реализация ReviewRepository.
type reviewRepository struct {
	db *gorm.DB
}

// NewReviewRepository создаёт новый репозиторий отзывов.
func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

// Save создаёт или обновляет отзыв, при необходимости вместе с outbox-записью.
func (r *reviewRepository) Save(ctx context.Context, review *domain.Review, evt *outbox.Outbox) error {
	model := reviewModelFromDomain(review)

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(model).Error; err != nil {
			return err
		}
		if evt != nil {
			if err := tx.Create(outbox.ModelFromDomain(evt)).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// GetByID возвращает отзыв по ID.
func (r *reviewRepository) GetByID(ctx context.Context, id string) (*domain.Review, error) {
	var model ReviewModel

	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrReviewNotFound
		}
		return nil, err
	}

	return model.toDomain()
}

// ListByProductID возвращает отзывы товара с пагинацией.
func (r *reviewRepository) ListByProductID(ctx context.Context, productID string, offset, limit int) ([]*domain.Review, int64, error) {
	var models []ReviewModel
	var totalCount int64

	query := r.db.WithContext(ctx).
		Model(&ReviewModel{}).
		Where("product_id = ?", productID)

	if err := query.Count(&totalCount).Error; err != nil {
		return nil, 0, err
	}

	if err := query.
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, 0, err
	}

	reviews := make([]*domain.Review, 0, len(models))
	for i := range models {
		rv, err := models[i].toDomain()
		if err != nil {
			return nil, 0, err
		}
		reviews = append(reviews, rv)
	}

	return reviews, totalCount, nil
}

// Delete удаляет отзыв, при необходимости вместе с outbox-записью.
func (r *reviewRepository) Delete(ctx context.Context, id string, evt *outbox.Outbox) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("id = ?", id).Delete(&ReviewModel{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domain.ErrReviewNotFound
		}
		if evt != nil {
			if err := tx.Create(outbox.ModelFromDomain(evt)).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
