package service

import (
	"context"
	"errors"
	"fmt"

	"example.com/storefront/internal/domain"
	"example.com/storefront/internal/events"
	"example.com/storefront/internal/repository"
	"example.com/storefront/pkg/logger"
)

// CreateReviewInput — данные для создания отзыва.
// Rating приходит числом JSON: дробные значения отклоняет домен.
type CreateReviewInput struct {
	ProductID  string
	Rating     float64
	Comment    string
	AuthorName string
}

// UpdateReviewInput — данные для частичного обновления отзыва.
type UpdateReviewInput struct {
	Rating  *float64
	Comment *string
}

// ReviewPage — страница отзывов одного товара.
type ReviewPage struct {
	Reviews    []*domain.Review
	TotalCount int64
	Page       int
	Limit      int
	TotalPages int
}

// ReviewService определяет интерфейс бизнес-логики отзывов.
type ReviewService interface {
	// Create создаёт отзыв на существующий товар.
	// Возвращает domain.ErrProductNotFound, если товара нет.
	Create(ctx context.Context, input CreateReviewInput) (*domain.Review, error)

	// Get возвращает отзыв по ID.
	Get(ctx context.Context, id string) (*domain.Review, error)

	// ListByProduct возвращает страницу отзывов товара.
	// Возвращает domain.ErrProductNotFound, если товара нет.
	ListByProduct(ctx context.Context, productID string, page, limit int) (*ReviewPage, error)

	// Update частично обновляет отзыв.
	Update(ctx context.Context, id string, input UpdateReviewInput) (*domain.Review, error)

	// Delete удаляет отзыв. Возвращает false без ошибки, если отзыва не было.
	Delete(ctx context.Context, id string) (bool, error)
}

// reviewService — реализация ReviewService.
type reviewService struct {
	reviews  repository.ReviewRepository
	products repository.ProductRepository
}

// NewReviewService создаёт новый сервис отзывов.
func NewReviewService(reviews repository.ReviewRepository, products repository.ProductRepository) ReviewService {
	return &reviewService{
		reviews:  reviews,
		products: products,
	}
}

// Create создаёт отзыв и публикует событие review.created.
func (s *reviewService) Create(ctx context.Context, input CreateReviewInput) (*domain.Review, error) {
	log := logger.FromContext(ctx)

	// Отзыв всегда привязан к существующему товару
	if _, err := s.products.GetByID(ctx, input.ProductID); err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			log.Debug().Str("product_id", input.ProductID).Msg("Отзыв на несуществующий товар")
			return nil, err
		}
		log.Error().Err(err).Str("product_id", input.ProductID).Msg("Ошибка проверки товара")
		return nil, fmt.Errorf("ошибка проверки товара: %w", err)
	}

	rating, err := domain.NewRatingFromNumber(input.Rating)
	if err != nil {
		log.Warn().Float64("rating", input.Rating).Msg("Недопустимый рейтинг отзыва")
		return nil, err
	}

	review, err := domain.NewReview(input.ProductID, rating, input.Comment, input.AuthorName)
	if err != nil {
		log.Warn().Err(err).Str("product_id", input.ProductID).Msg("Ошибка валидации отзыва")
		return nil, err
	}

	evt, err := events.NewReviewEvent(events.TypeReviewCreated, review)
	if err != nil {
		return nil, err
	}

	if err := s.reviews.Save(ctx, review, evt); err != nil {
		log.Error().Err(err).Str("review_id", review.ID).Msg("Ошибка сохранения отзыва")
		return nil, fmt.Errorf("ошибка сохранения отзыва: %w", err)
	}

	log.Info().
		Str("review_id", review.ID).
		Str("product_id", review.ProductID).
		Int("rating", review.Rating.Int()).
		Msg("Отзыв создан")

	return review, nil
}

// Get возвращает отзыв по ID.
func (s *reviewService) Get(ctx context.Context, id string) (*domain.Review, error) {
	log := logger.FromContext(ctx)

	review, err := s.reviews.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrReviewNotFound) {
			log.Debug().Str("review_id", id).Msg("Отзыв не найден")
			return nil, err
		}
		log.Error().Err(err).Str("review_id", id).Msg("Ошибка получения отзыва")
		return nil, fmt.Errorf("ошибка получения отзыва: %w", err)
	}

	return review, nil
}

// ListByProduct возвращает страницу отзывов товара.
func (s *reviewService) ListByProduct(ctx context.Context, productID string, page, limit int) (*ReviewPage, error) {
	log := logger.FromContext(ctx)

	if _, err := s.products.GetByID(ctx, productID); err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			log.Debug().Str("product_id", productID).Msg("Запрос отзывов несуществующего товара")
			return nil, err
		}
		log.Error().Err(err).Str("product_id", productID).Msg("Ошибка проверки товара")
		return nil, fmt.Errorf("ошибка проверки товара: %w", err)
	}

	page, limit = normalizePagination(page, limit)

	reviews, totalCount, err := s.reviews.ListByProductID(ctx, productID, (page-1)*limit, limit)
	if err != nil {
		log.Error().Err(err).Str("product_id", productID).Msg("Ошибка получения отзывов")
		return nil, fmt.Errorf("ошибка получения отзывов: %w", err)
	}

	return &ReviewPage{
		Reviews:    reviews,
		TotalCount: totalCount,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages(totalCount, limit),
	}, nil
}

// Update частично обновляет отзыв и публикует событие review.updated.
func (s *reviewService) Update(ctx context.Context, id string, input UpdateReviewInput) (*domain.Review, error) {
	log := logger.FromContext(ctx)

	review, err := s.reviews.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrReviewNotFound) {
			log.Debug().Str("review_id", id).Msg("Отзыв для обновления не найден")
			return nil, err
		}
		log.Error().Err(err).Str("review_id", id).Msg("Ошибка получения отзыва")
		return nil, fmt.Errorf("ошибка получения отзыва: %w", err)
	}

	if input.Rating != nil {
		rating, err := domain.NewRatingFromNumber(*input.Rating)
		if err != nil {
			log.Warn().Float64("rating", *input.Rating).Str("review_id", id).Msg("Недопустимый рейтинг отзыва")
			return nil, err
		}
		if err := review.UpdateRating(rating.Int()); err != nil {
			return nil, err
		}
	}
	if input.Comment != nil {
		if err := review.UpdateComment(*input.Comment); err != nil {
			log.Warn().Err(err).Str("review_id", id).Msg("Ошибка валидации комментария")
			return nil, err
		}
	}

	evt, err := events.NewReviewEvent(events.TypeReviewUpdated, review)
	if err != nil {
		return nil, err
	}

	if err := s.reviews.Save(ctx, review, evt); err != nil {
		log.Error().Err(err).Str("review_id", id).Msg("Ошибка сохранения отзыва")
		return nil, fmt.Errorf("ошибка сохранения отзыва: %w", err)
	}

	log.Info().Str("review_id", id).Msg("Отзыв обновлён")

	return review, nil
}

// Delete удаляет отзыв и публикует событие review.deleted.
func (s *reviewService) Delete(ctx context.Context, id string) (bool, error) {
	log := logger.FromContext(ctx)

	review, err := s.reviews.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrReviewNotFound) {
			log.Debug().Str("review_id", id).Msg("Отзыв для удаления не найден")
			return false, nil
		}
		log.Error().Err(err).Str("review_id", id).Msg("Ошибка получения отзыва")
		return false, fmt.Errorf("ошибка получения отзыва: %w", err)
	}

	evt, err := events.NewReviewEvent(events.TypeReviewDeleted, review)
	if err != nil {
		return false, err
	}

	if err := s.reviews.Delete(ctx, id, evt); err != nil {
		if errors.Is(err, domain.ErrReviewNotFound) {
			return false, nil
		}
		log.Error().Err(err).Str("review_id", id).Msg("Ошибка удаления отзыва")
		return false, fmt.Errorf("ошибка удаления отзыва: %w", err)
	}

	log.Info().Str("review_id", id).Msg("Отзыв удалён")

	return true, nil
}
