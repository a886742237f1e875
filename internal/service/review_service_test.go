package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"example.com/storefront/internal/domain"
	"example.com/storefront/internal/events"
	"example.com/storefront/internal/repository"
	"example.com/storefront/pkg/outbox"
)

// =====================================
// Моки
// =====================================

// MockReviewRepository — мок для repository.ReviewRepository.
type MockReviewRepository struct {
	mock.Mock
}

var _ repository.ReviewRepository = (*MockReviewRepository)(nil)

func (m *MockReviewRepository) Save(ctx context.Context, review *domain.Review, evt *outbox.Outbox) error {
	return m.Called(ctx, review, evt).Error(0)
}

func (m *MockReviewRepository) GetByID(ctx context.Context, id string) (*domain.Review, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Review), args.Error(1)
}

func (m *MockReviewRepository) ListByProductID(ctx context.Context, productID string, offset, limit int) ([]*domain.Review, int64, error) {
	args := m.Called(ctx, productID, offset, limit)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*domain.Review), args.Get(1).(int64), args.Error(2)
}

func (m *MockReviewRepository) Delete(ctx context.Context, id string, evt *outbox.Outbox) error {
	return m.Called(ctx, id, evt).Error(0)
}

// storedReview создаёт отзыв, как будто он уже лежит в хранилище.
func storedReview(t *testing.T, productID string) *domain.Review {
	t.Helper()
	r, err := domain.NewReview(productID, 4, "Хороший товар", "Иван")
	require.NoError(t, err)
	return r
}

// =====================================
// Тесты Create
// =====================================

func TestReviewService_Create(t *testing.T) {
	t.Run("успешное создание", func(t *testing.T) {
		products := new(MockProductRepository)
		reviews := new(MockReviewRepository)
		stored := storedProduct(t)

		products.On("GetByID", mock.Anything, stored.ID).Return(stored, nil)
		reviews.On("Save", mock.Anything, mock.AnythingOfType("*domain.Review"), eventOfType(events.TypeReviewCreated)).
			Return(nil)

		svc := NewReviewService(reviews, products)
		review, err := svc.Create(context.Background(), CreateReviewInput{
			ProductID:  stored.ID,
			Rating:     5,
			Comment:    "Отличный товар",
			AuthorName: "Иван",
		})

		require.NoError(t, err)
		assert.Equal(t, 5, review.Rating.Int())
		reviews.AssertExpectations(t)
	})

	t.Run("отзыв на несуществующий товар", func(t *testing.T) {
		products := new(MockProductRepository)
		reviews := new(MockReviewRepository)
		products.On("GetByID", mock.Anything, "missing").Return(nil, domain.ErrProductNotFound)

		svc := NewReviewService(reviews, products)
		_, err := svc.Create(context.Background(), CreateReviewInput{
			ProductID:  "missing",
			Rating:     5,
			Comment:    "Отличный товар",
			AuthorName: "Иван",
		})

		assert.ErrorIs(t, err, domain.ErrProductNotFound)
		reviews.AssertNotCalled(t, "Save", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("дробный рейтинг отклоняется", func(t *testing.T) {
		products := new(MockProductRepository)
		reviews := new(MockReviewRepository)
		stored := storedProduct(t)
		products.On("GetByID", mock.Anything, stored.ID).Return(stored, nil)

		svc := NewReviewService(reviews, products)
		_, err := svc.Create(context.Background(), CreateReviewInput{
			ProductID:  stored.ID,
			Rating:     3.5,
			Comment:    "Неплохо",
			AuthorName: "Иван",
		})

		assert.ErrorIs(t, err, domain.ErrInvalidRating)
		reviews.AssertNotCalled(t, "Save", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("пустой комментарий отклоняется", func(t *testing.T) {
		products := new(MockProductRepository)
		reviews := new(MockReviewRepository)
		stored := storedProduct(t)
		products.On("GetByID", mock.Anything, stored.ID).Return(stored, nil)

		svc := NewReviewService(reviews, products)
		_, err := svc.Create(context.Background(), CreateReviewInput{
			ProductID:  stored.ID,
			Rating:     4,
			Comment:    "  ",
			AuthorName: "Иван",
		})

		assert.ErrorIs(t, err, domain.ErrEmptyComment)
	})
}

// =====================================
// Тесты ListByProduct
// =====================================

func TestReviewService_ListByProduct(t *testing.T) {
	t.Run("страница отзывов", func(t *testing.T) {
		products := new(MockProductRepository)
		reviews := new(MockReviewRepository)
		stored := storedProduct(t)

		list := []*domain.Review{
			storedReview(t, stored.ID),
			storedReview(t, stored.ID),
		}
		products.On("GetByID", mock.Anything, stored.ID).Return(stored, nil)
		reviews.On("ListByProductID", mock.Anything, stored.ID, 0, defaultLimit).
			Return(list, int64(45), nil)

		svc := NewReviewService(reviews, products)
		page, err := svc.ListByProduct(context.Background(), stored.ID, 1, 0)

		require.NoError(t, err)
		assert.Equal(t, int64(45), page.TotalCount)
		assert.Equal(t, 1, page.Page)
		assert.Equal(t, defaultLimit, page.Limit)
		assert.Equal(t, 3, page.TotalPages)
		assert.Len(t, page.Reviews, 2)
	})

	t.Run("товар не найден", func(t *testing.T) {
		products := new(MockProductRepository)
		reviews := new(MockReviewRepository)
		products.On("GetByID", mock.Anything, "missing").Return(nil, domain.ErrProductNotFound)

		svc := NewReviewService(reviews, products)
		_, err := svc.ListByProduct(context.Background(), "missing", 1, 20)

		assert.ErrorIs(t, err, domain.ErrProductNotFound)
		reviews.AssertNotCalled(t, "ListByProductID", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

// =====================================
// Тесты Update
// =====================================

func TestReviewService_Update(t *testing.T) {
	floatPtr := func(f float64) *float64 { return &f }
	strPtr := func(s string) *string { return &s }

	t.Run("обновление рейтинга", func(t *testing.T) {
		products := new(MockProductRepository)
		reviews := new(MockReviewRepository)
		stored := storedReview(t, "product-1")

		reviews.On("GetByID", mock.Anything, stored.ID).Return(stored, nil)
		reviews.On("Save", mock.Anything, mock.AnythingOfType("*domain.Review"), eventOfType(events.TypeReviewUpdated)).
			Return(nil)

		svc := NewReviewService(reviews, products)
		review, err := svc.Update(context.Background(), stored.ID, UpdateReviewInput{
			Rating: floatPtr(2),
		})

		require.NoError(t, err)
		assert.Equal(t, 2, review.Rating.Int())
	})

	t.Run("рейтинг вне диапазона сохраняет прежний", func(t *testing.T) {
		products := new(MockProductRepository)
		reviews := new(MockReviewRepository)
		stored := storedReview(t, "product-1")
		reviews.On("GetByID", mock.Anything, stored.ID).Return(stored, nil)

		svc := NewReviewService(reviews, products)
		_, err := svc.Update(context.Background(), stored.ID, UpdateReviewInput{
			Rating: floatPtr(7),
		})

		assert.ErrorIs(t, err, domain.ErrInvalidRating)
		assert.Equal(t, 4, stored.Rating.Int())
		reviews.AssertNotCalled(t, "Save", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("обновление комментария", func(t *testing.T) {
		products := new(MockProductRepository)
		reviews := new(MockReviewRepository)
		stored := storedReview(t, "product-1")

		reviews.On("GetByID", mock.Anything, stored.ID).Return(stored, nil)
		reviews.On("Save", mock.Anything, mock.Anything, mock.Anything).Return(nil)

		svc := NewReviewService(reviews, products)
		review, err := svc.Update(context.Background(), stored.ID, UpdateReviewInput{
			Comment: strPtr("Передумал, отличный"),
		})

		require.NoError(t, err)
		assert.Equal(t, "Передумал, отличный", review.Comment)
	})
}

// =====================================
// Тесты Delete
// =====================================

func TestReviewService_Delete(t *testing.T) {
	t.Run("успешное удаление", func(t *testing.T) {
		products := new(MockProductRepository)
		reviews := new(MockReviewRepository)
		stored := storedReview(t, "product-1")

		reviews.On("GetByID", mock.Anything, stored.ID).Return(stored, nil)
		reviews.On("Delete", mock.Anything, stored.ID, eventOfType(events.TypeReviewDeleted)).Return(nil)

		svc := NewReviewService(reviews, products)
		deleted, err := svc.Delete(context.Background(), stored.ID)

		require.NoError(t, err)
		assert.True(t, deleted)
	})

	t.Run("отсутствие отзыва не считается ошибкой", func(t *testing.T) {
		products := new(MockProductRepository)
		reviews := new(MockReviewRepository)
		reviews.On("GetByID", mock.Anything, "missing").Return(nil, domain.ErrReviewNotFound)

		svc := NewReviewService(reviews, products)
		deleted, err := svc.Delete(context.Background(), "missing")

		require.NoError(t, err)
		assert.False(t, deleted)
	})
}
