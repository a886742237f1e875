// Package service содержит бизнес-логику Storefront.
package service

import (
	"context"
	"errors"
	"fmt"

	"example.com/storefront/internal/domain"
	"example.com/storefront/internal/events"
	"example.com/storefront/internal/repository"
	"example.com/storefront/pkg/logger"
	"example.com/storefront/pkg/outbox"
)

// Параметры пагинации по умолчанию.
const (
	defaultPage  = 1
	defaultLimit = 20
	maxLimit     = 100
)

// CreateProductInput — данные для создания товара.
type CreateProductInput struct {
	Name          string
	Description   string
	Price         float64
	Category      string
	StockQuantity int
}

// UpdateProductInput — данные для частичного обновления товара.
// nil-поле означает «не менять».
type UpdateProductInput struct {
	Name          *string
	Description   *string
	Price         *float64
	Category      *string
	StockQuantity *int
}

// ProductPage — страница списка товаров.
type ProductPage struct {
	Products   []*domain.Product
	TotalCount int64
	Page       int
	Limit      int
	TotalPages int
}

// ProductService определяет интерфейс бизнес-логики каталога.
type ProductService interface {
	// Create создаёт новый товар.
	Create(ctx context.Context, input CreateProductInput) (*domain.Product, error)

	// Get возвращает товар по ID.
	Get(ctx context.Context, id string) (*domain.Product, error)

	// List возвращает страницу каталога, опционально отфильтрованную
	// по категории. Неизвестная категория — ошибка валидации.
	List(ctx context.Context, category string, page, limit int) (*ProductPage, error)

	// Update частично обновляет товар. Невалидное значение любого поля
	// отклоняет весь запрос, товар остаётся без изменений.
	Update(ctx context.Context, id string, input UpdateProductInput) (*domain.Product, error)

	// Delete удаляет товар. Возвращает false без ошибки,
	// если товара не было: отсутствие — ожидаемый исход, не сбой.
	Delete(ctx context.Context, id string) (bool, error)
}

// productService — реализация ProductService.
type productService struct {
	products repository.ProductRepository
}

// NewProductService создаёт новый сервис каталога.
func NewProductService(products repository.ProductRepository) ProductService {
	return &productService{products: products}
}

// Create создаёт новый товар и публикует событие catalog.product.created.
func (s *productService) Create(ctx context.Context, input CreateProductInput) (*domain.Product, error) {
	log := logger.FromContext(ctx)

	category, err := domain.NewCategory(input.Category)
	if err != nil {
		log.Warn().Str("category", input.Category).Msg("Попытка создания товара с неизвестной категорией")
		return nil, err
	}

	product, err := domain.NewProduct(input.Name, input.Description, input.Price, category, input.StockQuantity)
	if err != nil {
		log.Warn().Err(err).Str("name", input.Name).Msg("Ошибка валидации товара")
		return nil, err
	}

	evt, err := events.NewProductEvent(events.TypeProductCreated, product)
	if err != nil {
		return nil, err
	}

	if err := s.products.Save(ctx, product, evt); err != nil {
		log.Error().Err(err).Str("product_id", product.ID).Msg("Ошибка сохранения товара")
		return nil, fmt.Errorf("ошибка сохранения товара: %w", err)
	}

	log.Info().
		Str("product_id", product.ID).
		Str("category", product.Category.String()).
		Msg("Товар создан")

	return product, nil
}

// Get возвращает товар по ID.
func (s *productService) Get(ctx context.Context, id string) (*domain.Product, error) {
	log := logger.FromContext(ctx)

	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			log.Debug().Str("product_id", id).Msg("Товар не найден")
			return nil, err
		}
		log.Error().Err(err).Str("product_id", id).Msg("Ошибка получения товара")
		return nil, fmt.Errorf("ошибка получения товара: %w", err)
	}

	return product, nil
}

// List возвращает страницу каталога с нормализованной пагинацией.
func (s *productService) List(ctx context.Context, category string, page, limit int) (*ProductPage, error) {
	log := logger.FromContext(ctx)

	filter := repository.ProductFilter{}
	if category != "" {
		cat, err := domain.NewCategory(category)
		if err != nil {
			log.Debug().Str("category", category).Msg("Запрос каталога с неизвестной категорией")
			return nil, err
		}
		filter.Category = cat.String()
	}

	page, limit = normalizePagination(page, limit)
	filter.Offset = (page - 1) * limit
	filter.Limit = limit

	products, totalCount, err := s.products.List(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("Ошибка получения списка товаров")
		return nil, fmt.Errorf("ошибка получения списка товаров: %w", err)
	}

	return &ProductPage{
		Products:   products,
		TotalCount: totalCount,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages(totalCount, limit),
	}, nil
}

// Update частично обновляет товар.
// Сначала применяются все мутаторы к загруженной сущности, сохранение — одно.
func (s *productService) Update(ctx context.Context, id string, input UpdateProductInput) (*domain.Product, error) {
	log := logger.FromContext(ctx)

	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			log.Debug().Str("product_id", id).Msg("Товар для обновления не найден")
			return nil, err
		}
		log.Error().Err(err).Str("product_id", id).Msg("Ошибка получения товара")
		return nil, fmt.Errorf("ошибка получения товара: %w", err)
	}

	if err := applyProductUpdates(product, input); err != nil {
		log.Warn().Err(err).Str("product_id", id).Msg("Ошибка валидации обновления товара")
		return nil, err
	}

	evt, err := events.NewProductEvent(events.TypeProductUpdated, product)
	if err != nil {
		return nil, err
	}

	if err := s.products.Save(ctx, product, evt); err != nil {
		log.Error().Err(err).Str("product_id", id).Msg("Ошибка сохранения товара")
		return nil, fmt.Errorf("ошибка сохранения товара: %w", err)
	}

	log.Info().Str("product_id", id).Msg("Товар обновлён")

	return product, nil
}

// applyProductUpdates применяет непустые поля input к товару.
// Первый невалидный мутатор прерывает обновление; так как сохранения
// ещё не было, персистентное состояние не меняется.
func applyProductUpdates(product *domain.Product, input UpdateProductInput) error {
	if input.Name != nil {
		if err := product.UpdateName(*input.Name); err != nil {
			return err
		}
	}
	if input.Description != nil {
		if err := product.UpdateDescription(*input.Description); err != nil {
			return err
		}
	}
	if input.Category != nil {
		category, err := domain.NewCategory(*input.Category)
		if err != nil {
			return err
		}
		if err := product.UpdateCategory(category); err != nil {
			return err
		}
	}
	if input.Price != nil {
		if err := product.UpdatePrice(*input.Price); err != nil {
			return err
		}
	}
	if input.StockQuantity != nil {
		if err := product.UpdateStock(*input.StockQuantity); err != nil {
			return err
		}
	}
	return nil
}

// Delete удаляет товар и публикует событие catalog.product.deleted.
func (s *productService) Delete(ctx context.Context, id string) (bool, error) {
	log := logger.FromContext(ctx)

	// Товар загружается до удаления, чтобы собрать payload события
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			log.Debug().Str("product_id", id).Msg("Товар для удаления не найден")
			return false, nil
		}
		log.Error().Err(err).Str("product_id", id).Msg("Ошибка получения товара")
		return false, fmt.Errorf("ошибка получения товара: %w", err)
	}

	var evt *outbox.Outbox
	evt, err = events.NewProductEvent(events.TypeProductDeleted, product)
	if err != nil {
		return false, err
	}

	if err := s.products.Delete(ctx, id, evt); err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			// Конкурентное удаление между GetByID и Delete
			return false, nil
		}
		log.Error().Err(err).Str("product_id", id).Msg("Ошибка удаления товара")
		return false, fmt.Errorf("ошибка удаления товара: %w", err)
	}

	log.Info().Str("product_id", id).Msg("Товар удалён")

	return true, nil
}

// normalizePagination приводит параметры страницы к допустимым значениям.
func normalizePagination(page, limit int) (int, int) {
	if page < 1 {
		page = defaultPage
	}
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return page, limit
}

// totalPages вычисляет количество страниц для заданного лимита.
func totalPages(totalCount int64, limit int) int {
	if totalCount == 0 {
		return 0
	}
	return int((totalCount + int64(limit) - 1) / int64(limit))
}
