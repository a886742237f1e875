// Package repository содержит реализации доступа к данным Storefront.
// Каждый репозиторий существует в двух вариантах: GORM (MySQL) и in-memory.
// Выбор backend'а делает фабрика NewStores по конфигурации, без тихих fallback'ов.
package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"example.com/storefront/internal/domain"
	"example.com/storefront/pkg/outbox"
)

// ProductFilter — параметры выборки каталога.
type ProductFilter struct {
	// Category ограничивает выборку одной категорией.
	// Пустая строка — без фильтра.
	Category string

	Offset int
	Limit  int
}

// ProductRepository определяет интерфейс для работы с товарами в БД.
type ProductRepository interface {
	// Save создаёт или обновляет товар (upsert по ID).
	// Если evt != nil, outbox-запись пишется в той же транзакции.
	Save(ctx context.Context, product *domain.Product, evt *outbox.Outbox) error

	// GetByID возвращает товар по ID.
	// Возвращает domain.ErrProductNotFound, если товар не существует.
	GetByID(ctx context.Context, id string) (*domain.Product, error)

	// List возвращает товары по фильтру и общее количество записей,
	// подходящих под фильтр. Сортировка по дате создания, новые первыми.
	List(ctx context.Context, filter ProductFilter) ([]*domain.Product, int64, error)

	// Delete удаляет товар по ID.
	// Возвращает domain.ErrProductNotFound, если товара не было.
	// Если evt != nil, outbox-запись пишется в той же транзакции.
	Delete(ctx context.Context, id string, evt *outbox.Outbox) error
}

// ProductModel — GORM модель для таблицы products.
// Отделена от доменной сущности для гибкости.
type ProductModel struct {
	ID            string    `gorm:"column:id;type:varchar(36);primaryKey"`
	Name          string    `gorm:"column:name;type:varchar(255);not null"`
	Description   string    `gorm:"column:description;type:text"`
	Price         float64   `gorm:"column:price;type:decimal(12,2);not null"`
	Category      string    `gorm:"column:category;type:varchar(50);not null;index"`
	StockQuantity int       `gorm:"column:stock_quantity;not null"`
	CreatedAt     time.Time `gorm:"column:created_at"`
	UpdatedAt     time.Time `gorm:"column:updated_at"`
}

// TableName возвращает имя таблицы в БД.
func (ProductModel) TableName() string {
	return "products"
}

// toDomain конвертирует GORM модель в доменную сущность.
// Запись из БД считается недоверенной и проходит полную валидацию.
func (m *ProductModel) toDomain() (*domain.Product, error) {
	return domain.ProductFromPrimitives(domain.ProductPrimitives{
		ID:            m.ID,
		Name:          m.Name,
		Description:   m.Description,
		Price:         m.Price,
		Category:      m.Category,
		StockQuantity: m.StockQuantity,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	})
}

// productModelFromDomain конвертирует доменную сущность в GORM модель.
func productModelFromDomain(p *domain.Product) *ProductModel {
	prim := p.Primitives()
	return &ProductModel{
		ID:            prim.ID,
		Name:          prim.Name,
		Description:   prim.Description,
		Price:         prim.Price,
		Category:      prim.Category,
		StockQuantity: prim.StockQuantity,
		CreatedAt:     prim.CreatedAt,
		UpdatedAt:     prim.UpdatedAt,
	}
}

// productRepository — GORM реализация ProductRepository.
type productRepository struct {
	db *gorm.DB
}

// NewProductRepository создаёт новый репозиторий товаров.
func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

// Save создаёт или обновляет товар, при необходимости вместе с outbox-записью.
func (r *productRepository) Save(ctx context.Context, product *domain.Product, evt *outbox.Outbox) error {
	model := productModelFromDomain(product)

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

// GetByID возвращает товар по ID.
func (r *productRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	var model ProductModel

	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrProductNotFound
		}
		return nil, err
	}

	return model.toDomain()
}

// List возвращает товары по фильтру и общее количество записей.
func (r *productRepository) List(ctx context.Context, filter ProductFilter) ([]*domain.Product, int64, error) {
	var models []ProductModel
	var totalCount int64

	query := r.db.WithContext(ctx).Model(&ProductModel{})
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}

	// Подсчёт общего количества записей (до пагинации)
	if err := query.Count(&totalCount).Error; err != nil {
		return nil, 0, err
	}

	if err := query.
		Order("created_at DESC").
		Offset(filter.Offset).
		Limit(filter.Limit).
		Find(&models).Error; err != nil {
		return nil, 0, err
	}

	products := make([]*domain.Product, 0, len(models))
	for i := range models {
		p, err := models[i].toDomain()
		if err != nil {
			return nil, 0, err
		}
		products = append(products, p)
	}

	return products, totalCount, nil
}

// Delete удаляет товар, при необходимости вместе с outbox-записью.
func (r *productRepository) Delete(ctx context.Context, id string, evt *outbox.Outbox) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("id = ?", id).Delete(&ProductModel{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domain.ErrProductNotFound
		}
		if evt != nil {
			if err := tx.Create(outbox.ModelFromDomain(evt)).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
