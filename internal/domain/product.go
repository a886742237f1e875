package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Product — товар каталога.
// Это доменная сущность без зависимостей от инфраструктуры (GORM, HTTP DTO).
// Инварианты поддерживаются конструкторами и мутаторами: частично-невалидный
// товар создать нельзя, мутаторы сначала валидируют, потом изменяют состояние.
type Product struct {
	ID            string    // Уникальный идентификатор (UUID), неизменяем после создания
	Name          string    // Название товара (непустое после trim)
	Description   string    // Описание товара
	Price         float64   // Цена, >= 0
	Category      Category  // Категория из фиксированного списка
	StockQuantity int       // Остаток на складе, >= 0
	CreatedAt     time.Time // Дата создания
	UpdatedAt     time.Time // Дата последнего изменения
}

// ProductPrimitives — плоское представление товара для границ системы
// (персистентность, события, DTO). Не содержит поведения.
type ProductPrimitives struct {
	ID            string
	Name          string
	Description   string
	Price         float64
	Category      string
	InStock       bool
	StockQuantity int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewProduct создаёт новый товар со свежим UUID и текущими timestamps.
// Все поля проходят полную валидацию — при ошибке товар не создаётся.
func NewProduct(name, description string, price float64, category Category, stockQuantity int) (*Product, error) {
	now := time.Now()
	p := &Product{
		ID:            uuid.New().String(),
		Name:          name,
		Description:   description,
		Price:         price,
		Category:      category,
		StockQuantity: stockQuantity,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}

	return p, nil
}

// ProductFromPrimitives восстанавливает товар из недоверенной плоской записи.
// Вся валидация выполняется заново: категория проходит через NewCategory,
// поле InStock входной записи игнорируется — оно всегда вычисляется из остатка.
func ProductFromPrimitives(prim ProductPrimitives) (*Product, error) {
	category, err := NewCategory(prim.Category)
	if err != nil {
		return nil, err
	}

	p := &Product{
		ID:            prim.ID,
		Name:          prim.Name,
		Description:   prim.Description,
		Price:         prim.Price,
		Category:      category,
		StockQuantity: prim.StockQuantity,
		CreatedAt:     prim.CreatedAt,
		UpdatedAt:     prim.UpdatedAt,
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}

	return p, nil
}

// Primitives возвращает плоское представление товара.
// InStock вычисляется, а не читается из состояния.
func (p *Product) Primitives() ProductPrimitives {
	return ProductPrimitives{
		ID:            p.ID,
		Name:          p.Name,
		Description:   p.Description,
		Price:         p.Price,
		Category:      p.Category.String(),
		InStock:       p.InStock(),
		StockQuantity: p.StockQuantity,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

// Validate проверяет все инварианты товара.
func (p *Product) Validate() error {
	if err := p.validateName(p.Name); err != nil {
		return err
	}
	if err := p.validatePrice(p.Price); err != nil {
		return err
	}
	if err := p.validateStock(p.StockQuantity); err != nil {
		return err
	}
	if _, ok := allCategories[p.Category]; !ok {
		return ErrInvalidCategory
	}
	return nil
}

// validateName проверяет, что название непустое после trim.
func (p *Product) validateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrEmptyProductName
	}
	return nil
}

// validatePrice проверяет неотрицательность цены.
func (p *Product) validatePrice(price float64) error {
	if price < 0 {
		return ErrNegativePrice
	}
	return nil
}

// validateStock проверяет неотрицательность остатка.
func (p *Product) validateStock(quantity int) error {
	if quantity < 0 {
		return ErrNegativeStock
	}
	return nil
}

// InStock сообщает о наличии товара.
// Строго вычисляется из остатка и никогда не устанавливается напрямую.
func (p *Product) InStock() bool {
	return p.StockQuantity > 0
}

// UpdateName меняет название товара.
func (p *Product) UpdateName(name string) error {
	if err := p.validateName(name); err != nil {
		return err
	}
	p.Name = name
	p.touch()
	return nil
}

// UpdateDescription меняет описание товара.
func (p *Product) UpdateDescription(description string) error {
	p.Description = description
	p.touch()
	return nil
}

// UpdateCategory меняет категорию товара.
// Category уже валидна по построению (value object), проверка не требуется.
func (p *Product) UpdateCategory(category Category) error {
	if _, ok := allCategories[category]; !ok {
		return ErrInvalidCategory
	}
	p.Category = category
	p.touch()
	return nil
}

// UpdatePrice меняет цену товара. Отрицательная цена отклоняется,
// состояние при этом не меняется.
func (p *Product) UpdatePrice(price float64) error {
	if err := p.validatePrice(price); err != nil {
		return err
	}
	p.Price = price
	p.touch()
	return nil
}

// UpdateStock меняет остаток на складе. Отрицательное количество отклоняется,
// состояние при этом не меняется.
func (p *Product) UpdateStock(quantity int) error {
	if err := p.validateStock(quantity); err != nil {
		return err
	}
	p.StockQuantity = quantity
	p.touch()
	return nil
}

// touch обновляет метку последнего изменения.
func (p *Product) touch() {
	p.UpdatedAt = time.Now()
}
