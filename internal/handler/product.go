package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"example.com/storefront/internal/domain"
	"example.com/storefront/internal/service"
	"example.com/storefront/pkg/logger"
)

// ProductHandler — обработчик каталога товаров.
type ProductHandler struct {
	products service.ProductService
}

// NewProductHandler создаёт новый обработчик каталога.
func NewProductHandler(products service.ProductService) *ProductHandler {
	return &ProductHandler{products: products}
}

// ProductResponse — представление товара в API.
type ProductResponse struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	Price         float64   `json:"price"`
	Category      string    `json:"category"`
	InStock       bool      `json:"inStock"`
	StockQuantity int       `json:"stockQuantity"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// productResponse конвертирует доменную сущность в DTO.
func productResponse(p *domain.Product) ProductResponse {
	prim := p.Primitives()
	return ProductResponse{
		ID:            prim.ID,
		Name:          prim.Name,
		Description:   prim.Description,
		Price:         prim.Price,
		Category:      prim.Category,
		InStock:       prim.InStock,
		StockQuantity: prim.StockQuantity,
		CreatedAt:     prim.CreatedAt,
		UpdatedAt:     prim.UpdatedAt,
	}
}

// CreateProductRequest — запрос на создание товара.
// Указатели отличают отсутствующее поле от нулевого значения:
// price=0 валиден, а пропущенный price — нет.
// stockQuantity опционален, по умолчанию 0.
type CreateProductRequest struct {
	Name          *string  `json:"name"`
	Description   string   `json:"description"`
	Price         *float64 `json:"price"`
	Category      *string  `json:"category"`
	StockQuantity *int     `json:"stockQuantity"`
}

// UpdateProductRequest — запрос на частичное обновление товара.
type UpdateProductRequest struct {
	Name          *string  `json:"name"`
	Description   *string  `json:"description"`
	Price         *float64 `json:"price"`
	Category      *string  `json:"category"`
	StockQuantity *int     `json:"stockQuantity"`
}

// Create создаёт товар.
// POST /api/products
func (h *ProductHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()
	log := logger.FromContext(ctx)

	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Debug().Err(err).Msg("Невалидное тело запроса создания товара")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: msgInvalidBody})
		return
	}

	if req.Name == nil || req.Price == nil || req.Category == nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: msgMissingFields})
		return
	}

	stockQuantity := 0
	if req.StockQuantity != nil {
		stockQuantity = *req.StockQuantity
	}

	product, err := h.products.Create(ctx, service.CreateProductInput{
		Name:          *req.Name,
		Description:   req.Description,
		Price:         *req.Price,
		Category:      *req.Category,
		StockQuantity: stockQuantity,
	})
	if err != nil {
		HandleDomainError(c, err, "CreateProduct")
		return
	}

	c.JSON(http.StatusCreated, productResponse(product))
}

// Get возвращает товар по ID.
// GET /api/products/:id
func (h *ProductHandler) Get(c *gin.Context) {
	product, err := h.products.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		HandleDomainError(c, err, "GetProduct")
		return
	}

	c.JSON(http.StatusOK, productResponse(product))
}

// List возвращает страницу каталога.
// Ответ — массив товаров, общее количество в заголовке X-Total-Count.
// GET /api/products?category=&page=&limit=
func (h *ProductHandler) List(c *gin.Context) {
	page := queryInt(c, "page", 0)
	limit := queryInt(c, "limit", 0)

	result, err := h.products.List(c.Request.Context(), c.Query("category"), page, limit)
	if err != nil {
		HandleDomainError(c, err, "ListProducts")
		return
	}

	responses := make([]ProductResponse, 0, len(result.Products))
	for _, p := range result.Products {
		responses = append(responses, productResponse(p))
	}

	c.Header("X-Total-Count", strconv.FormatInt(result.TotalCount, 10))
	c.JSON(http.StatusOK, responses)
}

// Update частично обновляет товар.
// PUT /api/products/:id
func (h *ProductHandler) Update(c *gin.Context) {
	ctx := c.Request.Context()
	log := logger.FromContext(ctx)

	var req UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Debug().Err(err).Msg("Невалидное тело запроса обновления товара")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: msgInvalidBody})
		return
	}

	product, err := h.products.Update(ctx, c.Param("id"), service.UpdateProductInput{
		Name:          req.Name,
		Description:   req.Description,
		Price:         req.Price,
		Category:      req.Category,
		StockQuantity: req.StockQuantity,
	})
	if err != nil {
		HandleDomainError(c, err, "UpdateProduct")
		return
	}

	c.JSON(http.StatusOK, productResponse(product))
}

// Delete удаляет товар.
// DELETE /api/products/:id
func (h *ProductHandler) Delete(c *gin.Context) {
	deleted, err := h.products.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		HandleDomainError(c, err, "DeleteProduct")
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: msgProductNotFound})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
}

// queryInt читает целочисленный query-параметр с значением по умолчанию.
// Нечисловое значение трактуется как отсутствующее.
func queryInt(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	val, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return val
}
