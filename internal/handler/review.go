package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"example.com/storefront/internal/domain"
	"example.com/storefront/internal/service"
	"example.com/storefront/pkg/logger"
)

// ReviewHandler — обработчик отзывов на товары.
type ReviewHandler struct {
	reviews service.ReviewService
}

// NewReviewHandler создаёт новый обработчик отзывов.
func NewReviewHandler(reviews service.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviews: reviews}
}

// ReviewResponse — представление отзыва в API.
type ReviewResponse struct {
	ID         string    `json:"id"`
	ProductID  string    `json:"productId"`
	Rating     int       `json:"rating"`
	Comment    string    `json:"comment"`
	AuthorName string    `json:"authorName"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// reviewResponse конвертирует доменную сущность в DTO.
func reviewResponse(r *domain.Review) ReviewResponse {
	prim := r.Primitives()
	return ReviewResponse{
		ID:         prim.ID,
		ProductID:  prim.ProductID,
		Rating:     prim.Rating,
		Comment:    prim.Comment,
		AuthorName: prim.AuthorName,
		CreatedAt:  prim.CreatedAt,
		UpdatedAt:  prim.UpdatedAt,
	}
}

// ReviewPageResponse — страница отзывов с метаданными пагинации.
type ReviewPageResponse struct {
	Reviews    []ReviewResponse `json:"reviews"`
	TotalCount int64            `json:"totalCount"`
	Page       int              `json:"page"`
	Limit      int              `json:"limit"`
	TotalPages int              `json:"totalPages"`
}

// CreateReviewRequest — запрос на создание отзыва.
// Rating — указатель на float64: JSON-числа приходят как есть,
// дробные значения отклоняет домен.
type CreateReviewRequest struct {
	Rating     *float64 `json:"rating"`
	Comment    *string  `json:"comment"`
	AuthorName *string  `json:"authorName"`
}

// UpdateReviewRequest — запрос на частичное обновление отзыва.
type UpdateReviewRequest struct {
	Rating  *float64 `json:"rating"`
	Comment *string  `json:"comment"`
}

// Create создаёт отзыв на товар.
// POST /api/products/:id/reviews
func (h *ReviewHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()
	log := logger.FromContext(ctx)

	var req CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Debug().Err(err).Msg("Невалидное тело запроса создания отзыва")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: msgInvalidBody})
		return
	}

	if req.Rating == nil || req.Comment == nil || req.AuthorName == nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: msgMissingFields})
		return
	}

	review, err := h.reviews.Create(ctx, service.CreateReviewInput{
		ProductID:  c.Param("id"),
		Rating:     *req.Rating,
		Comment:    *req.Comment,
		AuthorName: *req.AuthorName,
	})
	if err != nil {
		HandleDomainError(c, err, "CreateReview")
		return
	}

	c.JSON(http.StatusCreated, reviewResponse(review))
}

// ListByProduct возвращает страницу отзывов товара.
// GET /api/products/:id/reviews?page=&limit=
func (h *ReviewHandler) ListByProduct(c *gin.Context) {
	page := queryInt(c, "page", 0)
	limit := queryInt(c, "limit", 0)

	result, err := h.reviews.ListByProduct(c.Request.Context(), c.Param("id"), page, limit)
	if err != nil {
		HandleDomainError(c, err, "ListReviews")
		return
	}

	responses := make([]ReviewResponse, 0, len(result.Reviews))
	for _, r := range result.Reviews {
		responses = append(responses, reviewResponse(r))
	}

	c.JSON(http.StatusOK, ReviewPageResponse{
		Reviews:    responses,
		TotalCount: result.TotalCount,
		Page:       result.Page,
		Limit:      result.Limit,
		TotalPages: result.TotalPages,
	})
}

// Get возвращает отзыв по ID.
// GET /api/products/:id/reviews/:reviewID
func (h *ReviewHandler) Get(c *gin.Context) {
	review, err := h.reviews.Get(c.Request.Context(), c.Param("reviewID"))
	if err != nil {
		HandleDomainError(c, err, "GetReview")
		return
	}

	c.JSON(http.StatusOK, reviewResponse(review))
}

// Update частично обновляет отзыв.
// PUT /api/products/:id/reviews/:reviewID
func (h *ReviewHandler) Update(c *gin.Context) {
	ctx := c.Request.Context()
	log := logger.FromContext(ctx)

	var req UpdateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Debug().Err(err).Msg("Невалидное тело запроса обновления отзыва")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: msgInvalidBody})
		return
	}

	review, err := h.reviews.Update(ctx, c.Param("reviewID"), service.UpdateReviewInput{
		Rating:  req.Rating,
		Comment: req.Comment,
	})
	if err != nil {
		HandleDomainError(c, err, "UpdateReview")
		return
	}

	c.JSON(http.StatusOK, reviewResponse(review))
}

// Delete удаляет отзыв.
// DELETE /api/products/:id/reviews/:reviewID
func (h *ReviewHandler) Delete(c *gin.Context) {
	deleted, err := h.reviews.Delete(c.Request.Context(), c.Param("reviewID"))
	if err != nil {
		HandleDomainError(c, err, "DeleteReview")
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: domain.ErrReviewNotFound.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Review deleted successfully"})
}
