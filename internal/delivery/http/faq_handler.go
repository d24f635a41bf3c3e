package http

import (
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"copiersync/internal/domain"
)

// FAQHandler serves the help entries. Reading is open to any authenticated
// user; writes are mounted under the admin group.
type FAQHandler struct {
	faqRepo domain.FAQRepository
}

// NewFAQHandler creates a new FAQHandler
func NewFAQHandler(faqRepo domain.FAQRepository) *FAQHandler {
	return &FAQHandler{faqRepo: faqRepo}
}

// FAQRequest represents an FAQ write payload.
type FAQRequest struct {
	Question string `json:"question" validate:"required"`
	Answer   string `json:"answer" validate:"required"`
	Category string `json:"category"`
}

// List returns all FAQ entries.
// GET /api/v1/faqs
func (h *FAQHandler) List(c echo.Context) error {
	faqs, err := h.faqRepo.List(c.Request().Context())
	if err != nil {
		return HandleError(c, err)
	}
	return SuccessResponse(c, faqs)
}

// Create adds an FAQ entry.
// POST /api/v1/admin/faqs
func (h *FAQHandler) Create(c echo.Context) error {
	var req FAQRequest
	if err := c.Bind(&req); err != nil {
		return BadRequestResponse(c, "Invalid request payload")
	}
	if req.Question == "" || req.Answer == "" {
		return BadRequestResponse(c, "question and answer are required")
	}

	faq := &domain.FAQ{
		ID:        uuid.New(),
		Question:  req.Question,
		Answer:    req.Answer,
		Category:  req.Category,
		CreatedAt: time.Now(),
	}

	if err := h.faqRepo.Create(c.Request().Context(), faq); err != nil {
		return HandleError(c, err)
	}

	return CreatedResponse(c, faq)
}

// Update rewrites an FAQ entry.
// PUT /api/v1/admin/faqs/:id
func (h *FAQHandler) Update(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return BadRequestResponse(c, "Invalid FAQ id")
	}

	var req FAQRequest
	if err := c.Bind(&req); err != nil {
		return BadRequestResponse(c, "Invalid request payload")
	}

	faq := &domain.FAQ{
		ID:       id,
		Question: req.Question,
		Answer:   req.Answer,
		Category: req.Category,
	}

	if err := h.faqRepo.Update(c.Request().Context(), faq); err != nil {
		return HandleError(c, err)
	}

	return SuccessResponse(c, faq)
}

// Delete removes an FAQ entry.
// DELETE /api/v1/admin/faqs/:id
func (h *FAQHandler) Delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return BadRequestResponse(c, "Invalid FAQ id")
	}

	if err := h.faqRepo.Delete(c.Request().Context(), id); err != nil {
		return HandleError(c, err)
	}

	return SuccessMessageResponse(c, "FAQ deleted", nil)
}
