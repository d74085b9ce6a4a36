package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/FranBistrovic/QuantumHotel/internal/model"
	"github.com/FranBistrovic/QuantumHotel/internal/repository"
)

// StaffContentHandler manages the editorial surface: articles and FAQ
// entries shown on the public site.
type StaffContentHandler struct {
	ContentRepo *repository.ContentRepo
}

// NewStaffContentHandler constructs a StaffContentHandler.
func NewStaffContentHandler(content *repository.ContentRepo) *StaffContentHandler {
	if content == nil {
		panic("nil repository passed to NewStaffContentHandler")
	}
	return &StaffContentHandler{ContentRepo: content}
}

type articleReq struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// CreateArticle handles POST /v1/articles.  The author is the
// authenticated staff member.
func (h *StaffContentHandler) CreateArticle(c echo.Context) error {
	authorID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req articleReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	title := strings.TrimSpace(req.Title)
	if title == "" || strings.TrimSpace(req.Body) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title and body are required"})
	}
	a := &model.Article{Title: title, Body: req.Body, AuthorID: authorID}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.ContentRepo.CreateArticle(ctx, a); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create article"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"item": a})
}

// UpdateArticle handles PATCH /v1/articles/:id.
func (h *StaffContentHandler) UpdateArticle(c echo.Context) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid article id"})
	}
	var req articleReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	title := strings.TrimSpace(req.Title)
	if title == "" || strings.TrimSpace(req.Body) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title and body are required"})
	}
	a := &model.Article{ID: id, Title: title, Body: req.Body}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.ContentRepo.UpdateArticle(ctx, a); err != nil {
		if errors.Is(err, repository.ErrArticleNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "article not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update article"})
	}
	return c.JSON(http.StatusOK, echo.Map{"item": a})
}

// DeleteArticle handles DELETE /v1/articles/:id.
func (h *StaffContentHandler) DeleteArticle(c echo.Context) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid article id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.ContentRepo.DeleteArticle(ctx, id); err != nil {
		if errors.Is(err, repository.ErrArticleNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "article not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to delete article"})
	}
	return c.NoContent(http.StatusNoContent)
}

type faqReq struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Position int    `json:"position"`
}

// CreateFaq handles POST /v1/faq.
func (h *StaffContentHandler) CreateFaq(c echo.Context) error {
	var req faqReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	question := strings.TrimSpace(req.Question)
	if question == "" || strings.TrimSpace(req.Answer) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "question and answer are required"})
	}
	f := &model.Faq{Question: question, Answer: req.Answer, Position: req.Position}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.ContentRepo.CreateFaq(ctx, f); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create faq entry"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"item": f})
}

// UpdateFaq handles PATCH /v1/faq/:id.
func (h *StaffContentHandler) UpdateFaq(c echo.Context) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid faq id"})
	}
	var req faqReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	question := strings.TrimSpace(req.Question)
	if question == "" || strings.TrimSpace(req.Answer) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "question and answer are required"})
	}
	f := &model.Faq{ID: id, Question: question, Answer: req.Answer, Position: req.Position}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.ContentRepo.UpdateFaq(ctx, f); err != nil {
		if errors.Is(err, repository.ErrFaqNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "faq entry not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update faq entry"})
	}
	return c.JSON(http.StatusOK, echo.Map{"item": f})
}

// DeleteFaq handles DELETE /v1/faq/:id.
func (h *StaffContentHandler) DeleteFaq(c echo.Context) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid faq id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.ContentRepo.DeleteFaq(ctx, id); err != nil {
		if errors.Is(err, repository.ErrFaqNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "faq entry not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to delete faq entry"})
	}
	return c.NoContent(http.StatusNoContent)
}
