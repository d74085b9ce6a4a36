package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/FranBistrovic/QuantumHotel/internal/booking"
	"github.com/FranBistrovic/QuantumHotel/internal/model"
	"github.com/FranBistrovic/QuantumHotel/internal/repository"
)

// PublicHandler serves the unauthenticated browse surface: the room
// catalog, availability search, price quotes and the editorial pages.
type PublicHandler struct {
	CategoryRepo    *repository.CategoryRepo
	UnitRepo        *repository.UnitRepo
	AmenityRepo     *repository.AmenityRepo
	ContentRepo     *repository.ContentRepo
	ReservationRepo *repository.ReservationRepo
}

// NewPublicHandler constructs a PublicHandler; all dependencies must be non-nil.
func NewPublicHandler(cat *repository.CategoryRepo, unit *repository.UnitRepo, am *repository.AmenityRepo, content *repository.ContentRepo, res *repository.ReservationRepo) *PublicHandler {
	if cat == nil || unit == nil || am == nil || content == nil || res == nil {
		panic("nil repository passed to NewPublicHandler")
	}
	return &PublicHandler{
		CategoryRepo:    cat,
		UnitRepo:        unit,
		AmenityRepo:     am,
		ContentRepo:     content,
		ReservationRepo: res,
	}
}

// categoryView is the wire form of a room category.
type categoryView struct {
	ID          uint64  `json:"id"`
	Name        string  `json:"name"`
	UnitsNumber int     `json:"units_number"`
	Capacity    int     `json:"capacity"`
	TwinBeds    bool    `json:"twin_beds"`
	Price       string  `json:"price"`
	CheckIn     string  `json:"check_in"`
	CheckOut    string  `json:"check_out"`
	ImagePath   *string `json:"image_path,omitempty"`
}

func toCategoryView(cat *model.Category) categoryView {
	return categoryView{
		ID:          cat.ID,
		Name:        cat.Name,
		UnitsNumber: cat.UnitsNumber,
		Capacity:    cat.Capacity,
		TwinBeds:    cat.TwinBeds,
		Price:       cat.Price.StringFixed(2),
		CheckIn:     cat.CheckIn,
		CheckOut:    cat.CheckOut,
		ImagePath:   cat.ImagePath,
	}
}

// availableCategoryView mirrors booking.AvailableCategory with the price
// rendered for the wire.
type availableCategoryView struct {
	ID        uint64  `json:"id"`
	Name      string  `json:"name"`
	Capacity  int     `json:"capacity"`
	TwinBeds  bool    `json:"twin_beds"`
	Price     string  `json:"price"`
	ImagePath *string `json:"image_path,omitempty"`
	FreeUnits int     `json:"free_units"`
}

// amenityView is the wire form of a catalog amenity.
type amenityView struct {
	ID          uint64 `json:"id"`
	Name        string `json:"name"`
	Price       string `json:"price"`
	Description string `json:"description"`
}

// ListCategories handles GET /v1/room-categories.
func (h *PublicHandler) ListCategories(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	cats, err := h.CategoryRepo.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load categories"})
	}
	items := make([]categoryView, 0, len(cats))
	for i := range cats {
		items = append(items, toCategoryView(&cats[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// GetCategory handles GET /v1/room-categories/:id.
func (h *PublicHandler) GetCategory(c echo.Context) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid category id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	cat, err := h.CategoryRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "category not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load category"})
	}
	return c.JSON(http.StatusOK, echo.Map{"item": toCategoryView(cat)})
}

// Availability handles GET /v1/room-categories/available.  It reads the
// desired stay from query parameters, loads a consistent snapshot and
// delegates the actual search to the booking engine.
func (h *PublicHandler) Availability(c echo.Context) error {
	from, err := parseDate(c.QueryParam("from"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "from must be a YYYY-MM-DD date"})
	}
	to, err := parseDate(c.QueryParam("to"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "to must be a YYYY-MM-DD date"})
	}
	persons := 1
	if raw := c.QueryParam("persons"); raw != "" {
		n, err := parsePositiveInt(raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "persons must be a positive integer"})
		}
		persons = n
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	cats, err := h.CategoryRepo.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load categories"})
	}
	units, err := h.UnitRepo.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load units"})
	}
	blocking, err := h.ReservationRepo.ListBlocking(ctx, from, to)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load reservations"})
	}

	available, err := booking.FindAvailableCategories(
		booking.StayRequest{DateFrom: from, DateTo: to, Persons: persons}, cats, units, blocking)
	if err != nil {
		return engineError(c, err)
	}

	items := make([]availableCategoryView, 0, len(available))
	for _, a := range available {
		items = append(items, availableCategoryView{
			ID:        a.ID,
			Name:      a.Name,
			Capacity:  a.Capacity,
			TwinBeds:  a.TwinBeds,
			Price:     a.Price.StringFixed(2),
			ImagePath: a.ImagePath,
			FreeUnits: a.FreeUnits,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// quoteReq is the body of POST /v1/quotes.
type quoteReq struct {
	CategoryID uint64                  `json:"category_id"`
	DateFrom   string                  `json:"date_from"`
	DateTo     string                  `json:"date_to"`
	Amenities  []amenitySelectionInput `json:"amenities"`
}

type amenitySelectionInput struct {
	AmenityID uint64 `json:"amenity_id"`
	Quantity  int    `json:"quantity"`
}

func toSelections(in []amenitySelectionInput) []model.AmenitySelection {
	out := make([]model.AmenitySelection, 0, len(in))
	for _, s := range in {
		out = append(out, model.AmenitySelection{AmenityID: s.AmenityID, Quantity: s.Quantity})
	}
	return out
}

// Quote handles POST /v1/quotes.  It prices a prospective stay without
// creating anything: nightly rate times nights plus amenities, all in
// exact decimals.
func (h *PublicHandler) Quote(c echo.Context) error {
	var req quoteReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.CategoryID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "category_id is required"})
	}
	from, err := parseDate(req.DateFrom)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "date_from must be a YYYY-MM-DD date"})
	}
	to, err := parseDate(req.DateTo)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "date_to must be a YYYY-MM-DD date"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	cat, err := h.CategoryRepo.GetByID(ctx, req.CategoryID)
	if err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "category not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load category"})
	}
	catalog, err := h.AmenityRepo.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load amenities"})
	}

	breakdown, err := booking.ComputePrice(*cat, from, to, toSelections(req.Amenities), catalog)
	if err != nil {
		return engineError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"quote": toPriceView(breakdown)})
}

// ListAmenities handles GET /v1/amenities.
func (h *PublicHandler) ListAmenities(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	amenities, err := h.AmenityRepo.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load amenities"})
	}
	items := make([]amenityView, 0, len(amenities))
	for _, a := range amenities {
		items = append(items, amenityView{
			ID:          a.ID,
			Name:        a.Name,
			Price:       a.Price.StringFixed(2),
			Description: a.Description,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// GetAmenity handles GET /v1/amenities/:id.
func (h *PublicHandler) GetAmenity(c echo.Context) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid amenity id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	a, err := h.AmenityRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrAmenityNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "amenity not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load amenity"})
	}
	return c.JSON(http.StatusOK, echo.Map{"item": amenityView{
		ID: a.ID, Name: a.Name, Price: a.Price.StringFixed(2), Description: a.Description,
	}})
}

// ListArticles handles GET /v1/articles.
func (h *PublicHandler) ListArticles(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	articles, err := h.ContentRepo.ListArticles(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load articles"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": articles})
}

// GetArticle handles GET /v1/articles/:id.
func (h *PublicHandler) GetArticle(c echo.Context) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid article id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	a, err := h.ContentRepo.GetArticle(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrArticleNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "article not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load article"})
	}
	return c.JSON(http.StatusOK, echo.Map{"item": a})
}

// ListFaq handles GET /v1/faq.
func (h *PublicHandler) ListFaq(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	entries, err := h.ContentRepo.ListFaq(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load faq"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": entries})
}
