package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/FranBistrovic/QuantumHotel/internal/model"
	"github.com/FranBistrovic/QuantumHotel/internal/repository"
)

// StaffCatalogHandler implements the back-office CRUD for room
// categories, physical units and the amenity catalog.  Routes using it
// sit behind RequireRole(STAFF, ADMIN).
type StaffCatalogHandler struct {
	CategoryRepo *repository.CategoryRepo
	UnitRepo     *repository.UnitRepo
	AmenityRepo  *repository.AmenityRepo
}

// NewStaffCatalogHandler constructs a StaffCatalogHandler; all dependencies must be non-nil.
func NewStaffCatalogHandler(cat *repository.CategoryRepo, unit *repository.UnitRepo, am *repository.AmenityRepo) *StaffCatalogHandler {
	if cat == nil || unit == nil || am == nil {
		panic("nil repository passed to NewStaffCatalogHandler")
	}
	return &StaffCatalogHandler{CategoryRepo: cat, UnitRepo: unit, AmenityRepo: am}
}

// ----- room categories -----

type categoryReq struct {
	Name        string `json:"name"`
	UnitsNumber int    `json:"units_number"`
	Capacity    int    `json:"capacity"`
	TwinBeds    bool   `json:"twin_beds"`
	Price       string `json:"price"`
	CheckIn     string `json:"check_in"`
	CheckOut    string `json:"check_out"`
}

func (req *categoryReq) toModel() (*model.Category, string) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, "name is required"
	}
	if req.UnitsNumber < 1 {
		return nil, "units_number must be at least 1"
	}
	if req.Capacity < 1 {
		return nil, "capacity must be at least 1"
	}
	price, err := decimal.NewFromString(strings.TrimSpace(req.Price))
	if err != nil || price.IsNegative() {
		return nil, "price must be a non-negative decimal"
	}
	return &model.Category{
		Name:        name,
		UnitsNumber: req.UnitsNumber,
		Capacity:    req.Capacity,
		TwinBeds:    req.TwinBeds,
		Price:       price,
		CheckIn:     strings.TrimSpace(req.CheckIn),
		CheckOut:    strings.TrimSpace(req.CheckOut),
	}, ""
}

// CreateCategory handles POST /v1/room-categories.
func (h *StaffCatalogHandler) CreateCategory(c echo.Context) error {
	var req categoryReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	cat, msg := req.toModel()
	if msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.CategoryRepo.Create(ctx, cat); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create category"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"item": toCategoryView(cat)})
}

// UpdateCategory handles PATCH /v1/room-categories/:id.  The request
// carries the full document; every field is replaced.
func (h *StaffCatalogHandler) UpdateCategory(c echo.Context) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid category id"})
	}
	var req categoryReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	cat, msg := req.toModel()
	if msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	cat.ID = id

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.CategoryRepo.Update(ctx, cat); err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "category not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update category"})
	}
	return c.JSON(http.StatusOK, echo.Map{"item": toCategoryView(cat)})
}

// DeleteCategory handles DELETE /v1/room-categories/:id.  A
// category referenced by units or reservations answers 409.
func (h *StaffCatalogHandler) DeleteCategory(c echo.Context) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid category id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.CategoryRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "category not found"})
		}
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "category is still referenced"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to delete category"})
	}
	return c.NoContent(http.StatusNoContent)
}

// SetCategoryImage handles PATCH /v1/room-categories/:id/image.
func (h *StaffCatalogHandler) SetCategoryImage(c echo.Context) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid category id"})
	}
	var req struct {
		ImagePath string `json:"image_path"`
	}
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.ImagePath) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "image_path is required"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.CategoryRepo.SetImagePath(ctx, id, strings.TrimSpace(req.ImagePath)); err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "category not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to set image"})
	}
	return c.NoContent(http.StatusNoContent)
}

// ----- units -----

type unitReq struct {
	RoomNumber       int    `json:"room_number"`
	Floor            int    `json:"floor"`
	IsCleaned        bool   `json:"is_cleaned"`
	UnderMaintenance bool   `json:"under_maintenance"`
	CategoryID       uint64 `json:"category_id"`
}

type unitView struct {
	ID               uint64 `json:"id"`
	RoomNumber       int    `json:"room_number"`
	Floor            int    `json:"floor"`
	IsCleaned        bool   `json:"is_cleaned"`
	UnderMaintenance bool   `json:"under_maintenance"`
	CategoryID       uint64 `json:"category_id"`
}

func toUnitView(u *model.Unit) unitView {
	return unitView{
		ID:               u.ID,
		RoomNumber:       u.RoomNumber,
		Floor:            u.Floor,
		IsCleaned:        u.IsCleaned,
		UnderMaintenance: u.UnderMaintenance,
		CategoryID:       u.CategoryID,
	}
}

// CreateUnit handles POST /v1/units.
func (h *StaffCatalogHandler) CreateUnit(c echo.Context) error {
	var req unitReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.RoomNumber < 1 || req.CategoryID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "room_number and category_id are required"})
	}
	unit := &model.Unit{
		RoomNumber:       req.RoomNumber,
		Floor:            req.Floor,
		IsCleaned:        req.IsCleaned,
		UnderMaintenance: req.UnderMaintenance,
		CategoryID:       req.CategoryID,
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.UnitRepo.Create(ctx, unit); err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "category not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create unit"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"item": toUnitView(unit)})
}

// ListUnits handles GET /v1/units with an optional category filter.
func (h *StaffCatalogHandler) ListUnits(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	var (
		units []model.Unit
		err   error
	)
	if raw := c.QueryParam("category_id"); raw != "" {
		id, perr := parsePositiveInt(raw)
		if perr != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid category_id"})
		}
		units, err = h.UnitRepo.ListByCategory(ctx, uint64(id))
	} else {
		units, err = h.UnitRepo.List(ctx)
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load units"})
	}
	items := make([]unitView, 0, len(units))
	for i := range units {
		items = append(items, toUnitView(&units[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// UpdateUnit handles PATCH /v1/units/:id.  Flipping
// under_maintenance here is how staff takes a room out of the
// availability pool without touching reservations.
func (h *StaffCatalogHandler) UpdateUnit(c echo.Context) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid unit id"})
	}
	var req unitReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.RoomNumber < 1 || req.CategoryID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "room_number and category_id are required"})
	}
	unit := &model.Unit{
		ID:               id,
		RoomNumber:       req.RoomNumber,
		Floor:            req.Floor,
		IsCleaned:        req.IsCleaned,
		UnderMaintenance: req.UnderMaintenance,
		CategoryID:       req.CategoryID,
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.UnitRepo.Update(ctx, unit); err != nil {
		if errors.Is(err, repository.ErrUnitNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "unit not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update unit"})
	}
	return c.JSON(http.StatusOK, echo.Map{"item": toUnitView(unit)})
}

// DeleteUnit handles DELETE /v1/units/:id.
func (h *StaffCatalogHandler) DeleteUnit(c echo.Context) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid unit id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.UnitRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrUnitNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "unit not found"})
		}
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "unit is still referenced"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to delete unit"})
	}
	return c.NoContent(http.StatusNoContent)
}

// ----- amenities -----

type amenityReq struct {
	Name        string `json:"name"`
	Price       string `json:"price"`
	Description string `json:"description"`
}

func (req *amenityReq) toModel() (*model.Amenity, string) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, "name is required"
	}
	price, err := decimal.NewFromString(strings.TrimSpace(req.Price))
	if err != nil || price.IsNegative() {
		return nil, "price must be a non-negative decimal"
	}
	return &model.Amenity{Name: name, Price: price, Description: strings.TrimSpace(req.Description)}, ""
}

// CreateAmenity handles POST /v1/amenities.
func (h *StaffCatalogHandler) CreateAmenity(c echo.Context) error {
	var req amenityReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	a, msg := req.toModel()
	if msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.AmenityRepo.Create(ctx, a); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create amenity"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"item": amenityView{
		ID: a.ID, Name: a.Name, Price: a.Price.StringFixed(2), Description: a.Description,
	}})
}

// UpdateAmenity handles PATCH /v1/amenities/:id.
func (h *StaffCatalogHandler) UpdateAmenity(c echo.Context) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid amenity id"})
	}
	var req amenityReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	a, msg := req.toModel()
	if msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	a.ID = id

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.AmenityRepo.Update(ctx, a); err != nil {
		if errors.Is(err, repository.ErrAmenityNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "amenity not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update amenity"})
	}
	return c.JSON(http.StatusOK, echo.Map{"item": amenityView{
		ID: a.ID, Name: a.Name, Price: a.Price.StringFixed(2), Description: a.Description,
	}})
}

// DeleteAmenity handles DELETE /v1/amenities/:id.
func (h *StaffCatalogHandler) DeleteAmenity(c echo.Context) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid amenity id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.AmenityRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrAmenityNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "amenity not found"})
		}
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "amenity is still referenced"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to delete amenity"})
	}
	return c.NoContent(http.StatusNoContent)
}
