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

// GuestHandler implements the reservation endpoints used by guests.  All
// methods assume JWT authentication and role validation happened in
// middleware.  Creation and patching run inside a transaction that locks
// the overlapping reservations, so the availability check and the write
// cannot be split by a concurrent booking.
type GuestHandler struct {
	CategoryRepo    *repository.CategoryRepo
	UnitRepo        *repository.UnitRepo
	AmenityRepo     *repository.AmenityRepo
	ReservationRepo *repository.ReservationRepo
}

// NewGuestHandler constructs a GuestHandler; all dependencies must be non-nil.
func NewGuestHandler(cat *repository.CategoryRepo, unit *repository.UnitRepo, am *repository.AmenityRepo, res *repository.ReservationRepo) *GuestHandler {
	if cat == nil || unit == nil || am == nil || res == nil {
		panic("nil repository passed to NewGuestHandler")
	}
	return &GuestHandler{CategoryRepo: cat, UnitRepo: unit, AmenityRepo: am, ReservationRepo: res}
}

type createReservationReq struct {
	CategoryID uint64                  `json:"category_id"`
	DateFrom   string                  `json:"date_from"`
	DateTo     string                  `json:"date_to"`
	Persons    int                     `json:"persons"`
	Amenities  []amenitySelectionInput `json:"amenities"`
}

// CreateReservation handles POST /v1/reservations.  It re-checks
// availability inside the transaction, assigns the lowest-numbered free
// unit and creates a PENDING reservation.  The response carries the
// derived price so the guest sees what staff will confirm.
func (h *GuestHandler) CreateReservation(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createReservationReq
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
	if !from.Before(to) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "date_from must be before date_to"})
	}
	persons := req.Persons
	if persons == 0 {
		persons = 1
	}
	if persons < 1 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "persons must be at least 1"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	cat, err := h.CategoryRepo.GetByID(ctx, req.CategoryID)
	if err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "category not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load category"})
	}
	if cat.Capacity < persons {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "party too large for this category"})
	}
	units, err := h.UnitRepo.ListByCategory(ctx, cat.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load units"})
	}
	catalog, err := h.AmenityRepo.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load amenities"})
	}

	breakdown, err := booking.ComputePrice(*cat, from, to, toSelections(req.Amenities), catalog)
	if err != nil {
		return engineError(c, err)
	}

	tx, err := h.ReservationRepo.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	blocking, err := h.ReservationRepo.ListBlockingTx(ctx, tx, from, to)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to check availability"})
	}
	unit, ok := pickFreeUnit(cat.ID, from, to, units, blocking, 0)
	if !ok {
		return c.JSON(http.StatusConflict, echo.Map{"error": "no units available for the selected dates"})
	}

	res := &model.Reservation{
		UserID:     userID,
		CategoryID: cat.ID,
		UnitID:     &unit.ID,
		DateFrom:   from,
		DateTo:     to,
		Status:     model.StatusPending,
		Amenities:  toSelections(req.Amenities),
	}
	if err := h.ReservationRepo.CreateTx(ctx, tx, res); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create reservation"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true

	return c.JSON(http.StatusCreated, echo.Map{
		"reservation_id": res.ID,
		"status":         res.Status,
		"room_number":    unit.RoomNumber,
		"price":          toPriceView(breakdown),
	})
}

// pickFreeUnit chooses the lowest-numbered free unit of a category for
// the given range.  Reservations already blocking units in the category
// without an assigned unit shrink the pool, since staff may put them on
// any unit later.  excludeReservation skips one reservation id, used
// when re-checking the availability of an existing booking.
func pickFreeUnit(categoryID uint64, from, to time.Time, units []model.Unit, blocking []model.Reservation, excludeReservation uint64) (model.Unit, bool) {
	relevant := make([]model.Reservation, 0, len(blocking))
	unassigned := 0
	for _, r := range blocking {
		if r.ID == excludeReservation {
			continue
		}
		if r.UnitID == nil {
			if r.CategoryID == categoryID && booking.Blocks(r.Status) && booking.Overlaps(r.DateFrom, r.DateTo, from, to) {
				unassigned++
			}
			continue
		}
		relevant = append(relevant, r)
	}
	free := booking.FreeUnits(categoryID, from, to, units, relevant)
	if len(free)-unassigned < 1 {
		return model.Unit{}, false
	}
	return free[0], true
}

// ListMyReservations handles GET /v1/my-reservations.
func (h *GuestHandler) ListMyReservations(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	details, err := h.ReservationRepo.ListByUser(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load reservations"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": toReservationViews(details)})
}

// GetReservation handles GET /v1/reservations/:id.  Guests may only see
// their own reservations; a STAFF or ADMIN token may look up any of them.
func (h *GuestHandler) GetReservation(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	// Staff and admins may inspect any reservation; guests only their own.
	var detail *repository.ReservationDetail
	if role, _ := c.Get("role").(string); role == model.RoleStaff || role == model.RoleAdmin {
		detail, err = h.ReservationRepo.GetDetail(ctx, id)
	} else {
		detail, err = h.ReservationRepo.GetDetailForUser(ctx, id, userID)
	}
	if err != nil {
		if errors.Is(err, repository.ErrReservationNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		}
		if errors.Is(err, repository.ErrForbidden) {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load reservation"})
	}
	return c.JSON(http.StatusOK, echo.Map{"item": toReservationView(detail)})
}

type patchReservationReq struct {
	DateFrom  *string                  `json:"date_from"`
	DateTo    *string                  `json:"date_to"`
	Amenities *[]amenitySelectionInput `json:"amenities"`
}

// PatchReservation handles PATCH /v1/reservations/:id.  A guest may
// adjust dates and amenity selections only while the reservation is
// still PENDING; once staff decided, the record is immutable.  Date
// changes re-check availability and may move the booking to a different
// unit of the same category.
func (h *GuestHandler) PatchReservation(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	var req patchReservationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	tx, err := h.ReservationRepo.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	res, err := h.ReservationRepo.GetForUpdateTx(ctx, tx, id)
	if err != nil {
		if errors.Is(err, repository.ErrReservationNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load reservation"})
	}
	if res.UserID != userID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	if !booking.Editable(res.Status) {
		return c.JSON(http.StatusConflict, echo.Map{"error": "reservation already processed"})
	}

	from, to := res.DateFrom, res.DateTo
	if req.DateFrom != nil {
		if from, err = parseDate(*req.DateFrom); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "date_from must be a YYYY-MM-DD date"})
		}
	}
	if req.DateTo != nil {
		if to, err = parseDate(*req.DateTo); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "date_to must be a YYYY-MM-DD date"})
		}
	}
	if !from.Before(to) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "date_from must be before date_to"})
	}
	if req.Amenities != nil {
		res.Amenities = toSelections(*req.Amenities)
	}

	cat, err := h.CategoryRepo.GetByID(ctx, res.CategoryID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load category"})
	}
	catalog, err := h.AmenityRepo.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load amenities"})
	}
	breakdown, err := booking.ComputePrice(*cat, from, to, res.Amenities, catalog)
	if err != nil {
		return engineError(c, err)
	}

	// Moving the dates may invalidate the assigned unit; re-run the
	// availability check excluding this reservation itself.
	if req.DateFrom != nil || req.DateTo != nil {
		units, err := h.UnitRepo.ListByCategory(ctx, res.CategoryID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load units"})
		}
		blocking, err := h.ReservationRepo.ListBlockingTx(ctx, tx, from, to)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to check availability"})
		}
		unit, ok := pickFreeUnit(res.CategoryID, from, to, units, blocking, res.ID)
		if !ok {
			return c.JSON(http.StatusConflict, echo.Map{"error": "no units available for the selected dates"})
		}
		if res.UnitID == nil || *res.UnitID != unit.ID {
			if err := h.ReservationRepo.AssignUnitTx(ctx, tx, res.ID, unit.ID); err != nil {
				return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to reassign unit"})
			}
		}
	}

	res.DateFrom, res.DateTo = from, to
	if err := h.ReservationRepo.UpdatePendingTx(ctx, tx, res); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update reservation"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true

	return c.JSON(http.StatusOK, echo.Map{
		"reservation_id": res.ID,
		"status":         res.Status,
		"date_from":      from.Format(dateLayout),
		"date_to":        to.Format(dateLayout),
		"price":          toPriceView(breakdown),
	})
}
