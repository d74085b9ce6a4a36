package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/FranBistrovic/QuantumHotel/internal/booking"
	"github.com/FranBistrovic/QuantumHotel/internal/model"
	"github.com/FranBistrovic/QuantumHotel/internal/queue"
	"github.com/FranBistrovic/QuantumHotel/internal/repository"
	queuepublisher "github.com/FranBistrovic/QuantumHotel/internal/service"
)

// StaffReservationHandler implements the back-office reservation
// endpoints: listing every booking and deciding PENDING ones.  A
// confirmation re-checks availability inside the same transaction that
// flips the status, so two overlapping PENDING reservations on the last
// free unit can never both be confirmed.
type StaffReservationHandler struct {
	CategoryRepo    *repository.CategoryRepo
	UnitRepo        *repository.UnitRepo
	ReservationRepo *repository.ReservationRepo
}

// NewStaffReservationHandler constructs a StaffReservationHandler; all dependencies must be non-nil.
func NewStaffReservationHandler(cat *repository.CategoryRepo, unit *repository.UnitRepo, res *repository.ReservationRepo) *StaffReservationHandler {
	if cat == nil || unit == nil || res == nil {
		panic("nil repository passed to NewStaffReservationHandler")
	}
	return &StaffReservationHandler{CategoryRepo: cat, UnitRepo: unit, ReservationRepo: res}
}

// ListReservations handles GET /v1/reservations.  An optional
// status query filters the listing.
func (h *StaffReservationHandler) ListReservations(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	details, err := h.ReservationRepo.ListAll(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load reservations"})
	}
	if status := c.QueryParam("status"); status != "" {
		if !booking.ValidStatus(status) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status"})
		}
		filtered := details[:0]
		for _, d := range details {
			if d.Status == status {
				filtered = append(filtered, d)
			}
		}
		details = filtered
	}
	return c.JSON(http.StatusOK, echo.Map{"items": toReservationViews(details)})
}

// Confirm handles POST /v1/reservations/:id/confirm.
func (h *StaffReservationHandler) Confirm(c echo.Context) error {
	return h.decide(c, model.StatusConfirmed)
}

// Reject handles POST /v1/reservations/:id/reject.
func (h *StaffReservationHandler) Reject(c echo.Context) error {
	return h.decide(c, model.StatusRejected)
}

// decide flips a PENDING reservation to the target status.  Confirming
// verifies the assigned unit is still free for the stay under row locks;
// rejecting needs no availability check since a REJECTED reservation
// stops blocking immediately.
func (h *StaffReservationHandler) decide(c echo.Context, target string) error {
	staffID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
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
	if !booking.CanTransition(res.Status, target) {
		return c.JSON(http.StatusConflict, echo.Map{"error": "reservation already processed"})
	}

	if target == model.StatusConfirmed {
		units, err := h.UnitRepo.ListByCategory(ctx, res.CategoryID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load units"})
		}
		blocking, err := h.ReservationRepo.ListBlockingTx(ctx, tx, res.DateFrom, res.DateTo)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to check availability"})
		}
		unit, free := h.resolveUnit(res, units, blocking)
		if !free {
			return c.JSON(http.StatusConflict, echo.Map{"error": "no units available for the reserved dates"})
		}
		if res.UnitID == nil || *res.UnitID != unit.ID {
			if err := h.ReservationRepo.AssignUnitTx(ctx, tx, res.ID, unit.ID); err != nil {
				return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to assign unit"})
			}
		}
	}

	if err := h.ReservationRepo.SetStatusTx(ctx, tx, res.ID, target, staffID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update status"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true

	detail, err := h.ReservationRepo.GetDetail(ctx, res.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load reservation"})
	}
	view := toReservationView(detail)

	// Notify downstream consumers; delivery problems never fail the
	// request.
	go func(d repository.ReservationDetail, v reservationView, staff uint64) {
		pubCtx, pubCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer pubCancel()
		ev := queue.ReservationDecidedEvent{
			ReservationID: d.ID,
			UserID:        d.UserID,
			UserEmail:     d.UserEmail,
			CategoryID:    d.CategoryID,
			CategoryName:  d.CategoryName,
			DateFrom:      v.DateFrom,
			DateTo:        v.DateTo,
			Status:        d.Status,
			Total:         v.Price.Total,
			DecidedBy:     staff,
			DecidedAt:     time.Now().UTC().Format(time.RFC3339),
		}
		if d.RoomNumber != nil {
			ev.RoomNumber = *d.RoomNumber
		}
		_ = queuepublisher.PublishReservationDecided(pubCtx, ev)
	}(*detail, view, staffID)

	return c.JSON(http.StatusOK, echo.Map{"item": view})
}

// resolveUnit keeps the reservation's assigned unit if it is still free;
// otherwise it falls back to the lowest-numbered free unit.
func (h *StaffReservationHandler) resolveUnit(res *model.Reservation, units []model.Unit, blocking []model.Reservation) (model.Unit, bool) {
	unit, ok := pickFreeUnit(res.CategoryID, res.DateFrom, res.DateTo, units, blocking, res.ID)
	if !ok {
		return model.Unit{}, false
	}
	if res.UnitID != nil {
		free := booking.FreeUnits(res.CategoryID, res.DateFrom, res.DateTo, units, excludeReservation(blocking, res.ID))
		for _, u := range free {
			if u.ID == *res.UnitID {
				return u, true
			}
		}
	}
	return unit, true
}

func excludeReservation(blocking []model.Reservation, id uint64) []model.Reservation {
	out := make([]model.Reservation, 0, len(blocking))
	for _, r := range blocking {
		if r.ID != id {
			out = append(out, r)
		}
	}
	return out
}

type adminPatchReq struct {
	DateFrom  *string                  `json:"date_from"`
	DateTo    *string                  `json:"date_to"`
	Amenities *[]amenitySelectionInput `json:"amenities"`
	UnitID    *uint64                  `json:"unit_id"`
}

// AdminPatch handles PATCH /v1/admin/reservations/:id.  Staff may adjust
// dates, amenities and the unit assignment of a reservation while it is
// still PENDING; processed reservations are immutable.
func (h *StaffReservationHandler) AdminPatch(c echo.Context) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	var req adminPatchReq
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

	units, err := h.UnitRepo.ListByCategory(ctx, res.CategoryID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load units"})
	}
	blocking, err := h.ReservationRepo.ListBlockingTx(ctx, tx, from, to)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to check availability"})
	}

	var target model.Unit
	if req.UnitID != nil {
		// Explicit assignment must name a free unit of the same
		// category.
		found := false
		for _, u := range booking.FreeUnits(res.CategoryID, from, to, units, excludeReservation(blocking, res.ID)) {
			if u.ID == *req.UnitID {
				target, found = u, true
				break
			}
		}
		if !found {
			return c.JSON(http.StatusConflict, echo.Map{"error": "unit not available for the selected dates"})
		}
	} else {
		res.DateFrom, res.DateTo = from, to
		resolved, free := h.resolveUnit(res, units, blocking)
		if !free {
			return c.JSON(http.StatusConflict, echo.Map{"error": "no units available for the selected dates"})
		}
		target = resolved
	}

	if res.UnitID == nil || *res.UnitID != target.ID {
		if err := h.ReservationRepo.AssignUnitTx(ctx, tx, res.ID, target.ID); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to assign unit"})
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

	detail, err := h.ReservationRepo.GetDetail(ctx, res.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load reservation"})
	}
	return c.JSON(http.StatusOK, echo.Map{"item": toReservationView(detail)})
}
