package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/FranBistrovic/QuantumHotel/internal/repository"
)

// StatsHandler serves the admin dashboard aggregates: reservation counts
// and confirmed revenue over a date window.
type StatsHandler struct {
	StatsRepo *repository.StatsRepo
}

// NewStatsHandler constructs a StatsHandler.
func NewStatsHandler(stats *repository.StatsRepo) *StatsHandler {
	if stats == nil {
		panic("nil repository passed to NewStatsHandler")
	}
	return &StatsHandler{StatsRepo: stats}
}

// Overview handles GET /v1/stats.  Optional from/to query
// parameters bound the revenue window; counts always cover the whole
// dataset.  Revenue folds nightly rate times nights plus amenities per
// confirmed stay, all in exact decimals.  Occupancy is reported only
// when the caller supplies both bounds.
func (h *StatsHandler) Overview(c echo.Context) error {
	from := time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2100, 1, 1, 0, 0, 0, 0, time.UTC)
	var err error
	if raw := c.QueryParam("from"); raw != "" {
		if from, err = parseDate(raw); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "from must be a YYYY-MM-DD date"})
		}
	}
	if raw := c.QueryParam("to"); raw != "" {
		if to, err = parseDate(raw); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "to must be a YYYY-MM-DD date"})
		}
	}
	if !from.Before(to) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "from must be before to"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	byStatus, err := h.StatsRepo.CountByStatus(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load status counts"})
	}
	byCategory, err := h.StatsRepo.CountByCategory(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load category counts"})
	}
	stays, err := h.StatsRepo.ConfirmedStays(ctx, from, to)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load confirmed stays"})
	}

	revenue := decimal.Zero
	totalNights := 0
	occupiedNights := 0
	for _, s := range stays {
		nights := int(s.DateTo.Sub(s.DateFrom).Hours() / 24)
		if nights < 1 {
			nights = 1
		}
		totalNights += nights
		revenue = revenue.Add(s.NightlyPrice.Mul(decimal.NewFromInt(int64(nights)))).Add(s.AmenitiesTotal)

		// Only the nights inside the window count toward occupancy.
		f, t := s.DateFrom, s.DateTo
		if f.Before(from) {
			f = from
		}
		if t.After(to) {
			t = to
		}
		if n := int(t.Sub(f).Hours() / 24); n > 0 {
			occupiedNights += n
		}
	}

	averageNights := decimal.Zero
	if len(stays) > 0 {
		averageNights = decimal.NewFromInt(int64(totalNights)).Div(decimal.NewFromInt(int64(len(stays))))
	}

	resp := echo.Map{
		"by_status":       byStatus,
		"by_category":     byCategory,
		"confirmed_stays": len(stays),
		"total_nights":    totalNights,
		"average_nights":  averageNights.StringFixed(1),
		"revenue":         revenue.StringFixed(2),
	}

	// Occupancy needs a bounded window; without explicit dates the
	// denominator would span the whole epoch.
	if c.QueryParam("from") != "" && c.QueryParam("to") != "" {
		units, err := h.StatsRepo.CountUnits(ctx)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load unit count"})
		}
		rate := decimal.Zero
		if windowNights := int(to.Sub(from).Hours() / 24); units > 0 && windowNights > 0 {
			rate = decimal.NewFromInt(int64(occupiedNights)).
				Div(decimal.NewFromInt(int64(units)).Mul(decimal.NewFromInt(int64(windowNights))))
		}
		resp["occupancy"] = rate.StringFixed(4)
	}

	return c.JSON(http.StatusOK, resp)
}
