package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/FranBistrovic/QuantumHotel/internal/booking"
	"github.com/FranBistrovic/QuantumHotel/internal/model"
	"github.com/FranBistrovic/QuantumHotel/internal/repository"
)

const dateLayout = "2006-01-02"

// getUserID extracts the authenticated user id stored by the JWT middleware.
func getUserID(c echo.Context) (uint64, error) {
	v := c.Get("user_id")
	switch t := v.(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// parseIDParam parses a positive numeric path parameter.
func parseIDParam(c echo.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}

// parseDate parses a calendar date in YYYY-MM-DD form as a UTC midnight.
func parseDate(s string) (time.Time, error) {
	return time.ParseInLocation(dateLayout, s, time.UTC)
}

// parsePositiveInt parses a strictly positive integer.
func parsePositiveInt(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if n < 1 {
		return 0, errors.New("must be positive")
	}
	return n, nil
}

// engineError translates booking engine failures into HTTP responses.
// Validation problems and unknown amenities are client errors; anything
// else is a server fault.
func engineError(c echo.Context, err error) error {
	var verr *booking.ValidationError
	if errors.As(err, &verr) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": verr.Reason})
	}
	var aerr *booking.InvalidAmenityError
	if errors.As(err, &aerr) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": aerr.Error()})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}

// priceView is the wire form of a price breakdown: exact decimals
// rendered with two fraction digits.
type priceView struct {
	Nights         int    `json:"nights"`
	BaseTotal      string `json:"base_total"`
	AmenitiesTotal string `json:"amenities_total"`
	Total          string `json:"total"`
}

func toPriceView(b booking.PriceBreakdown) priceView {
	return priceView{
		Nights:         b.Nights,
		BaseTotal:      b.BaseTotal.StringFixed(2),
		AmenitiesTotal: b.AmenitiesTotal.StringFixed(2),
		Total:          b.Total.StringFixed(2),
	}
}

// amenityLineView renders one amenity line with a fixed-point price.
type amenityLineView struct {
	AmenityID uint64 `json:"amenity_id"`
	Name      string `json:"name"`
	Price     string `json:"price"`
	Quantity  int    `json:"quantity"`
}

// reservationView is the wire form of a reservation detail.  The price
// section is recomputed from the stored category rate and amenity lines,
// never read from a denormalized column.
type reservationView struct {
	ID           uint64            `json:"id"`
	Status       string            `json:"status"`
	DateFrom     string            `json:"date_from"`
	DateTo       string            `json:"date_to"`
	UserID       uint64            `json:"user_id"`
	UserEmail    string            `json:"user_email"`
	CategoryID   uint64            `json:"category_id"`
	CategoryName string            `json:"category_name"`
	RoomNumber   *int              `json:"room_number,omitempty"`
	Amenities    []amenityLineView `json:"amenities"`
	Price        priceView         `json:"price"`
	CreatedAt    string            `json:"created_at"`
	ProcessedAt  *string           `json:"processed_at,omitempty"`
}

// toReservationView folds a repository detail row into its wire form,
// deriving the price breakdown through the booking engine.
func toReservationView(d *repository.ReservationDetail) reservationView {
	catalog := make([]model.Amenity, 0, len(d.Amenities))
	selections := make([]model.AmenitySelection, 0, len(d.Amenities))
	lines := make([]amenityLineView, 0, len(d.Amenities))
	for _, l := range d.Amenities {
		catalog = append(catalog, model.Amenity{ID: l.AmenityID, Price: l.Price})
		selections = append(selections, model.AmenitySelection{AmenityID: l.AmenityID, Quantity: l.Quantity})
		lines = append(lines, amenityLineView{
			AmenityID: l.AmenityID,
			Name:      l.Name,
			Price:     l.Price.StringFixed(2),
			Quantity:  l.Quantity,
		})
	}
	// The lines came from the same catalog the selections reference, so
	// this cannot fail on amenity lookup.
	breakdown, _ := booking.ComputePrice(
		model.Category{Price: d.CategoryPrice}, d.DateFrom, d.DateTo, selections, catalog)

	v := reservationView{
		ID:           d.ID,
		Status:       d.Status,
		DateFrom:     d.DateFrom.Format(dateLayout),
		DateTo:       d.DateTo.Format(dateLayout),
		UserID:       d.UserID,
		UserEmail:    d.UserEmail,
		CategoryID:   d.CategoryID,
		CategoryName: d.CategoryName,
		RoomNumber:   d.RoomNumber,
		Amenities:    lines,
		Price:        toPriceView(breakdown),
		CreatedAt:    d.CreatedAt.Format(time.RFC3339),
	}
	if d.ProcessedAt != nil {
		s := d.ProcessedAt.Format(time.RFC3339)
		v.ProcessedAt = &s
	}
	return v
}

func toReservationViews(details []*repository.ReservationDetail) []reservationView {
	out := make([]reservationView, 0, len(details))
	for _, d := range details {
		out = append(out, toReservationView(d))
	}
	return out
}
