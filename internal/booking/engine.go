package booking

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/FranBistrovic/QuantumHotel/internal/model"
)

// StayRequest is the ephemeral query a guest submits: a desired
// half-open date range [DateFrom, DateTo) and a party size.  It is
// engine input only and never persisted.
type StayRequest struct {
	DateFrom time.Time
	DateTo   time.Time
	Persons  int
}

// AvailableCategory is one row of an availability search result.  Only
// categories with at least one free unit for the requested range and a
// capacity covering the party size appear in results.
type AvailableCategory struct {
	ID        uint64          `json:"id"`
	Name      string          `json:"name"`
	Capacity  int             `json:"capacity"`
	TwinBeds  bool            `json:"twin_beds"`
	Price     decimal.Decimal `json:"price"`
	ImagePath *string         `json:"image_path,omitempty"`
	FreeUnits int             `json:"free_units"`
}

// PriceBreakdown is the result of ComputePrice.  All monetary values are
// exact decimals; rounding to two places happens only at the
// presentation boundary.
type PriceBreakdown struct {
	Nights         int             `json:"nights"`
	BaseTotal      decimal.Decimal `json:"base_total"`
	AmenitiesTotal decimal.Decimal `json:"amenities_total"`
	Total          decimal.Decimal `json:"total"`
}

// Overlaps reports whether the half-open date intervals [aFrom, aTo) and
// [bFrom, bTo) share at least one night.  Two intervals overlap iff
// aFrom < bTo && bFrom < aTo, so a checkout day equal to a check-in day
// does not count: same-day turnover is allowed.
func Overlaps(aFrom, aTo, bFrom, bTo time.Time) bool {
	return aFrom.Before(bTo) && bFrom.Before(aTo)
}

// validateStay checks the structural invariants of a stay request.
func validateStay(stay StayRequest) error {
	if stay.DateFrom.IsZero() || stay.DateTo.IsZero() {
		return &ValidationError{Reason: "date_from and date_to are required"}
	}
	if !stay.DateFrom.Before(stay.DateTo) {
		return &ValidationError{Reason: "date_from must be before date_to"}
	}
	if stay.Persons < 1 {
		return &ValidationError{Reason: "persons must be at least 1"}
	}
	return nil
}

// FindAvailableCategories answers which categories can accommodate the
// stay request given a consistent snapshot of all categories, units and
// blocking reservations.  REJECTED reservations must be filtered by the
// caller or are ignored here via Blocks.  The result is sorted by price
// ascending, ties broken by name ascending, so identical snapshots yield
// identically ordered results.
//
// Occupancy is counted per unit when the reservation has an assigned
// unit; reservations still awaiting unit assignment subtract from their
// category's free pool instead.
func FindAvailableCategories(stay StayRequest, categories []model.Category, units []model.Unit, reservations []model.Reservation) ([]AvailableCategory, error) {
	if err := validateStay(stay); err != nil {
		return nil, err
	}

	unitsByCategory := make(map[uint64][]model.Unit, len(categories))
	for _, u := range units {
		unitsByCategory[u.CategoryID] = append(unitsByCategory[u.CategoryID], u)
	}

	// occupied holds unit ids blocked by an overlapping reservation;
	// unassigned counts overlapping reservations per category that have
	// no unit yet.
	occupied := make(map[uint64]struct{})
	unassigned := make(map[uint64]int)
	for _, r := range reservations {
		if !Blocks(r.Status) {
			continue
		}
		if !Overlaps(r.DateFrom, r.DateTo, stay.DateFrom, stay.DateTo) {
			continue
		}
		if r.UnitID != nil {
			occupied[*r.UnitID] = struct{}{}
		} else {
			unassigned[r.CategoryID]++
		}
	}

	out := make([]AvailableCategory, 0, len(categories))
	for _, cat := range categories {
		if cat.Capacity < stay.Persons {
			continue
		}
		free := 0
		for _, u := range unitsByCategory[cat.ID] {
			if u.UnderMaintenance {
				continue
			}
			if _, busy := occupied[u.ID]; busy {
				continue
			}
			free++
		}
		free -= unassigned[cat.ID]
		if free < 1 {
			continue
		}
		out = append(out, AvailableCategory{
			ID:        cat.ID,
			Name:      cat.Name,
			Capacity:  cat.Capacity,
			TwinBeds:  cat.TwinBeds,
			Price:     cat.Price,
			ImagePath: cat.ImagePath,
			FreeUnits: free,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if c := out[i].Price.Cmp(out[j].Price); c != 0 {
			return c < 0
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

// FreeUnits returns the units of one category that are free for the
// half-open range [dateFrom, dateTo): not under maintenance and not
// blocked by an overlapping PENDING/CONFIRMED reservation.  The slice is
// sorted by room number so unit assignment is deterministic.
func FreeUnits(categoryID uint64, dateFrom, dateTo time.Time, units []model.Unit, reservations []model.Reservation) []model.Unit {
	occupied := make(map[uint64]struct{})
	for _, r := range reservations {
		if r.UnitID == nil || !Blocks(r.Status) {
			continue
		}
		if Overlaps(r.DateFrom, r.DateTo, dateFrom, dateTo) {
			occupied[*r.UnitID] = struct{}{}
		}
	}
	out := make([]model.Unit, 0)
	for _, u := range units {
		if u.CategoryID != categoryID || u.UnderMaintenance {
			continue
		}
		if _, busy := occupied[u.ID]; busy {
			continue
		}
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RoomNumber < out[j].RoomNumber })
	return out
}

// ComputePrice derives the total cost of a stay in the given category:
// nightly rate times the number of nights plus the selected amenities.
// Nights are whole days between the dates with a floor of one night,
// which guards the same-day edge case.  An unknown amenity id fails with
// InvalidAmenityError; a non-positive quantity fails with
// ValidationError.
func ComputePrice(category model.Category, dateFrom, dateTo time.Time, selections []model.AmenitySelection, catalog []model.Amenity) (PriceBreakdown, error) {
	if dateFrom.IsZero() || dateTo.IsZero() || dateTo.Before(dateFrom) {
		return PriceBreakdown{}, &ValidationError{Reason: "invalid date range"}
	}

	nights := int(dateTo.Sub(dateFrom).Hours() / 24)
	if nights < 1 {
		nights = 1
	}

	prices := make(map[uint64]decimal.Decimal, len(catalog))
	for _, a := range catalog {
		prices[a.ID] = a.Price
	}

	amenitiesTotal := decimal.Zero
	for _, sel := range selections {
		if sel.Quantity < 1 {
			return PriceBreakdown{}, &ValidationError{Reason: "amenity quantity must be at least 1"}
		}
		price, ok := prices[sel.AmenityID]
		if !ok {
			return PriceBreakdown{}, &InvalidAmenityError{AmenityID: sel.AmenityID}
		}
		amenitiesTotal = amenitiesTotal.Add(price.Mul(decimal.NewFromInt(int64(sel.Quantity))))
	}

	baseTotal := category.Price.Mul(decimal.NewFromInt(int64(nights)))
	return PriceBreakdown{
		Nights:         nights,
		BaseTotal:      baseTotal,
		AmenitiesTotal: amenitiesTotal,
		Total:          baseTotal.Add(amenitiesTotal),
	}, nil
}
