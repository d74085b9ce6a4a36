package model

import "time"

// Reservation status values.  PENDING is the initial state; CONFIRMED and
// REJECTED are terminal.  See internal/booking for the transition rules.
const (
	StatusPending   = "PENDING"
	StatusConfirmed = "CONFIRMED"
	StatusRejected  = "REJECTED"
)

// Reservation records a guest's booking of one category for a date
// range.  The physical unit may be assigned later by staff, so UnitID is
// nullable; an explicit pointer models the optional association.  Dates
// are calendar dates interpreted as a half-open interval
// [DateFrom, DateTo): the checkout day is not a night stayed, which is
// what allows same-day turnover.  Corresponds to a row in the
// `reservations` table plus its `reservation_amenities` children.
//
// Fields:
//  ID          – primary key identifier.
//  UserID      – guest who made the reservation.
//  CategoryID  – booked category.
//  UnitID      – assigned physical unit (nil until staff assigns one).
//  DateFrom    – arrival date (inclusive).
//  DateTo      – departure date (exclusive); must be after DateFrom.
//  Status      – PENDING, CONFIRMED or REJECTED.
//  Amenities   – selected extras with quantities (quantity >= 1).
//  CreatedAt   – creation timestamp.
//  ProcessedAt – when staff confirmed/rejected (nil while PENDING).
//  ProcessedBy – staff user who decided (nil while PENDING).
type Reservation struct {
	ID          uint64             // reservations.id
	UserID      uint64             // reservations.user_id
	CategoryID  uint64             // reservations.category_id
	UnitID      *uint64            // reservations.unit_id (nullable)
	DateFrom    time.Time          // reservations.date_from (DATE)
	DateTo      time.Time          // reservations.date_to (DATE)
	Status      string             // reservations.status
	Amenities   []AmenitySelection // reservation_amenities rows
	CreatedAt   time.Time          // reservations.created_at
	ProcessedAt *time.Time         // reservations.processed_at (nullable)
	ProcessedBy *uint64            // reservations.processed_by (nullable)
}

// AmenitySelection is one (amenity, quantity) line item on a reservation.
type AmenitySelection struct {
	AmenityID uint64 // reservation_amenities.amenity_id
	Quantity  int    // reservation_amenities.quantity
}
