package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Category describes a class of rooms sharing a nightly price, an
// occupancy capacity and a bed configuration.  Physical rooms (units)
// reference exactly one category.  This struct corresponds to a row in
// the `categories` table.
//
// Fields:
//  ID          – primary key identifier.
//  Name        – human readable label, e.g. "Deluxe Twin".
//  UnitsNumber – number of physical units belonging to the category (>= 1).
//  Capacity    – maximum party size a unit accommodates (>= 1).
//  TwinBeds    – true for twin bed configuration, false for a double bed.
//  Price       – nightly rate, currency neutral, never negative.
//  CheckIn     – check-in time of day as "HH:MM".
//  CheckOut    – check-out time of day as "HH:MM".
//  ImagePath   – optional path to a representative image (nil when unset).
//  CreatedAt   – creation timestamp.
//  UpdatedAt   – last update timestamp.
type Category struct {
	ID          uint64          // categories.id
	Name        string          // categories.name
	UnitsNumber int             // categories.units_number
	Capacity    int             // categories.capacity
	TwinBeds    bool            // categories.twin_beds
	Price       decimal.Decimal // categories.price (DECIMAL(10,2))
	CheckIn     string          // categories.check_in
	CheckOut    string          // categories.check_out
	ImagePath   *string         // categories.image_path (nullable)
	CreatedAt   time.Time       // categories.created_at
	UpdatedAt   time.Time       // categories.updated_at
}
