package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Amenity is an optional paid extra a guest can attach to a reservation
// with a quantity (breakfast, parking, spa access).  Amenities carry no
// date semantics of their own.  Corresponds to a row in the `amenities`
// table.
//
// Fields:
//  ID          – primary key identifier.
//  Name        – unique amenity name.
//  Price       – price per unit of quantity, never negative.
//  Description – free text shown to guests.
//  CreatedAt   – creation timestamp.
//  UpdatedAt   – last update timestamp.
type Amenity struct {
	ID          uint64          // amenities.id
	Name        string          // amenities.name
	Price       decimal.Decimal // amenities.price (DECIMAL(10,2))
	Description string          // amenities.description
	CreatedAt   time.Time       // amenities.created_at
	UpdatedAt   time.Time       // amenities.updated_at
}
