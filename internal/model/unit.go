package model

import "time"

// Unit is one physical room belonging to a category.  Units are what
// reservations ultimately occupy; a unit flagged as under maintenance is
// never offered to guests regardless of dates.  Corresponds to a row in
// the `units` table.
//
// Fields:
//  ID               – primary key identifier.
//  RoomNumber       – the number on the door.
//  Floor            – floor the room is on.
//  IsCleaned        – housekeeping flag, informational only.
//  UnderMaintenance – when true the unit is removed from availability.
//  CategoryID       – owning category; must reference an existing category.
//  CreatedAt        – creation timestamp.
//  UpdatedAt        – last update timestamp.
type Unit struct {
	ID               uint64    // units.id
	RoomNumber       int       // units.room_number
	Floor            int       // units.floor
	IsCleaned        bool      // units.is_cleaned
	UnderMaintenance bool      // units.under_maintenance
	CategoryID       uint64    // units.category_id
	CreatedAt        time.Time // units.created_at
	UpdatedAt        time.Time // units.updated_at
}
