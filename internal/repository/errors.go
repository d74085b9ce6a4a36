// Package repository defines error values shared across repositories.
// These sentinels let handlers distinguish failure scenarios without
// inspecting SQL errors: ErrForbidden means the caller does not own the
// resource, ErrConflict means dependent records block the operation
// (e.g. deleting a category that still has units or reservations).
package repository

import "errors"

// ErrForbidden is returned when the caller attempts an operation on a
// resource owned by someone else.  Handlers translate it into HTTP 403.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when a delete or update cannot proceed because
// of conflicting state.  Handlers translate it into HTTP 409.
var ErrConflict = errors.New("conflict")

// Per-entity not-found sentinels.  Handlers translate these into 404.
var (
	ErrCategoryNotFound    = errors.New("category not found")
	ErrUnitNotFound        = errors.New("unit not found")
	ErrAmenityNotFound     = errors.New("amenity not found")
	ErrReservationNotFound = errors.New("reservation not found")
	ErrArticleNotFound     = errors.New("article not found")
	ErrUserNotFound        = errors.New("user not found")
	ErrTokenNotFound       = errors.New("refresh token not found")
	ErrFaqNotFound         = errors.New("faq not found")
)
