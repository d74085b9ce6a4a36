// Package queue defines message payloads exchanged over the message broker.
package queue

// ReservationDecidedEvent is published when staff confirms or rejects a
// reservation.  It carries enough information for downstream consumers
// to notify the guest or feed analytics without querying the primary
// database.
type ReservationDecidedEvent struct {
	ReservationID uint64 `json:"reservation_id"`
	UserID        uint64 `json:"user_id"`
	UserEmail     string `json:"user_email"`
	CategoryID    uint64 `json:"category_id"`
	CategoryName  string `json:"category_name"`
	RoomNumber    int    `json:"room_number,omitempty"`
	DateFrom      string `json:"date_from"`
	DateTo        string `json:"date_to"`
	Status        string `json:"status"`
	Total         string `json:"total"`
	DecidedBy     uint64 `json:"decided_by"`
	DecidedAt     string `json:"decided_at"`
}
