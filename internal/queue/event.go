// Package queue defines message payloads exchanged over the message broker.
package queue

// BookingConfirmedEvent is published when a booking transitions to
// CONFIRMED. It carries enough detail for downstream consumers to log or
// notify without querying the primary database.
type BookingConfirmedEvent struct {
	BookingID   uint64  `json:"booking_id"`
	UserID      uint64  `json:"user_id"`
	SlotID      uint64  `json:"slot_id"`
	FieldID     uint64  `json:"field_id"`
	FieldName   string  `json:"field_name"`
	TeamID      *uint64 `json:"team_id,omitempty"`
	StartsAt    string  `json:"starts_at"`
	EndsAt      string  `json:"ends_at"`
	TotalPrice  float64 `json:"total_price"`
	ConfirmedAt string  `json:"confirmed_at"`
}
