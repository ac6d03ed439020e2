// Package queue defines the messages published when a dinner reaches a
// milestone, and the background consumer that records them.
package queue

import "time"

// Queue names, shared between the publisher and the consumer.
const (
	EventConfirmedQueue = "event.confirmed"
	EventCompletedQueue = "event.completed"
)

// EventConfirmedMessage is published when a host confirms their dinner.
// It carries everything a downstream notifier needs to tell the
// confirmed guests without calling back into the API.
type EventConfirmedMessage struct {
	EventID         uint64    `json:"event_id"`
	HostID          uint64    `json:"host_id"`
	Title           string    `json:"title"`
	EventDate       time.Time `json:"event_date"`
	LocationName    string    `json:"location_name"`
	ConfirmedGuests int       `json:"confirmed_guests"`
	GuestUserIDs    []uint64  `json:"guest_user_ids"`
	ConfirmedAt     string    `json:"confirmed_at"`
}

// EventCompletedMessage is published after the host records attendance
// outcomes, once the trust-score consequences are already committed.
type EventCompletedMessage struct {
	EventID     uint64   `json:"event_id"`
	HostID      uint64   `json:"host_id"`
	Title       string   `json:"title"`
	AttendedIDs []uint64 `json:"attended_user_ids"`
	NoShowIDs   []uint64 `json:"no_show_user_ids"`
	CompletedAt string   `json:"completed_at"`
}
