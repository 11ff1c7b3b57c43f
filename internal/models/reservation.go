package models

import (
	"time"

	"fasilitas/internal/interval"
)

// Reservation is a single booking of a resource. The time extent depends on
// the kind: rooms take a day plus a time-of-day range, assets a borrow/return
// date span, vehicles a date span plus a time-of-day range. RequesterName is
// a snapshot resolved at write time and never recomputed, so the schedule
// stays stable even if the account is later renamed.
type Reservation struct {
	ID            int64     `json:"id"`
	Kind          Kind      `json:"kind"`
	ResourceID    int64     `json:"resource_id"`
	ResourceName  string    `json:"resource_name"`
	RequesterID   int64     `json:"requester_id"`
	RequesterName string    `json:"requester_name"`
	StartDate     time.Time `json:"start_date"`
	EndDate       time.Time `json:"end_date"`
	StartTime     string    `json:"start_time,omitempty"` // HH:MM, rooms and vehicles
	EndTime       string    `json:"end_time,omitempty"`
	Destination   string    `json:"destination,omitempty"` // vehicles
	Purpose       string    `json:"purpose"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
}

// Span returns the interval claimed by this reservation.
func (r *Reservation) Span() interval.Span {
	return interval.Span{
		StartDate: r.StartDate,
		EndDate:   r.EndDate,
		StartTime: r.StartTime,
		EndTime:   r.EndTime,
	}
}

// Record is a reservation joined with the current catalog and account rows
// for reporting. AccountName may be empty when the account has been removed;
// ResourceName falls back to the snapshot stored on the reservation when the
// catalog row is gone.
type Record struct {
	Reservation
	AccountName string `json:"account_name,omitempty"`
}

// Statistics aggregates reservation counts for the dashboard.
type Statistics struct {
	TotalRoom       int64  `json:"total_room"`
	TotalAsset      int64  `json:"total_asset"`
	TotalVehicle    int64  `json:"total_vehicle"`
	Active          int64  `json:"active"`
	Cancelled       int64  `json:"cancelled"`
	MostBookedRoom  string `json:"most_booked_room"`
	MostBookedAsset string `json:"most_booked_asset"`
}
