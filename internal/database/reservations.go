package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"fasilitas/internal/interval"
	"fasilitas/internal/models"
)

// AddReservation inserts a reservation with status active and created_at set
// to now. It performs no overlap validation; the availability engine checks
// conflicts before this is called.
func (db *DB) AddReservation(ctx context.Context, r *models.Reservation) error {
	if r.Status == "" {
		r.Status = models.StatusActive
	}
	if r.EndDate.IsZero() {
		r.EndDate = r.StartDate
	}

	query := `INSERT INTO reservations (
                kind, resource_id, resource_name, requester_id, requester_name,
                start_date, end_date, start_time, end_time, destination,
                purpose, status, created_at
            ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	now := time.Now()
	result, err := db.ExecContext(ctx, query,
		r.Kind,
		r.ResourceID,
		r.ResourceName,
		r.RequesterID,
		r.RequesterName,
		interval.FormatDate(r.StartDate),
		interval.FormatDate(r.EndDate),
		r.StartTime,
		r.EndTime,
		r.Destination,
		r.Purpose,
		r.Status,
		now,
	)
	if err != nil {
		return fmt.Errorf("failed to create reservation: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	r.ID = id
	r.CreatedAt = now
	return nil
}

const reservationColumns = `id, kind, resource_id, resource_name, requester_id, requester_name,
                 start_date, end_date, start_time, end_time, destination,
                 purpose, status, created_at`

func scanReservation(scan func(dest ...any) error) (*models.Reservation, error) {
	var r models.Reservation
	var startDate, endDate string
	err := scan(
		&r.ID, &r.Kind, &r.ResourceID, &r.ResourceName, &r.RequesterID, &r.RequesterName,
		&startDate, &endDate, &r.StartTime, &r.EndTime, &r.Destination,
		&r.Purpose, &r.Status, &r.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if r.StartDate, err = interval.ParseDate(startDate); err != nil {
		return nil, fmt.Errorf("failed to parse reservation start date: %w", err)
	}
	if r.EndDate, err = interval.ParseDate(endDate); err != nil {
		return nil, fmt.Errorf("failed to parse reservation end date: %w", err)
	}
	return &r, nil
}

func (db *DB) GetReservation(ctx context.Context, kind models.Kind, id int64) (*models.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE kind = ? AND id = ?`
	row := db.QueryRowContext(ctx, query, kind, id)
	r, err := scanReservation(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get reservation: %w", err)
	}
	return r, nil
}

// ListActiveByResource returns the active reservations of one resource, the
// input to the overlap check.
func (db *DB) ListActiveByResource(ctx context.Context, kind models.Kind, resourceID int64) ([]models.Reservation, error) {
	query := `SELECT ` + reservationColumns + `
              FROM reservations WHERE kind = ? AND resource_id = ? AND status = ?
              ORDER BY start_date, start_time`
	return db.queryReservations(ctx, query, kind, resourceID, models.StatusActive)
}

// ListActiveByKind returns all active reservations of a kind, used by the
// availability engine to filter a whole catalog in one pass.
func (db *DB) ListActiveByKind(ctx context.Context, kind models.Kind) ([]models.Reservation, error) {
	query := `SELECT ` + reservationColumns + `
              FROM reservations WHERE kind = ? AND status = ?
              ORDER BY resource_id, start_date`
	return db.queryReservations(ctx, query, kind, models.StatusActive)
}

func (db *DB) queryReservations(ctx context.Context, query string, args ...any) ([]models.Reservation, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query reservations: %w", err)
	}
	defer rows.Close()

	var reservations []models.Reservation
	for rows.Next() {
		r, err := scanReservation(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan reservation: %w", err)
		}
		reservations = append(reservations, *r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate reservations: %w", err)
	}
	return reservations, nil
}

const recordQuery = `SELECT rv.id, rv.kind, rv.resource_id,
                 COALESCE(rs.name, rv.resource_name) AS resource_name,
                 rv.requester_id, rv.requester_name,
                 rv.start_date, rv.end_date, rv.start_time, rv.end_time, rv.destination,
                 rv.purpose, rv.status, rv.created_at,
                 COALESCE(a.name, '') AS account_name
              FROM reservations rv
              LEFT JOIN resources rs ON rs.kind = rv.kind AND rs.id = rv.resource_id
              LEFT JOIN accounts a ON a.id = rv.requester_id`

func (db *DB) queryRecords(ctx context.Context, where string, args ...any) ([]models.Record, error) {
	query := recordQuery + where + ` ORDER BY rv.created_at DESC, rv.id DESC`
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query reservation records: %w", err)
	}
	defer rows.Close()

	var records []models.Record
	for rows.Next() {
		var rec models.Record
		var startDate, endDate string
		err := rows.Scan(
			&rec.ID, &rec.Kind, &rec.ResourceID, &rec.ResourceName,
			&rec.RequesterID, &rec.RequesterName,
			&startDate, &endDate, &rec.StartTime, &rec.EndTime, &rec.Destination,
			&rec.Purpose, &rec.Status, &rec.CreatedAt,
			&rec.AccountName,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan reservation record: %w", err)
		}
		if rec.StartDate, err = interval.ParseDate(startDate); err != nil {
			return nil, fmt.Errorf("failed to parse record start date: %w", err)
		}
		if rec.EndDate, err = interval.ParseDate(endDate); err != nil {
			return nil, fmt.Errorf("failed to parse record end date: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate reservation records: %w", err)
	}
	return records, nil
}

// ListReservations returns all reservations of a kind, joined with resource
// and account names, newest first.
func (db *DB) ListReservations(ctx context.Context, kind models.Kind) ([]models.Record, error) {
	return db.queryRecords(ctx, ` WHERE rv.kind = ?`, kind)
}

// ListReservationsByRequester returns a requester's reservations across all
// kinds, newest first.
func (db *DB) ListReservationsByRequester(ctx context.Context, requesterID int64) ([]models.Record, error) {
	return db.queryRecords(ctx, ` WHERE rv.requester_id = ?`, requesterID)
}

// SetReservationStatus updates the status of one reservation. Kind mismatch
// behaves exactly like an unknown id.
func (db *DB) SetReservationStatus(ctx context.Context, kind models.Kind, id int64, status string) error {
	result, err := db.ExecContext(ctx,
		`UPDATE reservations SET status = ? WHERE kind = ? AND id = ?`,
		status, kind, id,
	)
	if err != nil {
		return fmt.Errorf("failed to set reservation status: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// Statistics aggregates reservation counts for the dashboard.
func (db *DB) Statistics(ctx context.Context) (*models.Statistics, error) {
	stats := &models.Statistics{}

	query := `SELECT kind, COUNT(*) FROM reservations GROUP BY kind`
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to count reservations: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var kind models.Kind
		var count int64
		if err := rows.Scan(&kind, &count); err != nil {
			return nil, fmt.Errorf("failed to scan reservation count: %w", err)
		}
		switch kind {
		case models.KindRoom:
			stats.TotalRoom = count
		case models.KindAsset:
			stats.TotalAsset = count
		case models.KindVehicle:
			stats.TotalVehicle = count
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate reservation counts: %w", err)
	}

	statusQuery := `SELECT status, COUNT(*) FROM reservations GROUP BY status`
	statusRows, err := db.QueryContext(ctx, statusQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to count reservation statuses: %w", err)
	}
	defer statusRows.Close()
	for statusRows.Next() {
		var status string
		var count int64
		if err := statusRows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("failed to scan status count: %w", err)
		}
		switch status {
		case models.StatusActive:
			stats.Active = count
		case models.StatusCancelled:
			stats.Cancelled = count
		}
	}
	if err := statusRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate status counts: %w", err)
	}

	var err2 error
	if stats.MostBookedRoom, err2 = db.mostBooked(ctx, models.KindRoom); err2 != nil {
		return nil, err2
	}
	if stats.MostBookedAsset, err2 = db.mostBooked(ctx, models.KindAsset); err2 != nil {
		return nil, err2
	}
	return stats, nil
}

func (db *DB) mostBooked(ctx context.Context, kind models.Kind) (string, error) {
	query := `SELECT COALESCE(rs.name, rv.resource_name), COUNT(*) AS bookings
              FROM reservations rv
              LEFT JOIN resources rs ON rs.kind = rv.kind AND rs.id = rv.resource_id
              WHERE rv.kind = ?
              GROUP BY rv.resource_id
              ORDER BY bookings DESC, rv.resource_id ASC
              LIMIT 1`
	var name string
	var count int64
	err := db.QueryRowContext(ctx, query, kind).Scan(&name, &count)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get most booked %s: %w", kind, err)
	}
	return name, nil
}
