package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"fasilitas/internal/models"
)

const resourceColumns = `id, kind, name, status, capacity, type, condition, plate, created_at, updated_at`

func (db *DB) CreateResource(ctx context.Context, res *models.Resource) error {
	if res.Status == "" {
		res.Status = models.ResourceAvailable
	}
	if res.Kind == models.KindAsset && res.Condition == "" {
		res.Condition = models.ConditionGood
	}

	query := `INSERT INTO resources (kind, name, status, capacity, type, condition, plate, created_at, updated_at)
              VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	now := time.Now()
	result, err := db.ExecContext(ctx, query,
		res.Kind,
		res.Name,
		res.Status,
		res.Capacity,
		res.Type,
		res.Condition,
		res.Plate,
		now,
		now,
	)
	if err != nil {
		return fmt.Errorf("failed to create resource: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	res.ID = id
	res.CreatedAt = now
	res.UpdatedAt = now
	return nil
}

func (db *DB) GetResource(ctx context.Context, kind models.Kind, id int64) (*models.Resource, error) {
	query := `SELECT ` + resourceColumns + ` FROM resources WHERE kind = ? AND id = ?`

	var res models.Resource
	err := db.QueryRowContext(ctx, query, kind, id).Scan(
		&res.ID, &res.Kind, &res.Name, &res.Status, &res.Capacity,
		&res.Type, &res.Condition, &res.Plate, &res.CreatedAt, &res.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get resource: %w", err)
	}
	return &res, nil
}

// ListResourcesByKind returns the catalog for a kind in insertion order.
func (db *DB) ListResourcesByKind(ctx context.Context, kind models.Kind) ([]models.Resource, error) {
	query := `SELECT ` + resourceColumns + ` FROM resources WHERE kind = ? ORDER BY id`
	rows, err := db.QueryContext(ctx, query, kind)
	if err != nil {
		return nil, fmt.Errorf("failed to list resources: %w", err)
	}
	defer rows.Close()

	var resources []models.Resource
	for rows.Next() {
		var res models.Resource
		if err := rows.Scan(
			&res.ID, &res.Kind, &res.Name, &res.Status, &res.Capacity,
			&res.Type, &res.Condition, &res.Plate, &res.CreatedAt, &res.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan resource: %w", err)
		}
		resources = append(resources, res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate resources: %w", err)
	}
	return resources, nil
}

func (db *DB) UpdateResource(ctx context.Context, res *models.Resource) error {
	query := `UPDATE resources SET name = ?, status = ?, capacity = ?, type = ?, condition = ?, plate = ?, updated_at = ?
              WHERE kind = ? AND id = ?`
	now := time.Now()
	result, err := db.ExecContext(ctx, query,
		res.Name, res.Status, res.Capacity, res.Type, res.Condition, res.Plate, now,
		res.Kind, res.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update resource: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrNotFound
	}
	res.UpdatedAt = now
	return nil
}

// DeleteResource removes a catalog row. Reservations referencing it are left
// in place; reporting falls back to the name snapshot stored on each
// reservation.
func (db *DB) DeleteResource(ctx context.Context, kind models.Kind, id int64) error {
	result, err := db.ExecContext(ctx, `DELETE FROM resources WHERE kind = ? AND id = ?`, kind, id)
	if err != nil {
		return fmt.Errorf("failed to delete resource: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// SeedResources inserts the configured catalog, per kind, only when that
// kind's catalog is still empty.
func (db *DB) SeedResources(ctx context.Context, resources []models.Resource) error {
	counts := make(map[models.Kind]int64)
	for _, kind := range models.Kinds() {
		var count int64
		err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM resources WHERE kind = ?`, kind).Scan(&count)
		if err != nil {
			return fmt.Errorf("failed to count resources: %w", err)
		}
		counts[kind] = count
	}

	seeded := 0
	for i := range resources {
		res := resources[i]
		if counts[res.Kind] > 0 {
			continue
		}
		if err := db.CreateResource(ctx, &res); err != nil {
			return err
		}
		seeded++
	}

	if seeded > 0 {
		db.logger.Info().Int("count", seeded).Msg("seeded resource catalog")
	}
	return nil
}
