package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"itinerary-router/internal/database"
	"itinerary-router/internal/models"
)

type locationRepository struct {
	store *Store
}

func scanLocation(scan func(dest ...interface{}) error) (*models.Location, error) {
	var loc models.Location
	var lat, lng sql.NullFloat64

	err := scan(&loc.ID, &loc.Name, &loc.Address, &lat, &lng, &loc.Category,
		&loc.CreatedAt, &loc.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if lat.Valid && lng.Valid {
		loc.Coords = &models.Coordinates{Lat: lat.Float64, Lng: lng.Float64}
	}

	return &loc, nil
}

func (r *locationRepository) List(ctx context.Context) ([]models.Location, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	query := `SELECT id, name, address, lat, lng, category, created_at, updated_at
	          FROM locations ORDER BY name`

	rows, err := r.store.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query locations: %w", err)
	}
	defer rows.Close()

	var locations []models.Location
	for rows.Next() {
		loc, err := scanLocation(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan location: %w", err)
		}
		locations = append(locations, *loc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating locations: %w", err)
	}

	return locations, nil
}

func (r *locationRepository) GetByID(ctx context.Context, id string) (*models.Location, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	query := `SELECT id, name, address, lat, lng, category, created_at, updated_at
	          FROM locations WHERE id = ?`

	loc, err := scanLocation(r.store.db.QueryRowContext(ctx, query, id).Scan)
	if err == sql.ErrNoRows {
		return nil, database.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get location: %w", err)
	}

	return loc, nil
}

func (r *locationRepository) GetByIDs(ctx context.Context, ids []string) (map[string]*models.Location, error) {
	result := make(map[string]*models.Location)
	if len(ids) == 0 {
		return result, nil
	}

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	placeholders := make([]string, len(ids))
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		placeholders[i] = "?"
		args[i] = id
	}

	query := fmt.Sprintf(
		`SELECT id, name, address, lat, lng, category, created_at, updated_at
		 FROM locations WHERE id IN (%s)`,
		strings.Join(placeholders, ","),
	)

	rows, err := r.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query locations by IDs: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		loc, err := scanLocation(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan location: %w", err)
		}
		result[loc.ID] = loc
	}

	return result, rows.Err()
}

func (r *locationRepository) Create(ctx context.Context, loc *models.Location) (*models.Location, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if loc.ID == "" {
		loc.ID = uuid.NewString()
	}
	now := time.Now()
	loc.CreatedAt = now
	loc.UpdatedAt = now

	query := `INSERT INTO locations (id, name, address, lat, lng, category, created_at, updated_at)
	          VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.store.db.ExecContext(ctx, query,
		loc.ID, loc.Name, loc.Address,
		nullCoord(loc.Coords, true), nullCoord(loc.Coords, false),
		loc.Category, loc.CreatedAt, loc.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create location: %w", err)
	}

	return loc, nil
}

func (r *locationRepository) Update(ctx context.Context, loc *models.Location) (*models.Location, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	loc.UpdatedAt = time.Now()

	query := `UPDATE locations
	          SET name = ?, address = ?, lat = ?, lng = ?, category = ?, updated_at = ?
	          WHERE id = ?`

	result, err := r.store.db.ExecContext(ctx, query,
		loc.Name, loc.Address,
		nullCoord(loc.Coords, true), nullCoord(loc.Coords, false),
		loc.Category, loc.UpdatedAt, loc.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update location: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return nil, database.ErrNotFound
	}

	return loc, nil
}

func (r *locationRepository) Delete(ctx context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	// Items referencing this location keep their row; location_id nulls out
	result, err := r.store.db.ExecContext(ctx, `DELETE FROM locations WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete location: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return database.ErrNotFound
	}

	return nil
}
