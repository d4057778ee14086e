package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"itinerary-router/internal/database"
	"itinerary-router/internal/models"
)

type scheduleItemRepository struct {
	store *Store
}

const scheduleItemColumns = `id, plan_id, day, position, title, start_time, end_time,
	location_id, custom_lat, custom_lng, flexible_time,
	created_by, updated_by, created_at, updated_at`

func scanScheduleItem(scan func(dest ...interface{}) error) (*models.ScheduleItem, error) {
	var item models.ScheduleItem
	var locationID sql.NullString
	var customLat, customLng sql.NullFloat64

	err := scan(
		&item.ID, &item.PlanID, &item.Day, &item.Order, &item.Title,
		&item.StartTime, &item.EndTime, &locationID, &customLat, &customLng,
		&item.FlexibleTime, &item.CreatedBy, &item.UpdatedBy,
		&item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if locationID.Valid {
		item.LocationID = locationID.String
	}
	if customLat.Valid && customLng.Valid {
		item.CustomCoords = &models.Coordinates{Lat: customLat.Float64, Lng: customLng.Float64}
	}

	return &item, nil
}

func (r *scheduleItemRepository) ListByDay(ctx context.Context, planID, day string) ([]models.ScheduleItem, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	query := fmt.Sprintf(`SELECT %s FROM schedule_items
	          WHERE plan_id = ? AND day = ?
	          ORDER BY position`, scheduleItemColumns)

	rows, err := r.store.db.QueryContext(ctx, query, planID, day)
	if err != nil {
		return nil, fmt.Errorf("failed to query schedule items: %w", err)
	}
	defer rows.Close()

	var items []models.ScheduleItem
	for rows.Next() {
		item, err := scanScheduleItem(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan schedule item: %w", err)
		}
		items = append(items, *item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating schedule items: %w", err)
	}

	return items, nil
}

func (r *scheduleItemRepository) GetByID(ctx context.Context, id string) (*models.ScheduleItem, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	query := fmt.Sprintf(`SELECT %s FROM schedule_items WHERE id = ?`, scheduleItemColumns)

	item, err := scanScheduleItem(r.store.db.QueryRowContext(ctx, query, id).Scan)
	if err == sql.ErrNoRows {
		return nil, database.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get schedule item: %w", err)
	}

	return item, nil
}

func (r *scheduleItemRepository) Create(ctx context.Context, item *models.ScheduleItem) (*models.ScheduleItem, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	now := time.Now()
	item.CreatedAt = now
	item.UpdatedAt = now

	// New items append to the end of the day
	var next sql.NullInt64
	err := r.store.db.QueryRowContext(ctx,
		`SELECT MAX(position) + 1 FROM schedule_items WHERE plan_id = ? AND day = ?`,
		item.PlanID, item.Day,
	).Scan(&next)
	if err != nil {
		return nil, fmt.Errorf("failed to determine next position: %w", err)
	}
	if next.Valid {
		item.Order = int(next.Int64)
	} else {
		item.Order = 0
	}

	query := `INSERT INTO schedule_items
	          (id, plan_id, day, position, title, start_time, end_time,
	           location_id, custom_lat, custom_lng, flexible_time,
	           created_by, updated_by, created_at, updated_at)
	          VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = r.store.db.ExecContext(ctx, query,
		item.ID, item.PlanID, item.Day, item.Order, item.Title,
		item.StartTime, item.EndTime, nullString(item.LocationID),
		nullCoord(item.CustomCoords, true), nullCoord(item.CustomCoords, false),
		item.FlexibleTime, item.CreatedBy, item.UpdatedBy,
		item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create schedule item: %w", err)
	}

	return item, nil
}

func (r *scheduleItemRepository) Update(ctx context.Context, item *models.ScheduleItem) (*models.ScheduleItem, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	item.UpdatedAt = time.Now()

	query := `UPDATE schedule_items
	          SET title = ?, start_time = ?, end_time = ?, location_id = ?,
	              custom_lat = ?, custom_lng = ?, flexible_time = ?,
	              updated_by = ?, updated_at = ?
	          WHERE id = ?`

	result, err := r.store.db.ExecContext(ctx, query,
		item.Title, item.StartTime, item.EndTime, nullString(item.LocationID),
		nullCoord(item.CustomCoords, true), nullCoord(item.CustomCoords, false),
		item.FlexibleTime, item.UpdatedBy, item.UpdatedAt, item.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update schedule item: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return nil, database.ErrNotFound
	}

	return item, nil
}

func (r *scheduleItemRepository) Delete(ctx context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	// Comments cascade via foreign key
	result, err := r.store.db.ExecContext(ctx, `DELETE FROM schedule_items WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete schedule item: %w", err)
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

// PersistOrder rewrites position = array index for the given ids inside a
// transaction. The id list must match the day's item set exactly; a partial
// or foreign list aborts without touching anything.
func (r *scheduleItemRepository) PersistOrder(ctx context.Context, planID, day string, orderedIDs []string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	tx, err := r.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var count int
	if err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM schedule_items WHERE plan_id = ? AND day = ?`,
		planID, day,
	).Scan(&count); err != nil {
		return fmt.Errorf("failed to count schedule items: %w", err)
	}
	if count != len(orderedIDs) {
		return fmt.Errorf("%w: ordered id list has %d ids, day has %d items",
			database.ErrValidation, len(orderedIDs), count)
	}

	for position, id := range orderedIDs {
		result, err := tx.ExecContext(ctx,
			`UPDATE schedule_items SET position = ?, updated_at = ?
			 WHERE id = ? AND plan_id = ? AND day = ?`,
			position, time.Now(), id, planID, day,
		)
		if err != nil {
			return fmt.Errorf("failed to persist order: %w", err)
		}
		rows, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if rows == 0 {
			return fmt.Errorf("%w: schedule item %s not in plan %s day %s",
				database.ErrNotFound, id, planID, day)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit order: %w", err)
	}

	return nil
}

func nullString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func nullCoord(c *models.Coordinates, lat bool) interface{} {
	if c == nil {
		return nil
	}
	if lat {
		return c.Lat
	}
	return c.Lng
}
