package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"itinerary-router/internal/database"
	"itinerary-router/internal/models"
)

type commentRepository struct {
	store *Store
}

func (r *commentRepository) ListByItem(ctx context.Context, itemID string) ([]models.Comment, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	query := `SELECT id, item_id, author, body, created_at
	          FROM comments WHERE item_id = ? ORDER BY created_at`

	rows, err := r.store.db.QueryContext(ctx, query, itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to query comments: %w", err)
	}
	defer rows.Close()

	var comments []models.Comment
	for rows.Next() {
		var c models.Comment
		if err := rows.Scan(&c.ID, &c.ItemID, &c.Author, &c.Body, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		comments = append(comments, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating comments: %w", err)
	}

	return comments, nil
}

func (r *commentRepository) Create(ctx context.Context, c *models.Comment) (*models.Comment, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	c.CreatedAt = time.Now()

	query := `INSERT INTO comments (id, item_id, author, body, created_at)
	          VALUES (?, ?, ?, ?, ?)`

	_, err := r.store.db.ExecContext(ctx, query, c.ID, c.ItemID, c.Author, c.Body, c.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	return c, nil
}

func (r *commentRepository) Delete(ctx context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	result, err := r.store.db.ExecContext(ctx, `DELETE FROM comments WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
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
