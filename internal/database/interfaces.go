package database

import (
	"context"

	"itinerary-router/internal/models"
)

// DataStore is the interface for data persistence
type DataStore interface {
	Close() error
	HealthCheck(ctx context.Context) error
	ScheduleItems() ScheduleItemRepository
	Locations() LocationRepository
	Comments() CommentRepository
}

// ScheduleItemRepository handles schedule item persistence
type ScheduleItemRepository interface {
	// ListByDay returns the items of (planID, day) sorted by order ascending
	ListByDay(ctx context.Context, planID, day string) ([]models.ScheduleItem, error)
	GetByID(ctx context.Context, id string) (*models.ScheduleItem, error)
	Create(ctx context.Context, item *models.ScheduleItem) (*models.ScheduleItem, error)
	Update(ctx context.Context, item *models.ScheduleItem) (*models.ScheduleItem, error)
	// Delete removes the item and its comments
	Delete(ctx context.Context, id string) error
	// PersistOrder rewrites order = array index for the given ids.
	// The ids must be exactly the item set of (planID, day).
	PersistOrder(ctx context.Context, planID, day string, orderedIDs []string) error
}

// LocationRepository handles location persistence
type LocationRepository interface {
	List(ctx context.Context) ([]models.Location, error)
	GetByID(ctx context.Context, id string) (*models.Location, error)
	GetByIDs(ctx context.Context, ids []string) (map[string]*models.Location, error)
	Create(ctx context.Context, loc *models.Location) (*models.Location, error)
	Update(ctx context.Context, loc *models.Location) (*models.Location, error)
	Delete(ctx context.Context, id string) error
}

// CommentRepository handles schedule item comment persistence
type CommentRepository interface {
	ListByItem(ctx context.Context, itemID string) ([]models.Comment, error)
	Create(ctx context.Context, c *models.Comment) (*models.Comment, error)
	Delete(ctx context.Context, id string) error
}
