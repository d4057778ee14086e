package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"itinerary-router/internal/database"
	"itinerary-router/internal/models"
)

func TestCommentCreateAndList(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	item := createTestItem(t, store, "p1", "2026-09-04", "Lunch")

	first, err := store.Comments().Create(ctx, &models.Comment{
		ItemID: item.ID,
		Author: "kim",
		Body:   "Reservation at noon",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, first.ID)

	_, err = store.Comments().Create(ctx, &models.Comment{ItemID: item.ID, Author: "alex", Body: "Works for me"})
	require.NoError(t, err)

	comments, err := store.Comments().ListByItem(ctx, item.ID)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, "Reservation at noon", comments[0].Body)
}

func TestCommentCreateRequiresExistingItem(t *testing.T) {
	store := setupTestStore(t)

	_, err := store.Comments().Create(context.Background(), &models.Comment{
		ItemID: "missing",
		Body:   "orphan",
	})
	assert.Error(t, err)
}

func TestCommentDelete(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	item := createTestItem(t, store, "p1", "2026-09-04", "Lunch")
	comment, err := store.Comments().Create(ctx, &models.Comment{ItemID: item.ID, Body: "stale"})
	require.NoError(t, err)

	require.NoError(t, store.Comments().Delete(ctx, comment.ID))
	assert.ErrorIs(t, store.Comments().Delete(ctx, comment.ID), database.ErrNotFound)
}
