package database

import (
	"context"
	"testing"

	"shareit/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComments(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	owner := seedUser(t, db, "Owner", "owner@example.com")
	author := seedUser(t, db, "Maria", "maria@example.com")
	drill := seedItem(t, db, owner.ID, "Drill", true)
	saw := seedItem(t, db, owner.ID, "Saw", true)

	first := &models.Comment{Text: "works great", ItemID: drill.ID, AuthorID: author.ID, AuthorName: author.Name}
	require.NoError(t, db.CreateComment(ctx, first))
	require.NotZero(t, first.ID)

	second := &models.Comment{Text: "sharp", ItemID: saw.ID, AuthorID: author.ID, AuthorName: author.Name}
	require.NoError(t, db.CreateComment(ctx, second))

	t.Run("ByItem", func(t *testing.T) {
		comments, err := db.GetCommentsByItem(ctx, drill.ID)
		require.NoError(t, err)
		require.Len(t, comments, 1)
		assert.Equal(t, "works great", comments[0].Text)
		assert.Equal(t, "Maria", comments[0].AuthorName)
	})

	t.Run("ByItems", func(t *testing.T) {
		comments, err := db.GetCommentsByItems(ctx, []int64{drill.ID, saw.ID})
		require.NoError(t, err)
		assert.Len(t, comments, 2)

		comments, err = db.GetCommentsByItems(ctx, nil)
		require.NoError(t, err)
		assert.Empty(t, comments)
	})

	t.Run("NoComments", func(t *testing.T) {
		comments, err := db.GetCommentsByItem(ctx, 999)
		require.NoError(t, err)
		assert.Empty(t, comments)
	})
}
