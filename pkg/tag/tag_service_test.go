package tag

import (
	"context"
	"testing"

	"foodgram/domain"
	"foodgram/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTagService(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewTagService(NewTagRepository(db))
	ctx := context.Background()

	lunch := testutil.CreateTag(t, db, "Lunch", "#49B64E", "lunch")
	testutil.CreateTag(t, db, "Breakfast", "#E26C2D", "breakfast")

	tags, err := svc.GetTags(ctx)
	require.NoError(t, err)
	require.Len(t, tags, 2)
	assert.Equal(t, "Breakfast", tags[0].Name)
	assert.Equal(t, "Lunch", tags[1].Name)

	got, err := svc.GetTagByID(ctx, lunch.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "lunch", got.Slug)

	_, err = svc.GetTagByID(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrTagNotFound)

	created, err := svc.CreateTag(ctx, domain.CreateTagRequest{Name: "Dinner", Color: "#8775d2", Slug: "dinner"})
	require.NoError(t, err)
	assert.Equal(t, "#8775D2", created.Color)

	_, err = svc.CreateTag(ctx, domain.CreateTagRequest{Name: "Supper", Color: "#FF0000", Slug: "dinner"})
	assert.ErrorIs(t, err, domain.ErrTagExists)

	require.NoError(t, svc.DeleteTag(ctx, created.ID))
	assert.ErrorIs(t, svc.DeleteTag(ctx, created.ID), domain.ErrTagNotFound)
}
