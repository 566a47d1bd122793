package seed

import (
	"context"
	"strings"
	"testing"

	"foodgram/entities"
	"foodgram/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTags_Idempotent(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	csvData := "name,color,slug\nBreakfast,#e26c2d,breakfast\n\nLunch, #49B64E, lunch\n"

	inserted, err := Tags(ctx, db, strings.NewReader(csvData))
	require.NoError(t, err)
	assert.EqualValues(t, 2, inserted)

	inserted, err = Tags(ctx, db, strings.NewReader(csvData))
	require.NoError(t, err)
	assert.Zero(t, inserted)

	var tags []entities.Tag
	require.NoError(t, db.Order("name").Find(&tags).Error)
	require.Len(t, tags, 2)
	assert.Equal(t, "#E26C2D", tags[0].Color)
	assert.Equal(t, "lunch", tags[1].Slug)
}

func TestIngredients(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()

	inserted, err := Ingredients(ctx, db, strings.NewReader("salt,g\nsalt,pinch\n\"milk, whole\",ml\n"))
	require.NoError(t, err)
	assert.EqualValues(t, 3, inserted)

	inserted, err = Ingredients(ctx, db, strings.NewReader("salt,g\nsugar,g\n"))
	require.NoError(t, err)
	assert.EqualValues(t, 1, inserted)

	var count int64
	require.NoError(t, db.Model(&entities.Ingredient{}).Count(&count).Error)
	assert.EqualValues(t, 4, count)
}

func TestIngredients_BadRow(t *testing.T) {
	db := testutil.NewDB(t)

	_, err := Ingredients(context.Background(), db, strings.NewReader("salt,g\nbroken\n"))
	assert.ErrorContains(t, err, "line 2")
}
