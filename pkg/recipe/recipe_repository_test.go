package recipe

import (
	"context"
	"testing"
	"time"

	"foodgram/entities"
	"foodgram/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecipeRepository_GetRecipesByAuthors(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewRecipeRepository(db)
	ctx := context.Background()

	ivan := testutil.CreateUser(t, db, "ivan")
	olga := testutil.CreateUser(t, db, "olga")
	quiet := testutil.CreateUser(t, db, "quiet")

	now := time.Now()
	add := func(author *entities.User, name string, age time.Duration) {
		require.NoError(t, db.Create(&entities.Recipe{
			AuthorID:    author.ID,
			Name:        name,
			Image:       "recipes/images/" + name + ".png",
			Text:        "text",
			CookingTime: 5,
			PubDate:     now.Add(-age),
		}).Error)
	}
	add(ivan, "borscht", 3*time.Hour)
	add(ivan, "pelmeni", 2*time.Hour)
	add(ivan, "blini", time.Hour)
	add(olga, "kasha", 4*time.Hour)
	add(olga, "syrniki", 30*time.Minute)

	ids := []string{ivan.ID.String(), olga.ID.String(), quiet.ID.String()}
	names := func(recipes []*entities.Recipe) map[string][]string {
		out := map[string][]string{}
		for _, r := range recipes {
			out[r.AuthorID.String()] = append(out[r.AuthorID.String()], r.Name)
		}
		return out
	}

	capped, err := repo.GetRecipesByAuthors(ctx, ids, 2)
	require.NoError(t, err)
	require.Len(t, capped, 4)
	byAuthor := names(capped)
	assert.Equal(t, []string{"blini", "pelmeni"}, byAuthor[ivan.ID.String()])
	assert.Equal(t, []string{"syrniki", "kasha"}, byAuthor[olga.ID.String()])
	assert.Empty(t, byAuthor[quiet.ID.String()])

	one, err := repo.GetRecipesByAuthors(ctx, ids, 1)
	require.NoError(t, err)
	byAuthor = names(one)
	assert.Equal(t, []string{"blini"}, byAuthor[ivan.ID.String()])
	assert.Equal(t, []string{"syrniki"}, byAuthor[olga.ID.String()])

	all, err := repo.GetRecipesByAuthors(ctx, ids, -1)
	require.NoError(t, err)
	assert.Len(t, all, 5)

	none, err := repo.GetRecipesByAuthors(ctx, ids, 0)
	require.NoError(t, err)
	assert.Empty(t, none)

	empty, err := repo.GetRecipesByAuthors(ctx, nil, 3)
	require.NoError(t, err)
	assert.Empty(t, empty)
}
