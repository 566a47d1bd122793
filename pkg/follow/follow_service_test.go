package follow

import (
	"context"
	"testing"
	"time"

	"foodgram/domain"
	"foodgram/entities"
	"foodgram/internal/metrics"
	"foodgram/internal/testutil"
	"foodgram/pkg/recipe"
	"foodgram/pkg/user"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) (FollowService, *gorm.DB) {
	t.Helper()

	db := testutil.NewDB(t)
	svc := NewFollowService(
		NewFollowRepository(db),
		user.NewUserRepository(db),
		recipe.NewRecipeRepository(db),
		testutil.NewMemoryStorage(),
		metrics.New(),
	)
	return svc, db
}

func createRecipe(t *testing.T, db *gorm.DB, author *entities.User, name string, pubDate time.Time) {
	t.Helper()

	require.NoError(t, db.Create(&entities.Recipe{
		AuthorID:    author.ID,
		Name:        name,
		Image:       "recipes/images/" + name + ".png",
		Text:        "text",
		CookingTime: 5,
		PubDate:     pubDate,
	}).Error)
}

func TestFollowService_SubscribeRules(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	anna := testutil.CreateUser(t, db, "anna")
	boris := testutil.CreateUser(t, db, "boris")

	_, err := svc.Subscribe(ctx, anna.ID.String(), anna.ID.String(), NoRecipesLimit)
	assert.ErrorIs(t, err, domain.ErrSelfSubscribe)

	_, err = svc.Subscribe(ctx, anna.ID.String(), "7f0c7a4e-4a4f-4f49-9a55-6b7d2f0d8c11", NoRecipesLimit)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	res, err := svc.Subscribe(ctx, anna.ID.String(), boris.ID.String(), NoRecipesLimit)
	require.NoError(t, err)
	assert.Equal(t, "boris", res.Username)
	assert.True(t, res.IsSubscribed)
	assert.Empty(t, res.Recipes)
	assert.Zero(t, res.RecipesCount)

	_, err = svc.Subscribe(ctx, anna.ID.String(), boris.ID.String(), NoRecipesLimit)
	assert.ErrorIs(t, err, domain.ErrAlreadySubscribed)

	require.NoError(t, svc.Unsubscribe(ctx, anna.ID.String(), boris.ID.String()))
	assert.ErrorIs(t, svc.Unsubscribe(ctx, anna.ID.String(), boris.ID.String()), domain.ErrNotSubscribed)
}

func TestFollowService_Subscriptions(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	reader := testutil.CreateUser(t, db, "reader")
	zoe := testutil.CreateUser(t, db, "zoe")
	adam := testutil.CreateUser(t, db, "adam")
	testutil.CreateUser(t, db, "stranger")

	now := time.Now()
	createRecipe(t, db, zoe, "old", now.Add(-2*time.Hour))
	createRecipe(t, db, zoe, "new", now.Add(-time.Hour))
	createRecipe(t, db, zoe, "newest", now)

	for _, author := range []*entities.User{zoe, adam} {
		_, err := svc.Subscribe(ctx, reader.ID.String(), author.ID.String(), NoRecipesLimit)
		require.NoError(t, err)
	}

	subs, total, err := svc.GetSubscriptions(ctx, reader.ID.String(), domain.PaginationRequest{Page: 1, Limit: 10}, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, subs, 2)

	assert.Equal(t, "adam", subs[0].Username)
	assert.Empty(t, subs[0].Recipes)
	assert.Zero(t, subs[0].RecipesCount)

	assert.Equal(t, "zoe", subs[1].Username)
	assert.EqualValues(t, 3, subs[1].RecipesCount)
	require.Len(t, subs[1].Recipes, 2)
	assert.Equal(t, "newest", subs[1].Recipes[0].Name)
	assert.Equal(t, "new", subs[1].Recipes[1].Name)
	assert.Equal(t, "http://media.test/recipes/images/newest.png", subs[1].Recipes[0].Image)

	unlimited, _, err := svc.GetSubscriptions(ctx, reader.ID.String(), domain.PaginationRequest{Page: 2, Limit: 1}, NoRecipesLimit)
	require.NoError(t, err)
	require.Len(t, unlimited, 1)
	assert.Len(t, unlimited[0].Recipes, 3)

	none, _, err := svc.GetSubscriptions(ctx, reader.ID.String(), domain.PaginationRequest{Page: 1, Limit: 10}, 0)
	require.NoError(t, err)
	assert.Empty(t, none[1].Recipes)
	assert.EqualValues(t, 3, none[1].RecipesCount)
}

type staleFollowRepository struct {
	FollowRepository
}

func (staleFollowRepository) IsFollowing(context.Context, string, string) (bool, error) {
	return false, nil
}

func TestFollowService_DuplicateInsertAfterStaleCheck(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	svc := NewFollowService(
		staleFollowRepository{NewFollowRepository(db)},
		user.NewUserRepository(db),
		recipe.NewRecipeRepository(db),
		testutil.NewMemoryStorage(),
		nil,
	)

	anna := testutil.CreateUser(t, db, "anna")
	boris := testutil.CreateUser(t, db, "boris")

	_, err := svc.Subscribe(ctx, anna.ID.String(), boris.ID.String(), NoRecipesLimit)
	require.NoError(t, err)

	_, err = svc.Subscribe(ctx, anna.ID.String(), boris.ID.String(), NoRecipesLimit)
	assert.ErrorIs(t, err, domain.ErrAlreadySubscribed)
	assert.Equal(t, 400, domain.StatusOf(err))

	var follows int64
	require.NoError(t, db.Model(&entities.Follow{}).Count(&follows).Error)
	assert.EqualValues(t, 1, follows)
}
