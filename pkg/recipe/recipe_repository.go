package recipe

import (
	"context"
	"time"

	"foodgram/domain"
	"foodgram/entities"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type (
	RecipeRepository interface {
		Transaction(ctx context.Context, fn func(repo RecipeRepository) error) error

		CreateRecipe(ctx context.Context, recipe *entities.Recipe) error
		UpdateRecipe(ctx context.Context, recipe *entities.Recipe) error
		ReplaceRecipeRelations(ctx context.Context, recipeID uuid.UUID, tags []entities.TagsRecipe, ingredients []entities.IngredientRecipe) error
		DeleteRecipe(ctx context.Context, id uuid.UUID) error

		FindRecipe(ctx context.Context, id string) (*entities.Recipe, error)
		GetRecipeByID(ctx context.Context, id string) (*entities.Recipe, error)
		GetRecipes(ctx context.Context, filter domain.RecipeFilter, viewerID string, p domain.PaginationRequest) ([]*entities.Recipe, int64, error)
		GetRecipesByAuthors(ctx context.Context, authorIDs []string, perAuthor int) ([]*entities.Recipe, error)
		CountRecipesByAuthors(ctx context.Context, authorIDs []string) (map[string]int64, error)

		CountTags(ctx context.Context, ids []string) (int64, error)
		CountIngredients(ctx context.Context, ids []string) (int64, error)

		AddFavorite(ctx context.Context, favorite *entities.Favorite) error
		RemoveFavorite(ctx context.Context, userID, recipeID string) (int64, error)
		IsFavorited(ctx context.Context, userID, recipeID string) (bool, error)
		GetFavoritedRecipeIDs(ctx context.Context, userID string, recipeIDs []string) (map[string]bool, error)

		AddShoppingCart(ctx context.Context, cart *entities.ShoppingCart) error
		RemoveShoppingCart(ctx context.Context, userID, recipeID string) (int64, error)
		IsInShoppingCart(ctx context.Context, userID, recipeID string) (bool, error)
		GetShoppingCartRecipeIDs(ctx context.Context, userID string, recipeIDs []string) (map[string]bool, error)
		GetShoppingList(ctx context.Context, userID string) ([]domain.ShoppingListItem, error)
	}

	recipeRepository struct {
		db *gorm.DB
	}
)

func NewRecipeRepository(db *gorm.DB) RecipeRepository {
	return &recipeRepository{db: db}
}

// Transaction runs fn against a repository bound to a single database transaction.
func (r *recipeRepository) Transaction(ctx context.Context, fn func(repo RecipeRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&recipeRepository{db: tx})
	})
}

func (r *recipeRepository) CreateRecipe(ctx context.Context, recipe *entities.Recipe) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(recipe).Error
}

func (r *recipeRepository) UpdateRecipe(ctx context.Context, recipe *entities.Recipe) error {
	return r.db.WithContext(ctx).
		Model(&entities.Recipe{}).
		Where("id = ?", recipe.ID).
		Updates(map[string]any{
			"name":         recipe.Name,
			"image":        recipe.Image,
			"text":         recipe.Text,
			"cooking_time": recipe.CookingTime,
			"updated_at":   time.Now(),
		}).Error
}

func (r *recipeRepository) ReplaceRecipeRelations(
	ctx context.Context,
	recipeID uuid.UUID,
	tags []entities.TagsRecipe,
	ingredients []entities.IngredientRecipe,
) error {
	db := r.db.WithContext(ctx)

	if err := db.Where("recipe_id = ?", recipeID).Delete(&entities.TagsRecipe{}).Error; err != nil {
		return err
	}
	if err := db.Where("recipe_id = ?", recipeID).Delete(&entities.IngredientRecipe{}).Error; err != nil {
		return err
	}

	if len(tags) > 0 {
		if err := db.Omit(clause.Associations).Create(&tags).Error; err != nil {
			return err
		}
	}
	if len(ingredients) > 0 {
		if err := db.Omit(clause.Associations).Create(&ingredients).Error; err != nil {
			return err
		}
	}
	return nil
}

// DeleteRecipe removes the join rows explicitly before the recipe itself.
func (r *recipeRepository) DeleteRecipe(ctx context.Context, id uuid.UUID) error {
	db := r.db.WithContext(ctx)

	for _, model := range []any{
		&entities.IngredientRecipe{},
		&entities.TagsRecipe{},
		&entities.Favorite{},
		&entities.ShoppingCart{},
	} {
		if err := db.Where("recipe_id = ?", id).Delete(model).Error; err != nil {
			return err
		}
	}

	return db.Where("id = ?", id).Delete(&entities.Recipe{}).Error
}

func (r *recipeRepository) FindRecipe(ctx context.Context, id string) (*entities.Recipe, error) {
	var recipe entities.Recipe
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&recipe).Error; err != nil {
		return nil, err
	}
	return &recipe, nil
}

func (r *recipeRepository) withDetails(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Author").
		Preload("Tags.Tag").
		Preload("Ingredients.Ingredient")
}

func (r *recipeRepository) GetRecipeByID(ctx context.Context, id string) (*entities.Recipe, error) {
	var recipe entities.Recipe
	if err := r.withDetails(r.db.WithContext(ctx)).
		Where("recipes.id = ?", id).
		First(&recipe).Error; err != nil {
		return nil, err
	}
	return &recipe, nil
}

func (r *recipeRepository) filtered(ctx context.Context, filter domain.RecipeFilter, viewerID string) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&entities.Recipe{})

	if filter.AuthorID != "" {
		query = query.Where("recipes.author_id = ?", filter.AuthorID)
	}
	if len(filter.Tags) > 0 {
		tagged := r.db.Model(&entities.TagsRecipe{}).
			Select("tags_recipes.recipe_id").
			Joins("JOIN tags ON tags.id = tags_recipes.tag_id").
			Where("tags.slug IN ?", filter.Tags)
		query = query.Where("recipes.id IN (?)", tagged)
	}
	if filter.IsFavorited {
		favorited := r.db.Model(&entities.Favorite{}).
			Select("recipe_id").
			Where("user_id = ?", viewerID)
		query = query.Where("recipes.id IN (?)", favorited)
	}
	if filter.IsInShoppingCart {
		inCart := r.db.Model(&entities.ShoppingCart{}).
			Select("recipe_id").
			Where("user_id = ?", viewerID)
		query = query.Where("recipes.id IN (?)", inCart)
	}

	return query
}

func (r *recipeRepository) GetRecipes(
	ctx context.Context,
	filter domain.RecipeFilter,
	viewerID string,
	p domain.PaginationRequest,
) ([]*entities.Recipe, int64, error) {
	var recipes []*entities.Recipe
	var count int64

	if err := r.filtered(ctx, filter, viewerID).Count(&count).Error; err != nil {
		return nil, 0, err
	}

	if err := r.withDetails(r.filtered(ctx, filter, viewerID)).
		Offset(p.Offset()).
		Limit(p.Limit).
		Order("recipes.pub_date desc").
		Find(&recipes).Error; err != nil {
		return nil, 0, err
	}

	return recipes, count, nil
}

// GetRecipesByAuthors returns the newest recipes of each author, at most
// perAuthor per author; a negative perAuthor means no cap.
func (r *recipeRepository) GetRecipesByAuthors(ctx context.Context, authorIDs []string, perAuthor int) ([]*entities.Recipe, error) {
	var recipes []*entities.Recipe
	if len(authorIDs) == 0 || perAuthor == 0 {
		return recipes, nil
	}

	query := r.db.WithContext(ctx).Where("author_id IN ?", authorIDs)
	if perAuthor > 0 {
		ranked := r.db.Model(&entities.Recipe{}).
			Select("id, ROW_NUMBER() OVER (PARTITION BY author_id ORDER BY pub_date DESC, id) AS rn").
			Where("author_id IN ?", authorIDs)
		newest := r.db.Table("(?) AS ranked", ranked).
			Select("id").
			Where("rn <= ?", perAuthor)
		query = query.Where("id IN (?)", newest)
	}

	if err := query.
		Order("pub_date desc, id").
		Find(&recipes).Error; err != nil {
		return nil, err
	}
	return recipes, nil
}

func (r *recipeRepository) CountRecipesByAuthors(ctx context.Context, authorIDs []string) (map[string]int64, error) {
	result := make(map[string]int64, len(authorIDs))
	if len(authorIDs) == 0 {
		return result, nil
	}

	var rows []struct {
		AuthorID uuid.UUID
		Total    int64
	}
	if err := r.db.WithContext(ctx).
		Model(&entities.Recipe{}).
		Select("author_id, COUNT(*) AS total").
		Where("author_id IN ?", authorIDs).
		Group("author_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	for _, row := range rows {
		result[row.AuthorID.String()] = row.Total
	}
	return result, nil
}

func (r *recipeRepository) CountTags(ctx context.Context, ids []string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entities.Tag{}).Where("id IN ?", ids).Count(&count).Error
	return count, err
}

func (r *recipeRepository) CountIngredients(ctx context.Context, ids []string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entities.Ingredient{}).Where("id IN ?", ids).Count(&count).Error
	return count, err
}

func (r *recipeRepository) AddFavorite(ctx context.Context, favorite *entities.Favorite) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(favorite).Error
}

func (r *recipeRepository) RemoveFavorite(ctx context.Context, userID, recipeID string) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(&entities.Favorite{})
	return res.RowsAffected, res.Error
}

func (r *recipeRepository) IsFavorited(ctx context.Context, userID, recipeID string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&entities.Favorite{}).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *recipeRepository) GetFavoritedRecipeIDs(ctx context.Context, userID string, recipeIDs []string) (map[string]bool, error) {
	return r.markedRecipeIDs(ctx, &entities.Favorite{}, userID, recipeIDs)
}

func (r *recipeRepository) AddShoppingCart(ctx context.Context, cart *entities.ShoppingCart) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(cart).Error
}

func (r *recipeRepository) RemoveShoppingCart(ctx context.Context, userID, recipeID string) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(&entities.ShoppingCart{})
	return res.RowsAffected, res.Error
}

func (r *recipeRepository) IsInShoppingCart(ctx context.Context, userID, recipeID string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&entities.ShoppingCart{}).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *recipeRepository) GetShoppingCartRecipeIDs(ctx context.Context, userID string, recipeIDs []string) (map[string]bool, error) {
	return r.markedRecipeIDs(ctx, &entities.ShoppingCart{}, userID, recipeIDs)
}

func (r *recipeRepository) markedRecipeIDs(ctx context.Context, model any, userID string, recipeIDs []string) (map[string]bool, error) {
	result := make(map[string]bool, len(recipeIDs))
	if userID == "" || len(recipeIDs) == 0 {
		return result, nil
	}

	var ids []uuid.UUID
	if err := r.db.WithContext(ctx).
		Model(model).
		Where("user_id = ? AND recipe_id IN ?", userID, recipeIDs).
		Pluck("recipe_id", &ids).Error; err != nil {
		return nil, err
	}

	for _, id := range ids {
		result[id.String()] = true
	}
	return result, nil
}

// GetShoppingList sums ingredient amounts across every recipe in the user's cart.
func (r *recipeRepository) GetShoppingList(ctx context.Context, userID string) ([]domain.ShoppingListItem, error) {
	var items []domain.ShoppingListItem
	if err := r.db.WithContext(ctx).
		Table("ingredient_recipes").
		Select("ingredients.name AS name, ingredients.measurement_unit AS measurement_unit, SUM(ingredient_recipes.amount) AS amount").
		Joins("JOIN ingredients ON ingredients.id = ingredient_recipes.ingredient_id").
		Joins("JOIN shopping_carts ON shopping_carts.recipe_id = ingredient_recipes.recipe_id").
		Where("shopping_carts.user_id = ?", userID).
		Group("ingredients.name, ingredients.measurement_unit").
		Order("ingredients.name asc, ingredients.measurement_unit asc").
		Scan(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}
