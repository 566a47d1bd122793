package domain

import (
	"time"
)

var (
	MessageSuccessGetRecipes      = "success get recipes"
	MessageSuccessGetRecipeDetail = "success get recipe detail"
	MessageSuccessCreateRecipe    = "recipe created successfully"
	MessageSuccessUpdateRecipe    = "recipe updated successfully"
	MessageSuccessAddFavorite     = "recipe added to favorites"
	MessageSuccessAddShoppingCart = "recipe added to shopping cart"

	MessageFailedGetRecipes           = "failed to get recipes"
	MessageFailedGetRecipeDetail      = "failed to get recipe detail"
	MessageFailedCreateRecipe         = "failed to create recipe"
	MessageFailedUpdateRecipe         = "failed to update recipe"
	MessageFailedDeleteRecipe         = "failed to delete recipe"
	MessageFailedAddFavorite          = "failed to add recipe to favorites"
	MessageFailedRemoveFavorite       = "failed to remove recipe from favorites"
	MessageFailedAddShoppingCart      = "failed to add recipe to shopping cart"
	MessageFailedRemoveShoppingCart   = "failed to remove recipe from shopping cart"
	MessageFailedDownloadShoppingCart = "failed to download shopping cart"

	ErrRecipeNotFound           = NotFound("recipe not found")
	ErrUnauthorizedRecipeAccess = Forbidden("only the author or an administrator can modify this recipe")
	ErrAlreadyFavorited         = Business("recipe already in favorites")
	ErrNotFavorited             = Business("recipe not in favorites")
	ErrAlreadyInShoppingCart    = Business("recipe already in shopping cart")
	ErrNotInShoppingCart        = Business("recipe not in shopping cart")
	ErrUnknownTag               = Validation("tag does not exist")
	ErrUnknownIngredient        = Validation("ingredient does not exist")
	ErrInvalidAuthorFilter      = Validation("author must be a valid user id")
)

const ShoppingCartFileName = "shopping_cart.txt"

type (
	RecipeIngredientRequest struct {
		ID     string `json:"id" validate:"required,uuid"`
		Amount int    `json:"amount" validate:"required,gte=1,lte=32767"`
	}

	CreateRecipeRequest struct {
		Ingredients []RecipeIngredientRequest `json:"ingredients" validate:"required,min=1,unique=ID,dive"`
		Tags        []string                  `json:"tags" validate:"required,min=1,unique,dive,uuid"`
		Image       string                    `json:"image" validate:"required,imagedatauri"`
		Name        string                    `json:"name" validate:"required,max=200"`
		Text        string                    `json:"text" validate:"required"`
		CookingTime int                       `json:"cooking_time" validate:"required,gte=1,lte=32767"`
	}

	// UpdateRecipeRequest.Image is either a new data URI or the current image URL, which keeps it.
	UpdateRecipeRequest struct {
		Ingredients []RecipeIngredientRequest `json:"ingredients" validate:"required,min=1,unique=ID,dive"`
		Tags        []string                  `json:"tags" validate:"required,min=1,unique,dive,uuid"`
		Image       string                    `json:"image" validate:"omitempty,max=7000000"`
		Name        string                    `json:"name" validate:"required,max=200"`
		Text        string                    `json:"text" validate:"required"`
		CookingTime int                       `json:"cooking_time" validate:"required,gte=1,lte=32767"`
	}

	RecipeFilter struct {
		AuthorID         string
		Tags             []string
		IsFavorited      bool
		IsInShoppingCart bool
	}

	RecipeIngredientResponse struct {
		ID              string `json:"id"`
		Name            string `json:"name"`
		MeasurementUnit string `json:"measurement_unit"`
		Amount          int    `json:"amount"`
	}

	RecipeResponse struct {
		ID               string                     `json:"id"`
		Tags             []TagResponse              `json:"tags"`
		Author           UserResponse               `json:"author"`
		Ingredients      []RecipeIngredientResponse `json:"ingredients"`
		IsFavorited      bool                       `json:"is_favorited"`
		IsInShoppingCart bool                       `json:"is_in_shopping_cart"`
		Name             string                     `json:"name"`
		Image            string                     `json:"image"`
		Text             string                     `json:"text"`
		CookingTime      int                        `json:"cooking_time"`
		PubDate          time.Time                  `json:"pub_date"`
	}

	RecipeShortResponse struct {
		ID          string `json:"id"`
		Name        string `json:"name"`
		Image       string `json:"image"`
		CookingTime int    `json:"cooking_time"`
	}

	ShoppingListItem struct {
		Name            string
		MeasurementUnit string
		Amount          int64
	}
)
