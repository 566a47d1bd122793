package recipe

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"foodgram/domain"
	"foodgram/entities"
	"foodgram/internal/metrics"
	"foodgram/internal/utils"
	"foodgram/internal/utils/storage"
	"foodgram/pkg/tag"
	"foodgram/pkg/user"

	"github.com/google/uuid"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const imagePrefix = "recipes/images/"

type (
	RecipeService interface {
		CreateRecipe(ctx context.Context, req domain.CreateRecipeRequest, userID string) (domain.RecipeResponse, error)
		UpdateRecipe(ctx context.Context, id string, req domain.UpdateRecipeRequest, userID, role string) (domain.RecipeResponse, error)
		DeleteRecipe(ctx context.Context, id string, userID, role string) error
		GetRecipeByID(ctx context.Context, id string, viewerID string) (domain.RecipeResponse, error)
		GetRecipes(ctx context.Context, filter domain.RecipeFilter, p domain.PaginationRequest, viewerID string) ([]domain.RecipeResponse, int64, error)

		AddFavorite(ctx context.Context, id string, userID string) (domain.RecipeShortResponse, error)
		RemoveFavorite(ctx context.Context, id string, userID string) error
		AddToShoppingCart(ctx context.Context, id string, userID string) (domain.RecipeShortResponse, error)
		RemoveFromShoppingCart(ctx context.Context, id string, userID string) error
		DownloadShoppingCart(ctx context.Context, userID string) ([]byte, error)
	}

	recipeService struct {
		recipeRepository RecipeRepository
		userRepository   user.UserRepository
		storage          storage.FileStorage
		metrics          *metrics.Metrics
		logger           *logrus.Logger
	}
)

func NewRecipeService(
	recipeRepository RecipeRepository,
	userRepository user.UserRepository,
	storage storage.FileStorage,
	metrics *metrics.Metrics,
	logger *logrus.Logger,
) RecipeService {
	return &recipeService{
		recipeRepository: recipeRepository,
		userRepository:   userRepository,
		storage:          storage,
		metrics:          metrics,
		logger:           logger,
	}
}

func (s *recipeService) findRecipe(ctx context.Context, id string) (*entities.Recipe, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrRecipeNotFound
	}

	recipe, err := s.recipeRepository.FindRecipe(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrRecipeNotFound
		}
		return nil, err
	}
	return recipe, nil
}

// checkRelations makes sure every referenced tag and ingredient exists.
func (s *recipeService) checkRelations(ctx context.Context, tags []entities.TagsRecipe, ingredients []entities.IngredientRecipe) error {
	tagIDs := make([]string, 0, len(tags))
	for _, t := range tags {
		tagIDs = append(tagIDs, t.TagID.String())
	}
	count, err := s.recipeRepository.CountTags(ctx, tagIDs)
	if err != nil {
		return err
	}
	if count != int64(len(tagIDs)) {
		return domain.ErrUnknownTag
	}

	ingredientIDs := make([]string, 0, len(ingredients))
	for _, i := range ingredients {
		ingredientIDs = append(ingredientIDs, i.IngredientID.String())
	}
	count, err = s.recipeRepository.CountIngredients(ctx, ingredientIDs)
	if err != nil {
		return err
	}
	if count != int64(len(ingredientIDs)) {
		return domain.ErrUnknownIngredient
	}
	return nil
}

func buildRelations(recipeID uuid.UUID, tags []string, ingredients []domain.RecipeIngredientRequest) ([]entities.TagsRecipe, []entities.IngredientRecipe, error) {
	tagRows := make([]entities.TagsRecipe, 0, len(tags))
	for _, t := range tags {
		tagID, err := uuid.Parse(t)
		if err != nil {
			return nil, nil, domain.ErrUnknownTag
		}
		tagRows = append(tagRows, entities.TagsRecipe{RecipeID: recipeID, TagID: tagID})
	}

	ingredientRows := make([]entities.IngredientRecipe, 0, len(ingredients))
	for _, i := range ingredients {
		ingredientID, err := uuid.Parse(i.ID)
		if err != nil {
			return nil, nil, domain.ErrUnknownIngredient
		}
		ingredientRows = append(ingredientRows, entities.IngredientRecipe{
			RecipeID:     recipeID,
			IngredientID: ingredientID,
			Amount:       i.Amount,
		})
	}
	return tagRows, ingredientRows, nil
}

func (s *recipeService) uploadImage(ctx context.Context, dataURI string) (string, error) {
	if s.storage == nil {
		return "", domain.ErrStorageNotReady
	}

	img, err := utils.DecodeImageDataURI(dataURI)
	if err != nil {
		return "", err
	}

	name, err := gonanoid.New()
	if err != nil {
		return "", err
	}
	return s.storage.UploadFile(ctx, imagePrefix+name+img.Extension, img.Data, img.ContentType)
}

func (s *recipeService) removeImage(ctx context.Context, key string) {
	if s.storage == nil || key == "" {
		return
	}
	if err := s.storage.DeleteFile(ctx, key); err != nil {
		s.logger.WithError(err).WithField("key", key).Warn("failed to delete recipe image")
	}
}

func (s *recipeService) CreateRecipe(ctx context.Context, req domain.CreateRecipeRequest, userID string) (domain.RecipeResponse, error) {
	authorID, err := uuid.Parse(userID)
	if err != nil {
		return domain.RecipeResponse{}, domain.ErrParseUUID
	}

	recipe := &entities.Recipe{
		ID:          uuid.New(),
		AuthorID:    authorID,
		Name:        strings.TrimSpace(req.Name),
		Text:        req.Text,
		CookingTime: req.CookingTime,
	}
	tagRows, ingredientRows, err := buildRelations(recipe.ID, req.Tags, req.Ingredients)
	if err != nil {
		return domain.RecipeResponse{}, err
	}
	if err := s.checkRelations(ctx, tagRows, ingredientRows); err != nil {
		return domain.RecipeResponse{}, err
	}

	recipe.Image, err = s.uploadImage(ctx, req.Image)
	if err != nil {
		return domain.RecipeResponse{}, err
	}

	err = s.recipeRepository.Transaction(ctx, func(repo RecipeRepository) error {
		if err := repo.CreateRecipe(ctx, recipe); err != nil {
			return err
		}
		return repo.ReplaceRecipeRelations(ctx, recipe.ID, tagRows, ingredientRows)
	})
	if err != nil {
		s.removeImage(ctx, recipe.Image)
		return domain.RecipeResponse{}, err
	}

	s.metrics.IncRecipeCreated()
	return s.GetRecipeByID(ctx, recipe.ID.String(), userID)
}

func canModify(recipe *entities.Recipe, userID, role string) bool {
	return role == domain.RoleAdmin || recipe.AuthorID.String() == userID
}

func (s *recipeService) UpdateRecipe(ctx context.Context, id string, req domain.UpdateRecipeRequest, userID, role string) (domain.RecipeResponse, error) {
	recipe, err := s.findRecipe(ctx, id)
	if err != nil {
		return domain.RecipeResponse{}, err
	}
	if !canModify(recipe, userID, role) {
		return domain.RecipeResponse{}, domain.ErrUnauthorizedRecipeAccess
	}
	tagRows, ingredientRows, err := buildRelations(recipe.ID, req.Tags, req.Ingredients)
	if err != nil {
		return domain.RecipeResponse{}, err
	}
	if err := s.checkRelations(ctx, tagRows, ingredientRows); err != nil {
		return domain.RecipeResponse{}, err
	}

	oldImage := recipe.Image
	newImage := ""
	if req.Image != "" && !s.isCurrentImage(recipe, req.Image) {
		if !strings.HasPrefix(req.Image, "data:") {
			return domain.RecipeResponse{}, domain.ErrInvalidImage
		}
		newImage, err = s.uploadImage(ctx, req.Image)
		if err != nil {
			return domain.RecipeResponse{}, err
		}
		recipe.Image = newImage
	}

	recipe.Name = strings.TrimSpace(req.Name)
	recipe.Text = req.Text
	recipe.CookingTime = req.CookingTime

	err = s.recipeRepository.Transaction(ctx, func(repo RecipeRepository) error {
		if err := repo.UpdateRecipe(ctx, recipe); err != nil {
			return err
		}
		return repo.ReplaceRecipeRelations(ctx, recipe.ID, tagRows, ingredientRows)
	})
	if err != nil {
		s.removeImage(ctx, newImage)
		return domain.RecipeResponse{}, err
	}

	if newImage != "" {
		s.removeImage(ctx, oldImage)
	}
	return s.GetRecipeByID(ctx, recipe.ID.String(), userID)
}

func (s *recipeService) isCurrentImage(recipe *entities.Recipe, image string) bool {
	if s.storage == nil {
		return false
	}
	return image == recipe.Image || s.storage.GetObjectKeyFromLink(image) == recipe.Image
}

func (s *recipeService) DeleteRecipe(ctx context.Context, id string, userID, role string) error {
	recipe, err := s.findRecipe(ctx, id)
	if err != nil {
		return err
	}
	if !canModify(recipe, userID, role) {
		return domain.ErrUnauthorizedRecipeAccess
	}

	if err := s.recipeRepository.Transaction(ctx, func(repo RecipeRepository) error {
		return repo.DeleteRecipe(ctx, recipe.ID)
	}); err != nil {
		return err
	}

	s.removeImage(ctx, recipe.Image)
	return nil
}

func (s *recipeService) GetRecipeByID(ctx context.Context, id string, viewerID string) (domain.RecipeResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return domain.RecipeResponse{}, domain.ErrRecipeNotFound
	}

	recipe, err := s.recipeRepository.GetRecipeByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.RecipeResponse{}, domain.ErrRecipeNotFound
		}
		return domain.RecipeResponse{}, err
	}

	res, err := s.toRecipeResponses(ctx, []*entities.Recipe{recipe}, viewerID)
	if err != nil {
		return domain.RecipeResponse{}, err
	}
	return res[0], nil
}

func (s *recipeService) GetRecipes(
	ctx context.Context,
	filter domain.RecipeFilter,
	p domain.PaginationRequest,
	viewerID string,
) ([]domain.RecipeResponse, int64, error) {
	if filter.AuthorID != "" {
		if _, err := uuid.Parse(filter.AuthorID); err != nil {
			return nil, 0, domain.ErrInvalidAuthorFilter
		}
	}
	// the anonymous user has no favorites and no cart
	if viewerID == "" && (filter.IsFavorited || filter.IsInShoppingCart) {
		return []domain.RecipeResponse{}, 0, nil
	}

	recipes, count, err := s.recipeRepository.GetRecipes(ctx, filter, viewerID, p)
	if err != nil {
		return nil, 0, err
	}

	res, err := s.toRecipeResponses(ctx, recipes, viewerID)
	if err != nil {
		return nil, 0, err
	}
	return res, count, nil
}

func (s *recipeService) toRecipeResponses(ctx context.Context, recipes []*entities.Recipe, viewerID string) ([]domain.RecipeResponse, error) {
	recipeIDs := make([]string, 0, len(recipes))
	authorIDs := make([]string, 0, len(recipes))
	for _, r := range recipes {
		recipeIDs = append(recipeIDs, r.ID.String())
		authorIDs = append(authorIDs, r.AuthorID.String())
	}

	favorited, err := s.recipeRepository.GetFavoritedRecipeIDs(ctx, viewerID, recipeIDs)
	if err != nil {
		return nil, err
	}
	inCart, err := s.recipeRepository.GetShoppingCartRecipeIDs(ctx, viewerID, recipeIDs)
	if err != nil {
		return nil, err
	}
	subscribed, err := s.userRepository.GetSubscribedAuthorIDs(ctx, viewerID, authorIDs)
	if err != nil {
		return nil, err
	}

	result := make([]domain.RecipeResponse, 0, len(recipes))
	for _, r := range recipes {
		res := domain.RecipeResponse{
			ID:               r.ID.String(),
			Tags:             make([]domain.TagResponse, 0, len(r.Tags)),
			Ingredients:      make([]domain.RecipeIngredientResponse, 0, len(r.Ingredients)),
			IsFavorited:      favorited[r.ID.String()],
			IsInShoppingCart: inCart[r.ID.String()],
			Name:             r.Name,
			Image:            s.imageURL(r.Image),
			Text:             r.Text,
			CookingTime:      r.CookingTime,
			PubDate:          r.PubDate,
		}
		if r.Author != nil {
			res.Author = user.ToUserResponse(r.Author, subscribed[r.AuthorID.String()])
		}
		for _, t := range r.Tags {
			if t.Tag != nil {
				res.Tags = append(res.Tags, tag.ToTagResponse(t.Tag))
			}
		}
		for _, i := range r.Ingredients {
			if i.Ingredient == nil {
				continue
			}
			res.Ingredients = append(res.Ingredients, domain.RecipeIngredientResponse{
				ID:              i.Ingredient.ID.String(),
				Name:            i.Ingredient.Name,
				MeasurementUnit: i.Ingredient.MeasurementUnit,
				Amount:          i.Amount,
			})
		}

		slices.SortFunc(res.Tags, func(a, b domain.TagResponse) int {
			return strings.Compare(a.Name, b.Name)
		})
		slices.SortFunc(res.Ingredients, func(a, b domain.RecipeIngredientResponse) int {
			return strings.Compare(a.Name, b.Name)
		})

		result = append(result, res)
	}
	return result, nil
}

func (s *recipeService) imageURL(key string) string {
	if s.storage == nil || key == "" {
		return key
	}
	return s.storage.GetPublicLinkKey(key)
}

// ToShortResponse renders {id, name, image, cooking_time} with an absolute image link.
func ToShortResponse(r *entities.Recipe, fs storage.FileStorage) domain.RecipeShortResponse {
	image := r.Image
	if fs != nil && image != "" {
		image = fs.GetPublicLinkKey(image)
	}
	return domain.RecipeShortResponse{
		ID:          r.ID.String(),
		Name:        r.Name,
		Image:       image,
		CookingTime: r.CookingTime,
	}
}

func (s *recipeService) AddFavorite(ctx context.Context, id string, userID string) (domain.RecipeShortResponse, error) {
	recipe, err := s.findRecipe(ctx, id)
	if err != nil {
		return domain.RecipeShortResponse{}, err
	}

	exists, err := s.recipeRepository.IsFavorited(ctx, userID, recipe.ID.String())
	if err != nil {
		return domain.RecipeShortResponse{}, err
	}
	if exists {
		return domain.RecipeShortResponse{}, domain.ErrAlreadyFavorited
	}

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return domain.RecipeShortResponse{}, domain.ErrParseUUID
	}
	if err := s.recipeRepository.AddFavorite(ctx, &entities.Favorite{UserID: userUUID, RecipeID: recipe.ID}); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.RecipeShortResponse{}, domain.ErrAlreadyFavorited
		}
		return domain.RecipeShortResponse{}, err
	}

	s.metrics.IncFavorite("add")
	return ToShortResponse(recipe, s.storage), nil
}

func (s *recipeService) RemoveFavorite(ctx context.Context, id string, userID string) error {
	recipe, err := s.findRecipe(ctx, id)
	if err != nil {
		return err
	}

	affected, err := s.recipeRepository.RemoveFavorite(ctx, userID, recipe.ID.String())
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrNotFavorited
	}

	s.metrics.IncFavorite("remove")
	return nil
}

func (s *recipeService) AddToShoppingCart(ctx context.Context, id string, userID string) (domain.RecipeShortResponse, error) {
	recipe, err := s.findRecipe(ctx, id)
	if err != nil {
		return domain.RecipeShortResponse{}, err
	}

	exists, err := s.recipeRepository.IsInShoppingCart(ctx, userID, recipe.ID.String())
	if err != nil {
		return domain.RecipeShortResponse{}, err
	}
	if exists {
		return domain.RecipeShortResponse{}, domain.ErrAlreadyInShoppingCart
	}

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return domain.RecipeShortResponse{}, domain.ErrParseUUID
	}
	if err := s.recipeRepository.AddShoppingCart(ctx, &entities.ShoppingCart{UserID: userUUID, RecipeID: recipe.ID}); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.RecipeShortResponse{}, domain.ErrAlreadyInShoppingCart
		}
		return domain.RecipeShortResponse{}, err
	}

	s.metrics.IncShoppingCart("add")
	return ToShortResponse(recipe, s.storage), nil
}

func (s *recipeService) RemoveFromShoppingCart(ctx context.Context, id string, userID string) error {
	recipe, err := s.findRecipe(ctx, id)
	if err != nil {
		return err
	}

	affected, err := s.recipeRepository.RemoveShoppingCart(ctx, userID, recipe.ID.String())
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrNotInShoppingCart
	}

	s.metrics.IncShoppingCart("remove")
	return nil
}

func (s *recipeService) DownloadShoppingCart(ctx context.Context, userID string) ([]byte, error) {
	items, err := s.recipeRepository.GetShoppingList(ctx, userID)
	if err != nil {
		return nil, err
	}
	return RenderShoppingList(items), nil
}

// RenderShoppingList writes one "{name} - {amount} {unit}" line per item.
func RenderShoppingList(items []domain.ShoppingListItem) []byte {
	var b strings.Builder
	for _, item := range items {
		fmt.Fprintf(&b, "%s - %d %s\n", item.Name, item.Amount, item.MeasurementUnit)
	}
	return []byte(b.String())
}
