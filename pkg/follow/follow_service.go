package follow

import (
	"context"
	"errors"

	"foodgram/domain"
	"foodgram/entities"
	"foodgram/internal/metrics"
	"foodgram/internal/utils/storage"
	"foodgram/pkg/recipe"
	"foodgram/pkg/user"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NoRecipesLimit disables the per-author recipe cap.
const NoRecipesLimit = -1

type (
	FollowService interface {
		Subscribe(ctx context.Context, userID, authorID string, recipesLimit int) (domain.SubscriptionResponse, error)
		Unsubscribe(ctx context.Context, userID, authorID string) error
		GetSubscriptions(ctx context.Context, userID string, p domain.PaginationRequest, recipesLimit int) ([]domain.SubscriptionResponse, int64, error)
	}

	followService struct {
		followRepository FollowRepository
		userRepository   user.UserRepository
		recipeRepository recipe.RecipeRepository
		storage          storage.FileStorage
		metrics          *metrics.Metrics
	}
)

func NewFollowService(
	followRepository FollowRepository,
	userRepository user.UserRepository,
	recipeRepository recipe.RecipeRepository,
	storage storage.FileStorage,
	metrics *metrics.Metrics,
) FollowService {
	return &followService{
		followRepository: followRepository,
		userRepository:   userRepository,
		recipeRepository: recipeRepository,
		storage:          storage,
		metrics:          metrics,
	}
}

func (s *followService) getAuthor(ctx context.Context, authorID string) (*entities.User, error) {
	if _, err := uuid.Parse(authorID); err != nil {
		return nil, domain.ErrUserNotFound
	}
	author, err := s.userRepository.GetUserByID(ctx, authorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return author, nil
}

func (s *followService) Subscribe(ctx context.Context, userID, authorID string, recipesLimit int) (domain.SubscriptionResponse, error) {
	author, err := s.getAuthor(ctx, authorID)
	if err != nil {
		return domain.SubscriptionResponse{}, err
	}
	if author.ID.String() == userID {
		return domain.SubscriptionResponse{}, domain.ErrSelfSubscribe
	}

	following, err := s.followRepository.IsFollowing(ctx, userID, author.ID.String())
	if err != nil {
		return domain.SubscriptionResponse{}, err
	}
	if following {
		return domain.SubscriptionResponse{}, domain.ErrAlreadySubscribed
	}

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return domain.SubscriptionResponse{}, domain.ErrParseUUID
	}
	if err := s.followRepository.CreateFollow(ctx, &entities.Follow{UserID: userUUID, AuthorID: author.ID}); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.SubscriptionResponse{}, domain.ErrAlreadySubscribed
		}
		return domain.SubscriptionResponse{}, err
	}
	s.metrics.IncFollow()

	res, err := s.toSubscriptions(ctx, []*entities.User{author}, recipesLimit)
	if err != nil {
		return domain.SubscriptionResponse{}, err
	}
	return res[0], nil
}

func (s *followService) Unsubscribe(ctx context.Context, userID, authorID string) error {
	author, err := s.getAuthor(ctx, authorID)
	if err != nil {
		return err
	}

	affected, err := s.followRepository.DeleteFollow(ctx, userID, author.ID.String())
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrNotSubscribed
	}

	s.metrics.IncUnfollow()
	return nil
}

func (s *followService) GetSubscriptions(
	ctx context.Context,
	userID string,
	p domain.PaginationRequest,
	recipesLimit int,
) ([]domain.SubscriptionResponse, int64, error) {
	authors, count, err := s.followRepository.GetFollowedAuthors(ctx, userID, p)
	if err != nil {
		return nil, 0, err
	}

	res, err := s.toSubscriptions(ctx, authors, recipesLimit)
	if err != nil {
		return nil, 0, err
	}
	return res, count, nil
}

// toSubscriptions renders followed authors; is_subscribed is always true here.
func (s *followService) toSubscriptions(ctx context.Context, authors []*entities.User, recipesLimit int) ([]domain.SubscriptionResponse, error) {
	authorIDs := make([]string, 0, len(authors))
	for _, a := range authors {
		authorIDs = append(authorIDs, a.ID.String())
	}

	recipes, err := s.recipeRepository.GetRecipesByAuthors(ctx, authorIDs, recipesLimit)
	if err != nil {
		return nil, err
	}
	counts, err := s.recipeRepository.CountRecipesByAuthors(ctx, authorIDs)
	if err != nil {
		return nil, err
	}

	byAuthor := make(map[string][]domain.RecipeShortResponse, len(authors))
	for _, r := range recipes {
		key := r.AuthorID.String()
		byAuthor[key] = append(byAuthor[key], recipe.ToShortResponse(r, s.storage))
	}

	result := make([]domain.SubscriptionResponse, 0, len(authors))
	for _, a := range authors {
		short := byAuthor[a.ID.String()]
		if short == nil {
			short = []domain.RecipeShortResponse{}
		}
		result = append(result, domain.SubscriptionResponse{
			UserResponse: user.ToUserResponse(a, true),
			Recipes:      short,
			RecipesCount: counts[a.ID.String()],
		})
	}
	return result, nil
}
