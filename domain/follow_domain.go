package domain

var (
	MessageSuccessSubscribe        = "subscribed successfully"
	MessageSuccessGetSubscriptions = "success get subscriptions"

	MessageFailedSubscribe        = "failed to subscribe"
	MessageFailedUnsubscribe      = "failed to unsubscribe"
	MessageFailedGetSubscriptions = "failed to get subscriptions"

	ErrSelfSubscribe       = Business("you cannot subscribe to yourself")
	ErrAlreadySubscribed   = Business("already subscribed to this author")
	ErrNotSubscribed       = Business("not subscribed to this author")
	ErrInvalidRecipesLimit = Validation("recipes_limit must be a non-negative integer")
)

type SubscriptionResponse struct {
	UserResponse
	Recipes      []RecipeShortResponse `json:"recipes"`
	RecipesCount int64                 `json:"recipes_count"`
}
