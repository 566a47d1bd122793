package domain

const (
	RoleUser  = "user"
	RoleAdmin = "admin"

	DefaultPageLimit = 6
	MaxPageLimit     = 100
)

var (
	MessageFailedBodyRequest  = "failed to parse request body"
	MessageFailedQueryParams  = "invalid query parameters"
	MessageUserNotAllowed     = "user not allowed"
	MessageFailedGetToken     = "failed to get token"
	MessageFailedTokenInvalid = "failed to token invalid"
	MessageInternalError      = "internal server error"

	ErrParseUUID       = Validation("failed to parse UUID")
	ErrInvalidPage     = Validation("page must be a positive integer")
	ErrInvalidLimit    = Validation("limit must be a positive integer")
	ErrInvalidBoolean  = Validation("boolean filter must be one of 1, 0, true, false")
	ErrAdminOnly       = Forbidden("only administrators can perform this action")
	ErrTokenNotFound   = Unauthorized("authentication credentials were not provided")
	ErrTokenExpired    = Unauthorized("token expired")
	ErrTokenInvalid    = Unauthorized("token invalid")
	ErrTokenRevoked    = Unauthorized("token revoked")
	ErrInvalidImage    = Validation("image must be a base64 data URI of a jpeg, png, gif or webp picture")
	ErrImageTooLarge   = Validation("image is too large")
	ErrStorageNotReady = &Error{Code: CodeInternal, Message: "image storage is not configured"}
)

type (
	PaginationRequest struct {
		Page  int
		Limit int
	}

	PaginationResponse struct {
		Page       int   `json:"page"`
		Limit      int   `json:"limit"`
		Total      int64 `json:"total"`
		TotalPages int64 `json:"total_pages"`
	}

	PaginatedResponse[T any] struct {
		Items      []T                `json:"items"`
		Pagination PaginationResponse `json:"pagination"`
	}
)

func (p PaginationRequest) Offset() int {
	return (p.Page - 1) * p.Limit
}

func NewPaginatedResponse[T any](items []T, p PaginationRequest, total int64) PaginatedResponse[T] {
	if items == nil {
		items = []T{}
	}
	return PaginatedResponse[T]{
		Items: items,
		Pagination: PaginationResponse{
			Page:       p.Page,
			Limit:      p.Limit,
			Total:      total,
			TotalPages: (total + int64(p.Limit) - 1) / int64(p.Limit),
		},
	}
}
