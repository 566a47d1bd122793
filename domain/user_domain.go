package domain

var (
	MessageSuccessRegister      = "user registered successfully"
	MessageSuccessAlreadyExists = "user already registered"
	MessageSuccessGetUser       = "success get user"
	MessageSuccessGetUsers      = "success get users"

	MessageFailedRegister       = "failed to register user"
	MessageFailedGetUser        = "failed to get user"
	MessageFailedGetUsers       = "failed to get users"
	MessageFailedChangePassword = "failed to change password"

	ErrUserNotFound          = NotFound("user not found")
	ErrUsernameTaken         = Business("user with this username already exists")
	ErrEmailTaken            = Business("user with this email already exists")
	ErrWrongCurrentPassword  = Business("current password is incorrect")
	ErrPasswordTooShort      = Validation("password is too short")
	ErrPasswordNumeric       = Validation("password cannot be entirely numeric")
	ErrPasswordTooSimilar    = Validation("password is too similar to the username or email")
	ErrPasswordSameAsCurrent = Validation("new password must differ from the current password")
	ErrHashPasswordFailed    = &Error{Code: CodeInternal, Message: "failed to hash password"}
	ErrInvalidCredentials    = Business("unable to log in with provided credentials")
)

type (
	RegisterRequest struct {
		Email     string `json:"email" validate:"required,email,max=254"`
		Username  string `json:"username" validate:"required,max=150,username,notme"`
		Password  string `json:"password" validate:"required,max=128"`
		FirstName string `json:"first_name" validate:"required,max=150"`
		LastName  string `json:"last_name" validate:"required,max=150"`
	}

	RegisterResponse struct {
		ID        string `json:"id"`
		Email     string `json:"email"`
		Username  string `json:"username"`
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
	}

	SetPasswordRequest struct {
		CurrentPassword string `json:"current_password" validate:"required"`
		NewPassword     string `json:"new_password" validate:"required,max=128"`
	}

	UserResponse struct {
		ID           string `json:"id"`
		Email        string `json:"email"`
		Username     string `json:"username"`
		FirstName    string `json:"first_name"`
		LastName     string `json:"last_name"`
		IsSubscribed bool   `json:"is_subscribed"`
	}
)
