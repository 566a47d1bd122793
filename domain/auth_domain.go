package domain

var (
	MessageSuccessLogin = "login success"

	MessageFailedLogin  = "failed to login"
	MessageFailedLogout = "failed to logout"
)

type (
	LoginRequest struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}

	LoginResponse struct {
		AuthToken string `json:"auth_token"`
	}
)
