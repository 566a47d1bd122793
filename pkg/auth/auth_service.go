package auth

import (
	"context"
	"errors"
	"time"

	"foodgram/domain"
	"foodgram/entities"
	"foodgram/pkg/jwt"
	"foodgram/pkg/user"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type (
	AuthService interface {
		Login(ctx context.Context, req domain.LoginRequest) (domain.LoginResponse, error)
		Logout(ctx context.Context, claims jwt.UserClaims) error
		IsTokenRevoked(ctx context.Context, tokenID string) (bool, error)
		CheckSession(ctx context.Context, claims jwt.UserClaims) error
	}

	authService struct {
		authRepository AuthRepository
		userRepository user.UserRepository
		jwtService     jwt.JWTService
		logger         *logrus.Logger
	}
)

func NewAuthService(
	authRepository AuthRepository,
	userRepository user.UserRepository,
	jwtService jwt.JWTService,
	logger *logrus.Logger,
) AuthService {
	return &authService{
		authRepository: authRepository,
		userRepository: userRepository,
		jwtService:     jwtService,
		logger:         logger,
	}
}

func (s *authService) Login(ctx context.Context, req domain.LoginRequest) (domain.LoginResponse, error) {
	u, err := s.userRepository.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.LoginResponse{}, domain.ErrInvalidCredentials
		}
		return domain.LoginResponse{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(req.Password)); err != nil {
		return domain.LoginResponse{}, domain.ErrInvalidCredentials
	}

	token, err := s.jwtService.GenerateTokenUser(u.ID.String(), u.Role)
	if err != nil {
		return domain.LoginResponse{}, err
	}

	return domain.LoginResponse{AuthToken: token}, nil
}

func (s *authService) Logout(ctx context.Context, claims jwt.UserClaims) error {
	tokenID, err := uuid.Parse(claims.TokenID)
	if err != nil {
		return domain.ErrTokenInvalid
	}
	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return domain.ErrTokenInvalid
	}

	err = s.authRepository.RevokeToken(ctx, &entities.RevokedToken{
		ID:        tokenID,
		UserID:    userID,
		ExpiresAt: claims.ExpiresAt,
	})
	if err != nil && !errors.Is(err, gorm.ErrDuplicatedKey) {
		return err
	}

	if err := s.authRepository.DeleteExpiredTokens(ctx, time.Now()); err != nil {
		s.logger.WithError(err).Warn("failed to purge expired revoked tokens")
	}
	return nil
}

func (s *authService) IsTokenRevoked(ctx context.Context, tokenID string) (bool, error) {
	return s.authRepository.IsTokenRevoked(ctx, tokenID)
}

// CheckSession rejects revoked tokens and tokens whose user no longer exists.
func (s *authService) CheckSession(ctx context.Context, claims jwt.UserClaims) error {
	revoked, err := s.authRepository.IsTokenRevoked(ctx, claims.TokenID)
	if err != nil {
		return err
	}
	if revoked {
		return domain.ErrTokenRevoked
	}

	if _, err := uuid.Parse(claims.UserID); err != nil {
		return domain.ErrTokenInvalid
	}
	if _, err := s.userRepository.GetUserByID(ctx, claims.UserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrTokenInvalid
		}
		return err
	}
	return nil
}
