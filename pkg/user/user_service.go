package user

import (
	"context"
	"errors"
	"strings"

	"foodgram/domain"
	"foodgram/entities"
	"foodgram/internal/metrics"
	"foodgram/internal/utils"
	"foodgram/internal/utils/mailing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type (
	UserService interface {
		Register(ctx context.Context, req domain.RegisterRequest) (domain.RegisterResponse, bool, error)
		GetMe(ctx context.Context, userID string) (domain.UserResponse, error)
		GetUserByID(ctx context.Context, id string, viewerID string) (domain.UserResponse, error)
		GetUsers(ctx context.Context, p domain.PaginationRequest, viewerID string) ([]domain.UserResponse, int64, error)
		SetPassword(ctx context.Context, userID string, req domain.SetPasswordRequest) error
	}

	userService struct {
		userRepository UserRepository
		mailer         mailing.Mailer
		metrics        *metrics.Metrics
		logger         *logrus.Logger
		policy         PasswordPolicy
		hashCost       int
	}
)

func NewUserService(
	userRepository UserRepository,
	mailer mailing.Mailer,
	metrics *metrics.Metrics,
	logger *logrus.Logger,
	policy PasswordPolicy,
) UserService {
	return &userService{
		userRepository: userRepository,
		mailer:         mailer,
		metrics:        metrics,
		logger:         logger,
		policy:         policy,
		hashCost:       bcrypt.DefaultCost,
	}
}

// normalizeEmail lowercases the domain part only.
func normalizeEmail(email string) string {
	email = strings.TrimSpace(email)
	local, host, ok := strings.Cut(email, "@")
	if !ok {
		return email
	}
	return local + "@" + strings.ToLower(host)
}

func (s *userService) lookup(ctx context.Context, find func() (*entities.User, error)) (*entities.User, error) {
	user, err := find()
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return user, err
}

func (s *userService) Register(ctx context.Context, req domain.RegisterRequest) (domain.RegisterResponse, bool, error) {
	req.Email = normalizeEmail(req.Email)

	byUsername, err := s.lookup(ctx, func() (*entities.User, error) {
		return s.userRepository.GetUserByUsername(ctx, req.Username)
	})
	if err != nil {
		return domain.RegisterResponse{}, false, err
	}
	byEmail, err := s.lookup(ctx, func() (*entities.User, error) {
		return s.userRepository.GetUserByEmail(ctx, req.Email)
	})
	if err != nil {
		return domain.RegisterResponse{}, false, err
	}

	switch {
	case byUsername != nil && byEmail != nil && byUsername.ID == byEmail.ID:
		return toRegisterResponse(byUsername), false, nil
	case byUsername != nil:
		return domain.RegisterResponse{}, false, domain.ErrUsernameTaken
	case byEmail != nil:
		return domain.RegisterResponse{}, false, domain.ErrEmailTaken
	}

	if err := s.policy.Validate(req.Password, req.Username, req.Email); err != nil {
		return domain.RegisterResponse{}, false, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.hashCost)
	if err != nil {
		return domain.RegisterResponse{}, false, domain.ErrHashPasswordFailed.WithCause(err)
	}

	user := &entities.User{
		ID:        uuid.New(),
		Email:     req.Email,
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  string(hash),
		Role:      domain.RoleUser,
	}
	if err := s.userRepository.CreateUser(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// lost a race with a concurrent registration
			if taken, _ := s.lookup(ctx, func() (*entities.User, error) {
				return s.userRepository.GetUserByUsername(ctx, req.Username)
			}); taken != nil {
				return domain.RegisterResponse{}, false, domain.ErrUsernameTaken
			}
			return domain.RegisterResponse{}, false, domain.ErrEmailTaken
		}
		return domain.RegisterResponse{}, false, err
	}

	s.metrics.IncRegistration()
	s.sendWelcomeMail(user)

	return toRegisterResponse(user), true, nil
}

func (s *userService) sendWelcomeMail(user *entities.User) {
	subject, body := mailing.WelcomeMail(utils.GetConfig("APP_URL"), user.Username)
	go func() {
		if err := s.mailer.SendMail(user.Email, subject, body); err != nil {
			s.logger.WithError(err).WithField("user_id", user.ID.String()).Warn("failed to send welcome mail")
		}
	}()
}

func (s *userService) getUser(ctx context.Context, id string) (*entities.User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrUserNotFound
	}
	user, err := s.userRepository.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *userService) GetMe(ctx context.Context, userID string) (domain.UserResponse, error) {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return domain.UserResponse{}, err
	}
	return ToUserResponse(user, false), nil
}

func (s *userService) GetUserByID(ctx context.Context, id string, viewerID string) (domain.UserResponse, error) {
	user, err := s.getUser(ctx, id)
	if err != nil {
		return domain.UserResponse{}, err
	}

	subscribed, err := s.userRepository.GetSubscribedAuthorIDs(ctx, viewerID, []string{id})
	if err != nil {
		return domain.UserResponse{}, err
	}
	return ToUserResponse(user, subscribed[user.ID.String()]), nil
}

func (s *userService) GetUsers(ctx context.Context, p domain.PaginationRequest, viewerID string) ([]domain.UserResponse, int64, error) {
	users, count, err := s.userRepository.GetUsers(ctx, p)
	if err != nil {
		return nil, 0, err
	}

	ids := make([]string, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID.String())
	}
	subscribed, err := s.userRepository.GetSubscribedAuthorIDs(ctx, viewerID, ids)
	if err != nil {
		return nil, 0, err
	}

	result := make([]domain.UserResponse, 0, len(users))
	for _, u := range users {
		result = append(result, ToUserResponse(u, subscribed[u.ID.String()]))
	}
	return result, count, nil
}

func (s *userService) SetPassword(ctx context.Context, userID string, req domain.SetPasswordRequest) error {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.CurrentPassword)); err != nil {
		return domain.ErrWrongCurrentPassword
	}
	if req.NewPassword == req.CurrentPassword {
		return domain.ErrPasswordSameAsCurrent
	}
	if err := s.policy.Validate(req.NewPassword, user.Username, user.Email); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), s.hashCost)
	if err != nil {
		return domain.ErrHashPasswordFailed.WithCause(err)
	}
	return s.userRepository.UpdatePassword(ctx, userID, string(hash))
}

func toRegisterResponse(user *entities.User) domain.RegisterResponse {
	return domain.RegisterResponse{
		ID:        user.ID.String(),
		Email:     user.Email,
		Username:  user.Username,
		FirstName: user.FirstName,
		LastName:  user.LastName,
	}
}

func ToUserResponse(user *entities.User, subscribed bool) domain.UserResponse {
	return domain.UserResponse{
		ID:           user.ID.String(),
		Email:        user.Email,
		Username:     user.Username,
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		IsSubscribed: subscribed,
	}
}
