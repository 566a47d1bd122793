package middleware

import (
	"errors"
	"strings"

	"foodgram/domain"
	"foodgram/internal/api/presenters"
	"foodgram/internal/metrics"
	"foodgram/pkg/auth"
	"foodgram/pkg/jwt"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

type (
	Middleware interface {
		CORSMiddleware() fiber.Handler
		AuthMiddleware(jwtService jwt.JWTService) fiber.Handler
		OptionalAuthMiddleware(jwtService jwt.JWTService) fiber.Handler
		AdminMiddleware() fiber.Handler
		MetricsMiddleware() fiber.Handler
	}

	middleware struct {
		authService auth.AuthService
		metrics     *metrics.Metrics
	}
)

func NewMiddleware(authService auth.AuthService, metrics *metrics.Metrics) Middleware {
	return &middleware{
		authService: authService,
		metrics:     metrics,
	}
}

func (m *middleware) CORSMiddleware() fiber.Handler {
	return cors.New(cors.Config{
		AllowOrigins:  "*",
		AllowMethods:  "GET,POST,PATCH,PUT,DELETE,OPTIONS",
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization",
		ExposeHeaders: "Content-Disposition",
	})
}

// bearerToken accepts both "Token <t>" and "Bearer <t>".
func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok {
		return "", false
	}
	if !strings.EqualFold(scheme, "Token") && !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func (m *middleware) authenticate(c *fiber.Ctx, jwtService jwt.JWTService, header string) error {
	token, ok := bearerToken(header)
	if !ok {
		return domain.ErrTokenInvalid
	}

	claims, err := jwtService.GetClaimsByToken(token)
	if err != nil {
		return err
	}

	if err := m.authService.CheckSession(c.Context(), claims); err != nil {
		return err
	}

	c.Locals("user_id", claims.UserID)
	c.Locals("role", claims.Role)
	c.Locals("token_id", claims.TokenID)
	c.Locals("token_exp", claims.ExpiresAt)
	return nil
}

func (m *middleware) AuthMiddleware(jwtService jwt.JWTService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if header == "" {
			return presenters.ErrorResponse(c, fiber.StatusUnauthorized, domain.MessageFailedGetToken, domain.ErrTokenNotFound)
		}

		if err := m.authenticate(c, jwtService, header); err != nil {
			return presenters.ErrorResponse(c, domain.StatusOf(err), domain.MessageFailedTokenInvalid, err)
		}
		return c.Next()
	}
}

// OptionalAuthMiddleware lets anonymous requests through, but a presented token must still be valid.
func (m *middleware) OptionalAuthMiddleware(jwtService jwt.JWTService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if header == "" {
			return c.Next()
		}

		if err := m.authenticate(c, jwtService, header); err != nil {
			return presenters.ErrorResponse(c, domain.StatusOf(err), domain.MessageFailedTokenInvalid, err)
		}
		return c.Next()
	}
}

// AdminMiddleware must run after AuthMiddleware.
func (m *middleware) AdminMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, _ := c.Locals("role").(string)
		if role != domain.RoleAdmin {
			return presenters.ErrorResponse(c, fiber.StatusForbidden, domain.MessageUserNotAllowed, domain.ErrAdminOnly)
		}
		return c.Next()
	}
}

func (m *middleware) MetricsMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()

		status := c.Response().StatusCode()
		var fe *fiber.Error
		if errors.As(err, &fe) {
			status = fe.Code
		} else if err != nil {
			status = fiber.StatusInternalServerError
		}
		m.metrics.ObserveRequest(c.Method(), status)
		return err
	}
}
