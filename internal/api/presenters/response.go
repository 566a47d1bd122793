package presenters

import (
	"errors"

	"foodgram/domain"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type Response struct {
	Status  bool              `json:"status"`
	Message string            `json:"message"`
	Data    any               `json:"data,omitempty"`
	Error   string            `json:"error,omitempty"`
	Details map[string]string `json:"details,omitempty"`
}

func SuccessResponse(c *fiber.Ctx, data any, statusCode int, message string) error {
	return c.Status(statusCode).JSON(Response{
		Status:  true,
		Message: message,
		Data:    data,
	})
}

// ErrorResponse hides the cause of 5xx errors from the client and logs it instead.
func ErrorResponse(c *fiber.Ctx, statusCode int, message string, err error) error {
	res := Response{
		Status:  false,
		Message: message,
	}

	if statusCode >= fiber.StatusInternalServerError {
		logrus.WithError(err).WithFields(logrus.Fields{
			"method": c.Method(),
			"path":   c.Path(),
		}).Error(message)
		res.Error = domain.MessageInternalError
		return c.Status(statusCode).JSON(res)
	}

	if err != nil {
		var de *domain.Error
		if errors.As(err, &de) {
			res.Error = de.Message
			res.Details = de.Details
		} else {
			res.Error = err.Error()
		}
	}
	return c.Status(statusCode).JSON(res)
}
