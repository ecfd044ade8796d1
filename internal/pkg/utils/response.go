package utils

import (
	stderrors "errors"

	"github.com/gofiber/fiber/v2"
	"github.com/poi-crawler/internal/pkg/errors"
)

type ErrorResponse struct {
	Error *errors.AppError `json:"error"`
}

func SendError(c *fiber.Ctx, err error) error {
	var appErr *errors.AppError
	if stderrors.As(err, &appErr) {
		if appErr.Unwrap() != nil {
			appErr = appErr.WithDetails(map[string]interface{}{"cause": appErr.Unwrap().Error()})
		}
		return c.Status(appErr.StatusCode).JSON(ErrorResponse{
			Error: appErr,
		})
	}

	// Unknown error - return 500
	return c.Status(500).JSON(ErrorResponse{
		Error: errors.ErrInternalServer,
	})
}
