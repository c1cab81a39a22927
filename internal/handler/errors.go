package handler

import (
	"errors"
	"net/http"

	"video-marketplace/internal/service"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// httpError maps service failures onto the response taxonomy: validation 400,
// bad credentials 401, non-owner and unpurchased 403, missing rows 404.
// Anything else bubbles up as a 500 without crashing the process.
func httpError(err error) error {
	switch {
	case errors.Is(err, service.ErrValidation):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrDuplicateAccount):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrForbidden):
		return echo.NewHTTPError(http.StatusForbidden, "you do not own this video")
	case errors.Is(err, service.ErrPurchaseRequired):
		return echo.NewHTTPError(http.StatusForbidden, "purchase required")
	case errors.Is(err, gorm.ErrRecordNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "not found")
	default:
		return err
	}
}
