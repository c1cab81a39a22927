package handler

import (
	"net/http"
	"time"

	"video-marketplace/internal/dto"
	"video-marketplace/internal/middleware"
	"video-marketplace/internal/service"

	"github.com/labstack/echo/v4"
)

type LessonsHandler struct {
	lessonsService service.LessonsService
	jwtSecret      string
	tokenTTL       time.Duration
}

func NewLessonsHandler(lessonsService service.LessonsService, jwtSecret string, tokenTTL time.Duration) *LessonsHandler {
	return &LessonsHandler{
		lessonsService: lessonsService,
		jwtSecret:      jwtSecret,
		tokenTTL:       tokenTTL,
	}
}

func (h *LessonsHandler) AdminLogin(c echo.Context) error {
	var req dto.AdminLoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	if !h.lessonsService.VerifyAdmin(req.Secret) {
		return echo.NewHTTPError(http.StatusUnauthorized, "incorrect password")
	}

	token, err := middleware.SignAdminToken(h.jwtSecret, h.tokenTTL)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dto.TokenResponse{Token: token})
}

func (h *LessonsHandler) ListOfferings(c echo.Context) error {
	ctx := c.Request().Context()

	offerings, err := h.lessonsService.ListOfferings(ctx)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{"offerings": offerings})
}

func (h *LessonsHandler) CreateOffering(c echo.Context) error {
	ctx := c.Request().Context()

	name := c.FormValue("name")
	description := c.FormValue("description")
	price := c.FormValue("price")

	if fileHeader, err := c.FormFile("image"); err == nil {
		src, err := fileHeader.Open()
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "open uploaded image")
		}
		defer src.Close()

		offering, err := h.lessonsService.CreateOffering(ctx, name, description, price, fileHeader.Filename, src)
		if err != nil {
			return httpError(err)
		}
		return c.JSON(http.StatusCreated, map[string]interface{}{"id": offering.ID})
	}

	offering, err := h.lessonsService.CreateOffering(ctx, name, description, price, "", nil)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{"id": offering.ID})
}

func (h *LessonsHandler) DeleteOffering(c echo.Context) error {
	ctx := c.Request().Context()

	offeringID, err := paramID(c, "id")
	if err != nil {
		return err
	}

	if err := h.lessonsService.DeleteOffering(ctx, offeringID); err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *LessonsHandler) SubmitBooking(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.BookingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	booking, err := h.lessonsService.SubmitBooking(ctx, &req)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{"id": booking.ID})
}

func (h *LessonsHandler) ListBookings(c echo.Context) error {
	ctx := c.Request().Context()

	bookings, err := h.lessonsService.ListBookings(ctx)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{"bookings": bookings})
}

func (h *LessonsHandler) DeleteBooking(c echo.Context) error {
	ctx := c.Request().Context()

	bookingID, err := paramID(c, "id")
	if err != nil {
		return err
	}

	if err := h.lessonsService.DeleteBooking(ctx, bookingID); err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *LessonsHandler) ExportBookingsCSV(c echo.Context) error {
	ctx := c.Request().Context()

	data, err := h.lessonsService.ExportBookingsCSV(ctx)
	if err != nil {
		return httpError(err)
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="bookings.csv"`)
	return c.Blob(http.StatusOK, "text/csv", data)
}

func (h *LessonsHandler) ExportBookingsCalendar(c echo.Context) error {
	ctx := c.Request().Context()

	data, err := h.lessonsService.ExportBookingsCalendar(ctx)
	if err != nil {
		return httpError(err)
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="bookings.ics"`)
	return c.Blob(http.StatusOK, "text/calendar", data)
}
