package handler

import (
	"net/http"
	"strconv"

	"video-marketplace/internal/dto"
	"video-marketplace/internal/middleware"
	"video-marketplace/internal/model"
	"video-marketplace/internal/service"

	"github.com/labstack/echo/v4"
)

type AuthHandler struct {
	authService  service.AuthService
	videoService service.VideoService
}

func NewAuthHandler(authService service.AuthService, videoService service.VideoService) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		videoService: videoService,
	}
}

func (h *AuthHandler) Register(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	user, err := h.authService.Register(ctx, &req)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusCreated, dto.UserResponse{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
	})
}

func (h *AuthHandler) Login(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	token, err := h.authService.Login(ctx, req.Email, req.Password)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, dto.TokenResponse{Token: token})
}

func (h *AuthHandler) GetAccount(c echo.Context) error {
	ctx := c.Request().Context()

	user, err := h.authService.GetUser(ctx, middleware.UserID(c))
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, dto.UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		ImageFile: user.ImageFile,
		Bio:       user.Bio,
	})
}

func (h *AuthHandler) UpdateAccount(c echo.Context) error {
	ctx := c.Request().Context()

	req := dto.UpdateAccountRequest{
		Username: c.FormValue("username"),
		Email:    c.FormValue("email"),
		Bio:      c.FormValue("bio"),
	}

	var user *model.User
	var err error
	if fileHeader, ferr := c.FormFile("picture"); ferr == nil {
		src, oerr := fileHeader.Open()
		if oerr != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "open uploaded picture")
		}
		defer src.Close()

		user, err = h.authService.UpdateAccount(ctx, middleware.UserID(c), &req, fileHeader.Filename, src)
	} else {
		user, err = h.authService.UpdateAccount(ctx, middleware.UserID(c), &req, "", nil)
	}
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, dto.UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		ImageFile: user.ImageFile,
		Bio:       user.Bio,
	})
}

func (h *AuthHandler) ServePicture(c echo.Context) error {
	path, err := h.authService.PicturePath(c.Param("filename"))
	if err != nil {
		return httpError(err)
	}

	return c.File(path)
}

func (h *AuthHandler) GetProfile(c echo.Context) error {
	ctx := c.Request().Context()

	user, err := h.authService.GetProfile(ctx, c.Param("username"))
	if err != nil {
		return httpError(err)
	}

	videos, err := h.videoService.ListByUser(ctx, user.ID)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"user": dto.UserResponse{
			ID:        user.ID,
			Username:  user.Username,
			ImageFile: user.ImageFile,
			Bio:       user.Bio,
		},
		"videos": videos,
	})
}

func paramID(c echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return uint(id), nil
}
