package handler

import (
	"net/http"
	"strconv"

	"video-marketplace/internal/dto"
	"video-marketplace/internal/middleware"
	"video-marketplace/internal/service"

	"github.com/labstack/echo/v4"
)

type VideoHandler struct {
	videoService service.VideoService
}

func NewVideoHandler(videoService service.VideoService) *VideoHandler {
	return &VideoHandler{
		videoService: videoService,
	}
}

func (h *VideoHandler) List(c echo.Context) error {
	ctx := c.Request().Context()

	videos, err := h.videoService.List(ctx)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{"videos": videos})
}

func (h *VideoHandler) Upload(c echo.Context) error {
	ctx := c.Request().Context()

	title := c.FormValue("title")
	price, err := strconv.ParseFloat(c.FormValue("price"), 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid price")
	}

	fileHeader, err := c.FormFile("video")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "video file not found in form data")
	}

	src, err := fileHeader.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "open uploaded file")
	}
	defer src.Close()

	video, err := h.videoService.Upload(ctx, middleware.UserID(c), title, price, fileHeader.Filename, src)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"id":       video.ID,
		"title":    video.Title,
		"filename": video.Filename,
	})
}

func (h *VideoHandler) Detail(c echo.Context) error {
	ctx := c.Request().Context()

	videoID, err := paramID(c, "id")
	if err != nil {
		return err
	}

	detail, err := h.videoService.Detail(ctx, middleware.UserID(c), videoID)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, detail)
}

func (h *VideoHandler) Edit(c echo.Context) error {
	ctx := c.Request().Context()

	videoID, err := paramID(c, "id")
	if err != nil {
		return err
	}

	title := c.FormValue("title")
	price := 0.0
	if raw := c.FormValue("price"); raw != "" {
		price, err = strconv.ParseFloat(raw, 64)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid price")
		}
	}

	if fileHeader, err := c.FormFile("video"); err == nil {
		src, err := fileHeader.Open()
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "open uploaded file")
		}
		defer src.Close()

		if _, err := h.videoService.Edit(ctx, middleware.UserID(c), videoID, title, price, fileHeader.Filename, src); err != nil {
			return httpError(err)
		}
	} else {
		if _, err := h.videoService.Edit(ctx, middleware.UserID(c), videoID, title, price, "", nil); err != nil {
			return httpError(err)
		}
	}

	return c.JSON(http.StatusOK, map[string]string{"status": "updated"})
}

func (h *VideoHandler) Delete(c echo.Context) error {
	ctx := c.Request().Context()

	videoID, err := paramID(c, "id")
	if err != nil {
		return err
	}

	if err := h.videoService.Delete(ctx, middleware.UserID(c), videoID); err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *VideoHandler) AddComment(c echo.Context) error {
	ctx := c.Request().Context()

	videoID, err := paramID(c, "id")
	if err != nil {
		return err
	}

	var req dto.CommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	comment, err := h.videoService.AddComment(ctx, middleware.UserID(c), videoID, req.Content)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusCreated, dto.CommentResponse{
		ID:        comment.ID,
		UserID:    comment.UserID,
		Content:   comment.Content,
		CreatedAt: comment.CreatedAt,
	})
}

func (h *VideoHandler) Rate(c echo.Context) error {
	ctx := c.Request().Context()

	videoID, err := paramID(c, "id")
	if err != nil {
		return err
	}

	var req dto.RatingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	if err := h.videoService.Rate(ctx, middleware.UserID(c), videoID, req.Score); err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, map[string]string{"status": "rated"})
}

func (h *VideoHandler) ServeFile(c echo.Context) error {
	ctx := c.Request().Context()

	path, err := h.videoService.ServePath(ctx, middleware.UserID(c), c.Param("filename"))
	if err != nil {
		return httpError(err)
	}

	return c.File(path)
}
