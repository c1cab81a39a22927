package server

import (
	"time"

	"video-marketplace/internal/handler"
	mw "video-marketplace/internal/middleware"
	"video-marketplace/internal/service"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// LessonsServer is the booking admin tool's HTTP surface; it runs as its
// own process against its own database.
type LessonsServer struct {
	echo           *echo.Echo
	lessonsHandler *handler.LessonsHandler
}

func NewLessonsServer(lessonsService service.LessonsService, jwtSecret string, tokenTTL time.Duration) *LessonsServer {
	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	s := &LessonsServer{
		echo:           e,
		lessonsHandler: handler.NewLessonsHandler(lessonsService, jwtSecret, tokenTTL),
	}

	s.setupRoutes(jwtSecret)
	return s
}

func (s *LessonsServer) setupRoutes(jwtSecret string) {
	api := s.echo.Group("/api")

	api.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok"})
	})

	// -------- public --------
	api.GET("/offerings", s.lessonsHandler.ListOfferings)
	api.POST("/bookings", s.lessonsHandler.SubmitBooking)
	api.POST("/admin/login", s.lessonsHandler.AdminLogin)

	// -------- admin --------
	admin := api.Group("/admin", mw.RequireAdmin(jwtSecret))
	admin.POST("/offerings", s.lessonsHandler.CreateOffering)
	admin.DELETE("/offerings/:id", s.lessonsHandler.DeleteOffering)
	admin.GET("/bookings", s.lessonsHandler.ListBookings)
	admin.DELETE("/bookings/:id", s.lessonsHandler.DeleteBooking)
	admin.GET("/bookings/export.csv", s.lessonsHandler.ExportBookingsCSV)
	admin.GET("/bookings/export.ics", s.lessonsHandler.ExportBookingsCalendar)
}

func (s *LessonsServer) Start(address string) error {
	return s.echo.Start(address)
}

func (s *LessonsServer) Shutdown() error {
	return s.echo.Close()
}
