package server

import (
	"video-marketplace/internal/handler"
	mw "video-marketplace/internal/middleware"
	"video-marketplace/internal/service"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

type Server struct {
	echo            *echo.Echo
	authHandler     *handler.AuthHandler
	videoHandler    *handler.VideoHandler
	purchaseHandler *handler.PurchaseHandler
}

func NewServer(
	authService service.AuthService,
	videoService service.VideoService,
	purchaseService service.PurchaseService,
	jwtSecret string,
) *Server {
	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	s := &Server{
		echo:            e,
		authHandler:     handler.NewAuthHandler(authService, videoService),
		videoHandler:    handler.NewVideoHandler(videoService),
		purchaseHandler: handler.NewPurchaseHandler(purchaseService),
	}

	s.setupRoutes(jwtSecret)
	return s
}

func (s *Server) setupRoutes(jwtSecret string) {
	api := s.echo.Group("/api")

	api.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok"})
	})

	api.POST("/register", s.authHandler.Register)
	api.POST("/login", s.authHandler.Login)
	api.GET("/users/:username", s.authHandler.GetProfile)
	api.GET("/profile-pics/:filename", s.authHandler.ServePicture)
	api.GET("/videos", s.videoHandler.List)

	// -------- authenticated --------
	auth := api.Group("", mw.RequireAuth(jwtSecret))
	auth.GET("/account", s.authHandler.GetAccount)
	auth.PUT("/account", s.authHandler.UpdateAccount)
	auth.POST("/videos", s.videoHandler.Upload)
	auth.PUT("/videos/:id", s.videoHandler.Edit)
	auth.DELETE("/videos/:id", s.videoHandler.Delete)
	auth.POST("/videos/:id/comments", s.videoHandler.AddComment)
	auth.POST("/videos/:id/ratings", s.videoHandler.Rate)
	auth.POST("/videos/:id/purchase", s.purchaseHandler.BeginCheckout)
	auth.GET("/uploads/:filename", s.videoHandler.ServeFile)

	// access gate runs on every detail request, for any principal
	gated := api.Group("", mw.OptionalAuth(jwtSecret))
	gated.GET("/videos/:id", s.videoHandler.Detail)

	// -------- settlement callbacks / webhooks --------
	payments := api.Group("/payments")
	payments.GET("/success", s.purchaseHandler.HandleSuccess)
	payments.GET("/cancel", s.purchaseHandler.HandleCancel)
	payments.POST("/webhook", s.purchaseHandler.Webhook)
}

func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

func (s *Server) Shutdown() error {
	return s.echo.Close()
}
