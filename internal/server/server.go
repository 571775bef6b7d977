package server

import (
	"context"
	"io/fs"
	"net/http"

	"expense-log-be/internal/bootstrap"
	"expense-log-be/internal/config"
	"expense-log-be/internal/pkg/logger"
	"expense-log-be/internal/pkg/serverutils"
	"expense-log-be/web"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/filesystem"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

type Server struct {
	app       *fiber.App
	cfg       *config.Config
	container *bootstrap.Container
}

func New(cfg *config.Config, container *bootstrap.Container) *Server {
	app := fiber.New(fiber.Config{
		BodyLimit:    1 * 1024 * 1024,
		Views:        container.Renderer,
		ErrorHandler: serverutils.NewErrorHandler(container.Logger),
	})

	// Middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.App.CorsAllowedOrigins,
		AllowCredentials: true,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, HX-Request, HX-Target, HX-Current-URL",
		AllowMethods:     "GET, POST, DELETE, OPTIONS",
		ExposeHeaders:    "Content-Length, Content-Type, Content-Disposition, HX-Trigger, HX-Redirect",
	}))

	if cfg.Tracing.Enabled {
		app.Use(otelfiber.Middleware())
	}

	// Static
	static, err := fs.Sub(web.StaticFS, "static")
	if err == nil {
		app.Use("/static", filesystem.New(filesystem.Config{
			Root:   http.FS(static),
			MaxAge: 3600,
		}))
	}

	registerRoutes(app, container)

	return &Server{
		app:       app,
		cfg:       cfg,
		container: container,
	}
}

func (s *Server) GetApp() *fiber.App {
	return s.app
}

func (s *Server) Run() error {
	s.container.Logger.Info(logger.ModuleHTTP, "Server is running", map[string]interface{}{
		"address": "http://localhost:" + s.cfg.App.Port,
	})
	return s.app.Listen(":" + s.cfg.App.Port)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

func registerRoutes(app *fiber.App, c *bootstrap.Container) {
	app.Get("/healthz", func(ctx *fiber.Ctx) error {
		return ctx.JSON(serverutils.SuccessResponse[any]("ok", nil))
	})
	app.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.Redirect("/bank-log/", fiber.StatusFound)
	})

	c.AuthController.RegisterRoutes(app)
	c.BankLogController.RegisterRoutes(app, c.AuthMiddleware)
	c.MonthLogController.RegisterRoutes(app, c.AuthMiddleware)
	c.ListController.RegisterRoutes(app, c.AuthMiddleware)
	c.FeedHandler.RegisterRoutes(app, c.AuthMiddleware)
}
