package app

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"productmanager/internal/config"
	"productmanager/internal/database"
	"productmanager/internal/handlers"
	"productmanager/internal/middleware"
	"productmanager/internal/repositories"
	"productmanager/internal/services"
	"productmanager/internal/views"
)

// Options carries the optional collaborators of the application.
type Options struct {
	// Publisher receives product events; nil disables them.
	Publisher services.EventPublisher
	// AccessLog writes one log entry per request.
	AccessLog bool
}

// NewApp wires repositories, services, handlers and middleware into a Fiber
// application. The database must already be migrated.
func NewApp(cfg config.Config, db *gorm.DB, log *zap.Logger, opts Options) *fiber.App {
	if log == nil {
		log = zap.NewNop()
	}

	productRepo := repositories.NewGORMProductRepository(db)
	productService := services.NewProductService(productRepo, opts.Publisher, log.Named("products"))

	apiHandler := handlers.NewProductAPIHandler(productService, log.Named("api"))
	webHandler := handlers.NewProductWebHandler(productService, log.Named("web"))

	app := fiber.New(fiber.Config{
		AppName:               "productmanager",
		Views:                 views.NewEngine(),
		ErrorHandler:          errorHandler(log),
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{
		Generator: uuid.NewString,
	}))
	if opts.AccessLog {
		app.Use(middleware.RequestLogger(log.Named("http")))
	}

	app.Get("/health", healthHandler(db))

	api := app.Group("/api")
	apiHandler.RegisterRoutes(api)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.Redirect("/products")
	})
	var pageMiddleware []fiber.Handler
	if cfg.CSRFEnabled {
		pageMiddleware = append(pageMiddleware, csrf.New(csrf.Config{
			KeyLookup:      "form:_csrf",
			CookieName:     "csrf_",
			CookieSameSite: "Lax",
			CookieHTTPOnly: true,
			Expiration:     time.Hour,
			ContextKey:     handlers.CSRFContextKey,
			KeyGenerator:   uuid.NewString,
		}))
	}
	pages := app.Group("/products", pageMiddleware...)
	webHandler.RegisterRoutes(pages)

	return app
}

func healthHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()

		status, dbStatus, code := "healthy", "up", fiber.StatusOK
		if err := database.Ping(ctx, db); err != nil {
			status, dbStatus, code = "unhealthy", "down", fiber.StatusServiceUnavailable
		}
		return c.Status(code).JSON(fiber.Map{
			"status":   status,
			"database": dbStatus,
			"time":     time.Now().Format(time.RFC3339),
		})
	}
}

// errorHandler turns errors returned by handlers and middleware into
// responses, keeping the status of *fiber.Error values. Page routes get an
// HTML error page, everything else a JSON body.
func errorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			code = fiberErr.Code
		}
		if code >= fiber.StatusInternalServerError {
			log.Error("unhandled request error",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.Any("request_id", c.Locals("requestid")),
				zap.Error(err))
		}

		if isPage(c.Path()) {
			return renderErrorPage(c, code, err)
		}
		return c.Status(code).JSON(fiber.Map{
			"message": err.Error(),
		})
	}
}

func isPage(path string) bool {
	return path == "/products" || strings.HasPrefix(path, "/products/")
}

func renderErrorPage(c *fiber.Ctx, code int, err error) error {
	view, title, message := "errors/500", "Error", err.Error()
	switch {
	case code == fiber.StatusNotFound:
		view, title = "errors/404", "Not found"
	case code == fiber.StatusForbidden:
		view, title = "errors/403", "Forbidden"
	case code >= fiber.StatusInternalServerError:
		message = utils.StatusMessage(code)
	}

	if renderErr := c.Status(code).Render(view, fiber.Map{
		"Title":   title,
		"Message": message,
	}, "layouts/main"); renderErr != nil {
		return c.Status(code).SendString(message)
	}
	return nil
}
