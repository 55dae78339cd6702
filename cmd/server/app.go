package main

import (
	"errors"
	"time"

	"github.com/fadilmartias/career-coach/internal/config"
	"github.com/fadilmartias/career-coach/internal/domain/fiber/handler"
	applogger "github.com/fadilmartias/career-coach/internal/logger"
	"github.com/fadilmartias/career-coach/internal/middleware"
	"github.com/fadilmartias/career-coach/internal/util"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/healthcheck"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/pprof"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

func newApp(deps *dependencies, log *applogger.Logger) *fiber.App {
	appConfig := config.LoadAppConfig()

	app := fiber.New(fiber.Config{
		AppName: appConfig.Name,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			var e *fiber.Error
			if errors.As(err, &e) {
				code = e.Code
			}
			message := err.Error()
			if code == fiber.StatusInternalServerError {
				log.Error("unhandled error", "path", c.Path(), "error", err)
				message = "Internal Server Error"
			}
			return util.ErrorResponse(c, util.ErrorResponseFormat{Code: code, Message: message}, err)
		},
	})
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
	}))
	app.Use(recover.New(recover.Config{
		EnableStackTrace: !appConfig.IsProduction(),
	}))
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
	app.Use(pprof.New(pprof.Config{
		Next: func(c *fiber.Ctx) bool {
			return appConfig.IsProduction()
		},
	}))
	app.Use(healthcheck.New())
	app.Use(helmet.New(helmet.Config{
		CrossOriginResourcePolicy: "cross-origin",
	}))

	api := app.Group("/api", middleware.Auth(config.LoadAuthConfig(), log))
	api.Use(middleware.RateLimiter(50, 1*time.Minute))

	handler.NewUserHandler(deps.Users).RegisterRoutes(api)
	handler.NewInsightHandler(deps.Insights).RegisterRoutes(api)
	handler.NewQuizHandler(deps.Quizzes).RegisterRoutes(api)
	handler.NewBookmarkHandler(deps.Bookmark).RegisterRoutes(api)
	return app
}
