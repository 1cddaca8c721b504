package http

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v3"

	"usermgmt/internal/users/adapters/http/middleware"
	"usermgmt/internal/users/ports/services"
)

// Pinger проверяет доступность хранилища для маршрута здоровья.
type Pinger interface {
	Ping(ctx context.Context) error
}

// SetupRouter настраивает маршрутизацию HTTP сервера.
func SetupRouter(app *fiber.App, userService services.UserService, pinger Pinger) {
	userHandler := NewHandler(userService)

	// Middleware для всех запросов.
	app.Use(middleware.NewLoggerMiddleware())
	app.Use(middleware.NewRecoveryMiddleware())

	app.Get("/healthz", func(ctx fiber.Ctx) error {
		if err := pinger.Ping(ctx.Context()); err != nil {
			return sendError(ctx, fiber.StatusServiceUnavailable, "database unavailable")
		}
		if err := ctx.JSON(fiber.Map{"status": "ok"}); err != nil {
			return fmt.Errorf("error sending response: %w", err)
		}
		return nil
	})

	// Маршруты ресурса пользователей.
	userRoutes := app.Group("/user")
	userRoutes.Post("/", userHandler.CreateUser)
	userRoutes.Get("/", userHandler.ListUsers)
	userRoutes.Get("/:id", userHandler.GetUser)
	userRoutes.Put("/:id", userHandler.UpdateUser)
	userRoutes.Delete("/:id", userHandler.DeleteUser)

	// Обработчик для несуществующих маршрутов.
	app.Use(func(c fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Route not found",
		})
	})
}
