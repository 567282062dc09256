package fiberswaggerui

import (
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

// CORSMethods are the methods allowed on cross-origin requests
var CORSMethods = []string{
	fiber.MethodGet,
	fiber.MethodPost,
	fiber.MethodPut,
	fiber.MethodPatch,
	fiber.MethodDelete,
	fiber.MethodOptions,
}

// CORSMiddleware allows credentialed requests from origins. A "*" entry
// allows every origin without credentials.
func CORSMiddleware(origins []string, logger *slog.Logger) fiber.Handler {
	allowOrigins := strings.Join(origins, ",")
	allowCredentials := true
	for _, origin := range origins {
		if origin == "*" {
			allowOrigins = "*"
			allowCredentials = false
			if logger != nil {
				logger.Warn("wildcard CORS origin disables credentialed requests")
			}
			break
		}
	}

	return cors.New(cors.Config{
		AllowOrigins:     allowOrigins,
		AllowMethods:     strings.Join(CORSMethods, ","),
		AllowCredentials: allowCredentials,
	})
}

// RequestLogger logs each request with its status and duration
func RequestLogger(logger *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			var fe *fiber.Error
			if errors.As(err, &fe) {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}

		logger.Info("http",
			"method", c.Method(),
			"path", c.Path(),
			"status", status,
			"dur", time.Since(start))
		return err
	}
}
