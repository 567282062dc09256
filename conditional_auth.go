package fiberswaggerui

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// ConditionalAuthMiddleware runs authMiddleware on every request except those
// under one of publicPaths. A public path covers itself and its sub-paths only,
// so "/docs" does not cover "/docs-admin".
func ConditionalAuthMiddleware(authMiddleware fiber.Handler, publicPaths ...string) fiber.Handler {
	prefixes := make([]string, 0, len(publicPaths))
	for _, p := range publicPaths {
		if p = strings.TrimSuffix(p, "/"); p != "" {
			prefixes = append(prefixes, p)
		}
	}

	return func(c *fiber.Ctx) error {
		if isPublicPath(c.Path(), prefixes) {
			return c.Next()
		}
		return authMiddleware(c)
	}
}

func isPublicPath(path string, prefixes []string) bool {
	for _, p := range prefixes {
		if path == p || strings.HasPrefix(path, p+"/") {
			return true
		}
	}
	return false
}

// DocsAuthMiddleware applies authMiddleware everywhere except the viewer,
// the discovery endpoint and the API documents. Browsers load those before
// any credentials have been entered.
func DocsAuthMiddleware(authMiddleware fiber.Handler, app *App) fiber.Handler {
	return ConditionalAuthMiddleware(authMiddleware, app.PublicPaths()...)
}
