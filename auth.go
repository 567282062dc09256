package fiberswaggerui

import (
	"crypto/subtle"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// AuthContext contains the authenticated caller's details
type AuthContext struct {
	Subject string                 `json:"subject"`
	Source  string                 `json:"source"` // "header" or "cookie"
	Claims  map[string]interface{} `json:"claims,omitempty"`
}

// TokenValidator checks bearer tokens presented by the viewer or any other client
type TokenValidator interface {
	ValidateToken(token string) (*AuthContext, error)
}

// StaticTokenValidator accepts a single shared token
type StaticTokenValidator struct {
	Token   string
	Subject string
}

// ValidateToken implements TokenValidator
func (v StaticTokenValidator) ValidateToken(token string) (*AuthContext, error) {
	if v.Token == "" || subtle.ConstantTimeCompare([]byte(token), []byte(v.Token)) != 1 {
		return nil, fmt.Errorf("token rejected")
	}
	subject := v.Subject
	if subject == "" {
		subject = "static"
	}
	return &AuthContext{Subject: subject}, nil
}

// GetAuthContext extracts the authentication context from Fiber
func GetAuthContext(c *fiber.Ctx) (*AuthContext, error) {
	auth, ok := c.Locals("auth").(*AuthContext)
	if !ok {
		return nil, fmt.Errorf("no authentication context found")
	}
	return auth, nil
}

// BearerTokenMiddleware creates a Bearer middleware. When cookieName is set, a
// request without an Authorization header may carry the token in that cookie,
// which is how credentialed cross-origin requests from the viewer arrive.
func BearerTokenMiddleware(validator TokenValidator, cookieName string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		source := "header"
		authHeader := c.Get(fiber.HeaderAuthorization)
		token := ""
		switch {
		case authHeader != "":
			if !strings.HasPrefix(authHeader, "Bearer ") {
				return c.Status(401).JSON(fiber.Map{
					"error": "Bearer token required",
				})
			}
			token = strings.TrimPrefix(authHeader, "Bearer ")
		case cookieName != "" && c.Cookies(cookieName) != "":
			source = "cookie"
			token = c.Cookies(cookieName)
		default:
			return c.Status(401).JSON(fiber.Map{
				"error": "Authorization header required",
			})
		}

		authCtx, err := validator.ValidateToken(token)
		if err != nil {
			return c.Status(401).JSON(fiber.Map{
				"error":   "Invalid token",
				"details": err.Error(),
			})
		}
		authCtx.Source = source

		// Store auth context for later use
		c.Locals("auth", authCtx)
		return c.Next()
	}
}
