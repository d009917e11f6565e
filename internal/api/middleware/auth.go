package middleware

import (
	"fmt"
	"slices"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rxtech-lab/lock-launchpad/internal/utils"
)

const userLocalKey = "user"

// AuthConfig holds configuration for the auth middleware
type AuthConfig struct {
	// ResourceID is the expected audience. Empty accepts any audience.
	ResourceID string
	// ResourceMetadataURL is advertised in the WWW-Authenticate header of 401 responses
	ResourceMetadataURL string
	Authenticator       *utils.JwtAuthenticator
	// SkipWellKnown lets .well-known discovery endpoints through without a token
	SkipWellKnown bool
}

// AuthMiddleware returns a Fiber middleware for Bearer token authentication.
// Requests are rejected when no authenticator is configured.
func AuthMiddleware(cfg AuthConfig) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if cfg.SkipWellKnown && strings.Contains(c.Path(), ".well-known") {
			return c.Next()
		}

		authHeader := c.Get(fiber.HeaderAuthorization)
		var token string
		if strings.HasPrefix(authHeader, "Bearer ") {
			token = strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		}

		if token == "" {
			challenge := `Bearer realm="Access to protected resource"`
			if cfg.ResourceMetadataURL != "" {
				challenge = fmt.Sprintf(`Bearer realm="OAuth", resource_metadata="%s"`, cfg.ResourceMetadataURL)
			}
			c.Set(fiber.HeaderWWWAuthenticate, challenge)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Missing or invalid Bearer token",
			})
		}

		if cfg.Authenticator == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Authentication is not configured",
			})
		}

		user, err := cfg.Authenticator.ValidateToken(token)
		if err != nil {
			c.Set(fiber.HeaderWWWAuthenticate, `Bearer realm="Access to protected resource"`)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error":   "Invalid token",
				"details": err.Error(),
			})
		}

		if cfg.ResourceID != "" && !slices.Contains(user.Aud, cfg.ResourceID) {
			c.Set(fiber.HeaderWWWAuthenticate, `Bearer realm="Access to protected resource"`)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid audience",
			})
		}

		c.Locals(userLocalKey, user)
		return c.Next()
	}
}

// GetAuthenticatedUser retrieves the authenticated user from Fiber context
// Returns nil if no user is found or if user is not of correct type
func GetAuthenticatedUser(c *fiber.Ctx) *utils.AuthenticatedUser {
	user, ok := c.Locals(userLocalKey).(*utils.AuthenticatedUser)
	if !ok {
		return nil
	}
	return user
}
