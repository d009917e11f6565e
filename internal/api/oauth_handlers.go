package api

import (
	"github.com/gofiber/fiber/v2"
)

func (s *APIServer) handleOAuthProtectedResource(c *fiber.Ctx, resource, authorizationServer string) error {
	if resource == "" {
		resource = c.BaseURL()
	}
	return c.JSON(fiber.Map{
		"authorization_servers":    []string{authorizationServer},
		"bearer_methods_supported": []string{"header"},
		"resource":                 resource,
		"scopes_supported":         []string{},
	})
}
