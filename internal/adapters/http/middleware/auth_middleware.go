package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/shemul345/Life-O-positive-server/internal/core/domain"
	"github.com/shemul345/Life-O-positive-server/internal/core/services"
	"github.com/shemul345/Life-O-positive-server/internal/pkg/response"
)

// PrincipalKey is the Locals key holding the verified principal email
const PrincipalKey = "email"

// AuthMiddleware resolves the bearer token into the principal.
// The token is read from the Authorization header only.
func AuthMiddleware(verifier services.TokenVerifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if !strings.HasPrefix(authHeader, "Bearer ") {
			return response.Unauthorized(c, "Unauthorized access")
		}

		token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		if token == "" {
			return response.Unauthorized(c, "Unauthorized access")
		}

		email, err := verifier.VerifyToken(c.UserContext(), token)
		if err != nil || email == "" {
			return response.Unauthorized(c, "Unauthorized access")
		}

		c.Locals(PrincipalKey, domain.NormalizeEmail(email))
		return c.Next()
	}
}

// Principal returns the verified email set by AuthMiddleware
func Principal(c *fiber.Ctx) string {
	email, _ := c.Locals(PrincipalKey).(string)
	return email
}

// RoleMiddleware allows the request only when the principal's stored role is in roles
func RoleMiddleware(access *services.AccessService, roles ...domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := access.RequireRole(c.UserContext(), Principal(c), roles...); err != nil {
			return response.FromError(c, err)
		}
		return c.Next()
	}
}

// AdminOnly middleware allows only the admin role
func AdminOnly(access *services.AccessService) fiber.Handler {
	return RoleMiddleware(access, domain.RoleAdmin)
}

// StaffOnly middleware allows admin or volunteer roles
func StaffOnly(access *services.AccessService) fiber.Handler {
	return RoleMiddleware(access, domain.RoleAdmin, domain.RoleVolunteer)
}

// ActiveOnly rejects principals whose account is blocked
func ActiveOnly(access *services.AccessService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := access.RequireActive(c.UserContext(), Principal(c)); err != nil {
			return response.FromError(c, err)
		}
		return c.Next()
	}
}

// OwnerSource extracts the email a request claims to act on
type OwnerSource func(c *fiber.Ctx) string

// OwnerFromParam reads the owner from a path parameter
func OwnerFromParam(name string) OwnerSource {
	return func(c *fiber.Ctx) string {
		return c.Params(name)
	}
}

// OwnerFromQuery reads the owner from a query parameter
func OwnerFromQuery(name string) OwnerSource {
	return func(c *fiber.Ctx) string {
		return c.Query(name)
	}
}

// OwnerOnly allows the request only when the principal is the addressed owner
func OwnerOnly(access *services.AccessService, source OwnerSource) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := access.RequireOwner(Principal(c), source(c)); err != nil {
			return response.FromError(c, err)
		}
		return c.Next()
	}
}
