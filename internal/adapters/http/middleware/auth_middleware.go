package middleware

import (
	"strings"

	"markethub/internal/config"
	"markethub/internal/core/domain"
	"markethub/internal/pkg/jwt"
	"markethub/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AuthMiddleware creates authentication middleware. It resolves the
// session token into a principal and stores it in the request context.
func AuthMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var accessToken string

		// 1. Try to get token from cookie first
		accessToken = c.Cookies("access_token")

		// 2. If not in cookie, try Authorization header
		if accessToken == "" {
			authHeader := c.Get("Authorization")
			if authHeader != "" && strings.HasPrefix(authHeader, "Bearer ") {
				accessToken = strings.TrimPrefix(authHeader, "Bearer ")
			}
		}

		// 3. No token found
		if accessToken == "" {
			return response.Unauthorized(c, "Access token required")
		}

		// 4. Validate token
		principal, err := jwt.ValidateSessionToken(accessToken, cfg.JWT.Secret)
		if err != nil {
			if err == jwt.ErrTokenExpired {
				return response.Unauthorized(c, "Access token expired")
			}
			return response.Unauthorized(c, "Invalid access token")
		}

		// 5. Set principal in context
		c.Locals("principal", *principal)

		return c.Next()
	}
}

// Principal extracts the authenticated principal from the request
// context. The zero value means no auth middleware ran.
func Principal(c *fiber.Ctx) (domain.Principal, bool) {
	p, ok := c.Locals("principal").(domain.Principal)
	return p, ok
}

// RoleMiddleware creates role-based authorization middleware
func RoleMiddleware(allowedRoles ...domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, ok := Principal(c)
		if !ok {
			return response.Unauthorized(c, "Unauthorized")
		}

		for _, allowed := range allowedRoles {
			if p.Role == allowed {
				return c.Next()
			}
		}

		return response.Forbidden(c, "You don't have permission to access this resource")
	}
}

// AdminOnly middleware allows only the admin principal
func AdminOnly() fiber.Handler {
	return RoleMiddleware(domain.RoleAdmin)
}

// VendorOnly middleware allows only vendor accounts
func VendorOnly() fiber.Handler {
	return RoleMiddleware(domain.RoleVendor)
}

// CustomerOnly middleware allows only customer accounts
func CustomerOnly() fiber.Handler {
	return RoleMiddleware(domain.RoleCustomer)
}
