// Package middleware provides authentication and authorization middleware for the application.
package middleware

import (
	"context"
	"strconv"
	"strings"

	"photoshare/internal/config"
	"photoshare/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

var cfg *config.Config

// InitMiddleware hands the loaded config to the auth middleware. Must run
// before any protected route is served.
func InitMiddleware(c *config.Config) {
	cfg = c
}

func unauthorized(c *fiber.Ctx, reason string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": reason})
}

// AuthRequired verifies the Bearer token and stores "userID", "username" and
// "role" in the request locals for downstream handlers.
func AuthRequired(c *fiber.Ctx) error {
	header := c.Get("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		return unauthorized(c, "Bearer token required")
	}

	parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.NewError(fiber.StatusUnauthorized, "unexpected signing method")
		}
		return []byte(cfg.SecretKey), nil
	})
	if err != nil || !parsed.Valid {
		return unauthorized(c, "Invalid or expired token")
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return unauthorized(c, "Invalid token claims")
	}

	// The user ID travels as the RFC 7519 subject.
	sub, _ := claims["sub"].(string)
	userID, err := strconv.ParseUint(sub, 10, 32)
	if err != nil {
		return unauthorized(c, "Invalid token subject")
	}
	c.Locals("userID", uint(userID))
	// ContextMiddleware runs before auth, so the logging context has to be
	// enriched here once the subject is known.
	c.SetUserContext(context.WithValue(c.UserContext(), UserIDKey, uint(userID)))

	if username, ok := claims["username"].(string); ok {
		c.Locals("username", username)
	}
	if role, ok := claims["role"].(string); ok {
		c.Locals("role", role)
	}
	return c.Next()
}

// CreatorRequired restricts a route to users with the creator role. It must
// run after AuthRequired.
func CreatorRequired(c *fiber.Ctx) error {
	role, _ := c.Locals("role").(string)
	if role != string(models.RoleCreator) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Only creators can upload photos",
		})
	}
	return c.Next()
}
