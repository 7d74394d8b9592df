package auth

import (
	"propstore/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Config holds the settings for the token check.
type Config struct {
	// Token is the static bearer token every request must present.
	Token string
	// Logger receives a diagnostic for each rejected request. Optional.
	Logger *zap.Logger
}

// New returns a middleware that requires the Authorization header to be
// byte-equal to cfg.Token. Rejected requests get 401 with an empty body and
// never reach the handlers behind the middleware.
func New(cfg Config) fiber.Handler {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if header == "" {
			logger.WithRayID(cfg.Logger, c).Warn("Authorization header missing")
			c.Status(fiber.StatusUnauthorized)
			return nil
		}
		if header != cfg.Token {
			logger.WithRayID(cfg.Logger, c).Warn("Token invalid")
			c.Status(fiber.StatusUnauthorized)
			return nil
		}
		return c.Next()
	}
}
