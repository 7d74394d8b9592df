package property

import (
	"errors"

	"propstore/core/logger"
	"propstore/core/storage"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const nullBody = "null"

// Handler handles HTTP requests for properties.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the property routes. GET and POST are added
// explicitly so that Fiber does not derive a HEAD route; every other method
// falls through to HandleUnmatched.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	app.Add(fiber.MethodGet, "/*", h.HandleGet)
	app.Add(fiber.MethodPost, "/*", h.HandlePost)
	app.Use(h.HandleUnmatched)
}

// HandleGet serves GET /{key}.
func (h *Handler) HandleGet(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	key, ok := PropertyName(rawPath(c))
	if !ok {
		l.Warn("No property name found", zap.String("path", rawPath(c)))
		return status(c, fiber.StatusNotFound)
	}

	value, found, err := h.service.Get(c.UserContext(), key)
	if err != nil {
		l.Error("Error while retrieving value", zap.String("property", key), zap.Error(err))
		return status(c, fiber.StatusBadRequest)
	}

	c.Status(fiber.StatusOK)
	if !found {
		c.Set(fiber.HeaderContentType, storage.ContentTypeText)
		return c.SendString(nullBody)
	}
	c.Set(fiber.HeaderContentType, value.ContentType())
	return c.Send(value.Bytes())
}

// HandlePost serves POST /{key}.
func (h *Handler) HandlePost(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	key, ok := PropertyName(rawPath(c))
	if !ok {
		l.Warn("No property name found", zap.String("path", rawPath(c)))
		return status(c, fiber.StatusNotFound)
	}

	if err := h.service.Set(c.UserContext(), key, string(c.Body())); err != nil {
		if errors.Is(err, storage.ErrInvalidJSON) {
			l.Warn("Invalid JSON body", zap.String("property", key), zap.Error(err))
		} else {
			l.Error("Error while setting value", zap.String("property", key), zap.Error(err))
		}
		return status(c, fiber.StatusBadRequest)
	}

	return status(c, fiber.StatusOK)
}

// HandleUnmatched answers every request no property route accepted.
func (h *Handler) HandleUnmatched(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	if _, ok := PropertyName(rawPath(c)); !ok {
		l.Warn("No property name found", zap.String("path", rawPath(c)))
	} else {
		l.Warn("No action matched", zap.String("method", c.Method()))
	}
	return status(c, fiber.StatusNotFound)
}

// rawPath is the request path as sent by the client, before Fiber's
// decoding and normalization, without the query string.
func rawPath(c *fiber.Ctx) string {
	return string(c.Request().URI().PathOriginal())
}

// status ends the exchange with code and an empty body.
func status(c *fiber.Ctx, code int) error {
	c.Status(code)
	return nil
}
