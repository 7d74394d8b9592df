package rayid

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	// HeaderName is the response header carrying the RayID.
	HeaderName = "X-Ray-ID"
	// LocalsKey is the Fiber locals key the RayID is stored under.
	LocalsKey = "ray_id"
)

// New returns a middleware that assigns a fresh RayID to every request.
func New() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := uuid.NewString()
		c.Locals(LocalsKey, id)
		c.Set(HeaderName, id)
		return c.Next()
	}
}

// FromContext returns the RayID assigned to the request, if any.
func FromContext(c *fiber.Ctx) string {
	id, _ := c.Locals(LocalsKey).(string)
	return id
}
