package rayid_test

import (
	"net/http/httptest"
	"testing"

	"propstore/core/middleware/rayid"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRayID(t *testing.T) {
	app := fiber.New()
	app.Use(rayid.New())

	var seen string
	app.Get("/", func(c *fiber.Ctx) error {
		seen = rayid.FromContext(c)
		return c.SendStatus(fiber.StatusOK)
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil), -1)
	require.NoError(t, err)

	header := resp.Header.Get(rayid.HeaderName)
	assert.NotEmpty(t, header)
	assert.Equal(t, header, seen)
	_, err = uuid.Parse(header)
	assert.NoError(t, err)

	resp2, err := app.Test(httptest.NewRequest("GET", "/", nil), -1)
	require.NoError(t, err)
	assert.NotEqual(t, header, resp2.Header.Get(rayid.HeaderName))
}
