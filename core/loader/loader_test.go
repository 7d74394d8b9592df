package loader_test

import (
	"errors"
	"testing"

	"propstore/core/loader"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

type stubFeature struct {
	name    string
	enabled bool
	err     error
	loaded  bool
}

func (f *stubFeature) Name() string    { return f.name }
func (f *stubFeature) IsEnabled() bool { return f.enabled }
func (f *stubFeature) Load(app fiber.Router) error {
	f.loaded = true
	return f.err
}

func TestManager_LoadAll(t *testing.T) {
	t.Run("SkipsDisabled", func(t *testing.T) {
		on := &stubFeature{name: "on", enabled: true}
		off := &stubFeature{name: "off"}

		mgr := loader.NewManager()
		mgr.Register(on)
		mgr.Register(off)

		assert.NoError(t, mgr.LoadAll(fiber.New()))
		assert.True(t, on.loaded)
		assert.False(t, off.loaded)
		assert.Len(t, mgr.Features(), 2)
	})

	t.Run("StopsOnError", func(t *testing.T) {
		boom := errors.New("boom")
		bad := &stubFeature{name: "bad", enabled: true, err: boom}
		after := &stubFeature{name: "after", enabled: true}

		mgr := loader.NewManager()
		mgr.Register(bad)
		mgr.Register(after)

		err := mgr.LoadAll(fiber.New())
		assert.ErrorIs(t, err, boom)
		assert.Contains(t, err.Error(), "bad")
		assert.False(t, after.loaded)
	})
}
