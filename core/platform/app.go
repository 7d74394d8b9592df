package platform

import (
	"errors"
	"time"

	"propstore/core/config"
	"propstore/core/loader"
	"propstore/core/logger"
	"propstore/core/metrics"
	"propstore/core/middleware/auth"
	"propstore/core/middleware/rayid"
	"propstore/core/storage"
	"propstore/feature/property"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// NewApp builds the property API over store: ray ids, request logging,
// metrics, token authentication and the property routes, in that order.
// m may be nil.
func NewApp(store storage.Store, cfg *config.Config, logg *zap.Logger, m *metrics.Metrics) (*fiber.App, error) {
	srv := cfg.Server.WithDefaults()

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		BodyLimit:             srv.BodyLimitBytes,
		ErrorHandler:          errorHandler(logg),
	})
	// Connection-level failures (reading a request, writing a response) are
	// reported by fasthttp through this logger.
	app.Server().Logger = logger.StdLog(logg, "fasthttp")

	app.Use(rayid.New())
	app.Use(requestLogger(logg))
	app.Use(m.Middleware())
	app.Use(auth.New(auth.Config{Token: srv.ApiToken, Logger: logg}))

	mgr := loader.NewManager()
	mgr.Register(property.NewFeature(store, logg, srv.RequestTimeout(), m))
	if err := mgr.LoadAll(app); err != nil {
		return nil, err
	}

	return app, nil
}

func requestLogger(logg *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		l := logger.WithRayID(logg, c)
		l.Debug("Request started",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.String("ip", c.IP()),
		)
		err := c.Next()
		if err != nil {
			l.Error("Request error", zap.Error(err))
		}
		l.Info("Request completed",
			zap.String("method", c.Method()),
			zap.Int("status", c.Response().StatusCode()),
			zap.Duration("duration", time.Since(start)),
		)
		return err
	}
}

// errorHandler ends failed exchanges with the error's status and an empty
// body. It also receives transport errors fasthttp hits while reading a
// request (malformed request, body too large, timeouts).
func errorHandler(logg *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
		}
		logger.WithRayID(logg, c).Warn("Exchange failed", zap.Int("status", code), zap.Error(err))
		c.Status(code)
		return nil
	}
}
