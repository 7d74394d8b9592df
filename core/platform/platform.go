package platform

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"

	"propstore/core/config"
	"propstore/core/metrics"
	"propstore/core/storage"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Accessory is an entity the host restored from its cache before starting
// the platform.
type Accessory struct {
	UUID        string
	DisplayName string
}

// Platform owns the property API: the store handle, the HTTP listener and the
// optional metrics listener.
//
// Startup never fails loudly. A missing token or storage path, a store that
// cannot be opened, or a port that cannot be bound is logged and leaves the
// platform idle; the host keeps running.
type Platform struct {
	logger *zap.Logger
	config *config.Config

	store    storage.Store
	app      *fiber.App
	listener net.Listener

	metricsApp      *fiber.App
	metricsListener net.Listener

	closeOnce sync.Once
	closeErr  error
}

// New starts the platform from cfg. A nil cfg leaves the platform idle.
func New(logg *zap.Logger, cfg *config.Config) *Platform {
	if logg == nil {
		logg = zap.NewNop()
	}
	p := &Platform{logger: logg}
	if cfg == nil {
		return p
	}

	c := *cfg
	c.Server = c.Server.WithDefaults()
	p.config = &c

	if err := c.Validate(); err != nil {
		logg.Error("API not started", zap.Error(err))
		return p
	}

	store, err := storage.Open(c.Storage)
	if err != nil {
		logg.Error("Storage could not be initialized",
			zap.String("driver", c.Storage.Driver),
			zap.String("path", c.Storage.Path),
			zap.Error(err),
		)
		return p
	}

	var m *metrics.Metrics
	if c.Metrics.Enabled {
		m = metrics.New()
	}

	app, err := NewApp(store, &c, logg, m)
	if err != nil {
		logg.Error("API could not be started", zap.Error(err))
		_ = store.Close()
		return p
	}

	ln, err := net.Listen("tcp", c.Server.ListenAddr())
	if err != nil {
		logg.Error("API could not be started", zap.String("address", c.Server.ListenAddr()), zap.Error(err))
		_ = store.Close()
		return p
	}

	p.store, p.app, p.listener = store, app, ln
	go p.serve("API", app, ln)
	logg.Info("API started", zap.String("address", ln.Addr().String()), zap.String("driver", c.Storage.Driver))

	if m != nil {
		p.startMetrics(m, c.Metrics.Port)
	}
	return p
}

func (p *Platform) startMetrics(m *metrics.Metrics, port int) {
	addr := fmt.Sprintf("0.0.0.0:%d", port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		p.logger.Error("Metrics endpoint could not be started", zap.String("address", addr), zap.Error(err))
		return
	}
	app := m.NewApp()
	p.metricsApp, p.metricsListener = app, ln
	go p.serve("metrics", app, ln)
	p.logger.Info("Metrics endpoint started", zap.String("address", ln.Addr().String()))
}

func (p *Platform) serve(name string, app *fiber.App, ln net.Listener) {
	if err := app.Listener(ln); err != nil && !errors.Is(err, net.ErrClosed) {
		p.logger.Error("Listener stopped", zap.String("listener", name), zap.Error(err))
	}
}

// Running reports whether the API listener is bound.
func (p *Platform) Running() bool {
	return p.listener != nil
}

// Addr returns the bound API address, or nil when the API is not running.
func (p *Platform) Addr() net.Addr {
	if p.listener == nil {
		return nil
	}
	return p.listener.Addr()
}

// MetricsAddr returns the bound metrics address, or nil.
func (p *Platform) MetricsAddr() net.Addr {
	if p.metricsListener == nil {
		return nil
	}
	return p.metricsListener.Addr()
}

// Config returns the effective configuration (defaults applied), or nil
// when the platform was created without one.
func (p *Platform) Config() *config.Config {
	return p.config
}

// ConfigureAccessory is invoked once per accessory the host restored from
// its cache. The property API keeps no accessories, so it is ignored.
func (p *Platform) ConfigureAccessory(accessory Accessory) {
	p.logger.Debug("Ignoring cached accessory", zap.String("uuid", accessory.UUID))
}

// Close stops the listeners, waiting for in-flight exchanges until ctx
// expires, then closes the store. Later calls return the first result.
func (p *Platform) Close(ctx context.Context) error {
	p.closeOnce.Do(func() {
		var g errgroup.Group
		for _, app := range []*fiber.App{p.app, p.metricsApp} {
			if app == nil {
				continue
			}
			app := app
			g.Go(func() error { return app.ShutdownWithContext(ctx) })
		}
		err := g.Wait()

		// Shutdown only knows listeners that Serve already picked up.
		for _, ln := range []net.Listener{p.listener, p.metricsListener} {
			if ln != nil {
				_ = ln.Close()
			}
		}

		if p.store != nil {
			if cerr := p.store.Close(); cerr != nil {
				err = errors.Join(err, fmt.Errorf("failed to close store: %w", cerr))
			}
		}
		p.closeErr = err
	})
	return p.closeErr
}
