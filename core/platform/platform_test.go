package platform_test

import (
	"context"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"testing"
	"time"

	"propstore/core/config"
	"propstore/core/platform"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func freePort(t *testing.T) int {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()
	return ln.Addr().(*net.TCPAddr).Port
}

func testConfig(t *testing.T) *config.Config {
	cfg := &config.Config{}
	cfg.Server.Port = freePort(t)
	cfg.Server.ApiToken = "token"
	cfg.Storage.Driver = "file"
	cfg.Storage.Path = t.TempDir()
	return cfg
}

func observedLogger() (*zap.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zap.DebugLevel)
	return zap.New(core), logs
}

func closePlatform(t *testing.T, p *platform.Platform) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	assert.NoError(t, p.Close(ctx))
}

func TestNew_NilConfig(t *testing.T) {
	p := platform.New(zap.NewNop(), nil)
	assert.False(t, p.Running())
	assert.Nil(t, p.Addr())
	assert.Nil(t, p.Config())
	assert.NoError(t, p.Close(context.Background()))
}

func TestNew_MissingSettings(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*config.Config)
		logHint string
	}{
		{"MissingToken", func(c *config.Config) { c.Server.ApiToken = "" }, "server.api_token"},
		{"MissingStoragePath", func(c *config.Config) { c.Storage.Path = "" }, "storage.path"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(t)
			tt.mutate(cfg)
			logg, logs := observedLogger()

			p := platform.New(logg, cfg)
			defer closePlatform(t, p)

			assert.False(t, p.Running())
			assert.Nil(t, p.Addr())

			entries := logs.FilterMessage("API not started").All()
			require.Len(t, entries, 1)
			assert.Contains(t, entries[0].ContextMap()["error"], tt.logHint)

			// Nothing may be listening on the configured port.
			conn, err := net.DialTimeout("tcp", net.JoinHostPort("127.0.0.1", strconv.Itoa(cfg.Server.Port)), 200*time.Millisecond)
			if err == nil {
				conn.Close()
			}
			assert.Error(t, err)
		})
	}
}

func TestNew_DefaultPort(t *testing.T) {
	cfg := &config.Config{}
	cfg.Storage.Path = t.TempDir()

	// No token: the platform stays idle but still resolves its defaults.
	p := platform.New(zap.NewNop(), cfg)
	require.NotNil(t, p.Config())
	assert.Equal(t, 40020, p.Config().Server.Port)
	assert.False(t, p.Running())
}

func TestNew_PortInUse(t *testing.T) {
	occupied, err := net.Listen("tcp", "0.0.0.0:0")
	require.NoError(t, err)
	defer occupied.Close()

	cfg := testConfig(t)
	cfg.Server.Port = occupied.Addr().(*net.TCPAddr).Port
	logg, logs := observedLogger()

	p := platform.New(logg, cfg)
	defer closePlatform(t, p)

	assert.False(t, p.Running())
	assert.Equal(t, 1, logs.FilterMessage("API could not be started").Len())

	// The store was released, so a second platform can take the directory.
	cfg2 := testConfig(t)
	cfg2.Storage.Path = cfg.Storage.Path
	p2 := platform.New(zap.NewNop(), cfg2)
	defer closePlatform(t, p2)
	assert.True(t, p2.Running())
}

func TestNew_StorageFailure(t *testing.T) {
	cfg := testConfig(t)
	cfg.Storage.Driver = "etcd"
	logg, logs := observedLogger()

	p := platform.New(logg, cfg)
	defer closePlatform(t, p)

	assert.False(t, p.Running())
	assert.Equal(t, 1, logs.FilterMessage("Storage could not be initialized").Len())
}

func TestPlatform_Serves(t *testing.T) {
	cfg := testConfig(t)
	p := platform.New(zap.NewNop(), cfg)
	require.True(t, p.Running())

	base := "http://" + net.JoinHostPort("127.0.0.1", strconv.Itoa(cfg.Server.Port))
	client := &http.Client{Timeout: 5 * time.Second}

	send := func(method, path, body, token string) (*http.Response, string) {
		req, err := http.NewRequest(method, base+path, strings.NewReader(body))
		require.NoError(t, err)
		if token != "" {
			req.Header.Set("Authorization", token)
		}
		resp, err := client.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		data, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		return resp, string(data)
	}

	resp, _ := send("POST", "/lamp", `{"on":true}`, "token")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body := send("GET", "/lamp", "", "token")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	assert.Equal(t, `{"on":true}`, body)
	assert.NotEmpty(t, resp.Header.Get("X-Ray-ID"))

	resp, body = send("GET", "/unknown", "", "token")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/plain", resp.Header.Get("Content-Type"))
	assert.Equal(t, "null", body)

	resp, _ = send("GET", "/lamp", "", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = send("DELETE", "/lamp", "", "token")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	closePlatform(t, p)

	_, err := client.Get(base + "/lamp")
	assert.Error(t, err)

	// Data survives a restart on the same directory.
	cfg.Server.Port = freePort(t)
	restarted := platform.New(zap.NewNop(), cfg)
	defer closePlatform(t, restarted)
	require.True(t, restarted.Running())

	base = "http://" + net.JoinHostPort("127.0.0.1", strconv.Itoa(cfg.Server.Port))
	resp, body = send("GET", "/lamp", "", "token")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, `{"on":true}`, body)
}

func TestPlatform_Metrics(t *testing.T) {
	cfg := testConfig(t)
	cfg.Metrics.Enabled = true
	cfg.Metrics.Port = freePort(t)

	p := platform.New(zap.NewNop(), cfg)
	defer closePlatform(t, p)
	require.True(t, p.Running())
	require.NotNil(t, p.MetricsAddr())

	client := &http.Client{Timeout: 5 * time.Second}
	req, err := http.NewRequest("GET", "http://"+net.JoinHostPort("127.0.0.1", strconv.Itoa(cfg.Server.Port))+"/x", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "token")
	resp, err := client.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	resp, err = client.Get("http://" + net.JoinHostPort("127.0.0.1", strconv.Itoa(cfg.Metrics.Port)) + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(data), `propstore_store_operations_total{operation="get",outcome="ok"} 1`)
}

func TestPlatform_ConfigureAccessory(t *testing.T) {
	logg, logs := observedLogger()
	p := platform.New(logg, nil)
	assert.NotPanics(t, func() {
		p.ConfigureAccessory(platform.Accessory{UUID: "abc", DisplayName: "Lamp"})
	})
	assert.Equal(t, 1, logs.FilterMessage("Ignoring cached accessory").Len())
}

func TestPlatform_CloseTwice(t *testing.T) {
	p := platform.New(zap.NewNop(), testConfig(t))
	require.True(t, p.Running())
	closePlatform(t, p)
	assert.NoError(t, p.Close(context.Background()))
}
