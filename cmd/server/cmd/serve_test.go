package cmd

import (
	"context"
	"errors"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/internlog/server/internal/config"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServeOptionsApply(t *testing.T) {
	cfg := config.Defaults()
	(&serveOptions{}).apply(&cfg)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 5000, cfg.Server.Port)

	(&serveOptions{host: "127.0.0.1", port: 9090}).apply(&cfg)
	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, 9090, cfg.Server.Port)
}

func TestServeCommandFlags(t *testing.T) {
	serve := newServeCommand(&globalOptions{})
	for _, flag := range []string{"host", "port"} {
		assert.NotNil(t, serve.Flags().Lookup(flag), flag)
	}

	output, err := execute(t, "serve", "--help")
	require.NoError(t, err)
	assert.Contains(t, output, "--host")
	assert.Contains(t, output, "--config")
}

func TestServeCommand_ConfigError(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	_, err := execute(t, "serve")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config error")
}

func TestNewHTTPServer(t *testing.T) {
	cfg := config.Defaults()
	cfg.Server.Host = "::1"
	cfg.Server.Port = 8081

	srv := newHTTPServer(cfg, http.NotFoundHandler())
	assert.Equal(t, "[::1]:8081", srv.Addr)
	assert.Equal(t, 5*time.Second, srv.ReadHeaderTimeout)
	assert.Equal(t, 1<<20, srv.MaxHeaderBytes)
}

func listen(t *testing.T) net.Listener {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	return ln
}

func TestServeUntilDone_GracefulShutdown(t *testing.T) {
	ln := listen(t)
	srv := &http.Server{
		Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		}),
		ReadHeaderTimeout: time.Second,
	}

	ctx, cancel := context.WithCancel(context.Background())
	workerStopped := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- serveUntilDone(ctx, srv, ln, zerolog.Nop(), func(ctx context.Context) error {
			<-ctx.Done()
			close(workerStopped)
			return nil
		})
	}()

	resp, err := http.Get("http://" + ln.Addr().String() + "/")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
	<-workerStopped
}

func TestServeUntilDone_WorkerFailureStopsServer(t *testing.T) {
	ln := listen(t)
	srv := &http.Server{Handler: http.NotFoundHandler(), ReadHeaderTimeout: time.Second}
	boom := errors.New("collector failed")

	err := serveUntilDone(context.Background(), srv, ln, zerolog.Nop(), func(context.Context) error {
		return boom
	})
	assert.ErrorIs(t, err, boom)
}
