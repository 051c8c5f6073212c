package http

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/accelari/trademarkiq2-sub002/internal/config"
)

func TestServerStartStop(t *testing.T) {
	srv := NewServer(config.ServerConfig{Port: 0, ShutdownTimeout: time.Second},
		http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
		}), nil)

	done := make(chan error, 1)
	go func() { done <- srv.Start() }()

	time.Sleep(50 * time.Millisecond)
	require.NoError(t, srv.Stop(context.Background()))

	select {
	case err := <-done:
		assert.NoError(t, err, "graceful shutdown must not surface ErrServerClosed")
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestServerDefaultsTimeouts(t *testing.T) {
	srv := NewServer(config.ServerConfig{Port: 8080}, nil, nil)
	assert.Equal(t, 15*time.Second, srv.srv.ReadTimeout)
	assert.Equal(t, 30*time.Second, srv.srv.WriteTimeout)
}
