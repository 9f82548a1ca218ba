package server_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tasklane/tasklane/internal/kv"
	"github.com/tasklane/tasklane/internal/server"
	"github.com/tasklane/tasklane/internal/store"
)

func newManager(t *testing.T) *store.Manager {
	t.Helper()

	s, err := kv.OpenSQLite(filepath.Join(t.TempDir(), "kv.db"))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	return store.NewManager(s, log.New(io.Discard))
}

// waitForAddr polls until the server has bound its listener.
func waitForAddr(t *testing.T, srv *server.Server) string {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if addr := srv.Addr(); addr != "" {
			return addr
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("server address not available")
	return ""
}

func TestServer_StartAndShutdown(t *testing.T) {
	srv := server.New("localhost:0", newManager(t), log.New(io.Discard))

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()
	waitForAddr(t, srv)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		t.Errorf("shutdown error: %v", err)
	}

	select {
	case err := <-errChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			t.Errorf("unexpected error from Start: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Error("server did not stop after shutdown")
	}
}

func TestServer_ServesRequests(t *testing.T) {
	srv := server.New("localhost:0", newManager(t), log.New(io.Discard))

	go func() {
		srv.Start()
	}()
	addr := waitForAddr(t, srv)

	resp, err := http.Get("http://" + addr + "/v1/health")
	if err != nil {
		t.Fatalf("failed to make request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected status 200, got %d", resp.StatusCode)
	}

	var health map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if health["status"] != "ok" {
		t.Errorf("expected status 'ok', got %q", health["status"])
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		t.Errorf("shutdown error: %v", err)
	}
}

func TestServer_ShutdownBeforeStart(t *testing.T) {
	manager := newManager(t)
	defer manager.Close()

	srv := server.New("", manager, log.New(io.Discard))
	if err := srv.Shutdown(context.Background()); err != nil {
		t.Errorf("shutdown error: %v", err)
	}
	if srv.Addr() != "" {
		t.Errorf("expected empty address before start, got %q", srv.Addr())
	}
}

func TestDefaultAddress(t *testing.T) {
	if server.DefaultAddress != "localhost:7432" {
		t.Errorf("expected default address 'localhost:7432', got %q", server.DefaultAddress)
	}
}
