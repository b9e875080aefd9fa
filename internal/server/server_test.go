package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/world-clocks/internal/config"
	"github.com/tartampluch/world-clocks/internal/engine"
	"golang.org/x/time/rate"
)

// -----------------------------------------------------------------------------
// Helpers
// -----------------------------------------------------------------------------

// pinnedRefresher returns a refresher over the real catalogue, pinned to 14:30 IST.
func pinnedRefresher(t *testing.T) *engine.Refresher {
	t.Helper()
	cities, err := engine.DefaultCities()
	require.NoError(t, err)

	fc := clockwork.NewFakeClockAt(time.Date(2025, 1, 15, 1, 0, 0, 0, time.UTC))
	r := engine.NewRefresher(fc, cities, time.Second)
	r.Pin(14, 30)
	return r
}

func serve(h http.Handler, method, target string, headers map[string]string) *http.Response {
	req := httptest.NewRequest(method, target, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w.Result()
}

// -----------------------------------------------------------------------------
// Handler Tests
// -----------------------------------------------------------------------------

func TestHandler_Health(t *testing.T) {
	srv := NewSnapshotServer("0")

	resp := serve(srv.Routes(), http.MethodGet, config.RouteHealth, nil)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, config.ServerName, resp.Header.Get(config.HeaderServer))
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, config.HealthBody, string(body))
}

// TestHandler_Initializing verifies the 503 behavior before the first snapshot.
func TestHandler_Initializing(t *testing.T) {
	srv := NewSnapshotServer("0")
	h := srv.Routes()

	for _, route := range []string{config.RouteClocks, "/api/clocks/0", config.RouteReferenceICS} {
		t.Run(route, func(t *testing.T) {
			resp := serve(h, http.MethodGet, route, nil)
			defer func() { _ = resp.Body.Close() }()

			assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
			assert.Equal(t, config.RetryAfterSeconds, resp.Header.Get(config.HeaderRetryAfter))
		})
	}
}

func TestHandler_ServingSnapshot(t *testing.T) {
	srv := NewSnapshotServer("0")
	srv.Update(pinnedRefresher(t).Refresh())

	resp := serve(srv.Routes(), http.MethodGet, config.RouteClocks, nil)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, config.MimeJSON, resp.Header.Get(config.HeaderContentType))
	assert.Equal(t, config.MimeNoSniff, resp.Header.Get(config.HeaderXContentType))
	assert.NotEmpty(t, resp.Header.Get(config.HeaderETag))

	var got snapshotDTO
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))

	assert.Equal(t, config.ModePinned, got.Mode)
	assert.Equal(t, "2025-01-15T09:00:00Z", got.Reference)
	require.Len(t, got.Clocks, 35)

	kolkata := got.Clocks[0]
	assert.Equal(t, "Asia/Kolkata", kolkata.Zone)
	assert.Equal(t, "2:30:00 PM", kolkata.Time)
	assert.Equal(t, 19800, kolkata.Offset)
	assert.Equal(t, handsDTO{Hour: -15, Minute: 90, Second: -90}, kolkata.Hands)
}

// TestHandler_Caching verifies If-None-Match returns 304 with an empty body.
func TestHandler_Caching(t *testing.T) {
	srv := NewSnapshotServer("0")
	srv.Update(pinnedRefresher(t).Refresh())
	h := srv.Routes()

	resp1 := serve(h, http.MethodGet, config.RouteClocks, nil)
	_ = resp1.Body.Close()
	etag := resp1.Header.Get(config.HeaderETag)
	require.NotEmpty(t, etag)

	resp2 := serve(h, http.MethodGet, config.RouteClocks, map[string]string{config.HeaderIfNoneMatch: etag})
	defer func() { _ = resp2.Body.Close() }()

	assert.Equal(t, http.StatusNotModified, resp2.StatusCode)
	body, _ := io.ReadAll(resp2.Body)
	assert.Empty(t, body)
}

func TestHandler_Clock(t *testing.T) {
	srv := NewSnapshotServer("0")
	srv.Update(pinnedRefresher(t).Refresh())
	h := srv.Routes()

	tests := []struct {
		name   string
		target string
		status int
	}{
		{"Valid index", "/api/clocks/2", http.StatusOK},
		{"Non numeric", "/api/clocks/abc", http.StatusBadRequest},
		{"Negative", "/api/clocks/-1", http.StatusNotFound},
		{"Out of range", "/api/clocks/35", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := serve(h, http.MethodGet, tt.target, nil)
			defer func() { _ = resp.Body.Close() }()
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}

	resp := serve(h, http.MethodGet, "/api/clocks/2", nil)
	defer func() { _ = resp.Body.Close() }()
	var got readingDTO
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, "America/New_York", got.Zone)
	assert.Equal(t, "4:00:00 AM", got.Time)
	assert.Equal(t, 30.0, got.Hands.Hour)
}

func TestHandler_ReferenceICS(t *testing.T) {
	srv := NewSnapshotServer("0")
	srv.now = func() time.Time { return time.Date(2025, 1, 15, 1, 0, 0, 0, time.UTC) }
	srv.Update(pinnedRefresher(t).Refresh())

	resp := serve(srv.Routes(), http.MethodGet, config.RouteReferenceICS, nil)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, config.MimeTextCalendar, resp.Header.Get(config.HeaderContentType))
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "BEGIN:VEVENT")
	assert.Contains(t, string(body), "DTSTART:20250115T090000Z")
	assert.Contains(t, string(body), "DTSTAMP:20250115T010000Z")
}

func TestHandler_MethodNotAllowed(t *testing.T) {
	srv := NewSnapshotServer("0")
	srv.Update(pinnedRefresher(t).Refresh())

	resp := serve(srv.Routes(), http.MethodPost, config.RouteClocks, nil)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestHandler_HeadIsServed(t *testing.T) {
	srv := NewSnapshotServer("0")
	srv.Update(pinnedRefresher(t).Refresh())

	resp := serve(srv.Routes(), http.MethodHead, config.RouteClocks, nil)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get(config.HeaderETag))
}

func TestHandler_RateLimited(t *testing.T) {
	srv := NewSnapshotServer("0")
	srv.limiter = rate.NewLimiter(0, 2)
	h := srv.Routes()

	for i := 0; i < 2; i++ {
		resp := serve(h, http.MethodGet, config.RouteHealth, nil)
		_ = resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	}

	resp := serve(h, http.MethodGet, config.RouteHealth, nil)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, config.RetryAfterSeconds, resp.Header.Get(config.HeaderRetryAfter))
}

// -----------------------------------------------------------------------------
// Concurrency Tests (Race Detection)
// -----------------------------------------------------------------------------

// TestServer_RaceCondition runs a live refresher publishing into the server
// while readers hit the handler. Run this with `go test -race`.
func TestServer_RaceCondition(t *testing.T) {
	cities, err := engine.DefaultCities()
	require.NoError(t, err)

	srv := NewSnapshotServer("0")
	srv.limiter = rate.NewLimiter(rate.Inf, 1)
	h := srv.Routes()

	var wg sync.WaitGroup
	end := time.Now().Add(300 * time.Millisecond)

	for w := 0; w < 3; w++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			fc := clockwork.NewFakeClockAt(time.Date(2025, 1, 1, id, 0, 0, 0, time.UTC))
			r := engine.NewRefresher(fc, cities, time.Second)
			r.OnRefresh = srv.Update
			for time.Now().Before(end) {
				r.Refresh()
				fc.Advance(time.Second)
			}
		}(w)
	}

	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for time.Now().Before(end) {
				resp := serve(h, http.MethodGet, config.RouteClocks, nil)
				_ = resp.Body.Close()
				if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusServiceUnavailable {
					t.Errorf("Unexpected status code during race test: %d", resp.StatusCode)
				}
			}
		}()
	}

	wg.Wait()
}

// -----------------------------------------------------------------------------
// Integration Tests (Real TCP Lifecycle)
// -----------------------------------------------------------------------------

// TestServer_Lifecycle binds a real listener and verifies graceful shutdown.
func TestServer_Lifecycle(t *testing.T) {
	const port = "18199"

	srv := NewSnapshotServer(port)
	ctx, cancel := context.WithCancel(context.Background())
	errChan := make(chan error, 1)

	go func() {
		errChan <- srv.Start(ctx)
	}()

	base := fmt.Sprintf("http://%s:%s", config.LocalhostBindAddr, port)

	require.Eventually(t, func() bool {
		resp, err := http.Get(base + config.RouteHealth)
		if err != nil {
			return false
		}
		_ = resp.Body.Close()
		return true
	}, 2*time.Second, 50*time.Millisecond, "Server failed to bind/listen in time")

	resp, err := http.Get(base + config.RouteClocks)
	require.NoError(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	_ = resp.Body.Close()

	srv.Update(pinnedRefresher(t).Refresh())

	resp, err = http.Get(base + config.RouteClocks)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()

	select {
	case err := <-errChan:
		assert.NoError(t, err, "Server should shutdown gracefully without error")
	case <-time.After(5 * time.Second):
		t.Fatal("Server shutdown timed out")
	}
}

func TestServer_StartRequiresPort(t *testing.T) {
	srv := NewSnapshotServer("")
	err := srv.Start(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), config.ErrPortRequired)
}

func TestValidatePort(t *testing.T) {
	tests := []struct {
		port    string
		wantErr string
	}{
		{"18081", ""},
		{"1", ""},
		{"65535", ""},
		{"", config.ErrPortRequired},
		{"http", config.ErrPortNumber},
		{"0", config.ErrPortRange},
		{"70000", config.ErrPortRange},
	}

	for _, tt := range tests {
		t.Run(tt.port, func(t *testing.T) {
			err := validatePort(tt.port)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
