package server

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/tartampluch/world-clocks/internal/config"
	"github.com/tartampluch/world-clocks/internal/engine"
	"golang.org/x/time/rate"
)

// cacheItem stores the latest snapshot with its pre-encoded JSON body.
type cacheItem struct {
	snap engine.Snapshot
	body []byte
	etag string
}

// SnapshotServer publishes the latest clock snapshot on a localhost API.
type SnapshotServer struct {
	// cache uses atomic.Pointer for lock-free reads. The refresher replaces
	// the snapshot every tick while HTTP readers load it concurrently.
	cache   atomic.Pointer[cacheItem]
	limiter *rate.Limiter
	now     func() time.Time
	Port    string
}

// NewSnapshotServer creates a new instance of the server.
func NewSnapshotServer(port string) *SnapshotServer {
	return &SnapshotServer{
		Port:    port,
		limiter: rate.NewLimiter(rate.Limit(config.RateLimitPerSecond), config.RateLimitBurst),
		now:     time.Now,
	}
}

// Routes builds the API router.
func (s *SnapshotServer) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.GetHead)
	r.Use(s.rateLimit)
	r.Use(serverHeaders)

	r.Get(config.RouteHealth, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set(config.HeaderContentType, config.MimeTextPlain)
		_, _ = w.Write([]byte(config.HealthBody))
	})
	r.Get(config.RouteClocks, s.handleSnapshot)
	r.Get(config.RouteClock, s.handleClock)
	r.Get(config.RouteReferenceICS, s.handleReferenceICS)

	return r
}

// Start initializes the HTTP server and blocks until the context is cancelled.
func (s *SnapshotServer) Start(ctx context.Context) error {
	if err := validatePort(s.Port); err != nil {
		return err
	}

	srv := &http.Server{
		Addr:         config.LocalhostBindAddr + config.AddrSeparator + s.Port,
		Handler:      s.Routes(),
		ReadTimeout:  config.ServerReadTimeout,
		WriteTimeout: config.ServerWriteTimeout,
		IdleTimeout:  config.ServerIdleTimeout,
	}

	serverError := make(chan error, config.ChannelBufferSize)

	go func() {
		slog.Info(config.MsgServerListen,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyPort, s.Port,
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverError <- err
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info(config.MsgServerStop, config.LogKeyComponent, config.CompServer)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("%s: %w", config.ErrServerShutdown, err)
		}
		return nil

	case err := <-serverError:
		return fmt.Errorf("%s: %w", config.ErrServerStartup, err)
	}
}

// validatePort rejects ports the settings window would also refuse.
func validatePort(port string) error {
	if port == "" {
		return errors.New(config.ErrPortRequired)
	}
	n, err := strconv.Atoi(port)
	if err != nil {
		return fmt.Errorf("%s: %w", config.ErrPortNumber, err)
	}
	if n < config.MinPort || n > config.MaxPort {
		return fmt.Errorf("%s: %d", config.ErrPortRange, n)
	}
	return nil
}

// Update atomically replaces the published snapshot.
func (s *SnapshotServer) Update(snap engine.Snapshot) {
	body, err := json.Marshal(newSnapshotDTO(snap))
	if err != nil {
		slog.Error(config.ErrJSONEncode,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyError, err,
		)
		return
	}

	hash := sha256.Sum256(body)
	etag := fmt.Sprintf(config.FormatETag, hex.EncodeToString(hash[:]))

	s.cache.Store(&cacheItem{snap: snap, body: body, etag: etag})

	slog.Debug(config.MsgSnapshotUpdated,
		config.LogKeyComponent, config.CompServer,
		config.LogKeySizeBytes, len(body),
		config.LogKeyETag, etag,
	)
}

// load returns the current snapshot or answers 503 when none is published yet.
func (s *SnapshotServer) load(w http.ResponseWriter) *cacheItem {
	item := s.cache.Load()
	if item == nil {
		w.Header().Set(config.HeaderRetryAfter, config.RetryAfterSeconds)
		http.Error(w, config.HTTPMsgInitializing, http.StatusServiceUnavailable)
	}
	return item
}

// handleSnapshot serves the full snapshot with ETag support.
func (s *SnapshotServer) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	item := s.load(w)
	if item == nil {
		return
	}

	w.Header().Set(config.HeaderContentType, config.MimeJSON)
	w.Header().Set(config.HeaderCacheControl, config.CacheControlNone)
	w.Header().Set(config.HeaderETag, item.etag)

	if match := r.Header.Get(config.HeaderIfNoneMatch); match == item.etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	if _, err := w.Write(item.body); err != nil {
		logWriteError(err)
	}
}

// handleClock serves a single reading by catalogue index.
func (s *SnapshotServer) handleClock(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, config.URLParamIndex))
	if err != nil {
		http.Error(w, config.HTTPMsgBadIndex, http.StatusBadRequest)
		return
	}

	item := s.load(w)
	if item == nil {
		return
	}
	if index < 0 || index >= len(item.snap.Readings) {
		http.Error(w, config.HTTPMsgNotFound, http.StatusNotFound)
		return
	}

	writeJSON(w, newReadingDTO(item.snap.Readings[index]))
}

// handleReferenceICS exports the snapshot's reference instant as iCalendar.
func (s *SnapshotServer) handleReferenceICS(w http.ResponseWriter, _ *http.Request) {
	item := s.load(w)
	if item == nil {
		return
	}

	data, err := engine.ExportICS(item.snap, s.now())
	if err != nil {
		slog.Error(config.ErrICalEncode,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyError, err,
		)
		http.Error(w, config.HTTPMsgInternalErr, http.StatusInternalServerError)
		return
	}

	w.Header().Set(config.HeaderContentType, config.MimeTextCalendar)
	w.Header().Set(config.HeaderCacheControl, config.CacheControlNone)
	if _, err := w.Write(data); err != nil {
		logWriteError(err)
	}
}

// rateLimit rejects requests once the shared token bucket is empty.
func (s *SnapshotServer) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.limiter.Allow() {
			slog.Warn(config.MsgRateLimited,
				config.LogKeyComponent, config.CompServer,
				config.LogKeyPath, r.URL.Path,
			)
			w.Header().Set(config.HeaderRetryAfter, config.RetryAfterSeconds)
			http.Error(w, config.HTTPMsgTooMany, http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func serverHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(config.HeaderServer, config.ServerName)
		w.Header().Set(config.HeaderXContentType, config.MimeNoSniff)
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		slog.Error(config.ErrJSONEncode,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyError, err,
		)
		http.Error(w, config.HTTPMsgInternalErr, http.StatusInternalServerError)
		return
	}
	w.Header().Set(config.HeaderContentType, config.MimeJSON)
	if _, err := w.Write(body); err != nil {
		logWriteError(err)
	}
}

func logWriteError(err error) {
	slog.Error(config.ErrWriteResp,
		config.LogKeyComponent, config.CompServer,
		config.LogKeyError, err,
	)
}
