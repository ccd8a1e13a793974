package uploader

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gofrs/flock"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/pocketserve/internal/core/domain"
	"github.com/custodia-labs/pocketserve/internal/core/ports/driven"
	"github.com/custodia-labs/pocketserve/internal/logger"
)

// Ensure Server implements the interface.
var _ driven.NetworkService = (*Server)(nil)

const (
	shutdownTimeout   = 5 * time.Second
	readHeaderTimeout = 10 * time.Second
)

// Config holds the server settings that do not change between sessions.
type Config struct {
	// BindAddress is the interface to listen on.
	BindAddress string

	// Port is the preferred port. Zero lets the OS choose.
	Port int

	// PortFallbackRange is how many ports after Port to try when it is busy.
	PortFallbackRange int

	// MaxUploadBytes caps each upload request body.
	MaxUploadBytes int64

	// RequestsPerSecond and Burst configure the request rate limiter.
	RequestsPerSecond int
	Burst             int

	// LockPath is the file locked for the lifetime of a session so that
	// only one process serves at a time. Empty disables locking.
	LockPath string

	// Gatherer, if set, is exposed at /metrics.
	Gatherer prometheus.Gatherer
}

// ConfigFromSettings builds a Config from application settings.
func ConfigFromSettings(s domain.ServerSettings, lockPath string) Config {
	return Config{
		BindAddress:       s.BindAddress,
		Port:              s.Port,
		PortFallbackRange: s.PortFallbackRange,
		MaxUploadBytes:    s.MaxUploadBytes,
		RequestsPerSecond: s.RequestsPerSecond,
		Burst:             s.Burst,
		LockPath:          lockPath,
	}
}

// Server is an HTTP file server bound to one upload root per session.
type Server struct {
	config   Config
	observer driven.FileEventObserver

	mu         sync.Mutex
	running    bool
	port       int
	options    driven.StartOptions
	httpServer *http.Server
	lock       *flock.Flock
	done       chan struct{}
}

// New creates a stopped server. observer may be nil.
func New(config Config, observer driven.FileEventObserver) *Server {
	if observer == nil {
		observer = nopObserver{}
	}
	if config.MaxUploadBytes <= 0 {
		config.MaxUploadBytes = domain.DefaultMaxUploadBytes
	}
	if config.RequestsPerSecond <= 0 {
		config.RequestsPerSecond = domain.DefaultRequestsPerSecond
	}
	if config.Burst <= 0 {
		config.Burst = domain.DefaultRequestBurst
	}
	return &Server{config: config, observer: observer}
}

// Start binds the listener and begins serving opts.UploadRoot.
// Returns the bound port, or a *domain.StartError describing the failure.
func (s *Server) Start(ctx context.Context, opts driven.StartOptions) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return 0, domain.ErrSessionActive
	}
	if err := ctx.Err(); err != nil {
		return 0, domain.NewStartError("start cancelled", err)
	}

	root, err := prepareRoot(opts.UploadRoot)
	if err != nil {
		return 0, domain.NewStartError("upload root unavailable", err)
	}

	lock, err := s.acquireLock()
	if err != nil {
		return 0, err
	}

	listener, err := listen(s.config.BindAddress, s.config.Port, s.config.PortFallbackRange)
	if err != nil {
		releaseLock(lock)
		return 0, domain.NewStartError(fmt.Sprintf("port %d unavailable", s.config.Port), err)
	}

	h := &handler{
		resolver:       resolver{root: root, allowHidden: opts.AllowHiddenEntries},
		sessionID:      opts.SessionID,
		observer:       s.observer,
		maxUploadBytes: s.config.MaxUploadBytes,
	}
	httpServer := &http.Server{
		Handler:           s.router(h),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("uploader: server error: %v", err)
		}
	}()

	s.running = true
	s.port = listener.Addr().(*net.TCPAddr).Port
	s.options = opts
	s.httpServer = httpServer
	s.lock = lock
	s.done = done

	logger.Info("uploader: serving %s on %s", root, listener.Addr())
	return s.port, nil
}

// Stop shuts the server down and releases the session lock.
// Stopping a stopped server is a no-op.
func (s *Server) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	err := s.httpServer.Shutdown(ctx)
	if err != nil {
		_ = s.httpServer.Close()
	}
	<-s.done

	releaseLock(s.lock)
	s.running = false
	s.port = 0
	s.httpServer = nil
	s.lock = nil
	s.done = nil

	if err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info("uploader: stopped")
	return nil
}

// Port returns the bound port, or zero when stopped.
func (s *Server) Port() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.port
}

// Running reports whether the server is serving.
func (s *Server) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// AllowsAutoSuspend reports the suspend policy requested for the current
// session. A desktop process is never suspended, so it is informational.
func (s *Server) AllowsAutoSuspend() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running && s.options.AllowAutoSuspendInBackground
}

func (s *Server) router(h *handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(loggingMiddleware)
	r.Use(rateLimitMiddleware(rate.NewLimiter(rate.Limit(s.config.RequestsPerSecond), s.config.Burst)))

	r.Get("/", h.index)
	r.Get("/list", h.list)
	r.Get("/download", h.download)
	r.Post("/upload", h.upload)
	r.Post("/move", h.move)
	r.Post("/create", h.create)
	r.Post("/delete", h.remove)

	if s.config.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.config.Gatherer, promhttp.HandlerOpts{}))
	}
	return r
}

// acquireLock takes the cross-process session lock.
func (s *Server) acquireLock() (*flock.Flock, error) {
	if s.config.LockPath == "" {
		return nil, nil
	}
	if err := os.MkdirAll(filepath.Dir(s.config.LockPath), 0o755); err != nil {
		return nil, domain.NewStartError("cannot create lock directory", err)
	}

	lock := flock.New(s.config.LockPath)
	locked, err := lock.TryLock()
	if err != nil {
		return nil, domain.NewStartError("cannot lock session", err)
	}
	if !locked {
		return nil, domain.NewStartError("another session is active", domain.ErrSessionActive)
	}
	return lock, nil
}

func releaseLock(lock *flock.Flock) {
	if lock == nil {
		return
	}
	if err := lock.Unlock(); err != nil {
		log.Printf("uploader: failed to release session lock: %v", err)
	}
}

// prepareRoot creates the upload root if needed and returns its absolute path.
func prepareRoot(root string) (string, error) {
	if root == "" {
		return "", fmt.Errorf("%w: upload root is empty", domain.ErrInvalidInput)
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return "", err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", err
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%w: %s is not a directory", domain.ErrInvalidInput, abs)
	}
	return abs, nil
}

// listen binds the preferred port, falling back through the next
// fallback ports. The listener is kept so the port cannot be lost
// between probing and serving.
func listen(bind string, port, fallback int) (net.Listener, error) {
	if port == 0 {
		return net.Listen("tcp", net.JoinHostPort(bind, "0"))
	}

	last := port + fallback
	if last > 65535 {
		last = 65535
	}

	var firstErr error
	for p := port; p <= last; p++ {
		listener, err := net.Listen("tcp", net.JoinHostPort(bind, strconv.Itoa(p)))
		if err == nil {
			return listener, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	if fallback == 0 {
		return nil, firstErr
	}
	return nil, fmt.Errorf("no available port in range %d-%d: %w", port, last, firstErr)
}

// nopObserver drops file events.
type nopObserver struct{}

func (nopObserver) OnUpload(_, _ string) {}
func (nopObserver) OnDownload(_, _ string) {}
func (nopObserver) OnMove(_, _, _ string) {}
func (nopObserver) OnCreateDirectory(_, _ string) {}
func (nopObserver) OnDelete(_, _ string) {}
