package devserver

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/ksyq12/spabuild/internal/bundler"
	"github.com/ksyq12/spabuild/internal/config"
	"github.com/ksyq12/spabuild/internal/errors"
	"github.com/ksyq12/spabuild/internal/logger"
)

// StatusPath reports the state of the last build as JSON.
const StatusPath = "/__spabuild/status"

// maxPortAttempts bounds how many ports after the configured one are tried.
const maxPortAttempts = 10

const shutdownTimeout = 5 * time.Second

// Options configure a Server.
type Options struct {
	// Debounce is passed to the watcher; zero uses bundler.DefaultDebounce.
	Debounce time.Duration
	// OnRebuild is called after every build, including the first.
	OnRebuild bundler.RebuildFunc
}

// Server is the development server.
type Server struct {
	cfg     *config.Config
	bundler *bundler.Bundler
	opts    Options
	proxies map[string]http.Handler
	handler http.Handler
	log     *logger.Component

	mu       sync.RWMutex
	listener net.Listener
	last     *bundler.Result
	lastErr  error
	builds   int
	cancel   context.CancelFunc
	done     chan struct{}
}

// New creates a server for cfg. b may be nil to serve an existing output
// directory without building.
func New(cfg *config.Config, b *bundler.Bundler, opts Options) (*Server, error) {
	s := &Server{
		cfg:     cfg,
		bundler: b,
		opts:    opts,
		proxies: make(map[string]http.Handler, len(cfg.Server.Proxy)),
		log:     logger.For("devserver"),
	}
	for _, rule := range cfg.Server.Proxy {
		if _, dup := s.proxies[rule.Prefix]; dup {
			continue
		}
		p, err := newProxy(rule, s.log)
		if err != nil {
			return nil, err
		}
		s.proxies[rule.Prefix] = p
	}
	s.handler = s.routes()
	return s, nil
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)
	r.Use(s.proxyRequests)
	r.Get(StatusPath, s.handleStatus)
	r.Handle("/*", http.HandlerFunc(s.serveStatic))
	return r
}

// Handler returns the server's HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Listen binds the configured address. A busy port moves on to the next
// one unless the port is strict.
func (s *Server) Listen() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		return nil
	}

	attempts := maxPortAttempts + 1
	if s.cfg.Server.Strict || s.cfg.Server.Port == 0 {
		attempts = 1
	}
	var lastErr error
	for i := 0; i < attempts; i++ {
		port := s.cfg.Server.Port + i
		addr := net.JoinHostPort(s.cfg.Server.Host, strconv.Itoa(port))
		ln, err := net.Listen("tcp", addr)
		if err == nil {
			if i > 0 {
				s.log.Warn("port %d is in use, using %d", s.cfg.Server.Port, port)
			}
			s.listener = ln
			return nil
		}
		lastErr = err
		if !errors.Is(err, syscall.EADDRINUSE) {
			break
		}
	}
	return errors.Wrap(errors.ErrCodeServer, "failed to listen", lastErr)
}

// Addr returns the bound address, or the configured one before Listen.
func (s *Server) Addr() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.cfg.Server.Addr()
}

// URL returns the address browsers should open.
func (s *Server) URL() string {
	host, port, err := net.SplitHostPort(s.Addr())
	if err != nil {
		return "http://" + s.Addr() + "/"
	}
	if host == "" || host == "::" || host == "0.0.0.0" {
		host = "localhost"
	}
	return "http://" + net.JoinHostPort(host, port) + "/"
}

// Start builds the project, serves it and rebuilds on change. It blocks
// until ctx is cancelled or Shutdown is called and returns nil after a
// clean stop.
func (s *Server) Start(ctx context.Context) error {
	if err := s.Listen(); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	done := make(chan struct{})
	defer close(done)

	s.mu.Lock()
	ln := s.listener
	s.cancel = cancel
	s.done = done
	s.mu.Unlock()

	if s.bundler != nil {
		res, err := s.bundler.Build(ctx)
		s.record(res, err)
	}

	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.log.Info("listening on %s", ln.Addr())
		if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			return errors.Wrap(errors.ErrCodeServer, "server stopped", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	if s.bundler != nil {
		g.Go(func() error {
			return s.bundler.Watch(gctx, s.opts.Debounce, s.record)
		})
	}

	err := g.Wait()
	s.log.Info("stopped")
	return err
}

// Shutdown stops a running server and waits for Start to return.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.RLock()
	cancel, done := s.cancel, s.done
	s.mu.RUnlock()
	if cancel == nil {
		return nil
	}
	cancel()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Server) record(res *bundler.Result, err error) {
	s.mu.Lock()
	s.builds++
	if err != nil {
		s.lastErr = err
	} else {
		s.last, s.lastErr = res, nil
	}
	s.mu.Unlock()

	if err != nil {
		s.log.Error("build failed: %v", err)
	} else {
		s.log.DebugFields("rebuilt", map[string]interface{}{
			"files": len(res.Files),
			"took":  res.Duration.Round(time.Millisecond),
		})
	}
	if s.opts.OnRebuild != nil {
		s.opts.OnRebuild(res, err)
	}
}

// Status is the body of StatusPath.
type Status struct {
	OK     bool               `json:"ok"`
	Builds int                `json:"builds"`
	Error  string             `json:"error,omitempty"`
	Entry  string             `json:"entry,omitempty"`
	Proxy  []config.ProxyRule `json:"proxy"`
}

// Status returns the state of the last build.
func (s *Server) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st := Status{
		OK:     s.lastErr == nil,
		Builds: s.builds,
		Proxy:  s.cfg.ProxyByLength(),
	}
	if s.lastErr != nil {
		st.Error = s.lastErr.Error()
	}
	if s.last != nil {
		st.Entry = s.last.Entry
	}
	return st
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	if err := json.NewEncoder(w).Encode(s.Status()); err != nil {
		s.log.Debug("write status: %v", err)
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !logger.Enabled(logger.LevelDebug) {
			next.ServeHTTP(w, r)
			return
		}
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.log.DebugFields("request", map[string]interface{}{
			"method": r.Method,
			"path":   r.URL.Path,
			"status": ww.Status(),
			"took":   time.Since(start).Round(time.Microsecond),
		})
	})
}
