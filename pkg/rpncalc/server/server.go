// Package server exposes a rules.Engine over HTTP.
//
// Routes:
//
//	GET  /rules              list loaded rules
//	POST /rules/{name}/eval  evaluate one rule, body {"vars": {...}}
//	POST /eval               evaluate a literal, body {"expr": "...", "vars": {...}}
//	POST /eval-all           evaluate every rule, body {"vars": {...}}
//	POST /reload             reload rules from the configured store
//
// When a store and a reload interval are configured, rules are also
// reloaded on a schedule.
package server

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/tevino/abool/v2"
	"github.com/valyala/fasthttp"

	"github.com/randalmurphal/rpncalc/pkg/rpncalc/rules"
	"github.com/randalmurphal/rpncalc/pkg/rpncalc/store"
)

// Sentinel errors for reloads.
var (
	ErrNoStore          = errors.New("no rule store configured")
	ErrReloadInProgress = errors.New("reload already in progress")
)

// Server serves rule evaluation requests.
type Server struct {
	engine    *rules.Engine
	store     store.Store
	logger    *slog.Logger
	interval  time.Duration
	http      *fasthttp.Server
	reloading *abool.AtomicBool

	mu        sync.Mutex
	scheduler gocron.Scheduler
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger. A nil logger disables logging.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithStore sets the store used by Reload.
func WithStore(st store.Store) Option {
	return func(s *Server) {
		s.store = st
	}
}

// WithReloadInterval reloads rules from the store every d.
// Zero disables scheduled reloads.
func WithReloadInterval(d time.Duration) Option {
	return func(s *Server) {
		if d > 0 {
			s.interval = d
		}
	}
}

// New creates a server for engine.
func New(engine *rules.Engine, opts ...Option) *Server {
	s := &Server{
		engine:    engine,
		logger:    slog.New(slog.DiscardHandler),
		reloading: abool.New(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.http = &fasthttp.Server{
		Handler:      s.Handle,
		Name:         "rpncalc",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
	return s
}

// Reload imports every rule from the store into the engine.
// Rules deleted from the store stay loaded.
func (s *Server) Reload() error {
	if s.store == nil {
		return ErrNoStore
	}
	if !s.reloading.SetToIf(false, true) {
		return ErrReloadInProgress
	}
	defer s.reloading.UnSet()

	start := time.Now()
	err := s.engine.LoadStore(s.store)
	s.logger.Info("rules reloaded",
		slog.Int("rules", len(s.engine.Names())),
		slog.Duration("duration", time.Since(start)),
		slog.Bool("success", err == nil),
	)
	return err
}

// Serve starts scheduled reloads and serves requests on ln until Shutdown.
func (s *Server) Serve(ln net.Listener) error {
	if err := s.startScheduler(); err != nil {
		return err
	}
	s.logger.Info("serving", slog.String("addr", ln.Addr().String()))
	return s.http.Serve(ln)
}

// ListenAndServe listens on addr and calls Serve.
func (s *Server) ListenAndServe(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	return s.Serve(ln)
}

// Shutdown stops scheduled reloads and gracefully stops the HTTP server.
func (s *Server) Shutdown() error {
	var errs []error
	s.mu.Lock()
	if s.scheduler != nil {
		if err := s.scheduler.Shutdown(); err != nil {
			errs = append(errs, fmt.Errorf("stop scheduler: %w", err))
		}
		s.scheduler = nil
	}
	s.mu.Unlock()
	if err := s.http.Shutdown(); err != nil {
		errs = append(errs, fmt.Errorf("stop http: %w", err))
	}
	return errors.Join(errs...)
}

func (s *Server) startScheduler() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.store == nil || s.interval == 0 || s.scheduler != nil {
		return nil
	}
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return fmt.Errorf("create scheduler: %w", err)
	}
	_, err = scheduler.NewJob(
		gocron.DurationJob(s.interval),
		gocron.NewTask(func() {
			if err := s.Reload(); err != nil {
				s.logger.Warn("scheduled reload failed", slog.String("error", err.Error()))
			}
		}),
	)
	if err != nil {
		_ = scheduler.Shutdown()
		return fmt.Errorf("schedule reload: %w", err)
	}
	scheduler.Start()
	s.scheduler = scheduler
	return nil
}
