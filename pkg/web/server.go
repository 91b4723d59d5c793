package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/cupogo/andvari/utils/zlog"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/liut/chatbot/pkg/web/reply"
)

const (
	dftHistoryLimit = 10
)

func logger() zlog.Logger {
	return zlog.Get()
}

type Service interface {
	Serve(ctx context.Context) error
	Stop(ctx context.Context) error
}

type Config struct {
	Addr  string
	Debug bool

	DocHandler http.Handler

	Replier      reply.Replier
	HistoryLimit int    // recent history entries kept for a reply
	RateLimit    string // like 20-M, empty is unlimited
}

type server struct {
	Addr string
	cfg  Config

	ar *chi.Mux     // app router
	hs *http.Server // http server

	replier reply.Replier
}

// New return new web server
func New(cfg Config) (Service, error) {
	s, err := newServer(cfg)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func newServer(cfg Config) (*server, error) {
	ar := chi.NewMux()
	if cfg.Debug {
		ar.Use(middleware.Logger)
	}
	ar.Use(middleware.Recoverer, middleware.RealIP)

	if cfg.HistoryLimit <= 0 {
		cfg.HistoryLimit = dftHistoryLimit
	}
	s := &server{
		Addr: cfg.Addr, ar: ar,
		cfg:     cfg,
		replier: cfg.Replier,
	}
	if s.replier == nil {
		s.replier = reply.Rules{}
	}
	if err := s.strapRouter(); err != nil {
		return nil, err
	}

	s.hs = &http.Server{
		Addr:              s.Addr,
		Handler:           s.ar,
		ReadHeaderTimeout: 10 * time.Second,
	}

	if cfg.Debug {
		logger().Infow("routes:")
		walkFunc := func(method string, route string, handler http.Handler, middlewares ...func(http.Handler) http.Handler) error {
			route = strings.Replace(route, "/*/", "/", -1)
			fmt.Fprintf(os.Stderr, "DEBUG: %-6s %-24s --> %s (%d mw)\n", method, route, nameOfFunction(handler), len(middlewares))
			return nil
		}

		if err := chi.Walk(ar, walkFunc); err != nil {
			logger().Infow("router walk fail", "err", err)
		}
	}
	return s, nil
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.ar.ServeHTTP(w, r)
}

func (s *server) Serve(ctx context.Context) error {
	runErrChan := make(chan error, 1)
	go func() {
		runErrChan <- s.hs.ListenAndServe()
	}()
	logger().Infow("Listen on", "addr", s.hs.Addr, "replier", fmt.Sprintf("%T", s.replier))

	select {
	case runErr := <-runErrChan:
		if runErr != nil && !errors.Is(runErr, http.ErrServerClosed) {
			logger().Infow("run http server failed", "err", runErr)
			return runErr
		}
		return nil
	case <-ctx.Done():
		logger().Info("http server has been stopped")
		return ctx.Err()
	}
}

func (s *server) Stop(ctx context.Context) error {
	if err := s.hs.Shutdown(ctx); err != nil {
		logger().Infow("server shutdown fail", "err", err)
		return err
	}
	return nil
}
