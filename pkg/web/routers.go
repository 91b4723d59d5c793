package web

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/ulule/limiter/v3"
	mstdlib "github.com/ulule/limiter/v3/drivers/middleware/stdlib"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

const (
	textRateLimited = "rate limited"
)

type M = render.M

func (s *server) strapRouter() error {
	s.ar.Get("/ping", handlerPing)

	rateMw, err := s.rateLimitMw()
	if err != nil {
		return err
	}
	s.ar.Route("/api", func(r chi.Router) {
		r.With(rateMw).Post("/chat", s.postChat)
	})

	if s.cfg.DocHandler != nil {
		s.ar.Get("/", s.cfg.DocHandler.ServeHTTP)
		s.ar.NotFound(s.cfg.DocHandler.ServeHTTP)
	}
	return nil
}

func (s *server) rateLimitMw() (func(http.Handler) http.Handler, error) {
	if len(s.cfg.RateLimit) == 0 {
		return func(next http.Handler) http.Handler { return next }, nil
	}
	rate, err := limiter.NewRateFromFormatted(s.cfg.RateLimit)
	if err != nil {
		return nil, fmt.Errorf("invalid rate limit %q: %w", s.cfg.RateLimit, err)
	}
	logger().Infow("rate limit", "limit", rate.Limit, "period", rate.Period)
	mw := mstdlib.NewMiddleware(limiter.New(memory.NewStore(), rate),
		mstdlib.WithLimitReachedHandler(func(w http.ResponseWriter, r *http.Request) {
			apiFail(w, r, http.StatusTooManyRequests, errors.New(textRateLimited))
		}),
	)
	return mw.Handler, nil
}

func handlerPing(w http.ResponseWriter, r *http.Request) {
	render.Data(w, r, []byte("Pong\n"))
}

func apiFail(w http.ResponseWriter, r *http.Request, status int, err interface{}) {
	res := M{
		"status": status,
	}
	switch ret := err.(type) {
	case error:
		res["error"] = ret.Error()
	case fmt.Stringer:
		res["error"] = ret.String()
	case string:
		res["error"] = ret
	}
	render.Status(r, status)
	render.JSON(w, r, res)
}
