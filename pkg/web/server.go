package web

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/liut/tutorbot/pkg/services/stores"
	"github.com/liut/tutorbot/pkg/settings"
)

type Service interface {
	Serve(ctx context.Context) error
	Stop(ctx context.Context) error
	Handler() http.Handler
}

type Config struct {
	Addr  string
	Debug bool

	// optional, built from settings when nil
	Answerer stores.Answerer
	Users    *stores.Users
	Redis    stores.RedisClient
}

type server struct {
	Addr string
	cfg  Config

	ar *chi.Mux     // app router
	hs *http.Server // http server

	ans   stores.Answerer
	users *stores.Users
	rc    stores.RedisClient
}

func logger() *zap.SugaredLogger {
	return zap.S()
}

// New return new web server
func New(cfg Config) (Service, error) {
	ar := chi.NewMux()
	if cfg.Debug {
		ar.Use(middleware.Logger)
	}
	ar.Use(middleware.Recoverer, middleware.RealIP)

	s := &server{
		Addr: cfg.Addr, ar: ar,
		cfg:   cfg,
		ans:   cfg.Answerer,
		users: cfg.Users,
		rc:    cfg.Redis,
	}
	if s.users == nil {
		users, err := stores.ParseUsers(settings.Current.Users)
		if err != nil {
			return nil, err
		}
		s.users = users
	}
	logger().Infow("registered users", "count", s.users.Len())
	if s.ans == nil {
		preset, err := stores.LoadPreset()
		if err != nil {
			return nil, err
		}
		s.ans = stores.NewAnswerer(stores.NewOpenAIClient(), preset)
	}
	if s.rc == nil {
		s.rc = stores.SgtRC()
	}
	if err := s.strapRouter(); err != nil {
		return nil, err
	}

	s.hs = &http.Server{
		Addr:              s.Addr,
		Handler:           s.ar,
		ReadHeaderTimeout: time.Second * 10,
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

func (s *server) Handler() http.Handler {
	return s.ar
}

func (s *server) Serve(ctx context.Context) error {
	// Run HTTP server
	runErrChan := make(chan error, 1)
	t := time.AfterFunc(time.Millisecond*200, func() {
		runErrChan <- s.hs.ListenAndServe()
	})

	defer t.Stop()
	logger().Infow("Listen on", "addr", s.hs.Addr)

	// Wait
	for {
		select {
		case runErr := <-runErrChan:
			if runErr != nil && runErr != http.ErrServerClosed {
				logger().Infow("run http server failed",
					"err", runErr,
				)
				return runErr
			}
			return nil
		case <-ctx.Done():
			logger().Info("http server has been stopped")
			return ctx.Err()
		}
	}
}

func (s *server) Stop(ctx context.Context) error {
	if err := s.hs.Shutdown(ctx); err != nil {
		logger().Infow("Server Shutdown", "err", err)
		return err
	}
	return nil
}
