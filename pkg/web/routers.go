package web

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/render"
	"github.com/google/uuid"
	"github.com/ulule/limiter/v3"
	mstdlib "github.com/ulule/limiter/v3/drivers/middleware/stdlib"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	"github.com/liut/tutorbot/pkg/settings"
)

type M = render.M

// Identity of the requester, registered users come with basic auth,
// everyone else is a guest keyed by a session cookie
type Identity struct {
	ID         string
	Registered bool
}

type ctxKey struct{}

// IdentityFromContext ...
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(ctxKey{}).(Identity)
	return id, ok
}

func (s *server) strapRouter() error {
	rate, err := limiter.NewRateFromFormatted(settings.Current.AskRate)
	if err != nil {
		return fmt.Errorf("invalid ask rate %q: %w", settings.Current.AskRate, err)
	}
	askLimit := mstdlib.NewMiddleware(limiter.New(memory.NewStore(), rate))

	s.ar.Use(cors.Handler(cors.Options{
		AllowedOrigins:   settings.Current.AllowOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: !settings.AllowAllOrigins(),
		MaxAge:           300,
	}))

	s.ar.Get("/ping", handlerPing)

	s.ar.Group(func(r chi.Router) {
		r.Use(s.identMw)
		r.With(askLimit.Handler).Post("/ask", s.postAsk)
		r.Get("/history", s.getHistory)
	})
	return nil
}

func (s *server) identMw(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var id Identity
		if email, password, ok := r.BasicAuth(); ok {
			if !s.users.Verify(email, password) {
				logger().Infow("auth fail", "email", email, "ip", r.RemoteAddr)
				apiFail(w, r, http.StatusUnauthorized, "Invalid email or password")
				return
			}
			id = Identity{ID: normEmail(email), Registered: true}
		} else if ck, err := r.Cookie(settings.Current.CookieName); err == nil && len(ck.Value) > 0 {
			id = Identity{ID: ck.Value}
		} else {
			id = Identity{ID: uuid.NewString()}
			http.SetCookie(w, &http.Cookie{
				Name:     settings.Current.CookieName,
				Value:    id.ID,
				Path:     settings.Current.CookiePath,
				MaxAge:   settings.Current.CookieMaxAge,
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, id)))
	})
}

func handlerPing(w http.ResponseWriter, r *http.Request) {
	render.Data(w, r, []byte("Pong\n"))
}

func apiFail(w http.ResponseWriter, r *http.Request, status int, err interface{}) {
	res := render.M{
		"status": status,
	}
	switch ret := err.(type) {
	case error:
		res["error"] = ret.Error()
	case fmt.Stringer:
		res["error"] = ret.String()
	case string:
		res["error"] = ret
	default:
		res["error"] = http.StatusText(status)
	}
	render.Status(r, status)
	render.JSON(w, r, res)
}
