package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/clientbook/clientbook/internal/auth"
	"github.com/clientbook/clientbook/internal/crm"
	"github.com/clientbook/clientbook/internal/meeting"
	"github.com/clientbook/clientbook/internal/metrics"
	"github.com/clientbook/clientbook/internal/ratelimit"
	"github.com/clientbook/clientbook/internal/stocks"
	"github.com/clientbook/clientbook/internal/user"
)

// UserDirectory is the user persistence surface the handlers need.
type UserDirectory interface {
	Create(ctx context.Context, in user.CreateUserInput) (*user.User, error)
	GetByEmail(ctx context.Context, email string) (*user.User, error)
	GetByID(ctx context.Context, id string) (*user.User, error)
}

// ClientStore is the client persistence surface the handlers need.
type ClientStore interface {
	Create(ctx context.Context, ownerID string, in crm.CreateClientInput) (*crm.Client, error)
	GetForOwner(ctx context.Context, id, ownerID string) (*crm.Client, error)
	List(ctx context.Context, ownerID string) ([]*crm.Client, error)
	Update(ctx context.Context, id, ownerID string, in crm.UpdateClientInput) (*crm.Client, error)
	Delete(ctx context.Context, id, ownerID string) error
}

// QuoteSource fetches a live quote for one symbol.
type QuoteSource interface {
	Quote(ctx context.Context, symbol string) (*stocks.Quote, error)
}

// Pinger reports database reachability for the health endpoint.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps carries everything the HTTP layer is wired with.
type Deps struct {
	Users    UserDirectory
	Auth     *auth.Service
	Clients  ClientStore
	Meetings *meeting.Service
	Quotes   QuoteSource
	Cache    *stocks.Cache
	Metrics  *metrics.Metrics
	Limiter  *ratelimit.Limiter
	DB       Pinger
	CORS     CORSConfig
}

type handlers struct {
	deps Deps
}

// NewRouter builds the full HTTP routing tree.
func NewRouter(deps Deps) *chi.Mux {
	h := &handlers{deps: deps}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestID)
	r.Use(secureHeaders)
	r.Use(corsMiddleware(deps.CORS))
	r.Use(requestLogger(deps.Metrics))

	r.Get("/health", h.health)
	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", deps.Metrics.Handler())
	}

	r.Route("/api/v1", func(r chi.Router) {
		// Unauthenticated surface, rate limited by remote address.
		r.Group(func(r chi.Router) {
			r.Use(h.rateLimit())
			r.Post("/auth/signup", h.signup)
			r.Post("/auth/login", h.login)
			r.Get("/stocks/{symbol}", h.stockQuote)
		})

		// Authenticated surface, rate limited by user id.
		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware(deps.Auth))
			r.Use(h.rateLimit())

			r.Get("/auth/me", h.me)

			r.Route("/clients", func(r chi.Router) {
				r.Get("/", h.listClients)
				r.Post("/", h.createClient)
				r.Route("/{clientID}", func(r chi.Router) {
					r.Get("/", h.getClient)
					r.Put("/", h.updateClient)
					r.Delete("/", h.deleteClient)
					r.Get("/summary", h.clientSummary)
					r.Get("/meetings", h.listMeetings)
					r.Post("/meetings", h.documentMeeting)
					r.Get("/scheduled-meetings", h.listScheduled)
					r.Post("/scheduled-meetings", h.scheduleMeeting)
				})
			})

			r.Post("/meetings", h.documentMeetingForNewClient)
			r.Get("/calendar", h.calendarDay)
		})
	})

	return r
}

func (h *handlers) rateLimit() func(http.Handler) http.Handler {
	if h.deps.Limiter == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	onReject := func() {}
	if h.deps.Metrics != nil {
		onReject = h.deps.Metrics.IncRateLimitRejection
	}
	return ratelimit.Middleware(h.deps.Limiter, onReject)
}

func (h *handlers) health(w http.ResponseWriter, r *http.Request) {
	if h.deps.DB != nil {
		if err := h.deps.DB.Ping(r.Context()); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status":   "unavailable",
				"database": "unreachable",
			})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
