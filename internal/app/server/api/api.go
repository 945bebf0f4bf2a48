// Маршруты (префикс /api/<API_VERSION>):
//
//	POST   /auth/send-otp           # Отправка кода (публичный, auth rate limit)
//	POST   /auth/verify-otp         # Вход по коду (публичный, auth rate limit)
//	POST   /auth/logout             # (auth)
//	GET    /auth/session            # (auth)
//	GET    /tasks  POST /tasks  PUT|DELETE /tasks/{id}                         (auth)
//	GET    /goals, /goals/milestones, /habits, /habits/logs, /health, /journal (auth)
//
// Без префикса: GET /health (liveness), GET /metrics, /docs, /openapi.json.
package api

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/exp/slog"

	authAPI "lifehub/internal/app/server/api/http/auth"
	healthAPI "lifehub/internal/app/server/api/http/health"
	"lifehub/internal/app/server/api/http/middleware"
	"lifehub/internal/app/server/api/http/middleware/auth"
	"lifehub/internal/app/server/api/http/middleware/logger"
	"lifehub/internal/app/server/api/http/middleware/ratelimit"
	"lifehub/internal/app/server/api/http/middleware/recoverer"
	"lifehub/internal/app/server/api/http/middleware/requestid"
	resourceAPI "lifehub/internal/app/server/api/http/resource"
	"lifehub/internal/app/server/api/http/response"
	"lifehub/internal/app/server/config"
	"lifehub/internal/domain/resource"
	"lifehub/internal/domain/session"
	"lifehub/internal/domain/user"
	"lifehub/internal/infrastructure/identity"
	"lifehub/internal/infrastructure/metrics"
	"lifehub/internal/infrastructure/storage/postgrest"
	"lifehub/internal/infrastructure/supabase"
)

// Dependencies - все, что роутер получает снаружи. Клиенты провайдера
// создаются один раз в main и дальше не меняются.
type Dependencies struct {
	Config      *config.Config
	Log         *slog.Logger
	Anon        *supabase.Client
	Admin       *supabase.Client
	Metrics     *metrics.Metrics
	Limiter     *ratelimit.Limiter
	AuthLimiter *ratelimit.Limiter
}

type Handlers struct {
	Health    *healthAPI.Handler
	Auth      *authAPI.Handler
	Resources []*resourceAPI.Handler
}

// New создает *chi.Mux с ВСЕМИ операциями через huma.Register
func New(deps Dependencies) *chi.Mux {
	mux := chi.NewMux()

	// ключ лимитера - адрес сокета; заголовкам прокси верим только по конфигу
	if deps.Config.Server.TrustProxy {
		mux.Use(chimw.RealIP)
	}
	mux.Use(requestid.Middleware)
	mux.Use(recoverer.New(deps.Log, !deps.Config.IsProd()))
	mux.Use(deps.Metrics.Middleware)
	mux.Use(securityHeaders()...)
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.Config.CORS.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type", requestid.Header},
		ExposedHeaders:   []string{requestid.Header, "Retry-After"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	mux.Use(deps.Limiter.Handler)

	notFound := func(w http.ResponseWriter, r *http.Request) {
		response.WriteHTTP(w, response.NotFound(r.Context(), "Endpoint not found"))
	}
	mux.NotFound(notFound)
	mux.MethodNotAllowed(notFound)

	mux.Handle("/metrics", deps.Metrics.Handler())

	response.UseEnvelopeErrors()

	humaConfig := huma.DefaultConfig("LifeHub API", "1.0.0")
	humaConfig.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearer": {Type: "http", Scheme: "bearer", BearerFormat: "JWT"},
	}
	// без $schema в ответах: клиенты ждут ровно {success, data, meta}
	humaConfig.CreateHooks = nil
	humaConfig.Transformers = append(humaConfig.Transformers, response.Transformer)

	API := humachi.New(mux, humaConfig)

	h := handlers(deps)
	h.Health.SetupRoutes(API)
	h.Auth.SetupRoutes(API)
	for _, rh := range h.Resources {
		rh.SetupRoutes(API)
	}

	return mux
}

func handlers(deps Dependencies) *Handlers {
	log := deps.Log
	prefix := deps.Config.APIPrefix()

	sessionService := session.NewService(identity.NewProvider(deps.Anon), log)
	authMW := auth.New(sessionService, log)
	loggerMW := logger.New(log)
	middlewares := middleware.NewContainer(loggerMW.Middleware())

	healthHandler := healthAPI.NewHandler(log, middlewares.With())

	store := postgrest.NewFactory(deps.Anon, deps.Metrics)
	profiles := postgrest.NewProfileRepository(deps.Admin, store)
	userService := user.NewService(identity.NewProvider(deps.Anon), profiles, user.NewOTPValidator(), log)

	public := middlewares.With(deps.AuthLimiter.Middleware())
	protected := middlewares.With(authMW.Middleware())
	authHandler := authAPI.NewHandler(userService, log, prefix, public, protected)

	routes := []struct {
		def   resource.Definition
		route resourceAPI.Route
	}{
		{resource.Tasks, resourceAPI.Route{Path: prefix + "/tasks", OperationID: "tasks", Tag: "tasks", Query: resourceAPI.QueryTasks}},
		{resource.Goals, resourceAPI.Route{Path: prefix + "/goals", OperationID: "goals", Tag: "goals"}},
		{resource.Milestones, resourceAPI.Route{Path: prefix + "/goals/milestones", OperationID: "milestones", Tag: "goals"}},
		{resource.Habits, resourceAPI.Route{Path: prefix + "/habits", OperationID: "habits", Tag: "habits"}},
		{resource.HabitLogs, resourceAPI.Route{Path: prefix + "/habits/logs", OperationID: "habit-logs", Tag: "habits"}},
		{resource.Health, resourceAPI.Route{Path: prefix + "/health", OperationID: "health-data", Tag: "health", Query: resourceAPI.QueryHealth}},
		{resource.Journal, resourceAPI.Route{Path: prefix + "/journal", OperationID: "journal-entries", Tag: "journal"}},
	}

	resources := make([]*resourceAPI.Handler, 0, len(routes))
	for _, r := range routes {
		service := resource.NewService(r.def, store, log)
		resources = append(resources, resourceAPI.NewHandler(service, r.route, log, middlewares.With(authMW.Middleware())))
	}

	return &Handlers{
		Health:    healthHandler,
		Auth:      authHandler,
		Resources: resources,
	}
}

func securityHeaders() []func(http.Handler) http.Handler {
	return []func(http.Handler) http.Handler{
		chimw.SetHeader("X-Content-Type-Options", "nosniff"),
		chimw.SetHeader("X-Frame-Options", "DENY"),
		chimw.SetHeader("Referrer-Policy", "no-referrer"),
		chimw.SetHeader("Strict-Transport-Security", "max-age=15552000; includeSubDomains"),
		chimw.SetHeader("Cross-Origin-Resource-Policy", "same-origin"),
	}
}
