package web

import (
	"net/http"

	"github.com/studymate-app/studymate/internal/logging"
	"github.com/studymate-app/studymate/internal/server/auth"
	"github.com/studymate-app/studymate/internal/server/config"
	"github.com/studymate-app/studymate/internal/server/services"
)

// Router wires the service layer into HTTP handlers.
type Router struct {
	cfg       *config.Config
	log       logging.Logger
	users     *services.UserService
	profiles  *services.ProfileService
	rows      *services.RowService
	storage   *services.StorageService
	functions *services.FunctionService
	google    *auth.GoogleProvider
	states    *stateStore
}

func NewRouter(
	cfg *config.Config,
	log logging.Logger,
	users *services.UserService,
	profiles *services.ProfileService,
	rows *services.RowService,
	storage *services.StorageService,
	functions *services.FunctionService,
	google *auth.GoogleProvider,
) *Router {
	return &Router{
		cfg:       cfg,
		log:       log,
		users:     users,
		profiles:  profiles,
		rows:      rows,
		storage:   storage,
		functions: functions,
		google:    google,
		states:    newStateStore(),
	}
}

// Handler builds the full route table. Auth endpoints sit behind a strict
// per-IP rate limit; everything else requires a bearer token.
func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()

	strict := RateLimitByIP(10, 10)
	authed := AuthnMiddleware([]byte(rt.cfg.SecretKey))

	handle := func(pattern string, h http.HandlerFunc, mws ...Middleware) {
		mux.Handle(pattern, Chain(h, mws...))
	}

	handle("POST /v1/auth/signup", rt.handleSignup, strict)
	handle("POST /v1/auth/token", rt.handleToken, strict)
	handle("POST /v1/auth/refresh", rt.handleRefresh, strict)
	handle("POST /v1/auth/signout", rt.handleSignout)
	handle("GET /v1/auth/me", rt.handleMe, authed)
	handle("GET /v1/auth/google/start", rt.handleGoogleStart, strict)
	handle("GET /v1/auth/google/callback", rt.handleGoogleCallback, strict)

	handle("GET /v1/profiles/{id}", rt.handleGetProfile, authed)
	handle("PATCH /v1/profiles/{id}", rt.handlePatchProfile, authed)

	handle("GET /v1/tables/{table}", rt.handleListRows, authed)
	handle("POST /v1/tables/{table}", rt.handleInsertRow, authed)

	handle("POST /v1/functions/{name}", rt.handleInvokeFunction, authed)
	handle("POST /v1/storage/presign", rt.handlePresign, authed)

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	return Chain(mux, LoggingMiddleware(rt.log))
}
