// Package http wires the public HTTP surface: auth + MFA, catalog,
// notifications, admin, and system endpoints.
package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/openshelf/openshelf/internal/domain"
	"github.com/openshelf/openshelf/internal/service"
	"github.com/openshelf/openshelf/internal/store"
	"github.com/openshelf/openshelf/pkg/httpx"
	"github.com/openshelf/openshelf/pkg/jwtx"
	"github.com/openshelf/openshelf/pkg/slogx"

	_ "github.com/openshelf/openshelf/api/docs" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	verifier     jwtx.Verifier
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	// MFATestMode exposes the current-code diagnostic endpoint. It is
	// refused outright when Env is production.
	MFATestMode bool
	Env         string

	store               store.Store
	TokenService        *service.TokenService
	AuthService         *service.AuthService
	UserService         *service.UserService
	MFAService          *service.MFAService
	CatalogService      *service.CatalogService
	NotificationService *service.NotificationService
	AdminService        *service.AdminService
}

func NewRouter(
	verifier jwtx.Verifier,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		verifier:     verifier,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerMFA()
	r.registerBooks()
	r.registerResources()
	r.registerNotifications()
	r.registerAdmin()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			OpenShelf Library API
//	@version		0.1.0
//	@description	Library management backend with TOTP-based multi-factor authentication.
//	@description
//	@description				Session and MFA-challenge tokens are HS256-signed JWTs passed as bearer tokens.
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:5000
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				JWT session token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	h := &AuthHandler{
		AuthService: r.AuthService,
		UserService: r.UserService,
	}

	r.Mux.Handle("POST /api/auth/register", http.HandlerFunc(h.HandleRegister))
	r.Mux.Handle("POST /api/auth/login", http.HandlerFunc(h.HandleLogin))

	r.Mux.Handle("GET /api/auth/me",
		httpx.Chain(http.HandlerFunc(h.HandleMe),
			httpx.AuthnMiddleware(r.verifier),
		),
	)
}

func (r *Router) registerMFA() {
	h := &MFAHandler{
		MFAService:   r.MFAService,
		UserService:  r.UserService,
		TokenService: r.TokenService,
		TestMode:     r.MFATestMode,
		Env:          r.Env,
	}

	securedSetup := httpx.Chain(http.HandlerFunc(h.HandleSetup),
		httpx.AuthnMiddleware(r.verifier),
	)
	securedDisable := httpx.Chain(http.HandlerFunc(h.HandleDisable),
		httpx.AuthnMiddleware(r.verifier),
	)
	securedTestCode := httpx.Chain(http.HandlerFunc(h.HandleTestCode),
		httpx.AuthnMiddleware(r.verifier),
	)

	r.Mux.Handle("POST /api/auth/mfa/setup", securedSetup)
	// Verify resolves its own bearer token: it must accept challenge
	// tokens, which AuthnMiddleware rejects everywhere else.
	r.Mux.Handle("POST /api/auth/mfa/verify", http.HandlerFunc(h.HandleVerify))
	r.Mux.Handle("POST /api/auth/mfa/disable", securedDisable)
	r.Mux.Handle("GET /api/auth/mfa/test-code", securedTestCode)
}

func (r *Router) registerBooks() {
	h := &BooksHandler{CatalogService: r.CatalogService}

	r.Mux.Handle("GET /api/books", http.HandlerFunc(h.HandleList))
	r.Mux.Handle("GET /api/books/{id}", http.HandlerFunc(h.HandleGet))

	authn := httpx.AuthnMiddleware(r.verifier)
	r.Mux.Handle("POST /api/books", httpx.Chain(http.HandlerFunc(h.HandleCreate), authn))
	r.Mux.Handle("PUT /api/books/{id}", httpx.Chain(http.HandlerFunc(h.HandleUpdate), authn))
	r.Mux.Handle("DELETE /api/books/{id}", httpx.Chain(http.HandlerFunc(h.HandleDelete), authn))
}

func (r *Router) registerResources() {
	h := &ResourcesHandler{CatalogService: r.CatalogService}

	r.Mux.Handle("GET /api/resources", http.HandlerFunc(h.HandleList))
	r.Mux.Handle("GET /api/resources/{id}", http.HandlerFunc(h.HandleGet))

	authn := httpx.AuthnMiddleware(r.verifier)
	r.Mux.Handle("POST /api/resources", httpx.Chain(http.HandlerFunc(h.HandleCreate), authn))
	r.Mux.Handle("PUT /api/resources/{id}", httpx.Chain(http.HandlerFunc(h.HandleUpdate), authn))
	r.Mux.Handle("DELETE /api/resources/{id}", httpx.Chain(http.HandlerFunc(h.HandleDelete), authn))
}

func (r *Router) registerNotifications() {
	h := &NotificationsHandler{NotificationService: r.NotificationService}

	authn := httpx.AuthnMiddleware(r.verifier)

	r.Mux.Handle("POST /api/notifications",
		httpx.Chain(http.HandlerFunc(h.HandleSend),
			authn,
			httpx.RequireRole(domain.RoleAdmin),
		),
	)
	r.Mux.Handle("GET /api/notifications", httpx.Chain(http.HandlerFunc(h.HandleList), authn))
	r.Mux.Handle("POST /api/notifications/{id}/read", httpx.Chain(http.HandlerFunc(h.HandleMarkRead), authn))
}

func (r *Router) registerAdmin() {
	h := &AdminHandler{
		AdminService: r.AdminService,
		Store:        r.store,
	}

	secured := []httpx.Middleware{
		httpx.AuthnMiddleware(r.verifier),
		httpx.RequireRole(domain.RoleAdmin),
	}

	r.Mux.Handle("GET /api/admin/stats", httpx.Chain(http.HandlerFunc(h.HandleStats), secured...))
	r.Mux.Handle("GET /api/admin/health", httpx.Chain(http.HandlerFunc(h.HandleHealth), secured...))
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /healthz", HealthzHandler(r.startTime, r.buildVersion))
	r.Mux.Handle("GET /health/db", DBHealthHandler(r.store))
}
