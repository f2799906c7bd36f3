// Package http wires the blog's HTTP surface: auth endpoints, posts
// endpoints, health probes, and the swagger UI.
package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/rs/cors"

	"github.com/webloom/blog/internal/blog/service"
	"github.com/webloom/blog/internal/blog/store"
	"github.com/webloom/blog/pkg/httpx"
	"github.com/webloom/blog/pkg/slogx"

	_ "github.com/webloom/blog/api/blog" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	refreshTTL   time.Duration
	cookieSecure bool

	store       store.Store
	AuthService *service.AuthService
	PostService *service.PostService
}

func NewRouter(
	buildVersion string,
	frontendOrigins []string,
	refreshTTL time.Duration,
	cookieSecure bool,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		buildVersion: buildVersion,
		startTime:    time.Now(),
		refreshTTL:   refreshTTL,
		cookieSecure: cookieSecure,
		store:        st,
		logger:       logger,
	}

	// Credentials must be allowed so the browser sends the refresh cookie,
	// which rules out a wildcard origin.
	corsMiddleware := cors.New(cors.Options{
		AllowedOrigins:   frontendOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
		corsMiddleware.Handler,
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerPosts()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Blog API
//	@version		0.1.0
//	@description	A small blog backend: account registration and login with JWT access tokens,
//	@description	refresh tokens carried in an HttpOnly cookie, and post creation with media uploads.
//
//	@host			localhost:8080
//	@BasePath		/
//
//	@schemes		http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				JWT access token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	h := &AuthHandler{
		AuthService:  r.AuthService,
		RefreshTTL:   r.refreshTTL,
		CookieSecure: r.cookieSecure,
	}

	r.Mux.Handle("POST /v1/auth/register", http.HandlerFunc(h.HandleRegister))
	r.Mux.Handle("POST /v1/auth/login", http.HandlerFunc(h.HandleLogin))
	r.Mux.Handle("POST /v1/auth/refresh", http.HandlerFunc(h.HandleRefresh))
	r.Mux.Handle("POST /v1/auth/logout", http.HandlerFunc(h.HandleLogout))
}

func (r *Router) registerPosts() {
	h := &PostsHandler{PostService: r.PostService}

	// Listing is public; creation sits behind the identity gate.
	r.Mux.Handle("GET /v1/posts", http.HandlerFunc(h.HandleList))
	r.Mux.Handle("POST /v1/posts",
		httpx.Chain(http.HandlerFunc(h.HandleCreate),
			httpx.AuthnMiddleware(r.authenticate),
		),
	)
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez", LivezHandler(r.startTime, r.buildVersion))
	r.Mux.Handle("GET /readyz", ReadyzHandler(r.startTime, r.buildVersion, r.store))
}

// authenticate adapts the identity gate to the middleware's resolver shape.
func (r *Router) authenticate(ctx context.Context, token string) (httpx.Identity, error) {
	user, err := r.AuthService.ResolveUser(ctx, token)
	if err != nil {
		return httpx.Identity{}, err
	}
	return httpx.Identity{UserID: user.ID, Username: user.Username}, nil
}
