package api

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/beka-birhanu/vinom-maze/api/i"
	"github.com/gin-gonic/gin"
	"github.com/go-chi/cors"
)

// Router manages the HTTP server and its dependencies,
// including controllers and session token authorization.
type Router struct {
	addr                    string
	baseURL                 string
	controllers             []i.Controller
	authorizationMiddleware gin.HandlerFunc
	corsOrigins             []string
	readTimeout             time.Duration
	writeTimeout            time.Duration
	server                  *http.Server
	sync.Mutex
}

// Config holds configuration settings for creating a new Router instance.
type Config struct {
	Addr                    string // Address to listen on
	BaseURL                 string // Base URL for API routes
	Controllers             []i.Controller
	AuthorizationMiddleware gin.HandlerFunc
	CORSOrigins             []string
	ReadTimeout             time.Duration
	WriteTimeout            time.Duration
}

// NewRouter creates a new Router instance with the given configuration.
func NewRouter(config Config) *Router {
	return &Router{
		addr:                    config.Addr,
		baseURL:                 config.BaseURL,
		controllers:             config.Controllers,
		authorizationMiddleware: config.AuthorizationMiddleware,
		corsOrigins:             config.CORSOrigins,
		readTimeout:             config.ReadTimeout,
		writeTimeout:            config.WriteTimeout,
	}
}

// Handler builds the route tree.
//
// Routes are grouped and managed under the base URL, with the following access levels:
// - Public routes: No authentication required.
// - Protected routes: A session token is required.
func (r *Router) Handler() http.Handler {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	api := router.Group(r.baseURL)
	{
		// Public routes (accessible without authentication)
		publicRoutes := api.Group("/v1")
		{
			for _, c := range r.controllers {
				c.RegisterPublic(publicRoutes)
			}
		}

		// Protected routes (authentication required)
		protectedRoutes := api.Group("/v1")
		protectedRoutes.Use(r.authorizationMiddleware)
		{
			for _, c := range r.controllers {
				c.RegisterProtected(protectedRoutes)
			}
		}
	}

	return cors.Handler(cors.Options{
		AllowedOrigins: r.corsOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	})(router)
}

// Run starts the HTTP server. It returns nil after Shutdown.
func (r *Router) Run() error {
	gin.ForceConsoleColor()
	server := &http.Server{
		Addr:         r.addr,
		Handler:      r.Handler(),
		ReadTimeout:  r.readTimeout,
		WriteTimeout: r.writeTimeout,
	}
	r.Lock()
	r.server = server
	r.Unlock()

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops a running server.
func (r *Router) Shutdown(ctx context.Context) error {
	r.Lock()
	server := r.server
	r.Unlock()
	if server == nil {
		return nil
	}
	return server.Shutdown(ctx)
}
