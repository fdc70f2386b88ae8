package portfolioserver

import (
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	apierrors "github.com/a-z-nath/portfolio-api/internal/shared/errors"
)

// Route is the information for every URI.
type Route struct {
	// Name is the name of this Route.
	Name string
	// Method is the string for the HTTP method. ex) GET, POST etc..
	Method string
	// Pattern is the pattern of the URI.
	Pattern string
	// HandlerFunc is the handler function of this route.
	HandlerFunc gin.HandlerFunc
	// Middleware runs before HandlerFunc for this route only.
	Middleware []gin.HandlerFunc
}

// ApiHandleFunctions groups the API handlers mounted by the router.
type ApiHandleFunctions struct {
	// Routes for the ProjectsAPI part of the API
	ProjectsAPI ProjectsAPI
	// Routes for the SyncAPI part of the API
	SyncAPI SyncAPI
}

type routerOptions struct {
	logger         *slog.Logger
	allowedOrigins []string
}

// RouterOption customizes the router.
type RouterOption func(*routerOptions)

// WithLogger sets the logger used by the access log middleware.
func WithLogger(logger *slog.Logger) RouterOption {
	return func(o *routerOptions) { o.logger = logger }
}

// WithAllowedOrigins enables CORS for the given origins. "*" allows any origin.
func WithAllowedOrigins(origins []string) RouterOption {
	return func(o *routerOptions) { o.allowedOrigins = origins }
}

// NewRouter returns a new router.
func NewRouter(handleFunctions ApiHandleFunctions, opts ...RouterOption) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	return NewRouterWithGinEngine(router, handleFunctions, opts...)
}

// NewRouterWithGinEngine adds the API routes and middleware to an existing engine.
func NewRouterWithGinEngine(router *gin.Engine, handleFunctions ApiHandleFunctions, opts ...RouterOption) *gin.Engine {
	o := routerOptions{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	router.Use(RequestID(), AccessLog(o.logger))
	if corsHandler := corsMiddleware(o.allowedOrigins); corsHandler != nil {
		router.Use(corsHandler)
	}
	for _, route := range getRoutes(handleFunctions) {
		if route.HandlerFunc == nil {
			route.HandlerFunc = DefaultHandleFunc
		}
		handlers := append(append([]gin.HandlerFunc{}, route.Middleware...), route.HandlerFunc)
		switch route.Method {
		case http.MethodGet:
			router.GET(route.Pattern, handlers...)
		case http.MethodPost:
			router.POST(route.Pattern, handlers...)
		}
	}
	router.NoRoute(func(c *gin.Context) {
		apierrors.Respond(c, apierrors.ErrNotFound)
	})
	return router
}

// DefaultHandleFunc answers routes without a handler.
func DefaultHandleFunc(c *gin.Context) {
	c.String(http.StatusNotImplemented, "501 not implemented")
}

// Healthz reports process liveness.
func Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	cleaned := make([]string, 0, len(origins))
	allowAll := false
	for _, origin := range origins {
		origin = strings.TrimSpace(origin)
		switch origin {
		case "":
			continue
		case "*":
			allowAll = true
		default:
			cleaned = append(cleaned, origin)
		}
	}
	if !allowAll && len(cleaned) == 0 {
		return nil
	}
	config := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders: []string{"X-Cache", "X-Cache-Timestamp", RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if allowAll {
		config.AllowAllOrigins = true
	} else {
		config.AllowOrigins = cleaned
	}
	return cors.New(config)
}

func getRoutes(handleFunctions ApiHandleFunctions) []Route {
	return []Route{
		{
			"GetProjects",
			http.MethodGet,
			"/api/projects",
			handleFunctions.ProjectsAPI.GetProjects,
			nil,
		},
		{
			"Sync",
			http.MethodPost,
			"/api/sync",
			handleFunctions.SyncAPI.Sync,
			[]gin.HandlerFunc{RequireBearerToken(handleFunctions.SyncAPI.token)},
		},
		{
			"DescribeSync",
			http.MethodGet,
			"/api/sync",
			handleFunctions.SyncAPI.Describe,
			nil,
		},
		{
			"Healthz",
			http.MethodGet,
			"/healthz",
			Healthz,
			nil,
		},
	}
}
