package api

import (
	"net/http"

	graphql "github.com/graph-gophers/graphql-go"
	"github.com/graph-gophers/graphql-transport-ws/graphqlws"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/libris/library-api/internal/api/handler"
	"github.com/libris/library-api/internal/api/middleware"
	"github.com/libris/library-api/internal/core/ports"
)

// NewRouter builds and returns the Echo instance with all routes
// registered. rdb may be nil when the in-process notifier is in use.
func NewRouter(schema *graphql.Schema, auth ports.AuthService, db *mongo.Database, rdb *redis.Client, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddleware("library"))

	// --- GraphQL ---
	gql := handler.NewGraphQLHandler(schema, log)
	e.POST("/graphql", gql.Execute, middleware.Auth(auth))

	// Subscriptions arrive as a WebSocket upgrade on the same path; plain
	// GETs fall through to a 404.
	ws := graphqlws.NewHandlerFunc(schema, http.NotFoundHandler())
	e.GET("/graphql", echo.WrapHandler(ws))

	// --- Observability ---
	e.GET("/metrics", echoprometheus.NewHandler())

	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)

	return e
}
