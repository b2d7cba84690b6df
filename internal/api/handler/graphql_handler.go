package handler

import (
	"net/http"
	"time"

	graphql "github.com/graph-gophers/graphql-go"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/libris/library-api/internal/api/metrics"
)

// GraphQLHandler executes queries and mutations posted to the GraphQL
// endpoint. Subscriptions never reach it; the WebSocket transport handles
// those.
type GraphQLHandler struct {
	schema *graphql.Schema
	log    zerolog.Logger
}

func NewGraphQLHandler(schema *graphql.Schema, log zerolog.Logger) *GraphQLHandler {
	return &GraphQLHandler{schema: schema, log: log}
}

type graphqlRequest struct {
	Query         string                 `json:"query"`
	OperationName string                 `json:"operationName"`
	Variables     map[string]interface{} `json:"variables"`
}

// Execute handles POST /graphql. Errors are part of the GraphQL response
// body, so the HTTP status is 200 for anything that parses as a request.
func (h *GraphQLHandler) Execute(c echo.Context) error {
	var req graphqlRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	operation := req.OperationName
	if operation == "" {
		operation = "unnamed"
	}

	start := time.Now()
	resp := h.schema.Exec(c.Request().Context(), req.Query, req.OperationName, req.Variables)
	metrics.GraphQLOperationDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	metrics.GraphQLOperationsTotal.WithLabelValues(operation).Inc()

	for _, qerr := range resp.Errors {
		code := "INTERNAL"
		if ext, ok := qerr.Extensions["code"].(string); ok {
			code = ext
		}
		metrics.GraphQLErrorsTotal.WithLabelValues(code).Inc()
		h.log.Debug().Str("operation", operation).Str("code", code).Msg(qerr.Message)
	}

	return c.JSON(http.StatusOK, resp)
}
