package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/libris/library-api/internal/core/domain"
	"github.com/libris/library-api/internal/core/ports"
	"github.com/libris/library-api/internal/graph"
)

type gqlError struct {
	Message    string                 `json:"message"`
	Extensions map[string]interface{} `json:"extensions"`
}

type gqlErrorResponse struct {
	Errors []gqlError `json:"errors"`
}

// Auth builds the per-request authentication context. It runs once per
// request, before any resolver: no credential means anonymous access, a
// valid credential injects the resolved user into the request context, and
// a credential that fails verification aborts the request with an
// UNAUTHORIZED GraphQL error payload.
func Auth(auth ports.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()

			user, err := auth.Authenticate(req.Context(), req.Header.Get("Authorization"))
			if err != nil {
				return c.JSON(http.StatusOK, gqlErrorResponse{Errors: []gqlError{{
					Message:    "Invalid Token",
					Extensions: map[string]interface{}{"code": graph.CodeUnauthorized},
				}}})
			}

			if user != nil {
				c.SetRequest(req.WithContext(domain.NewUserContext(req.Context(), user)))
			}
			return next(c)
		}
	}
}
