package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/libris/library-api/internal/core/domain"
	"github.com/libris/library-api/internal/core/service"
)

type stubUserRepo struct {
	users map[string]*domain.User
}

func (r *stubUserRepo) Insert(_ context.Context, u *domain.User) (*domain.User, error) {
	user := &domain.User{ID: "user_1", Username: u.Username, FavoriteGenre: u.FavoriteGenre}
	r.users[user.ID] = user
	return user, nil
}

func (r *stubUserRepo) ByUsername(_ context.Context, username string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) ByID(_ context.Context, id string) (*domain.User, error) {
	if u, ok := r.users[id]; ok {
		return u, nil
	}
	return nil, domain.ErrUserNotFound
}

func newTestMiddleware(t *testing.T) (echo.MiddlewareFunc, string) {
	t.Helper()

	repo := &stubUserRepo{users: make(map[string]*domain.User)}
	authSvc, err := service.NewAuthService(repo, "signing-key", "secret", time.Hour, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewAuthService returned error: %v", err)
	}
	if _, err := authSvc.CreateUser(context.Background(), "alice77", "Fantasy"); err != nil {
		t.Fatalf("CreateUser returned error: %v", err)
	}
	token, err := authSvc.Login(context.Background(), "alice77", "secret")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	return Auth(authSvc), token
}

func runRequest(t *testing.T, mw echo.MiddlewareFunc, authorization string) (*httptest.ResponseRecorder, *domain.User, bool) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/graphql", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var (
		called bool
		user   *domain.User
	)
	handler := mw(func(c echo.Context) error {
		called = true
		user = domain.UserFromContext(c.Request().Context())
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	return rec, user, called
}

func TestAuth_ValidTokenInjectsUser(t *testing.T) {
	mw, token := newTestMiddleware(t)

	_, user, called := runRequest(t, mw, "Bearer "+token)
	if !called {
		t.Fatalf("next handler not called")
	}
	if user == nil || user.Username != "alice77" {
		t.Fatalf("expected alice77 in request context, got %+v", user)
	}
}

func TestAuth_MissingHeaderIsAnonymous(t *testing.T) {
	mw, _ := newTestMiddleware(t)

	_, user, called := runRequest(t, mw, "")
	if !called {
		t.Fatalf("anonymous request should reach the handler")
	}
	if user != nil {
		t.Fatalf("expected anonymous context, got %+v", user)
	}
}

func TestAuth_InvalidTokenAbortsWithUnauthorized(t *testing.T) {
	mw, _ := newTestMiddleware(t)

	rec, _, called := runRequest(t, mw, "Bearer garbage")
	if called {
		t.Fatalf("handler must not run for an invalid token")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 with GraphQL error payload, got %d", rec.Code)
	}

	var resp gqlErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode error payload: %v", err)
	}
	if len(resp.Errors) != 1 || resp.Errors[0].Extensions["code"] != "UNAUTHORIZED" {
		t.Fatalf("unexpected error payload: %+v", resp)
	}
}
