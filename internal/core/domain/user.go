package domain

import "context"

// User models a library patron. Usernames are globally unique; users are
// immutable once created.
type User struct {
	ID            string `json:"id"`
	Username      string `json:"username"`
	FavoriteGenre string `json:"favoriteGenre"`
}

type userContextKey struct{}

// NewUserContext returns a copy of ctx carrying the authenticated user.
func NewUserContext(ctx context.Context, u *User) context.Context {
	return context.WithValue(ctx, userContextKey{}, u)
}

// UserFromContext extracts the authenticated user from ctx, or nil when the
// request is anonymous.
func UserFromContext(ctx context.Context) *User {
	u, _ := ctx.Value(userContextKey{}).(*User)
	return u
}
