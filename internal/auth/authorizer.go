package auth

import (
	"context"
	"strings"

	"github.com/ai-mall/backend/internal/model"
)

// Actor is the resolved caller identity attached to a request. The
// upstream gateway has already verified a signed credential; the workflow
// still re-checks the admin role as defense in depth.
type Actor struct {
	UserID string `json:"userId"`
	Role   string `json:"role"`
}

// IsAdmin reports whether the actor carries the admin role. Role strings
// are free text in legacy data, so the check is case-insensitive.
func (a *Actor) IsAdmin() bool {
	return a != nil && strings.EqualFold(a.Role, model.RoleAdmin)
}

// Authorizer resolves request credentials into an Actor.
type Authorizer interface {
	Authorize(ctx context.Context, credential string) (*Actor, error)
}

type actorKey struct{}

// WithActor attaches the actor to the context.
func WithActor(ctx context.Context, a *Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, a)
}

// ActorFrom extracts the actor set by the authentication middleware.
func ActorFrom(ctx context.Context) (*Actor, bool) {
	a, ok := ctx.Value(actorKey{}).(*Actor)
	return a, ok
}
