package auth

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ai-mall/backend/internal/model"
	"github.com/ai-mall/backend/internal/store/sqlite"
)

func TestActorIsAdmin(t *testing.T) {
	assert.True(t, (&Actor{Role: "admin"}).IsAdmin())
	assert.True(t, (&Actor{Role: "Admin"}).IsAdmin())
	assert.True(t, (&Actor{Role: "ADMIN"}).IsAdmin())
	assert.False(t, (&Actor{Role: "vendor"}).IsAdmin())
	assert.False(t, (&Actor{Role: ""}).IsAdmin())

	var nilActor *Actor
	assert.False(t, nilActor.IsAdmin())
}

func TestActorContextRoundTrip(t *testing.T) {
	ctx := context.Background()
	_, ok := ActorFrom(ctx)
	assert.False(t, ok)

	a := &Actor{UserID: "u1", Role: model.RoleUser}
	got, ok := ActorFrom(WithActor(ctx, a))
	require.True(t, ok)
	assert.Equal(t, a, got)
}

func TestStaticAuthorizer(t *testing.T) {
	az := NewStaticAuthorizer()
	az.Register("tok-1", Actor{UserID: "u1", Role: model.RoleAdmin})

	a, err := az.Authorize(context.Background(), "tok-1")
	require.NoError(t, err)
	assert.Equal(t, "u1", a.UserID)

	_, err = az.Authorize(context.Background(), "")
	assert.ErrorIs(t, err, ErrUnauthenticated)

	_, err = az.Authorize(context.Background(), "unknown")
	assert.ErrorIs(t, err, ErrInvalidCredential)
}

func TestStoreAuthorizer(t *testing.T) {
	ctx := context.Background()
	s, err := sqlite.New(filepath.Join(t.TempDir(), "aimall.db"))
	require.NoError(t, err)

	u, err := s.Users().Create(ctx, &model.User{
		UserID: "user-1",
		Name:   "User One",
		Email:  "one@example.com",
		Role:   model.RoleVendor,
	})
	require.NoError(t, err)

	az := NewStoreAuthorizer(s)
	a, err := az.Authorize(ctx, u.UserID)
	require.NoError(t, err)
	assert.Equal(t, model.RoleVendor, a.Role)

	_, err = az.Authorize(ctx, "missing")
	assert.ErrorIs(t, err, ErrInvalidCredential)

	u.IsBlocked = true
	_, err = s.Users().Update(ctx, u)
	require.NoError(t, err)
	_, err = az.Authorize(ctx, u.UserID)
	assert.ErrorIs(t, err, ErrInvalidCredential)
}
