package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/ai-mall/backend/internal/model"
	"github.com/ai-mall/backend/internal/store"
)

// StoreAuthorizer resolves a subject id (extracted from a gateway-verified
// credential) into an Actor using the account store, so role and block
// state are always current.
type StoreAuthorizer struct {
	store store.Store
}

func NewStoreAuthorizer(s store.Store) *StoreAuthorizer {
	return &StoreAuthorizer{store: s}
}

func (s *StoreAuthorizer) Authorize(ctx context.Context, credential string) (*Actor, error) {
	if credential == "" {
		return nil, ErrUnauthenticated
	}
	u, err := s.store.Users().Get(ctx, credential)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, ErrInvalidCredential
		}
		return nil, fmt.Errorf("resolve actor: %w", err)
	}
	if u.IsBlocked {
		return nil, ErrInvalidCredential
	}
	return &Actor{UserID: u.UserID, Role: u.Role}, nil
}
