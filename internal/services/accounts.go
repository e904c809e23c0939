package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/ai-mall/backend/internal/model"
	"github.com/ai-mall/backend/internal/store"
)

// AccountService handles user account creation and lookups.
type AccountService struct {
	store store.Store
}

func NewAccountService(s store.Store) *AccountService {
	return &AccountService{store: s}
}

// CreateUserInput is a new account registration.
type CreateUserInput struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	Avatar string `json:"avatar"`
}

// CreateUser registers a plain user account. Emails are unique,
// case-insensitively.
func (s *AccountService) CreateUser(ctx context.Context, in CreateUserInput) (*model.User, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, fmt.Errorf("name is required: %w", model.ErrValidation)
	}
	u := &model.User{
		UserID: uuid.NewString(),
		Name:   in.Name,
		Email:  strings.ToLower(strings.TrimSpace(in.Email)),
		Role:   model.RoleUser,
		Avatar: in.Avatar,
	}
	return s.store.Users().Create(ctx, u)
}

func (s *AccountService) Get(ctx context.Context, userID string) (*model.User, error) {
	return s.store.Users().Get(ctx, userID)
}

func (s *AccountService) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return s.store.Users().GetByEmail(ctx, email)
}
