package service

import (
	"context"
	"errors"
	"strings"

	"github.com/badgerspace/backend/internal/model"
	"github.com/badgerspace/backend/internal/repository"
	"github.com/google/uuid"
)

// IdentityService consumes resolved identities. Credential verification
// lives with the external provider; this layer only finds or records the
// user the provider vouched for.
type IdentityService interface {
	CurrentUser(ctx context.Context, userID string) (*model.User, error)
	// ResolveByEmail finds the user for a provider-asserted email, creating
	// the record on first sight.
	ResolveByEmail(ctx context.Context, email, name string) (*model.User, error)
}

// IdentityServiceImpl is the implementation of IdentityService.
type IdentityServiceImpl struct {
	userRepo repository.UserRepository
}

// NewIdentityService creates an IdentityServiceImpl (DI: UserRepository).
func NewIdentityService(userRepo repository.UserRepository) IdentityService {
	return &IdentityServiceImpl{userRepo: userRepo}
}

// CurrentUser returns the identity record for a session's user ID.
func (s *IdentityServiceImpl) CurrentUser(ctx context.Context, userID string) (*model.User, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		return nil, storeErr(err)
	}
	return user, nil
}

// ResolveByEmail looks the user up by email, creating them on first login.
func (s *IdentityServiceImpl) ResolveByEmail(ctx context.Context, email, name string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, &ValidationError{Field: "email", Reason: "must be a valid address"}
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, storeErr(err)
	}

	if name = strings.TrimSpace(name); name == "" {
		name = email[:strings.IndexByte(email, '@')]
	}
	user = &model.User{ID: uuid.NewString(), Email: email, Name: name}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, storeErr(err)
	}
	return user, nil
}
