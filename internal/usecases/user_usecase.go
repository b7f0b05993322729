package usecases

import (
	"context"
	"errors"

	"cardano-explorer.backend/internal/domain/entities"
	domainerrors "cardano-explorer.backend/internal/domain/errors"
	"cardano-explorer.backend/internal/domain/repositories"
)

// UserUsecase keeps the local users table in step with token identities
type UserUsecase struct {
	userRepo repositories.UserRepository
}

// NewUserUsecase creates a new user usecase
func NewUserUsecase(userRepo repositories.UserRepository) *UserUsecase {
	return &UserUsecase{userRepo: userRepo}
}

// EnsureUser creates the user on first sight and refreshes the email when it changed.
// Tokens without an email claim store the subject in its place.
func (uc *UserUsecase) EnsureUser(ctx context.Context, identity entities.Identity) (*entities.User, error) {
	if identity.UserID == "" {
		return nil, domainerrors.ErrBadRequest
	}
	email := identity.Email
	if email == "" {
		email = identity.UserID
	}

	existing, err := uc.userRepo.GetByID(ctx, identity.UserID)
	if err != nil && !errors.Is(err, domainerrors.ErrNotFound) {
		return nil, err
	}
	if existing != nil && existing.Email == email {
		return existing, nil
	}

	user := &entities.User{ID: identity.UserID, Email: email}
	if existing != nil {
		user.CreatedAt = existing.CreatedAt
	}
	if err := uc.userRepo.Upsert(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
