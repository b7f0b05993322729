package repositories

import (
	"context"

	"cardano-explorer.backend/internal/domain/entities"
)

// UserRepository defines user data operations
type UserRepository interface {
	Upsert(ctx context.Context, user *entities.User) error
	GetByID(ctx context.Context, id string) (*entities.User, error)
}
