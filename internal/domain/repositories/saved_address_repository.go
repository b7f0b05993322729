package repositories

import (
	"context"

	"cardano-explorer.backend/internal/domain/entities"
)

// SavedAddressRepository defines saved address data operations. Every call is scoped to one user.
type SavedAddressRepository interface {
	// InsertIgnore stores the triple unless it already exists and reports whether a row was created.
	InsertIgnore(ctx context.Context, userID, address string, provider entities.ProviderName) (bool, error)
	Get(ctx context.Context, userID, address string, provider entities.ProviderName) (*entities.SavedAddress, error)
	ListByUser(ctx context.Context, userID string) ([]*entities.SavedAddress, error)
	ListByUserAndProvider(ctx context.Context, userID string, provider entities.ProviderName) ([]*entities.SavedAddress, error)
	Delete(ctx context.Context, userID, address string, provider entities.ProviderName) (bool, error)
	DeleteAllByUser(ctx context.Context, userID string) (int64, error)
	Exists(ctx context.Context, userID, address string, provider entities.ProviderName) (bool, error)
}
