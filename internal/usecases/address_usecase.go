package usecases

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"cardano-explorer.backend/internal/domain/entities"
	domainerrors "cardano-explorer.backend/internal/domain/errors"
	"cardano-explorer.backend/internal/domain/repositories"
	"cardano-explorer.backend/pkg/logger"
	"cardano-explorer.backend/pkg/metrics"
)

// AddressUsecase handles saved address business logic
type AddressUsecase struct {
	addressRepo repositories.SavedAddressRepository
	userRepo    repositories.UserRepository
}

// NewAddressUsecase creates a new address usecase
func NewAddressUsecase(addressRepo repositories.SavedAddressRepository, userRepo repositories.UserRepository) *AddressUsecase {
	return &AddressUsecase{addressRepo: addressRepo, userRepo: userRepo}
}

// Save stores the triple if needed and returns the resulting row
func (uc *AddressUsecase) Save(ctx context.Context, userID, address string, provider entities.ProviderName) (*entities.SavedAddress, error) {
	row, _, err := uc.save(ctx, userID, address, provider)
	return row, err
}

// Create is the explicit save: a triple that is already stored is a conflict
func (uc *AddressUsecase) Create(ctx context.Context, userID, address string, provider entities.ProviderName) (*entities.SavedAddress, error) {
	row, created, err := uc.save(ctx, userID, address, provider)
	if err != nil {
		return nil, err
	}
	if !created {
		return nil, domainerrors.Conflict("Address already saved")
	}
	return row, nil
}

// AutoSave records a looked-up address; failures are reported in the outcome, never returned
func (uc *AddressUsecase) AutoSave(ctx context.Context, userID, address string, provider entities.ProviderName) entities.SaveOutcome {
	_, created, err := uc.save(ctx, userID, address, provider)
	switch {
	case err != nil:
		metrics.EnrichmentFailures.WithLabelValues("auto_save").Inc()
		logger.Warn(ctx, "Auto-save of address failed",
			zap.String("user_id", userID),
			zap.String("address", address),
			zap.String("provider", string(provider)),
			zap.Error(err),
		)
		return entities.SaveOutcome{Status: entities.SaveStatusFailed, Reason: err}
	case created:
		return entities.SaveOutcome{Status: entities.SaveStatusSaved}
	default:
		return entities.SaveOutcome{Status: entities.SaveStatusAlreadySaved}
	}
}

func (uc *AddressUsecase) save(ctx context.Context, userID, address string, provider entities.ProviderName) (*entities.SavedAddress, bool, error) {
	if entities.AddressTooShort(address) {
		return nil, false, domainerrors.BadRequest("Validation error").WithDetail("address must be at least 10 characters")
	}
	if _, err := uc.userRepo.GetByID(ctx, userID); err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, false, domainerrors.NotFound("User not found")
		}
		return nil, false, err
	}

	created, err := uc.addressRepo.InsertIgnore(ctx, userID, address, provider)
	if err != nil {
		return nil, false, err
	}
	row, err := uc.addressRepo.Get(ctx, userID, address, provider)
	if err != nil {
		return nil, false, err
	}
	return row, created, nil
}

// ListAll returns every saved address of the user, newest first
func (uc *AddressUsecase) ListAll(ctx context.Context, userID string) ([]*entities.SavedAddress, error) {
	return uc.addressRepo.ListByUser(ctx, userID)
}

// ListByProvider returns the user's saved addresses for one provider, newest first
func (uc *AddressUsecase) ListByProvider(ctx context.Context, userID string, provider entities.ProviderName) ([]*entities.SavedAddress, error) {
	return uc.addressRepo.ListByUserAndProvider(ctx, userID, provider)
}

// Remove deletes one saved address and reports whether it existed
func (uc *AddressUsecase) Remove(ctx context.Context, userID, address string, provider entities.ProviderName) (bool, error) {
	return uc.addressRepo.Delete(ctx, userID, address, provider)
}

// RemoveAll deletes every saved address of the user
func (uc *AddressUsecase) RemoveAll(ctx context.Context, userID string) (int64, error) {
	return uc.addressRepo.DeleteAllByUser(ctx, userID)
}

// Exists reports whether the triple is saved; lookup errors read as false
func (uc *AddressUsecase) Exists(ctx context.Context, userID, address string, provider entities.ProviderName) bool {
	ok, err := uc.addressRepo.Exists(ctx, userID, address, provider)
	if err != nil {
		logger.Warn(ctx, "Saved address lookup failed", zap.String("user_id", userID), zap.Error(err))
		return false
	}
	return ok
}
