package repositories

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"cardano-explorer.backend/internal/domain/entities"
	domainerrors "cardano-explorer.backend/internal/domain/errors"
	"cardano-explorer.backend/internal/infrastructure/models"
)

// SavedAddressRepository implements saved address data operations
type SavedAddressRepository struct {
	db *gorm.DB
}

// NewSavedAddressRepository creates a new saved address repository
func NewSavedAddressRepository(db *gorm.DB) *SavedAddressRepository {
	return &SavedAddressRepository{db: db}
}

// InsertIgnore inserts the triple; an existing row is left untouched
func (r *SavedAddressRepository) InsertIgnore(ctx context.Context, userID, address string, provider entities.ProviderName) (bool, error) {
	m := &models.SavedAddress{
		UserID:    userID,
		Address:   address,
		Provider:  string(provider),
		CreatedAt: time.Now().UTC(),
	}
	result := r.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(m)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// Get returns the row for the triple
func (r *SavedAddressRepository) Get(ctx context.Context, userID, address string, provider entities.ProviderName) (*entities.SavedAddress, error) {
	var m models.SavedAddress
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND address = ? AND provider = ?", userID, address, string(provider)).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return r.toEntity(&m), nil
}

// ListByUser lists a user's addresses, newest first
func (r *SavedAddressRepository) ListByUser(ctx context.Context, userID string) ([]*entities.SavedAddress, error) {
	return r.list(r.db.WithContext(ctx).Where("user_id = ?", userID))
}

// ListByUserAndProvider lists a user's addresses for one provider, newest first
func (r *SavedAddressRepository) ListByUserAndProvider(ctx context.Context, userID string, provider entities.ProviderName) ([]*entities.SavedAddress, error) {
	return r.list(r.db.WithContext(ctx).Where("user_id = ? AND provider = ?", userID, string(provider)))
}

func (r *SavedAddressRepository) list(query *gorm.DB) ([]*entities.SavedAddress, error) {
	var rows []models.SavedAddress
	if err := query.Order("created_at DESC").Order("id DESC").Find(&rows).Error; err != nil {
		return nil, err
	}

	items := make([]*entities.SavedAddress, 0, len(rows))
	for i := range rows {
		items = append(items, r.toEntity(&rows[i]))
	}
	return items, nil
}

// Delete removes exactly one row and reports whether it existed
func (r *SavedAddressRepository) Delete(ctx context.Context, userID, address string, provider entities.ProviderName) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND address = ? AND provider = ?", userID, address, string(provider)).
		Delete(&models.SavedAddress{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// DeleteAllByUser removes every row of a user and returns how many were removed
func (r *SavedAddressRepository) DeleteAllByUser(ctx context.Context, userID string) (int64, error) {
	result := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.SavedAddress{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// Exists reports whether the triple is saved
func (r *SavedAddressRepository) Exists(ctx context.Context, userID, address string, provider entities.ProviderName) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.SavedAddress{}).
		Where("user_id = ? AND address = ? AND provider = ?", userID, address, string(provider)).
		Limit(1).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *SavedAddressRepository) toEntity(m *models.SavedAddress) *entities.SavedAddress {
	return &entities.SavedAddress{
		ID:        m.ID,
		UserID:    m.UserID,
		Address:   m.Address,
		Provider:  entities.ProviderName(m.Provider),
		CreatedAt: m.CreatedAt,
	}
}
