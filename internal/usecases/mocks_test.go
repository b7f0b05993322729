package usecases_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"cardano-explorer.backend/internal/domain/entities"
	"cardano-explorer.backend/internal/infrastructure/cardano"
)

// Mock UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Upsert(ctx context.Context, user *entities.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*entities.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

// Mock SavedAddressRepository
type MockSavedAddressRepository struct {
	mock.Mock
}

func (m *MockSavedAddressRepository) InsertIgnore(ctx context.Context, userID, address string, provider entities.ProviderName) (bool, error) {
	args := m.Called(ctx, userID, address, provider)
	return args.Bool(0), args.Error(1)
}

func (m *MockSavedAddressRepository) Get(ctx context.Context, userID, address string, provider entities.ProviderName) (*entities.SavedAddress, error) {
	args := m.Called(ctx, userID, address, provider)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.SavedAddress), args.Error(1)
}

func (m *MockSavedAddressRepository) ListByUser(ctx context.Context, userID string) ([]*entities.SavedAddress, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.SavedAddress), args.Error(1)
}

func (m *MockSavedAddressRepository) ListByUserAndProvider(ctx context.Context, userID string, provider entities.ProviderName) ([]*entities.SavedAddress, error) {
	args := m.Called(ctx, userID, provider)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.SavedAddress), args.Error(1)
}

func (m *MockSavedAddressRepository) Delete(ctx context.Context, userID, address string, provider entities.ProviderName) (bool, error) {
	args := m.Called(ctx, userID, address, provider)
	return args.Bool(0), args.Error(1)
}

func (m *MockSavedAddressRepository) DeleteAllByUser(ctx context.Context, userID string) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSavedAddressRepository) Exists(ctx context.Context, userID, address string, provider entities.ProviderName) (bool, error) {
	args := m.Called(ctx, userID, address, provider)
	return args.Bool(0), args.Error(1)
}

// Mock Provider
type MockProvider struct {
	mock.Mock
	name entities.ProviderName
}

func (m *MockProvider) Name() entities.ProviderName {
	return m.name
}

func (m *MockProvider) Fetch(ctx context.Context, address string) (*entities.RawBundle, error) {
	args := m.Called(ctx, address)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.RawBundle), args.Error(1)
}

// Mock MetadataLookup
type MockMetadataLookup struct {
	mock.Mock
}

func (m *MockMetadataLookup) Lookup(ctx context.Context, keys []entities.AssetKey) (map[entities.AssetKey]entities.AssetMetadata, error) {
	args := m.Called(ctx, keys)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[entities.AssetKey]entities.AssetMetadata), args.Error(1)
}

// Mock PriceLookup
type MockPriceLookup struct {
	mock.Mock
}

func (m *MockPriceLookup) GetPrices(ctx context.Context, ids []string) (map[string]entities.SpotPrice, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]entities.SpotPrice), args.Error(1)
}

// Mock AddressSaver
type MockAddressSaver struct {
	mock.Mock
}

func (m *MockAddressSaver) AutoSave(ctx context.Context, userID, address string, provider entities.ProviderName) entities.SaveOutcome {
	args := m.Called(ctx, userID, address, provider)
	return args.Get(0).(entities.SaveOutcome)
}

func newRegistryWith(providers ...cardano.Provider) *cardano.Registry {
	r := cardano.NewRegistry()
	for _, p := range providers {
		r.Register(p)
	}
	return r
}

func mustPayload(body string) entities.Payload {
	p, err := entities.ParsePayload([]byte(body))
	if err != nil {
		panic(err)
	}
	return p
}

func bundleOf(info, utxos, assets string) *entities.RawBundle {
	return &entities.RawBundle{Info: mustPayload(info), Utxos: mustPayload(utxos), Assets: mustPayload(assets)}
}
