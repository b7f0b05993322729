package usecases_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"cardano-explorer.backend/internal/domain/entities"
	domainerrors "cardano-explorer.backend/internal/domain/errors"
	"cardano-explorer.backend/internal/usecases"
)

const testAddress = "addr1qxyexampleaddress"

func newAddressUsecaseForTest() (*usecases.AddressUsecase, *MockSavedAddressRepository, *MockUserRepository) {
	addressRepo := new(MockSavedAddressRepository)
	userRepo := new(MockUserRepository)
	return usecases.NewAddressUsecase(addressRepo, userRepo), addressRepo, userRepo
}

func TestAddressUsecase_Create_ThenConflict(t *testing.T) {
	ctx := context.Background()
	uc, addressRepo, userRepo := newAddressUsecaseForTest()
	row := &entities.SavedAddress{ID: 1, UserID: "u1", Address: testAddress, Provider: entities.ProviderKoios}

	userRepo.On("GetByID", ctx, "u1").Return(&entities.User{ID: "u1"}, nil)
	addressRepo.On("InsertIgnore", ctx, "u1", testAddress, entities.ProviderKoios).Return(true, nil).Once()
	addressRepo.On("InsertIgnore", ctx, "u1", testAddress, entities.ProviderKoios).Return(false, nil).Once()
	addressRepo.On("Get", ctx, "u1", testAddress, entities.ProviderKoios).Return(row, nil)

	got, err := uc.Create(ctx, "u1", testAddress, entities.ProviderKoios)
	require.NoError(t, err)
	assert.Equal(t, row, got)

	_, err = uc.Create(ctx, "u1", testAddress, entities.ProviderKoios)
	var appErr *domainerrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 409, appErr.Status)
	assert.Equal(t, "Address already saved", appErr.Message)
}

func TestAddressUsecase_Save_ReturnsExistingRow(t *testing.T) {
	ctx := context.Background()
	uc, addressRepo, userRepo := newAddressUsecaseForTest()
	row := &entities.SavedAddress{ID: 7, UserID: "u1", Address: testAddress, Provider: entities.ProviderCustom}

	userRepo.On("GetByID", ctx, "u1").Return(&entities.User{ID: "u1"}, nil)
	addressRepo.On("InsertIgnore", ctx, "u1", testAddress, entities.ProviderCustom).Return(false, nil)
	addressRepo.On("Get", ctx, "u1", testAddress, entities.ProviderCustom).Return(row, nil)

	got, err := uc.Save(ctx, "u1", testAddress, entities.ProviderCustom)
	require.NoError(t, err)
	assert.Equal(t, uint(7), got.ID)
}

func TestAddressUsecase_Save_UnknownUser(t *testing.T) {
	ctx := context.Background()
	uc, addressRepo, userRepo := newAddressUsecaseForTest()

	userRepo.On("GetByID", ctx, "ghost").Return(nil, domainerrors.ErrNotFound)

	_, err := uc.Save(ctx, "ghost", testAddress, entities.ProviderKoios)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
	addressRepo.AssertNotCalled(t, "InsertIgnore", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAddressUsecase_Save_ShortAddress(t *testing.T) {
	uc, _, userRepo := newAddressUsecaseForTest()

	_, err := uc.Save(context.Background(), "u1", "short", entities.ProviderKoios)
	assert.ErrorIs(t, err, domainerrors.ErrInvalidInput)
	userRepo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestAddressUsecase_AutoSave_Outcomes(t *testing.T) {
	ctx := context.Background()
	uc, addressRepo, userRepo := newAddressUsecaseForTest()
	row := &entities.SavedAddress{ID: 1}
	dbErr := errors.New("disk full")

	userRepo.On("GetByID", ctx, "u1").Return(&entities.User{ID: "u1"}, nil)
	addressRepo.On("Get", ctx, "u1", testAddress, entities.ProviderKoios).Return(row, nil)
	addressRepo.On("InsertIgnore", ctx, "u1", testAddress, entities.ProviderKoios).Return(true, nil).Once()
	addressRepo.On("InsertIgnore", ctx, "u1", testAddress, entities.ProviderKoios).Return(false, nil).Once()
	addressRepo.On("InsertIgnore", ctx, "u1", testAddress, entities.ProviderKoios).Return(false, dbErr).Once()

	assert.Equal(t, entities.SaveStatusSaved, uc.AutoSave(ctx, "u1", testAddress, entities.ProviderKoios).Status)
	assert.Equal(t, entities.SaveStatusAlreadySaved, uc.AutoSave(ctx, "u1", testAddress, entities.ProviderKoios).Status)

	failed := uc.AutoSave(ctx, "u1", testAddress, entities.ProviderKoios)
	assert.Equal(t, entities.SaveStatusFailed, failed.Status)
	assert.ErrorIs(t, failed.Reason, dbErr)
	assert.False(t, failed.Persisted())
}

func TestAddressUsecase_ListRemoveExists(t *testing.T) {
	ctx := context.Background()
	uc, addressRepo, _ := newAddressUsecaseForTest()
	rows := []*entities.SavedAddress{{ID: 2}, {ID: 1}}

	addressRepo.On("ListByUser", ctx, "u1").Return(rows, nil)
	addressRepo.On("ListByUserAndProvider", ctx, "u1", entities.ProviderCardanoscan).Return(rows[:1], nil)
	addressRepo.On("Delete", ctx, "u1", testAddress, entities.ProviderKoios).Return(false, nil)
	addressRepo.On("DeleteAllByUser", ctx, "u1").Return(int64(2), nil)
	addressRepo.On("Exists", ctx, "u1", testAddress, entities.ProviderKoios).Return(true, nil)
	addressRepo.On("Exists", ctx, "u1", testAddress, entities.ProviderCustom).Return(false, errors.New("db down"))

	all, err := uc.ListAll(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	byProvider, err := uc.ListByProvider(ctx, "u1", entities.ProviderCardanoscan)
	require.NoError(t, err)
	assert.Len(t, byProvider, 1)

	removed, err := uc.Remove(ctx, "u1", testAddress, entities.ProviderKoios)
	require.NoError(t, err)
	assert.False(t, removed)

	count, err := uc.RemoveAll(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	assert.True(t, uc.Exists(ctx, "u1", testAddress, entities.ProviderKoios))
	assert.False(t, uc.Exists(ctx, "u1", testAddress, entities.ProviderCustom))
}
