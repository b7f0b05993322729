package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"cardano-explorer.backend/internal/domain/entities"
	domainerrors "cardano-explorer.backend/internal/domain/errors"
	"cardano-explorer.backend/internal/interfaces/http/middleware"
	"cardano-explorer.backend/internal/interfaces/http/response"
	"cardano-explorer.backend/internal/usecases"
	"cardano-explorer.backend/pkg/logger"
)

type addressService interface {
	Create(ctx context.Context, userID, address string, provider entities.ProviderName) (*entities.SavedAddress, error)
	ListAll(ctx context.Context, userID string) ([]*entities.SavedAddress, error)
	ListByProvider(ctx context.Context, userID string, provider entities.ProviderName) ([]*entities.SavedAddress, error)
	Remove(ctx context.Context, userID, address string, provider entities.ProviderName) (bool, error)
	RemoveAll(ctx context.Context, userID string) (int64, error)
	Exists(ctx context.Context, userID, address string, provider entities.ProviderName) bool
}

// AddressHandler handles saved address endpoints
type AddressHandler struct {
	addressUsecase addressService
}

// NewAddressHandler creates a new address handler
func NewAddressHandler(addressUsecase *usecases.AddressUsecase) *AddressHandler {
	return &AddressHandler{addressUsecase: addressUsecase}
}

var providerHint = func() string {
	names := make([]string, 0, len(entities.Providers))
	for _, p := range entities.Providers {
		names = append(names, p.String())
	}
	return "Provider must be one of: " + strings.Join(names, ", ")
}()

// ListAddresses lists every saved address of the caller
// GET /addresses
func (h *AddressHandler) ListAddresses(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}

	items, err := h.addressUsecase.ListAll(c.Request.Context(), identity.UserID)
	if err != nil {
		internalFailure(c, err, "Failed to get saved addresses", "An error occurred while retrieving your saved addresses")
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"success": true,
		"data":    nonNil(items),
		"count":   len(items),
	})
}

// ListAddressesByProvider lists the caller's saved addresses for one provider
// GET /addresses/:provider
func (h *AddressHandler) ListAddressesByProvider(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}
	provider, ok := providerParam(c)
	if !ok {
		return
	}

	items, err := h.addressUsecase.ListByProvider(c.Request.Context(), identity.UserID, provider)
	if err != nil {
		internalFailure(c, err, "Failed to get saved addresses", "An error occurred while retrieving your saved addresses")
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"success":  true,
		"data":     nonNil(items),
		"count":    len(items),
		"provider": provider,
	})
}

// CreateAddress saves an address explicitly
// POST /addresses
func (h *AddressHandler) CreateAddress(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}

	var input entities.SaveAddressInput
	bindErr := c.ShouldBindJSON(&input)
	if msg := validateSaveInput(input, bindErr); msg != "" {
		response.Error(c, domainerrors.BadRequest("Validation error").WithDetail(msg))
		return
	}
	provider, _ := entities.ParseProvider(input.Provider)

	saved, err := h.addressUsecase.Create(c.Request.Context(), identity.UserID, input.Address, provider)
	if err != nil {
		if errors.Is(err, domainerrors.ErrAlreadyExists) {
			response.Error(c, domainerrors.Conflict("Address already saved").
				WithDetail("This address is already saved for this provider"))
			return
		}
		internalFailure(c, err, "Failed to save address", "An error occurred while saving the address")
		return
	}

	response.Success(c, http.StatusCreated, gin.H{
		"success": true,
		"data":    saved,
		"message": "Address saved successfully",
	})
}

// DeleteAddress removes one saved address
// DELETE /addresses/:provider/:address
func (h *AddressHandler) DeleteAddress(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}
	provider, ok := providerParam(c)
	if !ok {
		return
	}

	address, ok := addressParam(c)
	if !ok {
		return
	}

	removed, err := h.addressUsecase.Remove(c.Request.Context(), identity.UserID, address, provider)
	if err != nil {
		internalFailure(c, err, "Failed to remove address", "An error occurred while removing the address")
		return
	}
	if !removed {
		response.Error(c, domainerrors.NotFound("Address not found").
			WithDetail("The specified address was not found in your saved addresses"))
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"success": true,
		"message": "Address removed successfully",
	})
}

// DeleteAllAddresses removes every saved address of the caller
// DELETE /addresses
func (h *AddressHandler) DeleteAllAddresses(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}

	count, err := h.addressUsecase.RemoveAll(c.Request.Context(), identity.UserID)
	if err != nil {
		internalFailure(c, err, "Failed to remove addresses", "An error occurred while removing your saved addresses")
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"success": true,
		"message": fmt.Sprintf("Successfully removed %d saved addresses", count),
		"count":   count,
	})
}

// CheckAddress reports whether an address is saved
// GET /addresses/:provider/:address/check
func (h *AddressHandler) CheckAddress(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}
	provider, ok := providerParam(c)
	if !ok {
		return
	}

	address, ok := addressParam(c)
	if !ok {
		return
	}
	saved := h.addressUsecase.Exists(c.Request.Context(), identity.UserID, address, provider)

	response.Success(c, http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"address":  address,
			"provider": provider,
			"isSaved":  saved,
		},
	})
}

func requireIdentity(c *gin.Context) (*entities.Identity, bool) {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("Authentication required").
			WithDetail("Please log in to access this resource"))
		return nil, false
	}
	return identity, true
}

func providerParam(c *gin.Context) (entities.ProviderName, bool) {
	provider, ok := entities.ParseProvider(c.Param("provider"))
	if !ok {
		response.Error(c, domainerrors.BadRequest("Invalid provider").WithDetail(providerHint))
		return "", false
	}
	return provider, true
}

func addressParam(c *gin.Context) (string, bool) {
	address := c.Param("address")
	if entities.AddressTooShort(address) {
		response.Error(c, domainerrors.BadRequest("Invalid request params").
			WithDetails(fieldError("address", "String must contain at least 10 character(s)")))
		return "", false
	}
	return address, true
}

// validateSaveInput returns the first validation message, or "" when input is acceptable
func validateSaveInput(input entities.SaveAddressInput, bindErr error) string {
	if entities.AddressTooShort(input.Address) {
		return "Address must be at least 10 characters"
	}
	if _, ok := entities.ParseProvider(input.Provider); !ok {
		return providerHint
	}
	if bindErr != nil {
		return bindErr.Error()
	}
	return ""
}

// internalFailure passes client errors through and reports everything else as a 500.
// The cause is only logged; the client gets the fixed detail.
func internalFailure(c *gin.Context, err error, message, detail string) {
	var appErr *domainerrors.AppError
	if errors.As(err, &appErr) && appErr.Status < http.StatusInternalServerError {
		response.Error(c, appErr)
		return
	}
	logger.Error(c.Request.Context(), message, zap.Error(err))
	response.Error(c, domainerrors.InternalServerError(message).WithDetail(detail))
}

func nonNil(items []*entities.SavedAddress) []*entities.SavedAddress {
	if items == nil {
		return []*entities.SavedAddress{}
	}
	return items
}
