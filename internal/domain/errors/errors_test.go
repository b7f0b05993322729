package errors

import (
	stderrors "errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Constructors(t *testing.T) {
	err := NewAppError(http.StatusBadRequest, CodeBadRequest, "bad", ErrBadRequest)
	assert.Equal(t, http.StatusBadRequest, err.Status)
	assert.Equal(t, CodeBadRequest, err.Code)
	assert.Equal(t, "bad", err.Message)
	assert.Equal(t, ErrBadRequest.Error(), err.Error())

	notFound := NotFound("missing")
	assert.Equal(t, http.StatusNotFound, notFound.Status)
	assert.True(t, stderrors.Is(notFound, ErrNotFound))

	conflict := Conflict("exists")
	assert.Equal(t, http.StatusConflict, conflict.Status)
	assert.Equal(t, CodeConflict, conflict.Code)
	assert.True(t, stderrors.Is(conflict, ErrAlreadyExists))

	internal := InternalError(stderrors.New("db down"))
	assert.Equal(t, http.StatusInternalServerError, internal.Status)
	assert.Equal(t, "internal server error", internal.Message)

	unauth := Unauthorized("Authentication required").WithDetail("Please log in")
	assert.Equal(t, http.StatusUnauthorized, unauth.Status)
	assert.Equal(t, "Please log in", unauth.Detail)

	internalMsg := InternalServerError("boom")
	assert.Equal(t, "boom", internalMsg.Error())
}

func TestAppError_ProviderConstructors(t *testing.T) {
	up := Upstream("Upstream error from Koios", LegStatuses{Info: 200, Utxos: 503, Assets: 200})
	assert.Equal(t, http.StatusBadGateway, up.Status)
	assert.Equal(t, 503, up.Statuses.Utxos)
	assert.True(t, stderrors.Is(up, ErrUpstream))

	auth := UpstreamAuth("Cardanoscan rejected the API key", "try koios")
	assert.Equal(t, http.StatusUnauthorized, auth.Status)
	assert.Equal(t, "try koios", auth.Suggestion)

	nc := NotConfigured("Custom provider not configured")
	assert.Equal(t, http.StatusNotImplemented, nc.Status)
	assert.True(t, stderrors.Is(nc, ErrNotConfigured))

	ni := NotImplemented("Bitvavo provider not implemented", "use koios")
	assert.Equal(t, http.StatusNotImplemented, ni.Status)
	assert.Equal(t, CodeNotImplemented, ni.Code)

	bad := BadRequest("Invalid request params").WithDetails([]string{"addr too short"})
	assert.Equal(t, []string{"addr too short"}, bad.Details)
}
