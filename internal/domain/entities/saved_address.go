package entities

import "time"

// SavedAddress is an address a user has looked up or bookmarked
type SavedAddress struct {
	ID        uint         `json:"id"`
	UserID    string       `json:"user_id"`
	Address   string       `json:"address"`
	Provider  ProviderName `json:"provider"`
	CreatedAt time.Time    `json:"created_at"`
}

// SaveAddressInput is the body of an explicit save request
type SaveAddressInput struct {
	Address  string `json:"address" binding:"required,min=10"`
	Provider string `json:"provider" binding:"required"`
}

// SaveStatus classifies the result of an implicit save
type SaveStatus string

const (
	SaveStatusSaved        SaveStatus = "saved"
	SaveStatusAlreadySaved SaveStatus = "already_saved"
	SaveStatusFailed       SaveStatus = "failed"
)

// SaveOutcome is returned by auto-save; it never carries a request error
type SaveOutcome struct {
	Status SaveStatus
	Reason error
}

// Persisted reports whether the row exists after the attempt
func (o SaveOutcome) Persisted() bool {
	return o.Status == SaveStatusSaved || o.Status == SaveStatusAlreadySaved
}
