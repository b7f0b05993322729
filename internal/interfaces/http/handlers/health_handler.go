package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	domainerrors "cardano-explorer.backend/internal/domain/errors"
	"cardano-explorer.backend/internal/interfaces/http/response"
)

// HealthHandler serves the liveness and echo routes
type HealthHandler struct{}

// NewHealthHandler creates a new health handler
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

type echoRequest struct {
	Message string `json:"message" binding:"required,min=1"`
}

// Health reports liveness
// GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	response.Success(c, http.StatusOK, gin.H{"status": "ok"})
}

// Echo returns the posted message
// POST /echo
func (h *HealthHandler) Echo(c *gin.Context) {
	var req echoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid request body").WithDetails(formError(err.Error())))
		return
	}
	response.Success(c, http.StatusOK, gin.H{"echo": req.Message})
}
