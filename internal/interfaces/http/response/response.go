package response

import (
	stderrors "errors"

	"github.com/gin-gonic/gin"
	domainerrors "cardano-explorer.backend/internal/domain/errors"
)

// Success sends a success response
func Success(c *gin.Context, status int, data interface{}) {
	c.JSON(status, data)
}

// Error sends an error response. Non AppErrors are reported as a generic 500.
func Error(c *gin.Context, err error) {
	var appErr *domainerrors.AppError
	if !stderrors.As(err, &appErr) {
		appErr = domainerrors.InternalError(err)
	}

	body := gin.H{
		"error": appErr.Message,
		"code":  appErr.Code,
	}
	if appErr.Detail != "" {
		body["message"] = appErr.Detail
	}
	if appErr.Suggestion != "" {
		body["suggestion"] = appErr.Suggestion
	}
	if appErr.Statuses != nil {
		body["statuses"] = appErr.Statuses
	}
	if appErr.Details != nil {
		body["details"] = appErr.Details
	}
	c.JSON(appErr.Status, body)
}
