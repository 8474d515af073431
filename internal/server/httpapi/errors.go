package httpapi

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/streamdesk/internal/common"
	"github.com/gin-gonic/gin"
)

// writeError maps err to a status and a client-safe message. Messages for
// each status can be overridden; unexpected errors are logged.
func (h *handler) writeError(c *gin.Context, err error, messages map[int]string) {
	status := http.StatusInternalServerError
	msg := "Internal server error"

	switch {
	case errors.Is(err, common.ErrorValidation):
		status, msg = http.StatusBadRequest, "Invalid request"
	case errors.Is(err, common.ErrorInvalidCredentials):
		status, msg = http.StatusBadRequest, "Invalid credentials"
	case errors.Is(err, common.ErrorAlreadyExists):
		status, msg = http.StatusBadRequest, "Already exists"
	case errors.Is(err, common.ErrorUnauthorized):
		status, msg = http.StatusForbidden, "Invalid token"
	case errors.Is(err, common.ErrorForbidden):
		status, msg = http.StatusForbidden, "Access denied"
	case errors.Is(err, common.ErrorNotFound):
		status, msg = http.StatusNotFound, "Not found"
	case errors.Is(err, common.ErrorTransport):
		msg = "Failed to send email"
	}

	if m, ok := messages[status]; ok {
		msg = m
	}
	if status == http.StatusInternalServerError {
		h.Log.Error(c.Request.Context(), "request failed", "path", c.Request.URL.Path, "error", err)
	}
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}
