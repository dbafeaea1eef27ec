// Package response writes JSON error bodies for classified errors.
package response

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"myshop_backend/internal/shared/apperr"
)

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Error string `json:"error"`
}

// Error answers with the status mapped from err's kind. Unclassified errors
// are logged and answered with a generic message.
func Error(c *gin.Context, err error) {
	status := apperr.HTTPStatus(err)
	if status == http.StatusInternalServerError {
		slog.Error("request failed", "error", err, "path", c.FullPath(), "remote_addr", c.ClientIP())
		c.JSON(status, ErrorBody{Error: "Internal server error"})
		return
	}
	c.JSON(status, ErrorBody{Error: err.Error()})
}

// BadJSON answers 400 for a body that is not valid JSON.
func BadJSON(c *gin.Context) {
	c.JSON(http.StatusBadRequest, ErrorBody{Error: "Request body must be valid JSON."})
}
