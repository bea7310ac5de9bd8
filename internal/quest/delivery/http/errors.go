package http

import (
	"errors"

	"github.com/gin-gonic/gin"

	"questboard/internal/quest"
	"questboard/pkg/response"
)

// respondError translates use-case errors into the client error envelope.
// Validation and not-found are client errors; everything else is a 500.
func (h *handler) respondError(c *gin.Context, err error) {
	if _, ok := quest.AsValidationError(err); ok {
		response.Error(c, err)
		return
	}
	if errors.Is(err, quest.ErrTaskNotFound) {
		response.NotFound(c, err)
		return
	}
	response.InternalError(c)
}
