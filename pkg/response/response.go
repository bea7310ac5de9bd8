package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// DefaultErrorMessage hides internal detail from clients on 500s.
const DefaultErrorMessage = "Something went wrong"

// NewOKResp returns a new success response with the given data.
func NewOKResp(data any) Resp {
	return Resp{
		Success: true,
		Data:    data,
	}
}

// OK sends 200 JSON with data.
func OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, NewOKResp(data))
}

// Error sends a 400 with the client-facing error message.
func Error(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, Resp{
		Success: false,
		Error:   err.Error(),
	})
}

// NotFound sends a 404 with the client-facing error message.
func NotFound(c *gin.Context, err error) {
	c.JSON(http.StatusNotFound, Resp{
		Success: false,
		Error:   err.Error(),
	})
}

// InternalError sends 500 without leaking the underlying error.
func InternalError(c *gin.Context) {
	c.JSON(http.StatusInternalServerError, Resp{
		Success: false,
		Error:   DefaultErrorMessage,
	})
}
