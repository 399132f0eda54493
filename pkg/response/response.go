package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Envelope is the JSON shape every API response uses.
// Status is "success" or "error". Results is only set on list reads.
type Envelope struct {
	Status  string `json:"status"`
	Results *int   `json:"results,omitempty"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
	Error   any    `json:"error,omitempty"` // development posture only
	Stack   string `json:"stack,omitempty"` // development posture only
}

// Success writes a success envelope with the given data.
func Success(c *gin.Context, status int, data any) {
	if status == 0 {
		status = http.StatusOK
	}
	c.JSON(status, Envelope{Status: "success", Data: data})
}

// List writes a success envelope for list reads, reporting the returned count.
func List(c *gin.Context, status int, count int, data any) {
	if status == 0 {
		status = http.StatusOK
	}
	c.JSON(status, Envelope{Status: "success", Results: &count, Data: data})
}

// Message writes a success envelope that carries only a message.
func Message(c *gin.Context, status int, msg string) {
	if status == 0 {
		status = http.StatusOK
	}
	c.JSON(status, Envelope{Status: "success", Message: msg})
}

// NoContent signals a successful delete.
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}
