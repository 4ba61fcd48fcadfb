package response

import "github.com/gin-gonic/gin"

// Envelope wraps every API response. Success follows the status code.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Payload any    `json:"payload"`
}

func New(status int, message string, payload any) Envelope {
	return Envelope{
		Success: status >= 200 && status < 300,
		Message: message,
		Payload: payload,
	}
}

// JSON writes the envelope with the given status.
func JSON(c *gin.Context, status int, message string, payload any) {
	c.JSON(status, New(status, message, payload))
}

// Abort writes the envelope and stops the handler chain.
func Abort(c *gin.Context, status int, message string, payload any) {
	c.AbortWithStatusJSON(status, New(status, message, payload))
}
