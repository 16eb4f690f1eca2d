package httperr

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response is the error envelope of every non-2xx JSON reply.
type Response struct {
	Status int `json:"-"`
	Error  struct {
		Message string `json:"message"`
	} `json:"error"`
	Detail []FieldError `json:"detail,omitempty"`

	// cause is kept for logging only and never rendered
	cause error
}

func NewResponse(status int, msg string, detail []FieldError) Response {
	resp := Response{Status: status, Detail: detail}
	resp.Error.Message = msg
	return resp
}

func (r Response) Cause() error { return r.cause }

// Internal is the fallback reply for unhandled failures and panics.
func Internal() Response {
	return NewResponse(http.StatusInternalServerError, "Internal server error", nil)
}

// AbortWithError writes resp and records err on the context so the error
// middleware can log it with the request.
func AbortWithError(c *gin.Context, status int, err error, msg string, detail []FieldError) {
	if err == nil {
		panic("AbortWithError: err cannot be nil")
	}

	resp := NewResponse(status, msg, detail)
	resp.cause = err

	// c.Error only keeps Type and Meta when handed a *gin.Error
	_ = c.Error(&gin.Error{
		Err:  err,
		Type: gin.ErrorTypePublic,
		Meta: resp,
	})
	c.AbortWithStatusJSON(status, resp)
}
