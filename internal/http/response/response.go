package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/modelyard/modelyard-backend/internal/platform/apierr"
)

type APIError struct {
	Message string              `json:"message"`
	Code    string              `json:"code,omitempty"`
	Fields  []apierr.FieldError `json:"fields,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

// RespondError maps the error taxonomy onto HTTP. Validation failures carry
// their per-field attributions in the envelope.
func RespondError(c *gin.Context, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	env := ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    string(apierr.CodeOf(err)),
		},
	}
	var ae *apierr.Error
	if errors.As(err, &ae) && len(ae.Fields) > 0 {
		env.Error.Fields = ae.Fields
	}
	c.JSON(apierr.HTTPStatus(err), env)
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

func RespondCreated(c *gin.Context, payload any) {
	c.JSON(http.StatusCreated, payload)
}
