package handler

import (
	"errors"
	"net/http"

	"github.com/raechelCardenas/billetera-digital/pkg/apperror"
	"github.com/raechelCardenas/billetera-digital/pkg/response"

	"github.com/gin-gonic/gin"
)

// bindError translates a body-binding failure into the error envelope.
// A body cut off by the transport size limit surfaces as 413; everything
// else is a malformed payload.
func bindError(c *gin.Context, err error) {
	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		response.Error(c, apperror.ErrPayloadTooLarge())
		return
	}
	response.Error(c, apperror.Validation(err.Error()))
}
