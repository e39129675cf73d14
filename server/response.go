package server

import (
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/recq/errors"
)

// DataResponse is the standard success envelope.
type DataResponse struct {
	Data any `json:"data"`
}

// RespondWithError renders err as a problem document from its AppError code
// and status; any other error becomes a generic 500. Oversized bodies map to
// 413. The problem names the request path and id.
func RespondWithError(c *gin.Context, err error) {
	appErr, ok := errors.AsAppError(err)
	if !ok {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			appErr = errors.New(errors.ErrCodePayloadTooLarge, "request body too large", http.StatusRequestEntityTooLarge).
				WithDetail("limit", tooLarge.Limit)
		} else {
			appErr = errors.Internal(err)
		}
	}
	resp := appErr.ToResponse()
	resp.Error.Instance = c.Request.URL.Path
	resp.Error.RequestID = c.GetString(ctxRequestID)
	c.AbortWithStatusJSON(resp.Error.Status, resp)
}

// RespondOK sends a 200 response wrapping data.
func RespondOK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, DataResponse{Data: data})
}
