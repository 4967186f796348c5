package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/sudhakarkatam/foliochat/internal/ai"
	"github.com/sudhakarkatam/foliochat/internal/pkg/errcode"
	appErr "github.com/sudhakarkatam/foliochat/internal/pkg/errors"
	"github.com/sudhakarkatam/foliochat/internal/pkg/response"
)

// writeError translates a pipeline failure into the pre-stream JSON error
// shape. Upstream detail stays in the logs; the client sees a stable,
// non-leaky message.
func writeError(c *gin.Context, err error) {
	status, code, message := classify(err)
	logutil.GetLogger(c.Request.Context()).Error("chat request failed",
		zap.String("path", c.Request.URL.Path),
		zap.Int("status", status),
		zap.Int("code", code),
		zap.Error(err),
	)
	response.Error(c, status, message)
}

// clientMessage is the in-band flavor of writeError, used once the response
// status line has already been committed.
func clientMessage(err error) string {
	_, _, message := classify(err)
	return message
}

func classify(err error) (status int, code int, message string) {
	var upstream *ai.UpstreamError
	switch {
	case errors.Is(err, ai.ErrUnavailable):
		return http.StatusInternalServerError, errcode.ErrProviderUnavailable, "Server configuration error"
	case errors.Is(err, appErr.ErrInvalid):
		return http.StatusBadRequest, errcode.ErrInvalid, "Invalid request: messages are required"
	case errors.As(err, &upstream):
		switch upstream.StatusCode {
		case http.StatusTooManyRequests:
			return http.StatusTooManyRequests, errcode.ErrUpstreamRateLimit, "Rate limit exceeded. " + upstream.RetryHint()
		case http.StatusUnauthorized, http.StatusForbidden:
			return http.StatusServiceUnavailable, errcode.ErrUpstreamAuth, "Upstream quota or key issue, please retry later"
		default:
			return http.StatusBadGateway, errcode.ErrUpstreamFailed, "Upstream provider error"
		}
	default:
		return http.StatusInternalServerError, errcode.ErrInternal, "Internal server error"
	}
}
