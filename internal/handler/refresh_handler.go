package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/sudhakarkatam/foliochat/internal/pkg/response"
	"github.com/sudhakarkatam/foliochat/internal/service"
)

type RefreshHandler struct {
	embeddings *service.EmbeddingService
}

func NewRefreshHandler(embeddings *service.EmbeddingService) *RefreshHandler {
	return &RefreshHandler{embeddings: embeddings}
}

// Refresh synchronously rebuilds the vector store from the profile tables.
// The call returns only after the last chunk is processed, so callers see a
// truthful summary instead of a fire-and-forget acknowledgement.
func (h *RefreshHandler) Refresh(c *gin.Context) {
	stats, err := h.embeddings.Refresh(c.Request.Context())
	if err != nil {
		logutil.GetLogger(c.Request.Context()).Error("embedding refresh failed", zap.Error(err))
		response.Result(c, http.StatusInternalServerError, false, "Embedding refresh failed")
		return
	}
	response.Result(c, http.StatusOK, true, stats.String())
}
