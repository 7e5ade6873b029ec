package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/lmendez/inventario/internal/domain/models"
	"github.com/lmendez/inventario/internal/service/store"
)

// ActionHandler adapts the remote store service to its single-endpoint HTTP
// contract: POST dispatches an action envelope, GET reports health.
type ActionHandler struct {
	svc    *store.Service
	logger *zap.Logger
}

// NewActionHandler constructs the HTTP handler adapter.
func NewActionHandler(svc *store.Service, logger *zap.Logger) *ActionHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ActionHandler{svc: svc, logger: logger}
}

// Handle ingests an action request. Responses are always HTTP 200 with the
// outcome carried inside the envelope, matching the original endpoint which
// clients probe only for envelope success.
func (h *ActionHandler) Handle(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		h.logger.Warn("failed reading request body", zap.Error(err))
		c.JSON(http.StatusOK, models.Fail("Error al parsear datos JSON"))
		return
	}

	var req models.ActionRequest
	if err := json.Unmarshal(body, &req); err != nil {
		h.logger.Warn("malformed action request", zap.Error(err))
		c.JSON(http.StatusOK, models.Fail("Error al parsear datos JSON"))
		return
	}

	c.JSON(http.StatusOK, h.svc.Dispatch(c.Request.Context(), req))
}

// Health serves the static health/version payload.
func (h *ActionHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.Health())
}
