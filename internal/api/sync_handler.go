package api

import (
	"fmt"
	"net/http"

	"PropSync/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type SyncHandler struct {
	ingest *service.IngestService
	logger *logrus.Logger
}

func NewSyncHandler(ingest *service.IngestService, logger *logrus.Logger) *SyncHandler {
	return &SyncHandler{ingest: ingest, logger: logger}
}

// SyncProviderHandler triggers ingestion for one provider.
// POST /sync/provider/:provider
func (h *SyncHandler) SyncProviderHandler(c *gin.Context) {
	provider := c.Param("provider")

	if err := h.ingest.RunProvider(c.Request.Context(), provider); err != nil {
		h.logger.WithError(err).Errorf("sync %s failed", provider)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("%s sync finished", provider),
	})
}

// SyncAllHandler triggers a full ingestion run across every provider.
// POST /sync/all
func (h *SyncHandler) SyncAllHandler(c *gin.Context) {
	if err := h.ingest.RunAll(c.Request.Context()); err != nil {
		h.logger.WithError(err).Error("full sync failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "sync finished"})
}
