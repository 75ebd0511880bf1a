package api

import (
	"net/http"
	"strconv"

	"PropSync/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// AdminHandler exposes the operator surfaces: unresolved identities and prop
// types awaiting curation, and per-(provider, league) ingestion status.
type AdminHandler struct {
	identityRepo repository.IdentityRepository
	aliasRepo    repository.AliasRepository
	providerRepo repository.ProviderRepository
	logger       *logrus.Logger
}

func NewAdminHandler(db *gorm.DB, logger *logrus.Logger) *AdminHandler {
	return &AdminHandler{
		identityRepo: repository.NewIdentityRepository(db),
		aliasRepo:    repository.NewAliasRepository(db),
		providerRepo: repository.NewProviderRepository(db),
		logger:       logger,
	}
}

// ListUnresolvedIdentities pages through ambiguous identity sightings.
// GET /api/unresolved/identities?page=1&page_size=20
func (h *AdminHandler) ListUnresolvedIdentities(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	rows, total, err := h.identityRepo.ListUnresolved(c.Request.Context(), page, pageSize)
	if err != nil {
		h.logger.WithError(err).Error("ListUnresolvedIdentities failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"total": total, "identities": rows})
}

// ListUnresolvedPropTypes pages through raw prop labels the normalizer
// could not place, most-sighted first.
// GET /api/unresolved/prop-types?page=1&page_size=20
func (h *AdminHandler) ListUnresolvedPropTypes(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	rows, total, err := h.aliasRepo.ListUnresolved(c.Request.Context(), page, pageSize)
	if err != nil {
		h.logger.WithError(err).Error("ListUnresolvedPropTypes failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"total": total, "prop_types": rows})
}

// IngestStatus lists the latest run outcome per (provider, league).
// GET /api/ingest/status
func (h *AdminHandler) IngestStatus(c *gin.Context) {
	rows, err := h.providerRepo.ListStatuses(c.Request.Context())
	if err != nil {
		h.logger.WithError(err).Error("IngestStatus failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"statuses": rows})
}
