package api

import (
	"net/http"
	"strconv"

	"PropSync/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// PropHandler serves canonical prop rows to the consuming layer.
type PropHandler struct {
	propRepo repository.PropRepository
	logger   *logrus.Logger
}

func NewPropHandler(db *gorm.DB, logger *logrus.Logger) *PropHandler {
	return &PropHandler{
		propRepo: repository.NewPropRepository(db),
		logger:   logger,
	}
}

// ListProps lists canonical props with filters.
// GET /api/props?league=NFL&player_id=...&prop_type=...&from=2025-09-01&to=2025-09-08&page=1&page_size=50
func (h *PropHandler) ListProps(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "50"))

	filter := repository.PropFilter{
		League:   c.Query("league"),
		PlayerID: c.Query("player_id"),
		PropType: c.Query("prop_type"),
		FromDate: c.Query("from"),
		ToDate:   c.Query("to"),
	}

	rows, total, err := h.propRepo.ListProps(c.Request.Context(), filter, page, pageSize)
	if err != nil {
		h.logger.WithError(err).Error("ListProps failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"total":     total,
		"page":      page,
		"page_size": pageSize,
		"props":     rows,
	})
}
