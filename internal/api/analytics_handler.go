package api

import (
	"net/http"
	"strconv"

	"PropSync/internal/cache"
	"PropSync/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// AnalyticsHandler serves derived snapshot rows. Single-key reads try the
// cache mirror first and fall through to the store.
type AnalyticsHandler struct {
	snapRepo repository.SnapshotRepository
	cache    *cache.SnapshotWriter
	logger   *logrus.Logger
}

func NewAnalyticsHandler(db *gorm.DB, cacheWriter *cache.SnapshotWriter, logger *logrus.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{
		snapRepo: repository.NewSnapshotRepository(db),
		cache:    cacheWriter,
		logger:   logger,
	}
}

// GetPlayerAnalytics returns snapshots for one player, optionally narrowed
// to a prop type and season.
// GET /api/analytics/:player_id?prop_type=Passing+Yards&season=2025
func (h *AnalyticsHandler) GetPlayerAnalytics(c *gin.Context) {
	playerID := c.Param("player_id")
	propType := c.Query("prop_type")
	season := c.Query("season")

	if propType != "" && season != "" {
		if snap, err := h.cache.ReadSnapshot(c.Request.Context(), playerID, propType, season); err == nil && snap != nil {
			c.JSON(http.StatusOK, gin.H{"snapshots": []interface{}{snap}, "cached": true})
			return
		}
		snap, err := h.snapRepo.Get(c.Request.Context(), playerID, propType, season)
		if err != nil {
			h.logger.WithError(err).Error("GetPlayerAnalytics failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if snap == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "snapshot not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"snapshots": []interface{}{snap}})
		return
	}

	rows, err := h.snapRepo.ListByPlayer(c.Request.Context(), playerID)
	if err != nil {
		h.logger.WithError(err).Error("GetPlayerAnalytics failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"snapshots": rows})
}

// ListLeagueAnalytics bulk-lists snapshots for a league.
// GET /api/analytics?league=NBA&page=1&page_size=50
func (h *AnalyticsHandler) ListLeagueAnalytics(c *gin.Context) {
	league := c.Query("league")
	if league == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "league is required"})
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "50"))

	rows, total, err := h.snapRepo.ListByLeague(c.Request.Context(), league, page, pageSize)
	if err != nil {
		h.logger.WithError(err).Error("ListLeagueAnalytics failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"total":     total,
		"page":      page,
		"page_size": pageSize,
		"snapshots": rows,
	})
}
