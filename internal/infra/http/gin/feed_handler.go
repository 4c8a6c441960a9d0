package ginserver

import (
	"errors"
	"net/http"

	gin "github.com/gin-gonic/gin"

	"hostcal/internal/app/commands"
	feedsapp "hostcal/internal/app/handlers/feeds"
)

type FeedHandler struct {
	Commands commands.Bus
}

type syncFeedRequest struct {
	FeedID string `json:"feed_id" binding:"required"`
	URL    string `json:"url" binding:"required"`
	Source string `json:"source"`
}

func (h FeedHandler) Sync(c *gin.Context) {
	var req syncFeedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := feedsapp.SyncFeedCommand{
		FeedID:     req.FeedID,
		ResourceID: c.Param("id"),
		URL:        req.URL,
		Source:     req.Source,
	}
	result, err := commands.Dispatch[feedsapp.SyncFeedCommand, *feedsapp.SyncFeedResult](c.Request.Context(), h.Commands, cmd)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, result)
	case errors.Is(err, feedsapp.ErrSyncInProgress):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, feedsapp.ErrImportFailed):
		c.JSON(http.StatusBadGateway, gin.H{"error": "unable to sync, verify the URL"})
	case errors.Is(err, feedsapp.ErrFeedRequired):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

var _ FeedHTTP = FeedHandler{}
