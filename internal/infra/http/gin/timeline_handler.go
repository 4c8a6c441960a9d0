package ginserver

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	gin "github.com/gin-gonic/gin"

	"hostcal/internal/app/dto"
	timelineapp "hostcal/internal/app/handlers/timeline"
	"hostcal/internal/app/queries"
)

type TimelineHandler struct {
	Queries queries.Bus
}

func (h TimelineHandler) Timeline(c *gin.Context) {
	h.respond(c, []string{c.Param("id")})
}

func (h TimelineHandler) MultiTimeline(c *gin.Context) {
	raw := c.Query("listing_ids")
	ids := make([]string, 0)
	for _, id := range strings.Split(raw, ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "listing_ids is required"})
		return
	}
	h.respond(c, ids)
}

func (h TimelineHandler) respond(c *gin.Context, ids []string) {
	from := time.Now().UTC()
	if raw := c.Query("from"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			parsed, err = time.Parse(time.RFC3339, raw)
		}
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid from date"})
			return
		}
		from = parsed
	}
	days := 0
	if raw := c.Query("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid days"})
			return
		}
		days = parsed
	}

	query := timelineapp.GetTimelineQuery{ResourceIDs: ids, WindowStart: from, WindowDays: days}
	result, err := queries.Ask[timelineapp.GetTimelineQuery, dto.Timeline](c.Request.Context(), h.Queries, query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

var _ TimelineHTTP = TimelineHandler{}
