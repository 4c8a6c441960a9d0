package ginserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	gin "github.com/gin-gonic/gin"

	"hostcal/internal/infra/config"
	"hostcal/internal/infra/obs"
)

type TimelineHTTP interface {
	Timeline(c *gin.Context)
	MultiTimeline(c *gin.Context)
}

type BlockHTTP interface {
	Create(c *gin.Context)
	Delete(c *gin.Context)
	UpdateNotes(c *gin.Context)
	CancelBooking(c *gin.Context)
}

type FeedHTTP interface {
	Sync(c *gin.Context)
}

type Handlers struct {
	Timeline TimelineHTTP
	Block    BlockHTTP
	Feed     FeedHTTP
}

func NewServer(cfg config.Config, obsMW obs.Middleware, health obs.HealthHandlers, h Handlers) *http.Server {
	mode := configureGinMode(cfg.Env)
	if obsMW.Logger != nil {
		obsMW.Logger.Info("gin initialized", "mode", mode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(obsMW.RequestID())
	router.Use(obsMW.LoggerMiddleware())
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization", "Idempotency-Key"},
		ExposeHeaders: []string{
			"Content-Length",
			"Content-Type",
			"X-Request-ID",
		},
		MaxAge: 12 * time.Hour,
	}))

	router.GET("/livez", health.Livez)
	router.GET("/readyz", health.Readyz)

	api := router.Group("/api/v1")
	if h.Timeline != nil {
		api.GET("/listings/:id/timeline", h.Timeline.Timeline)
		api.GET("/timeline", h.Timeline.MultiTimeline)
	}
	if h.Block != nil {
		api.POST("/listings/:id/blocks", h.Block.Create)
		api.DELETE("/blocks/:id", h.Block.Delete)
		api.PATCH("/blocks/:id/notes", h.Block.UpdateNotes)
		api.POST("/bookings/:id/cancel", h.Block.CancelBooking)
	}
	if h.Feed != nil {
		api.POST("/listings/:id/feeds/sync", h.Feed.Sync)
	}

	return &http.Server{Addr: cfg.HTTPAddr, Handler: router}
}

func configureGinMode(env string) string {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "debug":
		gin.SetMode(gin.DebugMode)
		return gin.DebugMode
	case "test", "testing":
		gin.SetMode(gin.TestMode)
		return gin.TestMode
	default:
		gin.SetMode(gin.ReleaseMode)
		return gin.ReleaseMode
	}
}
