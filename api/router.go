// Package api exposes the session engine over HTTP and WebSocket.
package api

import (
	"drinkspeed/services"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

type Config struct {
	ConnectionBufferSize int
	WriteWait            time.Duration
	PongWait             time.Duration
}

func (c Config) withDefaults() Config {
	if c.ConnectionBufferSize <= 0 {
		c.ConnectionBufferSize = 1024
	}
	if c.WriteWait <= 0 {
		c.WriteWait = 10 * time.Second
	}
	if c.PongWait <= 0 {
		c.PongWait = 60 * time.Second
	}
	return c
}

type Handler struct {
	log      *slog.Logger
	service  services.ISessionService
	cfg      Config
	upgrader websocket.Upgrader
}

func NewHandler(log *slog.Logger, service services.ISessionService, cfg Config) *Handler {
	cfg = cfg.withDefaults()
	return &Handler{
		log:     log,
		service: service,
		cfg:     cfg,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  cfg.ConnectionBufferSize,
			WriteBufferSize: cfg.ConnectionBufferSize,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// NewRouter registers every route on a fresh gin engine.
func NewRouter(log *slog.Logger, service services.ISessionService, cfg Config) *gin.Engine {
	h := NewHandler(log, service, cfg)
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(log))

	rooms := router.Group("/api/rooms")
	rooms.POST("", h.CreateRoom)
	rooms.POST("/join", h.JoinRoom)
	rooms.GET("/:code", h.RoomInfo)
	rooms.POST("/:code/end", h.EndRoom)
	rooms.GET("/:code/ranking", h.Ranking)
	rooms.GET("/:code/timeline", h.Timeline)

	users := router.Group("/api/users")
	users.GET("/:id", h.UserResult)
	users.GET("/:id/commentary", h.Commentary)
	users.POST("/:id/drinks", h.AddDrink)
	users.POST("/:id/reactions", h.RecordReaction)
	users.POST("/:id/finish", h.Finish)

	router.GET("/ws/rooms/:code", h.Subscribe)
	router.GET("/debug/stats", h.Stats)
	return router
}

func requestLogger(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Debug(fmt.Sprintf("%s %s", c.Request.Method, c.FullPath()),
			"status", c.Writer.Status(),
			"duration", time.Since(start))
	}
}
