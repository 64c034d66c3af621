package http

import (
	"context"
	"errors"
	"net/http"
	"path/filepath"
	"time"

	"github.com/dkeye/Huddle/internal/adapters/signal"
	"github.com/dkeye/Huddle/internal/app/orch"
	"github.com/dkeye/Huddle/internal/config"
	"github.com/dkeye/Huddle/internal/domain"
	"github.com/dkeye/Huddle/internal/turn"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/securecookie"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

const (
	sessionName       = "HuddleSessions"
	clientTokenKey    = "client_token"
	credentialTimeout = 5 * time.Second
)

type Deps struct {
	Orch        *orch.Orchestrator
	Signal      *signal.SignalWSController
	Credentials turn.Provider
	// Gatherer backs the metrics endpoint; nil disables it.
	Gatherer prometheus.Gatherer
}

// ClientTokenMiddleware gives every browser a stable token kept in the
// session cookie. It only identifies the client in logs.
func ClientTokenMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		token, _ := session.Get(clientTokenKey).(string)
		if token == "" {
			token = uuid.NewString()
			session.Set(clientTokenKey, token)
			if err := session.Save(); err != nil {
				log.Warn().Err(err).Str("module", "adapters.http").Msg("save session")
			}
		}
		c.Set(clientTokenKey, token)
		c.Next()
	}
}

func CORSMiddleware(origin string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if origin != "" {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Access-Control-Allow-Methods", "GET, OPTIONS")
		}
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

func SetupRouter(ctx context.Context, cfg *config.Config, deps Deps) *gin.Engine {
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if cfg.Mode == "debug" {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())

	store := cookie.NewStore(sessionKey(cfg.Secret))
	store.Options(sessions.Options{Path: "/", MaxAge: 3600 * 24 * 7, HttpOnly: true})
	r.Use(sessions.Sessions(sessionName, store))
	r.Use(ClientTokenMiddleware())

	r.Static("/static", cfg.StaticPath)
	r.GET("/", func(c *gin.Context) {
		c.File(filepath.Join(cfg.StaticPath, "index.html"))
	})

	if cfg.Metrics.Enabled && deps.Gatherer != nil {
		r.GET(cfg.Metrics.Path, gin.WrapH(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}

	log.Info().Str("module", "adapters.http").Str("static", cfg.StaticPath).Msg("router setup")

	api := r.Group("/api")
	api.Use(CORSMiddleware(cfg.CORS.AllowedOrigin))
	api.OPTIONS("/*path", func(c *gin.Context) {})

	api.GET("/ws/signal", func(c *gin.Context) {
		log.Debug().Str("module", "adapters.http").Str("client", c.GetString(clientTokenKey)).Msg("ws signal endpoint hit")
		deps.Signal.HandleSignal(ctx, c)
	})
	api.GET("/room-exists/:roomId", roomExists(deps.Orch))
	api.GET("/rooms", listRooms(deps.Orch))
	api.GET("/get-turn-credentials", turnCredentials(deps.Credentials))

	return r
}

// sessionKey returns the configured cookie secret, or a random one that lives
// as long as the process when none is set.
func sessionKey(secret string) []byte {
	if secret != "" {
		return []byte(secret)
	}
	log.Warn().Str("module", "adapters.http").Msg("no session secret configured, client tokens reset on restart")
	return securecookie.GenerateRandomKey(32)
}

func roomExists(o *orch.Orchestrator) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, o.RoomExists(domain.RoomID(c.Param("roomId"))))
	}
}

type roomSummary struct {
	RoomID       domain.RoomID `json:"roomId"`
	Participants int           `json:"participants"`
}

func listRooms(o *orch.Orchestrator) gin.HandlerFunc {
	return func(c *gin.Context) {
		rooms := o.ListRooms()
		out := make([]roomSummary, 0, len(rooms))
		for _, room := range rooms {
			out = append(out, roomSummary{RoomID: room.ID, Participants: room.Occupancy()})
		}
		c.JSON(http.StatusOK, out)
	}
}

// turnCredentials never touches room state, so a slow provider only delays
// this request.
func turnCredentials(p turn.Provider) gin.HandlerFunc {
	return func(c *gin.Context) {
		if p == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "credentials unavailable"})
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), credentialTimeout)
		defer cancel()

		creds, err := p.Credentials(ctx)
		if err != nil {
			ev := log.Error()
			if errors.Is(err, turn.ErrNotConfigured) {
				ev = log.Warn()
			}
			ev.Err(err).Str("module", "adapters.http").Msg("turn credentials")
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "credentials unavailable"})
			return
		}
		c.JSON(http.StatusOK, creds)
	}
}
