package server

import (
	"log/slog"
	"net/http"
	"time"

	"ctchen222/Tic-Tac-Toe-Solo/internal/api/controller"
	"ctchen222/Tic-Tac-Toe-Solo/internal/api/response"
	"ctchen222/Tic-Tac-Toe-Solo/internal/api/service"
	"ctchen222/Tic-Tac-Toe-Solo/internal/player"
	"ctchen222/Tic-Tac-Toe-Solo/internal/room"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("server")

type Server struct {
	engine      *gin.Engine
	gameService service.GameService
	controller  *controller.SessionController
	stats       *controller.StatsController
	upgrader    websocket.Upgrader
}

func NewServer(gameService service.GameService, sessionController *controller.SessionController, statsController *controller.StatsController) *Server {
	s := &Server{
		engine:      gin.New(),
		gameService: gameService,
		controller:  sessionController,
		stats:       statsController,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
	s.engine.Use(gin.Recovery(), requestLogger())
	s.RegisterHandlers()
	return s
}

func (s *Server) RegisterHandlers() {
	s.engine.GET("/healthz", func(c *gin.Context) {
		response.SuccessResponse(c, gin.H{"status": "ok"})
	})
	s.engine.GET("/ws", s.handleWebSocket)

	api := s.engine.Group("/api")
	api.GET("/stats", s.stats.GetStats)

	sessions := api.Group("/sessions")
	sessions.POST("", s.controller.CreateSession)
	sessions.GET("/:id", s.controller.GetSession)
	sessions.DELETE("/:id", s.controller.DeleteSession)
	sessions.POST("/:id/match", s.controller.StartMatch)
	sessions.POST("/:id/moves", s.controller.ApplyMove)
	sessions.GET("/:id/score", s.controller.GetScore)
	sessions.DELETE("/:id/score", s.controller.ResetScore)
}

// Engine returns the gin router.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// Handler returns the router wrapped with OpenTelemetry HTTP instrumentation.
func (s *Server) Handler() http.Handler {
	return otelhttp.NewHandler(s.engine, "tic-tac-toe")
}

// handleWebSocket upgrades the connection, attaches it to the requested
// session (or a new one) and serves it until the player disconnects.
func (s *Server) handleWebSocket(c *gin.Context) {
	r := c.Request
	ctx, span := tracer.Start(r.Context(), "server.handleWebSocket", trace.WithAttributes(
		attribute.String("http.url", r.URL.String()),
		attribute.String("http.method", r.Method),
	))
	defer span.End()

	conn, err := s.upgrader.Upgrade(c.Writer, r, nil)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to upgrade connection", "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to upgrade connection")
		return
	}

	sessionID := s.gameService.Attach(ctx, c.Query("sessionId"))
	span.SetAttributes(attribute.String("session.id", sessionID))

	p := player.NewPlayer(sessionID, conn)
	room.NewRoom(s.gameService, p).Run(ctx)
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		slog.InfoContext(c.Request.Context(), "HTTP request",
			"http.method", c.Request.Method,
			"http.route", c.FullPath(),
			"http.status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}
