package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"inno-quiz-service/internal/app"
	"inno-quiz-service/internal/domain"
)

const (
	wsWriteWait    = 10 * time.Second
	wsPongWait     = 60 * time.Second
	wsPingInterval = wsPongWait * 9 / 10
)

// WSHandler streams a quiz leaderboard, pushing a fresh ranking after every
// submission to that quiz.
type WSHandler struct {
	results  *app.ResultService
	hub      *app.Hub
	metrics  *Metrics
	log      *zap.Logger
	upgrader websocket.Upgrader
}

func NewWSHandler(results *app.ResultService, hub *app.Hub, metrics *Metrics, log *zap.Logger) *WSHandler {
	return &WSHandler{
		results: results,
		hub:     hub,
		metrics: metrics,
		log:     log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// ServeWS checks leaderboard access before upgrading, so denied or missing
// quizzes get a regular HTTP error response.
func (h *WSHandler) ServeWS(c *gin.Context) {
	quizID, err := pathID(c, "quiz_id")
	if err != nil {
		abortWithError(c, h.log, err)
		return
	}
	limit, err := queryInt(c, "limit", app.DefaultLeaderboardLimit)
	if err != nil {
		abortWithError(c, h.log, err)
		return
	}
	who := actor(c)
	ctx := c.Request.Context()

	// Subscribe first so a submission landing between the initial read and the
	// subscription is not missed.
	updates, cancel := h.hub.Subscribe(quizID)
	defer cancel()

	board, err := h.results.GetLeaderboard(ctx, quizID, who, limit)
	if err != nil {
		abortWithError(c, h.log, err)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn("ws upgrade failed", zap.Int64("quiz_id", quizID), zap.Error(err))
		return
	}
	defer conn.Close()

	h.metrics.liveViewers.Inc()
	defer h.metrics.liveViewers.Dec()
	log := h.log.With(zap.Int64("quiz_id", quizID), zap.Int64("user_id", who.ID), zap.String("request_id", requestID(c)))
	log.Debug("live leaderboard opened")

	closed := make(chan struct{})
	go readUntilClosed(conn, closed)

	if err := writeMessage(conn, outboundMessage[domain.Leaderboard]{Type: "leaderboard", Payload: board}); err != nil {
		log.Debug("ws write failed", zap.Error(err))
		return
	}

	ticker := time.NewTicker(wsPingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-closed:
			log.Debug("live leaderboard closed")
			return
		case _, ok := <-updates:
			if !ok {
				return
			}
			board, err := h.results.GetLeaderboard(ctx, quizID, who, limit)
			if err != nil {
				log.Info("leaderboard no longer available", zap.Error(err))
				_ = writeMessage(conn, outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: err.Error()}})
				return
			}
			if err := writeMessage(conn, outboundMessage[domain.Leaderboard]{Type: "leaderboard", Payload: board}); err != nil {
				log.Debug("ws write failed", zap.Error(err))
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func writeMessage(conn *websocket.Conn, msg any) error {
	_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
	return conn.WriteJSON(msg)
}

// readUntilClosed drains client frames so pongs and close frames are handled,
// and closes done once the connection fails.
func readUntilClosed(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)
	_ = conn.SetReadDeadline(time.Now().Add(wsPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})
	for {
		if _, _, err := conn.NextReader(); err != nil {
			return
		}
	}
}
