package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/fasthttp/websocket"
	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/crumbs/internal/debounce"
	"github.com/joshua-takyi/crumbs/internal/helpers"
	"github.com/joshua-takyi/crumbs/internal/models"
	"github.com/joshua-takyi/crumbs/internal/search"
	"github.com/joshua-takyi/crumbs/internal/services"
)

const (
	liveIdleTimeout  = 5 * time.Minute
	liveWriteTimeout = 10 * time.Second
	liveMaxMessage   = 1024
)

func Search(ss *services.SearchService) gin.HandlerFunc {
	return func(c *gin.Context) {
		res, err := ss.Search(c.Request.Context(), c.Query("q"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, helpers.SuccessResponse(res, ""))
	}
}

type liveQuery struct {
	Q string `json:"q"`
}

type liveResult struct {
	Seq     uint64          `json:"seq"`
	Q       string          `json:"q"`
	Results *search.Results `json:"results,omitempty"`
	Error   string          `json:"error,omitempty"`
	Kind    string          `json:"kind,omitempty"`
}

// liveSession is one search-as-you-type socket. Reads happen on the
// handler goroutine, passes on debouncer goroutines; writes are serialized.
type liveSession struct {
	conn   *websocket.Conn
	ss     *services.SearchService
	logger *slog.Logger

	writeMu sync.Mutex
	d       *debounce.Debouncer[string]
}

func (s *liveSession) write(v liveResult) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	_ = s.conn.SetWriteDeadline(time.Now().Add(liveWriteTimeout))
	return s.conn.WriteJSON(v)
}

func (s *liveSession) pass(ctx context.Context, seq uint64, q string) {
	res, err := s.ss.Search(ctx, q)
	// A newer keystroke already superseded this pass.
	if ctx.Err() != nil || !s.d.IsLatest(seq) {
		return
	}

	out := liveResult{Seq: seq, Q: q}
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		s.logger.Warn("live search failed", "query", q, "error", err)
		out.Error = publicMessage(err)
		out.Kind = string(models.KindOf(err))
	} else {
		out.Results = &res
	}
	if err := s.write(out); err != nil {
		s.logger.Debug("live search write failed", "error", err)
	}
}

// LiveSearch upgrades to a WebSocket. Each {"q": "..."} frame restarts a
// quiet period; once it elapses the latest query is answered with a
// {"seq", "q", "results"} frame. Answers to superseded queries are dropped.
func LiveSearch(ss *services.SearchService, allowedOrigins []string, delay time.Duration, logger *slog.Logger) gin.HandlerFunc {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" {
				return true
			}
			for _, o := range allowedOrigins {
				if o == "*" || o == origin {
					return true
				}
			}
			return false
		},
	}

	return func(c *gin.Context) {
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logger.Info("websocket upgrade failed", "error", err)
			return
		}
		defer conn.Close()
		conn.SetReadLimit(liveMaxMessage)

		s := &liveSession{conn: conn, ss: ss, logger: logger}
		s.d = debounce.New[string](delay, s.pass)
		defer s.d.Stop()

		for {
			_ = conn.SetReadDeadline(time.Now().Add(liveIdleTimeout))
			var msg liveQuery
			if err := conn.ReadJSON(&msg); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					logger.Debug("live search socket closed", "error", err)
				}
				return
			}
			s.d.Push(msg.Q)
		}
	}
}
