package sink

import (
	"encoding/json"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"github.com/physim/physim/internal/apierr"
	"github.com/physim/physim/internal/bus"
	"github.com/physim/physim/internal/entity"
	"github.com/physim/physim/internal/logger"
	"github.com/physim/physim/internal/metrics"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPongWait   = 60 * time.Second
	wsPingPeriod = (wsPongWait * 9) / 10
	wsMaxMessage = 1 << 20
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// frame is the JSON shape streamed to each wssink client: one flattened
// position triple per entity, mirroring csvsink's field layout.
type frame struct {
	Step int       `json:"step"`
	Pos  []float64 `json:"pos"`
}

// wsClient wraps one live connection with a send buffer and a per-client
// token-bucket throttle so a slow browser tab can't be force-fed frames
// faster than it drains them. Grounded on the teacher's reddit-API rate
// limiter use of golang.org/x/time/rate.
type wsClient struct {
	conn    *websocket.Conn
	send    chan []byte
	limiter *rate.Limiter
}

// WsSink is the "wssink" element: a live RenderSink that streams JSON
// snapshot frames to any number of connected browser clients over a
// websocket hub, grounded on the teacher's
// internal/api/handlers/websocket.go Hub/Client broadcast shape.
type WsSink struct {
	Port      int
	RateLimit float64 // frames per second each client may receive

	mu      sync.Mutex
	clients map[*wsClient]bool
	bus     *bus.Bus
}

// NewWsSink constructs a WsSink listening on port, throttling each
// client to rateLimit frames/sec (0 disables throttling). b is posted a
// pipeline/finished message once the render loop ends.
func NewWsSink(port int, rateLimit float64, b *bus.Bus) *WsSink {
	return &WsSink{Port: port, RateLimit: rateLimit, clients: make(map[*wsClient]bool), bus: b}
}

func (s *WsSink) Render(snapshots <-chan []entity.Entity) {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleUpgrade)

	server := &http.Server{Addr: portAddr(s.Port), Handler: mux}
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("wssink: server failed", "error", err)
		}
	}()
	defer server.Close()
	defer s.notifyFinished()

	step := 0
	for state := range snapshots {
		s.broadcast(step, state)
		step++
	}
}

func (s *WsSink) notifyFinished() {
	logger.Info("wssink: render loop ended", "reason", apierr.SinkClosed("wssink").Error())
	if s.bus == nil {
		return
	}
	s.bus.Post(bus.Message{SenderID: "wssink", Priority: bus.PriorityCritical, Topic: "pipeline/finished"})
}

func (s *WsSink) handleUpgrade(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Warn("wssink: upgrade failed", "error", err)
		return
	}

	limit := rate.Inf
	if s.RateLimit > 0 {
		limit = rate.Limit(s.RateLimit)
	}
	client := &wsClient{
		conn:    conn,
		send:    make(chan []byte, 16),
		limiter: rate.NewLimiter(limit, 1),
	}

	s.mu.Lock()
	s.clients[client] = true
	s.mu.Unlock()
	metrics.WebSocketConnections.Inc()

	go s.writePump(client)
}

func (s *WsSink) writePump(c *wsClient) {
	ticker := time.NewTicker(wsPingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
		s.mu.Lock()
		delete(s.clients, c)
		s.mu.Unlock()
		metrics.WebSocketConnections.Dec()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (s *WsSink) broadcast(step int, state []entity.Entity) {
	s.mu.Lock()
	clients := make([]*wsClient, 0, len(s.clients))
	for c := range s.clients {
		clients = append(clients, c)
	}
	s.mu.Unlock()
	if len(clients) == 0 {
		return
	}

	payload, err := json.Marshal(frame{Step: step, Pos: flatten(state)})
	if err != nil {
		logger.Error("wssink: marshal failed", "error", err)
		return
	}

	for _, c := range clients {
		if !c.limiter.Allow() {
			metrics.SinkDropped.WithLabelValues("wssink").Inc()
			continue
		}
		select {
		case c.send <- payload:
			metrics.SinkFramesSent.WithLabelValues("wssink").Inc()
		default:
			metrics.SinkDropped.WithLabelValues("wssink").Inc()
		}
	}
}

func flatten(state []entity.Entity) []float64 {
	out := make([]float64, 0, len(state)*3)
	for _, e := range state {
		out = append(out, e.Pos.X(), e.Pos.Y(), e.Pos.Z())
	}
	return out
}

func portAddr(port int) string {
	if port <= 0 {
		port = 8090
	}
	return ":" + strconv.Itoa(port)
}
