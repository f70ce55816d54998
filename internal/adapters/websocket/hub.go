package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/mars-sim/mars-sim-sub009/internal/application/simulation"
	"github.com/mars-sim/mars-sim-sub009/internal/domain/mission"
)

const (
	// EventsPath is where the feed is served
	EventsPath = "/events"

	sendBuffer = 64
	writeWait  = 5 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

// FeedMetrics receives feed counters; metrics.APIMetricsCollector implements it
type FeedMetrics interface {
	SetFeedClients(n int)
	RecordFeedMessage(dropped bool)
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

type client struct {
	conn *websocket.Conn
	send chan []byte
	// mission filters events to one mission; 0 receives everything
	mission int
	ticks   bool
}

// Hub fans historical events and tick summaries out to websocket clients. A client that
// cannot keep up loses messages rather than slowing the simulation down.
type Hub struct {
	mu      sync.RWMutex
	clients map[*client]struct{}
	metrics FeedMetrics
	closed  bool
}

var _ mission.EventRecorder = (*Hub)(nil)
var _ simulation.TickObserver = (*Hub)(nil)

// NewHub creates an empty hub. metrics may be nil.
func NewHub(metrics FeedMetrics) *Hub {
	return &Hub{clients: make(map[*client]struct{}), metrics: metrics}
}

// Clients returns how many clients are connected
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// RecordEvent broadcasts a historical event
func (h *Hub) RecordEvent(event mission.HistoricalEvent) {
	h.broadcast(eventMessage(event), func(c *client) bool {
		return c.mission == 0 || c.mission == event.MissionID
	})
}

// ObserveTick broadcasts a tick summary to clients that asked for ticks
func (h *Hub) ObserveTick(report simulation.TickReport) {
	h.broadcast(tickMessage(report), func(c *client) bool { return c.ticks })
}

func (h *Hub) broadcast(msg message, wants func(*client) bool) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("Failed to encode feed message: %v", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		if !wants(c) {
			continue
		}
		select {
		case c.send <- data:
			h.recordMessage(false)
		default:
			h.recordMessage(true)
		}
	}
}

func (h *Hub) recordMessage(dropped bool) {
	if h.metrics != nil {
		h.metrics.RecordFeedMessage(dropped)
	}
}

// ServeHTTP upgrades the request and streams messages until the client goes away.
// Query parameters: mission=<id> filters events, ticks=true adds tick summaries.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	c := &client{send: make(chan []byte, sendBuffer)}
	if raw := r.URL.Query().Get("mission"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil || id <= 0 {
			http.Error(w, "mission must be a positive integer", http.StatusBadRequest)
			return
		}
		c.mission = id
	}
	c.ticks = r.URL.Query().Get("ticks") == "true"

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("upgrade: %v", err)
		return
	}
	c.conn = conn

	if !h.add(c) {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"), time.Now().Add(writeWait))
		conn.Close()
		return
	}

	go h.writePump(c)
	h.readPump(c)
}

func (h *Hub) add(c *client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.clients[c] = struct{}{}
	h.reportClients()
	return true
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	close(c.send)
	h.reportClients()
}

// reportClients must be called with the lock held
func (h *Hub) reportClients() {
	if h.metrics != nil {
		h.metrics.SetFeedClients(len(h.clients))
	}
}

// readPump discards client frames; it only exists to notice disconnects and pongs
func (h *Hub) readPump(c *client) {
	defer func() {
		h.remove(c)
		c.conn.Close()
	}()
	c.conn.SetReadLimit(512)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writePump(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case data, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Close disconnects every client and refuses new ones
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for c := range h.clients {
		delete(h.clients, c)
		close(c.send)
	}
	h.reportClients()
}

// Serve runs the feed on addr until ctx is cancelled
func (h *Hub) Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle(EventsPath, h)
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.ListenAndServe()
	}()

	select {
	case err := <-errChan:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("event feed server error: %w", err)
	case <-ctx.Done():
		h.Close()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
