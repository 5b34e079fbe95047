package broadcast

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"

	"risiko-server/internal/game"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

var _ game.Broadcaster = (*Hub)(nil)

// Hub streams game events to websocket subscribers, grouped by game
type Hub struct {
	mu          sync.RWMutex
	subscribers map[string]map[*subscriber]struct{}
	bufferSize  int
	upgrader    websocket.Upgrader
	logger      *slog.Logger
}

type subscriber struct {
	hub    *Hub
	gameID string
	player string
	conn   *websocket.Conn
	send   chan game.Event
	once   sync.Once

	// highest snapshot version written, owned by writePump once it runs
	written int64
}

// NewHub creates a hub. Browser connections are accepted from the server's
// own host and from allowedOrigins.
func NewHub(bufferSize int, allowedOrigins []string, logger *slog.Logger) *Hub {
	if bufferSize < 1 {
		bufferSize = 16
	}

	h := &Hub{
		subscribers: make(map[string]map[*subscriber]struct{}),
		bufferSize:  bufferSize,
		logger:      logger,
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
		CheckOrigin:     originChecker(allowedOrigins),
	}
	return h
}

func originChecker(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, a := range allowed {
			if origin == a {
				return true
			}
		}
		u, err := url.Parse(origin)
		return err == nil && u.Host == r.Host
	}
}

// Serve upgrades the request and streams events of the game to it, starting
// with the snapshot returned by current. The subscriber is registered before
// current is called, so nothing committed after the snapshot is missed, and
// events at or below a version already written are skipped. Serve returns
// once the connection is registered.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, player, gameID string, current func() (*game.Game, error)) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// the upgrader already replied to the client
		return err
	}

	s := &subscriber{
		hub:    h,
		gameID: gameID,
		player: player,
		conn:   conn,
		send:   make(chan game.Event, h.bufferSize),
	}

	h.mu.Lock()
	if h.subscribers[gameID] == nil {
		h.subscribers[gameID] = make(map[*subscriber]struct{})
	}
	h.subscribers[gameID][s] = struct{}{}
	count := len(h.subscribers[gameID])
	h.mu.Unlock()

	g, err := current()
	if err == nil {
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		err = conn.WriteJSON(game.Event{Type: game.EventSnapshot, GameID: g.ID, Year: g.Year, Game: g})
	}
	if err != nil {
		h.remove(s)
		conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, "game unavailable"),
			time.Now().Add(writeWait))
		conn.Close()
		return err
	}
	s.written = g.Version

	h.logger.Debug("Subscriber connected",
		"component", "broadcast_hub",
		"game_id", gameID,
		"player", player,
		"version", g.Version,
		"subscribers", count)

	go s.writePump()
	go s.readPump()

	return nil
}

// Publish hands the event to every subscriber of its game. A subscriber whose
// buffer is full is disconnected instead of blocking the caller.
func (h *Hub) Publish(_ context.Context, event game.Event) {
	var dropped []*subscriber

	// sends happen under the read lock so remove cannot close a channel mid-send
	h.mu.RLock()
	for s := range h.subscribers[event.GameID] {
		select {
		case s.send <- event:
			if event.Type == game.EventGameDeleted {
				dropped = append(dropped, s)
			}
		default:
			h.logger.Warn("Dropping slow subscriber",
				"component", "broadcast_hub",
				"game_id", event.GameID,
				"player", s.player)
			dropped = append(dropped, s)
		}
	}
	h.mu.RUnlock()

	for _, s := range dropped {
		h.remove(s)
	}
}

// Subscribers counts the open connections of a game
func (h *Hub) Subscribers(gameID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers[gameID])
}

// Close disconnects every subscriber
func (h *Hub) Close() {
	h.mu.RLock()
	var all []*subscriber
	for _, subs := range h.subscribers {
		for s := range subs {
			all = append(all, s)
		}
	}
	h.mu.RUnlock()

	for _, s := range all {
		h.remove(s)
	}
}

// remove unregisters s and closes its send channel once; writePump then
// flushes what is buffered, sends a close frame and drops the connection.
func (h *Hub) remove(s *subscriber) {
	s.once.Do(func() {
		h.mu.Lock()
		if subs, ok := h.subscribers[s.gameID]; ok {
			delete(subs, s)
			if len(subs) == 0 {
				delete(h.subscribers, s.gameID)
			}
		}
		close(s.send)
		h.mu.Unlock()

		h.logger.Debug("Subscriber disconnected",
			"component", "broadcast_hub",
			"game_id", s.gameID,
			"player", s.player)
	})
}

// readPump only drains control frames; commands go through the HTTP API
func (s *subscriber) readPump() {
	defer func() {
		s.hub.remove(s)
		s.conn.Close()
	}()

	s.conn.SetReadLimit(maxMessageSize)
	s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		s.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := s.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				s.hub.logger.Debug("Subscriber read failed",
					"component", "broadcast_hub",
					"game_id", s.gameID,
					"error", err)
			}
			return
		}
	}
}

func (s *subscriber) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		s.conn.Close()
	}()

	for {
		select {
		case event, ok := <-s.send:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				s.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}

			if event.Game != nil {
				if event.Game.Version <= s.written {
					continue
				}
				s.written = event.Game.Version
			}

			if err := s.conn.WriteJSON(event); err != nil {
				return
			}

		case <-ticker.C:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
