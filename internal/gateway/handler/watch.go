package handler

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"c4analytics/internal/report"
)

const (
	watchWriteWait = 10 * time.Second
	watchPongWait  = 60 * time.Second
	watchPingEvery = (watchPongWait * 9) / 10
)

var watchUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(_ *http.Request) bool {
		return true
	},
}

// Hub fans freshly recomputed reports out to the watch connections of a
// session. Connections are write-only from the server's point of view;
// the client just re-renders whatever arrives.
type Hub struct {
	mu    sync.Mutex
	conns map[string]map[*websocket.Conn]chan report.Report
}

func NewHub() *Hub {
	return &Hub{conns: make(map[string]map[*websocket.Conn]chan report.Report)}
}

// Publish queues a report for every watcher of the session. Slow
// consumers drop intermediate reports; only the latest matters.
func (h *Hub) Publish(sessionID string, rep report.Report) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, ch := range h.conns[sessionID] {
		select {
		case ch <- rep:
		default:
		}
	}
}

func (h *Hub) add(sessionID string, conn *websocket.Conn) chan report.Report {
	ch := make(chan report.Report, 1)
	h.mu.Lock()
	if h.conns[sessionID] == nil {
		h.conns[sessionID] = make(map[*websocket.Conn]chan report.Report)
	}
	h.conns[sessionID][conn] = ch
	h.mu.Unlock()
	return ch
}

func (h *Hub) remove(sessionID string, conn *websocket.Conn) {
	h.mu.Lock()
	if watchers := h.conns[sessionID]; watchers != nil {
		delete(watchers, conn)
		if len(watchers) == 0 {
			delete(h.conns, sessionID)
		}
	}
	h.mu.Unlock()
}

// HandleWatch upgrades to a websocket and pushes the session's report
// after every mutating action, starting with the current one.
func (s *Service) HandleWatch(w http.ResponseWriter, r *http.Request) {
	conn, err := watchUpgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	id := sessionID(r)
	ch := s.hub.add(id, conn)
	defer func() {
		s.hub.remove(id, conn)
		_ = conn.Close()
	}()

	// Reader goroutine only services pongs and detects close.
	done := make(chan struct{})
	go func() {
		defer close(done)
		conn.SetReadLimit(512)
		_ = conn.SetReadDeadline(time.Now().Add(watchPongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(watchPongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	// Send the current report immediately so a new watcher is not blank
	// until the next action.
	state := s.sessions.Get(id)
	if err := writeReport(conn, state.Report()); err != nil {
		return
	}

	ticker := time.NewTicker(watchPingEvery)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case rep := <-ch:
			if err := writeReport(conn, rep); err != nil {
				return
			}
		case <-ticker.C:
			if err := conn.SetWriteDeadline(time.Now().Add(watchWriteWait)); err != nil {
				return
			}
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func writeReport(conn *websocket.Conn, rep report.Report) error {
	if err := conn.SetWriteDeadline(time.Now().Add(watchWriteWait)); err != nil {
		return err
	}
	if err := conn.WriteJSON(rep); err != nil {
		log.Printf("watch write: %v", err)
		return err
	}
	return nil
}
