package dashboard

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/jrherrmann/glitzer/internal/diff"
	"github.com/jrherrmann/glitzer/internal/gitobj"
)

var errNoRepository = errors.New("dashboard: repository not open")

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

// upgrader has CheckOrigin always true: the dashboard is a local,
// single-user tool with no cross-origin session to protect.
var upgrader = websocket.Upgrader{
	ReadBufferSize:    1024,
	WriteBufferSize:   1024,
	EnableCompression: true,
	CheckOrigin:       func(_ *http.Request) bool { return true },
}

// headPush is the payload pushed to every connected client whenever HEAD
// moves: the new HEAD hash, plus its aggregate line-change summary
// against its first parent (zero for a root commit).
type headPush struct {
	Head    string `json:"head"`
	Added   uint64 `json:"added"`
	Removed uint64 `json:"removed"`
}

// currentHeadPush builds the headPush for whatever commit HEAD currently
// points to, computing its CommitDiff against its first parent.
func (s *Server) currentHeadPush() (headPush, error) {
	r := s.repository()
	if r == nil {
		return headPush{}, errNoRepository
	}

	head := r.Head()
	push := headPush{Head: string(head)}

	commit, err := r.GetCommit(head)
	if err != nil {
		return push, nil //nolint:nilerr // HEAD need not resolve to a commit yet; report hash only
	}
	if commit.Parent == nil {
		return push, nil
	}

	parent, err := r.GetCommit(*commit.Parent)
	if err != nil {
		return push, nil //nolint:nilerr // best-effort summary; the hash push itself still matters
	}

	cd, err := diff.DiffCommits(parent, commit, s.getObject)
	if err != nil {
		return push, nil //nolint:nilerr // best-effort summary; the hash push itself still matters
	}
	push.Added = cd.Added
	push.Removed = cd.Removed
	return push, nil
}

// hub fans a single headPush out to every connected WebSocket client.
type hub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}
}

func newHub() *hub {
	return &hub{clients: make(map[*websocket.Conn]struct{})}
}

func (h *hub) register(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[conn] = struct{}{}
}

func (h *hub) unregister(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, conn)
}

func (h *hub) broadcast(payload []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients {
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			_ = conn.Close()
			delete(h.clients, conn)
		}
	}
}

func (s *Server) broadcastHead(_ gitobj.Hash) {
	push, err := s.currentHeadPush()
	if err != nil {
		return
	}
	payload, err := json.Marshal(push)
	if err != nil {
		return
	}
	s.hub.broadcast(payload)
}

// handleWebSocket upgrades the connection, sends the current HEAD once,
// and then keeps the socket alive with ping/pong until the client
// disconnects; this handler never reads application messages from the
// client beyond pong frames, since the dashboard is read-only.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	if !s.rateLimiter.allow(clientIP(r)) {
		http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "err", err)
		return
	}

	conn.EnableWriteCompression(true)
	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	s.hub.register(conn)

	if push, err := s.currentHeadPush(); err == nil {
		if payload, err := json.Marshal(push); err == nil {
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = conn.WriteMessage(websocket.TextMessage, payload)
		}
	}

	go s.pingLoop(conn)
	go s.readLoop(conn)
}

// readLoop exists only to notice the client going away: any read error
// (close frame, reset, read-limit exceeded) unregisters the connection.
func (s *Server) readLoop(conn *websocket.Conn) {
	defer func() {
		s.hub.unregister(conn)
		_ = conn.Close()
	}()
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (s *Server) pingLoop(conn *websocket.Conn) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for range ticker.C {
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
			return
		}
	}
}
