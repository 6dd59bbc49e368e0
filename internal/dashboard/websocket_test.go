package dashboard

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func TestWebSocketSendsHeadOnConnect(t *testing.T) {
	s := setupDashboardRepo(t)

	srv := httptest.NewServer(http.HandlerFunc(s.handleWebSocket))
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer conn.Close()

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage: %v", err)
	}

	var push headPush
	if err := json.Unmarshal(msg, &push); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	repository := s.repository()
	if push.Head != string(repository.Head()) {
		t.Errorf("push.Head = %q, want %q", push.Head, repository.Head())
	}
	if push.Added != 1 || push.Removed != 0 {
		t.Errorf("push.Added/Removed = %d/%d, want 1/0", push.Added, push.Removed)
	}
}
