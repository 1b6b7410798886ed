package ws

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

func newHubServer(t *testing.T, hub *Hub, userID string) string {
	t.Helper()
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		hub.Register(userID, conn)
	}))
	t.Cleanup(srv.Close)
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func TestNotifyDeliversToEveryConnection(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	url := newHubServer(t, hub, "u1")

	conns := make([]*websocket.Conn, 0, 3)
	for i := 0; i < 3; i++ {
		conn, _, err := websocket.DefaultDialer.Dial(url, nil)
		if err != nil {
			t.Fatalf("dial %d: %v", i, err)
		}
		t.Cleanup(func() { _ = conn.Close() })
		conns = append(conns, conn)
	}

	hub.Notify("u1", EventSessionChanged)

	for i, conn := range conns {
		_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		_, raw, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("conn %d read: %v", i, err)
		}
		var ev Event
		if err := json.Unmarshal(raw, &ev); err != nil {
			t.Fatalf("conn %d payload %s: %v", i, raw, err)
		}
		if ev.Event != EventSessionChanged {
			t.Fatalf("conn %d event = %q", i, ev.Event)
		}
	}

	hub.Close()
}

func TestNotifyIgnoresUnknownUser(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	hub.Notify("nobody", EventSessionCleared)
	hub.Close()
}

// A broadcast racing connection teardown must never send on a dead
// client: logins in one tab while another tab disconnects were observed
// to crash the broadcaster before teardown moved to the done channel.
func TestNotifyDuringTeardownDoesNotPanic(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	url := newHubServer(t, hub, "u1")

	const connCount = 16
	conns := make([]*websocket.Conn, 0, connCount)
	for i := 0; i < connCount; i++ {
		conn, _, err := websocket.DefaultDialer.Dial(url, nil)
		if err != nil {
			t.Fatalf("dial %d: %v", i, err)
		}
		conns = append(conns, conn)
	}

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 500; j++ {
				hub.Notify("u1", EventSessionChanged)
			}
		}()
	}

	// Tear the connections down while the notifiers are mid-flight. None
	// of the readers drain, so slow-client drops race the read pumps'
	// cleanup as well.
	for _, conn := range conns {
		_ = conn.Close()
	}
	wg.Wait()
	hub.Close()
}
