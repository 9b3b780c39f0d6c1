package services

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

// dialHubClient upgrades one connection, registers it with the hub, and
// returns the client side of the socket.
func dialHubClient(t *testing.T, hub *RealtimeHub, userID uint) *websocket.Conn {
	t.Helper()
	up := websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}
	registered := make(chan struct{})

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := up.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade failed: %v", err)
			return
		}
		hub.Register(&WSClient{UserID: userID, Conn: conn})
		close(registered)
	}))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })

	select {
	case <-registered:
	case <-time.After(2 * time.Second):
		t.Fatal("client never registered")
	}
	return conn
}

func TestRealtimeHub_BroadcastReachesUser(t *testing.T) {
	hub := NewRealtimeHub()
	conn := dialHubClient(t, hub, 7)

	hub.Broadcast(7, map[string]any{"kind": "alert.created"})
	hub.Broadcast(99, map[string]any{"kind": "alert.created"}) // different user, must not arrive

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if !strings.Contains(string(msg), "alert.created") {
		t.Errorf("unexpected payload %q", msg)
	}

	// only the one message for user 7 may be queued
	_ = conn.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
	if _, extra, err := conn.ReadMessage(); err == nil {
		t.Errorf("received a message meant for another user: %q", extra)
	}
}

// Broadcasts and pings race on the same connection; every data message must
// still arrive intact. Run with -race to catch unserialized writes.
func TestRealtimeHub_ConcurrentWritersOneConn(t *testing.T) {
	hub := NewRealtimeHub()
	conn := dialHubClient(t, hub, 1)

	var cl *WSClient
	hub.mu.RLock()
	for c := range hub.clients[1] {
		cl = c
	}
	hub.mu.RUnlock()
	if cl == nil {
		t.Fatal("no registered client")
	}

	const writers, perWriter = 4, 25
	var wg sync.WaitGroup
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWriter; i++ {
				hub.Broadcast(1, map[string]any{"kind": "glucose.synced"})
				_ = cl.Ping()
			}
		}()
	}
	wg.Wait()

	for i := 0; i < writers*perWriter; i++ {
		_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		_, msg, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("read %d failed: %v", i, err)
		}
		if !strings.Contains(string(msg), "glucose.synced") {
			t.Fatalf("message %d corrupted: %q", i, msg)
		}
	}
}
