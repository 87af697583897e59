package realtime

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"runtime"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"swipemovie/pkg/helper"
	eventtypes "swipemovie/pkg/types/eventtype"
	"swipemovie/pkg/types/sock"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastBackoff() BackoffPolicy {
	return BackoffPolicy{
		Base:        time.Millisecond,
		Max:         5 * time.Millisecond,
		Jitter:      time.Millisecond,
		MaxAttempts: 5,
	}
}

func newSocketServer(t *testing.T, onConn func(conn *websocket.Conn)) (string, *httptest.Server) {
	t.Helper()
	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool { return true },
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("failed to upgrade connection: %v", err)
			return
		}
		onConn(conn)
	}))
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	return wsURL, srv
}

func waitMsg(t *testing.T, msgs <-chan sock.WebSocketMessage) sock.WebSocketMessage {
	t.Helper()
	select {
	case msg := <-msgs:
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for websocket message")
		return sock.WebSocketMessage{}
	}
}

func pushMatch(t *testing.T, conn *websocket.Conn, event eventtypes.MatchCreatedEvent) {
	t.Helper()
	msg := sock.WebSocketMessage{
		Kind: sock.MessageKindMatchCreated,
		Payload: helper.ToJSON(sock.MatchCreatedPayload{
			RoomID: event.RoomID,
			Match:  event,
		}),
	}
	if err := conn.WriteJSON(msg); err != nil {
		t.Errorf("failed to push match: %v", err)
	}
}

func TestSubscriptionJoinsOnceAndDeliversEvents(t *testing.T) {
	msgs := make(chan sock.WebSocketMessage, 16)
	conns := make(chan *websocket.Conn, 4)
	wsURL, srv := newSocketServer(t, func(conn *websocket.Conn) {
		conns <- conn
		for {
			var msg sock.WebSocketMessage
			if err := conn.ReadJSON(&msg); err != nil {
				return
			}
			msgs <- msg
		}
	})
	defer srv.Close()

	sub := NewSubscription(Config{URL: wsURL, UserID: "user-1", Backoff: fastBackoff()})
	defer sub.Close()
	sub.SetRoom("room-1")

	join := waitMsg(t, msgs)
	assert.Equal(t, sock.MessageKindJoinRoom, join.Kind)
	var joinPayload sock.RoomPayload
	require.NoError(t, json.Unmarshal(join.Payload, &joinPayload))
	assert.Equal(t, "room-1", joinPayload.RoomID)

	require.Eventually(t, func() bool { return sub.State() == StateConnected },
		time.Second, 5*time.Millisecond)
	assert.Equal(t, 0, sub.Attempts())

	conn := <-conns
	pushMatch(t, conn, eventtypes.MatchCreatedEvent{
		MatchID: "m1", RoomID: "room-1", MovieID: "123", VoteCount: 2,
	})

	require.Eventually(t, func() bool { return sub.PendingEvent() != nil },
		time.Second, 5*time.Millisecond)
	event := sub.PendingEvent()
	assert.Equal(t, "m1", event.MatchID)
	assert.Equal(t, "123", event.MovieID)

	sub.ClearEvent()
	assert.Nil(t, sub.PendingEvent())

	sub.SetRoom("")
	leave := waitMsg(t, msgs)
	assert.Equal(t, sock.MessageKindLeaveRoom, leave.Kind)
	var leavePayload sock.RoomPayload
	require.NoError(t, json.Unmarshal(leave.Payload, &leavePayload))
	assert.Equal(t, "room-1", leavePayload.RoomID)
	assert.Equal(t, StateDisconnected, sub.State())
}

func TestSubscriptionMailboxKeepsLatestEvent(t *testing.T) {
	conns := make(chan *websocket.Conn, 4)
	wsURL, srv := newSocketServer(t, func(conn *websocket.Conn) {
		conns <- conn
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	})
	defer srv.Close()

	sub := NewSubscription(Config{URL: wsURL, UserID: "user-1", Backoff: fastBackoff()})
	defer sub.Close()
	sub.SetRoom("room-1")

	conn := <-conns
	pushMatch(t, conn, eventtypes.MatchCreatedEvent{MatchID: "m1", RoomID: "room-1"})
	pushMatch(t, conn, eventtypes.MatchCreatedEvent{MatchID: "m2", RoomID: "room-1"})

	// An unread event is overwritten, not queued.
	require.Eventually(t, func() bool {
		event := sub.PendingEvent()
		return event != nil && event.MatchID == "m2"
	}, time.Second, 5*time.Millisecond)
}

func TestSubscriptionReconnectsAndRejoins(t *testing.T) {
	var joins int32
	wsURL, srv := newSocketServer(t, func(conn *websocket.Conn) {
		var msg sock.WebSocketMessage
		if err := conn.ReadJSON(&msg); err != nil {
			return
		}
		if msg.Kind != sock.MessageKindJoinRoom {
			return
		}
		if atomic.AddInt32(&joins, 1) == 1 {
			// Abrupt close, no close frame: a recoverable drop.
			conn.Close()
			return
		}
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	})
	defer srv.Close()

	sub := NewSubscription(Config{URL: wsURL, UserID: "user-1", Backoff: fastBackoff()})
	defer sub.Close()
	sub.SetRoom("room-1")

	require.Eventually(t, func() bool {
		return atomic.LoadInt32(&joins) == 2 && sub.State() == StateConnected
	}, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, 0, sub.Attempts())
}

func TestSubscriptionCleanCloseStaysDown(t *testing.T) {
	var joins int32
	wsURL, srv := newSocketServer(t, func(conn *websocket.Conn) {
		var msg sock.WebSocketMessage
		if err := conn.ReadJSON(&msg); err != nil {
			return
		}
		atomic.AddInt32(&joins, 1)
		conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, "done"))
		conn.Close()
	})
	defer srv.Close()

	sub := NewSubscription(Config{URL: wsURL, UserID: "user-1", Backoff: fastBackoff()})
	defer sub.Close()
	sub.SetRoom("room-1")

	require.Eventually(t, func() bool { return sub.State() == StateDisconnected },
		2*time.Second, 5*time.Millisecond)

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(1), atomic.LoadInt32(&joins), "clean close must not trigger a reconnect")
	assert.Equal(t, StateDisconnected, sub.State())
}

func TestSubscriptionStopsAtAttemptCeiling(t *testing.T) {
	var accept int32
	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool { return true },
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.LoadInt32(&accept) == 0 {
			http.Error(w, "unavailable", http.StatusServiceUnavailable)
			return
		}
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("failed to upgrade connection: %v", err)
			return
		}
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer srv.Close()
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")

	policy := fastBackoff()
	policy.MaxAttempts = 3
	sub := NewSubscription(Config{URL: wsURL, UserID: "user-1", Backoff: policy})
	defer sub.Close()
	sub.SetRoom("room-1")

	require.Eventually(t, func() bool { return sub.State() == StateError },
		2*time.Second, 5*time.Millisecond)
	assert.Equal(t, 3, sub.Attempts())

	// Terminal: the counter stays put and no dial succeeds later on its own.
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, StateError, sub.State())
	assert.Equal(t, 3, sub.Attempts())

	// Supplying the room again, even the same one, restarts the lifecycle.
	atomic.StoreInt32(&accept, 1)
	sub.SetRoom("room-1")
	require.Eventually(t, func() bool { return sub.State() == StateConnected },
		2*time.Second, 5*time.Millisecond)
	assert.Equal(t, 0, sub.Attempts())
}

func TestSubscriptionIgnoresEventsAfterTeardown(t *testing.T) {
	conns := make(chan *websocket.Conn, 4)
	wsURL, srv := newSocketServer(t, func(conn *websocket.Conn) {
		conns <- conn
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	})
	defer srv.Close()

	sub := NewSubscription(Config{URL: wsURL, UserID: "user-1", Backoff: fastBackoff()})
	defer sub.Close()
	sub.SetRoom("room-1")

	require.Eventually(t, func() bool { return sub.State() == StateConnected },
		time.Second, 5*time.Millisecond)
	conn := <-conns

	sub.SetRoom("")
	assert.Equal(t, StateDisconnected, sub.State())

	// A final event racing the teardown on the old connection must not
	// surface through the torn-down subscription.
	msg := sock.WebSocketMessage{
		Kind: sock.MessageKindMatchCreated,
		Payload: helper.ToJSON(sock.MatchCreatedPayload{
			RoomID: "room-1",
			Match:  eventtypes.MatchCreatedEvent{MatchID: "late", RoomID: "room-1"},
		}),
	}
	_ = conn.WriteJSON(msg)

	time.Sleep(50 * time.Millisecond)
	assert.Nil(t, sub.PendingEvent())
	assert.Equal(t, StateDisconnected, sub.State())
}

func TestSubscriptionTeardownWakesBackoffSleep(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
	}))
	defer srv.Close()
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")

	sub := NewSubscription(Config{URL: wsURL, UserID: "user-1", Backoff: BackoffPolicy{
		Base:        10 * time.Second,
		Max:         10 * time.Second,
		MaxAttempts: 5,
	}})

	before := runtime.NumGoroutine()
	sub.SetRoom("room-1")
	require.Eventually(t, func() bool { return sub.State() == StateReconnecting },
		2*time.Second, 5*time.Millisecond)

	// Close lands mid-delay; the redial goroutine must exit right away
	// instead of sleeping out the remaining backoff window.
	sub.Close()
	require.Eventually(t, func() bool { return runtime.NumGoroutine() <= before },
		2*time.Second, 10*time.Millisecond)
	assert.Equal(t, StateDisconnected, sub.State())
}

func TestSubscriptionRoomChangeLeavesThenJoins(t *testing.T) {
	msgs := make(chan sock.WebSocketMessage, 16)
	wsURL, srv := newSocketServer(t, func(conn *websocket.Conn) {
		for {
			var msg sock.WebSocketMessage
			if err := conn.ReadJSON(&msg); err != nil {
				return
			}
			msgs <- msg
		}
	})
	defer srv.Close()

	sub := NewSubscription(Config{URL: wsURL, UserID: "user-1", Backoff: fastBackoff()})
	defer sub.Close()

	sub.SetRoom("room-1")
	require.Eventually(t, func() bool { return sub.State() == StateConnected },
		time.Second, 5*time.Millisecond)

	sub.SetRoom("room-2")
	require.Eventually(t, func() bool {
		return sub.State() == StateConnected && sub.Room() == "room-2"
	}, time.Second, 5*time.Millisecond)

	joins := map[string]int{}
	leaves := map[string]int{}
	for i := 0; i < 3; i++ {
		msg := waitMsg(t, msgs)
		var payload sock.RoomPayload
		require.NoError(t, json.Unmarshal(msg.Payload, &payload))
		switch msg.Kind {
		case sock.MessageKindJoinRoom:
			joins[payload.RoomID]++
		case sock.MessageKindLeaveRoom:
			leaves[payload.RoomID]++
		}
	}
	assert.Equal(t, map[string]int{"room-1": 1, "room-2": 1}, joins)
	assert.Equal(t, map[string]int{"room-1": 1}, leaves)
}
