package realtime

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"swipemovie/pkg/helper"
	eventtypes "swipemovie/pkg/types/eventtype"
	"swipemovie/pkg/types/sock"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// Config carries the connection settings for a Subscription.
type Config struct {
	// URL is the websocket endpoint of the room push channel,
	// e.g. ws://gateway/ws/room.
	URL    string
	UserID string

	HandshakeTimeout time.Duration
	Backoff          BackoffPolicy

	Log zerolog.Logger
}

// Subscription owns at most one live connection to the room push
// channel. Create one per consumer; room membership changes go through
// SetRoom rather than through a shared process-wide socket, so events
// from an abandoned room can never leak into the next one.
//
// Incoming match events land in a capacity-1 mailbox: an unread event is
// overwritten by the next one. Consumers read with PendingEvent and
// acknowledge with ClearEvent; the match list refetch downstream covers
// anything lost to overwrite.
type Subscription struct {
	cfg Config

	mu       sync.Mutex
	roomID   string
	state    State
	attempts int
	joined   bool // join sent on the current physical connection
	conn     *websocket.Conn
	pending  *eventtypes.MatchCreatedEvent
	gen      int           // bumped on every teardown; stale goroutines check it
	cancel   chan struct{} // closed on teardown; wakes a sleeping redial

	// writeMu serializes writes; the join and leave messages can come
	// from different goroutines.
	writeMu sync.Mutex

	wake chan struct{}
	log  zerolog.Logger
}

func NewSubscription(cfg Config) *Subscription {
	if cfg.HandshakeTimeout == 0 {
		cfg.HandshakeTimeout = 10 * time.Second
	}
	if cfg.Backoff.MaxAttempts == 0 {
		cfg.Backoff = DefaultBackoff()
	}
	return &Subscription{
		cfg:   cfg,
		state: StateDisconnected,
		wake:  make(chan struct{}, 1),
		log:   cfg.Log,
	}
}

// SetRoom switches the subscription to roomID. An empty roomID tears the
// connection down and leaves the subscription idle. Supplying a room while
// in the error state restarts the lifecycle even if the room is unchanged.
func (s *Subscription) SetRoom(roomID string) {
	s.mu.Lock()
	if roomID == s.roomID && s.state != StateError {
		s.mu.Unlock()
		return
	}
	s.teardownLocked()
	s.roomID = roomID
	if roomID == "" {
		s.mu.Unlock()
		return
	}
	s.state = StateConnecting
	s.cancel = make(chan struct{})
	gen := s.gen
	cancel := s.cancel
	s.mu.Unlock()

	go s.run(roomID, gen, cancel)
}

// Close tears down the subscription. It is safe to call more than once.
func (s *Subscription) Close() {
	s.mu.Lock()
	s.teardownLocked()
	s.roomID = ""
	s.mu.Unlock()
}

func (s *Subscription) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Subscription) Attempts() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.attempts
}

func (s *Subscription) Room() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.roomID
}

// PendingEvent returns the latest undelivered match event, or nil.
func (s *Subscription) PendingEvent() *eventtypes.MatchCreatedEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending == nil {
		return nil
	}
	event := *s.pending
	return &event
}

// ClearEvent acknowledges the pending event so it is not redelivered.
func (s *Subscription) ClearEvent() {
	s.mu.Lock()
	s.pending = nil
	s.mu.Unlock()
}

// Notify signals whenever a new event lands in the mailbox.
func (s *Subscription) Notify() <-chan struct{} {
	return s.wake
}

// teardownLocked invalidates running goroutines, leaves an established
// join and closes the transport. Caller holds s.mu.
func (s *Subscription) teardownLocked() {
	s.gen++
	if s.cancel != nil {
		close(s.cancel)
		s.cancel = nil
	}
	if s.conn != nil {
		if s.joined {
			s.writeControl(s.conn, sock.MessageKindLeaveRoom, s.roomID)
		}
		s.conn.Close()
		s.conn = nil
	}
	s.joined = false
	s.attempts = 0
	s.pending = nil
	s.state = StateDisconnected
}

func (s *Subscription) staleLocked(gen int) bool {
	return s.gen != gen
}

// run owns the connection lifecycle for one generation: dial, join,
// read, and redial under the backoff policy until torn down or the
// attempt ceiling is hit.
func (s *Subscription) run(roomID string, gen int, cancel <-chan struct{}) {
	for {
		conn, err := s.dial()

		s.mu.Lock()
		if s.staleLocked(gen) {
			s.mu.Unlock()
			if conn != nil {
				conn.Close()
			}
			return
		}
		if err != nil {
			s.attempts++
			attempt := s.attempts
			if attempt >= s.cfg.Backoff.MaxAttempts {
				s.state = StateError
				s.mu.Unlock()
				s.log.Error().Msgf("Giving up on room %s after %d attempts: %v", roomID, attempt, err)
				return
			}
			s.state = StateReconnecting
			s.mu.Unlock()

			delay := s.cfg.Backoff.Delay(attempt)
			s.log.Warn().Msgf("Connect attempt %d for room %s failed, retrying in %v: %v", attempt, roomID, delay, err)
			timer := time.NewTimer(delay)
			select {
			case <-timer.C:
			case <-cancel:
				timer.Stop()
				return
			}

			s.mu.Lock()
			if s.staleLocked(gen) {
				s.mu.Unlock()
				return
			}
			s.mu.Unlock()
			continue
		}

		s.conn = conn
		s.state = StateConnected
		s.attempts = 0
		s.joined = false
		s.mu.Unlock()

		// Join state does not survive a drop, so every physical
		// connection sends its own join.
		if err := s.sendJoin(conn, roomID, gen); err != nil {
			s.log.Warn().Msgf("Failed to join room %s: %v", roomID, err)
			conn.Close()
		}

		readErr := s.readLoop(conn, gen)

		s.mu.Lock()
		if s.staleLocked(gen) {
			s.mu.Unlock()
			return
		}
		s.conn = nil
		s.joined = false
		if isCleanClose(readErr) {
			s.log.Info().Msgf("Connection for room %s closed cleanly", roomID)
			s.state = StateDisconnected
			s.mu.Unlock()
			return
		}
		s.state = StateReconnecting
		s.mu.Unlock()
		s.log.Warn().Msgf("Connection for room %s dropped: %v", roomID, readErr)
	}
}

func (s *Subscription) dial() (*websocket.Conn, error) {
	dialer := websocket.Dialer{
		HandshakeTimeout: s.cfg.HandshakeTimeout,
	}
	header := http.Header{}
	header.Set("X-User-ID", s.cfg.UserID)

	conn, _, err := dialer.Dial(s.cfg.URL, header)
	return conn, err
}

func (s *Subscription) sendJoin(conn *websocket.Conn, roomID string, gen int) error {
	s.mu.Lock()
	if s.staleLocked(gen) || s.joined {
		s.mu.Unlock()
		return nil
	}
	s.joined = true
	s.mu.Unlock()

	return s.writeControl(conn, sock.MessageKindJoinRoom, roomID)
}

func (s *Subscription) writeControl(conn *websocket.Conn, kind, roomID string) error {
	msg := sock.WebSocketMessage{
		Kind:    kind,
		Payload: helper.ToJSON(sock.RoomPayload{RoomID: roomID}),
	}
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return conn.WriteJSON(msg)
}

// readLoop delivers match_created pushes into the mailbox until the
// connection dies. The returned error is the read error that ended it.
func (s *Subscription) readLoop(conn *websocket.Conn, gen int) error {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return err
		}

		var msg sock.WebSocketMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			s.log.Warn().Msgf("Dropping malformed push message: %v", err)
			continue
		}
		if msg.Kind != sock.MessageKindMatchCreated {
			continue
		}

		var payload sock.MatchCreatedPayload
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			s.log.Warn().Msgf("Dropping malformed match payload: %v", err)
			continue
		}

		event := payload.Match
		s.mu.Lock()
		if s.staleLocked(gen) {
			s.mu.Unlock()
			return nil
		}
		s.pending = &event
		s.mu.Unlock()

		select {
		case s.wake <- struct{}{}:
		default:
		}
	}
}

func isCleanClose(err error) bool {
	return websocket.IsCloseError(err,
		websocket.CloseNormalClosure,
		websocket.CloseGoingAway,
	)
}
