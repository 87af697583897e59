package service

import (
	"sync"

	"swipemovie/pkg/helper"
	eventtypes "swipemovie/pkg/types/eventtype"
	"swipemovie/pkg/types/sock"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// PushService tracks which connection belongs to which user in which
// room and fans match events out to every member of the affected room.
type PushService struct {
	log zerolog.Logger

	mu    sync.Mutex
	rooms map[string]map[string]*websocket.Conn // roomID -> userID -> conn
}

func NewPushService(log zerolog.Logger) *PushService {
	return &PushService{
		log:   log,
		rooms: make(map[string]map[string]*websocket.Conn),
	}
}

func (s *PushService) JoinRoom(roomID, userID string, conn *websocket.Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()

	members, ok := s.rooms[roomID]
	if !ok {
		members = make(map[string]*websocket.Conn)
		s.rooms[roomID] = members
	}
	members[userID] = conn

	s.log.Info().Msgf("User %s joined push channel of room %s", userID, roomID)
}

func (s *PushService) LeaveRoom(roomID, userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removeLocked(roomID, userID)
	s.log.Info().Msgf("User %s left push channel of room %s", userID, roomID)
}

// DisconnectUser drops the user from every room, used when the
// transport dies without a leave message.
func (s *PushService) DisconnectUser(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for roomID := range s.rooms {
		s.removeLocked(roomID, userID)
	}
}

func (s *PushService) removeLocked(roomID, userID string) {
	members, ok := s.rooms[roomID]
	if !ok {
		return
	}
	delete(members, userID)
	if len(members) == 0 {
		delete(s.rooms, roomID)
	}
}

// PushMatchCreated delivers a match to every member of its room. A
// failed write drops that one connection; the rest still get the push.
func (s *PushService) PushMatchCreated(push eventtypes.MatchPush) {
	payload := sock.MatchCreatedPayload{
		RoomID: push.Match.RoomID,
		Match:  push.Match,
		Movie:  push.Movie,
	}
	msg := sock.WebSocketMessage{
		Kind:    sock.MessageKindMatchCreated,
		Payload: helper.ToJSON(payload),
	}

	s.mu.Lock()
	members := s.rooms[push.Match.RoomID]
	conns := make(map[string]*websocket.Conn, len(members))
	for userID, conn := range members {
		conns[userID] = conn
	}
	s.mu.Unlock()

	for userID, conn := range conns {
		if err := conn.WriteJSON(msg); err != nil {
			s.log.Warn().Msgf("Failed to push match %s to user %s: %v", push.Match.MatchID, userID, err)
			s.mu.Lock()
			s.removeLocked(push.Match.RoomID, userID)
			s.mu.Unlock()
			continue
		}
		s.log.Info().Msgf("Pushed match %s to user %s in room %s", push.Match.MatchID, userID, push.Match.RoomID)
	}
}
