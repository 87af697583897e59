package eventtypes

import (
	"encoding/json"
	"time"

	"swipemovie/pkg/types/commontype"
)

type EventPayload struct {
	EventType string          `json:"event_type"`
	Data      json.RawMessage `json:"data"`
}

// Event Types
const (
	EventTypeMatchCreated = "match.created"
	EventTypeRoomJoin     = "room.join"
	EventTypeRoomLeave    = "room.leave"
)

// MatchCreatedEvent is unique per match; an empty MovieID means the
// match carries no movie reference.
type MatchCreatedEvent struct {
	MatchID   string    `bson:"match_id" json:"match_id"`
	RoomID    string    `bson:"room_id" json:"room_id"`
	MovieID   string    `bson:"movie_id,omitempty" json:"movie_id,omitempty"`
	VoteCount int       `bson:"vote_count" json:"vote_count"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// MatchPush is the broker payload for a created match. Movie is a
// best-effort enrichment and may be nil.
type MatchPush struct {
	Match MatchCreatedEvent        `json:"match"`
	Movie *commontype.MovieSummary `json:"movie,omitempty"`
}

type RoomJoinEvent struct {
	RoomID string    `json:"room_id"`
	UserID string    `json:"user_id"`
	JoinAt time.Time `json:"join_at"`
}

type RoomLeaveEvent struct {
	RoomID string `json:"room_id"`
	UserID string `json:"user_id"`
}
