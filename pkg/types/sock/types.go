package sock

import (
	"encoding/json"

	"swipemovie/pkg/types/commontype"
	eventtypes "swipemovie/pkg/types/eventtype"
)

const (
	MessageKindJoinRoom     = "join_room"
	MessageKindLeaveRoom    = "leave_room"
	MessageKindMatchCreated = "match_created"
)

type WebSocketMessage struct {
	Kind    string          `json:"kind"`
	Payload json.RawMessage `json:"payload"`
}

// RoomPayload is the payload of join_room and leave_room messages.
type RoomPayload struct {
	RoomID string `json:"room_id"`
}

// MatchCreatedPayload is the payload of match_created push messages.
type MatchCreatedPayload struct {
	RoomID string                       `json:"room_id"`
	Match  eventtypes.MatchCreatedEvent `json:"match"`
	Movie  *commontype.MovieSummary     `json:"movie,omitempty"`
}
