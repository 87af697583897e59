package helper

import (
	"encoding/json"
	"log"
	"math/rand"

	"swipemovie/pkg/types/commontype"

	"github.com/samber/lo"
)

func ToJSON(data interface{}) json.RawMessage {
	bytes, err := json.Marshal(data)
	if err != nil {
		log.Printf("Failed to marshal data: %v", err)
		return nil
	}
	return json.RawMessage(bytes)
}

// roomCodeCharset drops 0/O/1/I so codes survive being read aloud.
const roomCodeCharset = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

func GenerateRoomCode() string {
	code := make([]byte, commontype.RoomCodeLength)
	for i := range code {
		code[i] = roomCodeCharset[rand.Intn(len(roomCodeCharset))]
	}
	return string(code)
}

func SwipedMovieIDs(swipes []commontype.SwipeRecord) map[string]struct{} {
	ids := lo.Map(swipes, func(swipe commontype.SwipeRecord, _ int) string {
		return swipe.MovieID
	})
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

func CopyIDSet(set map[string]struct{}) map[string]struct{} {
	copied := make(map[string]struct{}, len(set))
	for id := range set {
		copied[id] = struct{}{}
	}
	return copied
}
