package commontype

import (
	"time"
)

const RoomServiceBaseURL = "http://room-service"

const (
	RoomStatusOpen = iota
	RoomStatusClosed
)

const (
	RoomCodeLength = 6

	// A match needs at least two members agreeing; a room of one
	// would match on every like.
	RoomMemberMin = 2
)

type Room struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	Code        string    `gorm:"uniqueIndex;size:8" json:"code"`
	Name        string    `gorm:"size:100" json:"name"`
	OwnerID     string    `gorm:"size:36;index" json:"owner_id"`
	Status      int       `json:"status"`
	MemberCount int       `gorm:"-" json:"member_count"`
	CreatedAt   time.Time `json:"created_at"`
}

type RoomMember struct {
	RoomID   string    `gorm:"primaryKey;size:36" json:"room_id"`
	UserID   string    `gorm:"primaryKey;size:36" json:"user_id"`
	JoinedAt time.Time `json:"joined_at"`
}

type SwipeRecord struct {
	RoomID    string    `bson:"room_id" json:"room_id"`
	UserID    string    `bson:"user_id" json:"user_id"`
	MovieID   string    `bson:"movie_id" json:"movie_id"`
	Value     bool      `bson:"value" json:"value"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

type MovieSummary struct {
	ID        string   `bson:"id" json:"id"`
	RoomID    string   `bson:"room_id,omitempty" json:"room_id,omitempty"`
	Title     string   `bson:"title" json:"title"`
	PosterURL string   `bson:"poster_url" json:"poster_url"`
	Genres    []string `bson:"genres,omitempty" json:"genres,omitempty"`
	Year      int      `bson:"year" json:"year"`
	Rating    float64  `bson:"rating" json:"rating"`
}

type Match struct {
	ID        string    `bson:"id" json:"id"`
	RoomID    string    `bson:"room_id" json:"room_id"`
	MovieID   string    `bson:"movie_id" json:"movie_id"`
	VoteCount int       `bson:"vote_count" json:"vote_count"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
