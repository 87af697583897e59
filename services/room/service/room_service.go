package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"swipemovie/pkg/helper"
	"swipemovie/pkg/types/commontype"
	eventtypes "swipemovie/pkg/types/eventtype"
	"swipemovie/services/room/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var ErrNotAMember = errors.New("user is not a member of the room")

type MQEmitter interface {
	PublishMatchCreated(push eventtypes.MatchPush) error
}

// RoomStore is the relational slice of the repository layer.
type RoomStore interface {
	InsertRoom(room *commontype.Room) error
	GetRoomByID(id string) (*commontype.Room, error)
	GetRoomByCode(code string) (*commontype.Room, error)
	AddMember(roomID, userID string) error
	IsMember(roomID, userID string) (bool, error)
	MemberCount(roomID string) (int, error)
}

// DeckStore is the document slice: swipes, matches and the movie deck.
type DeckStore interface {
	UpsertSwipe(ctx context.Context, swipe commontype.SwipeRecord) error
	FindUserSwipes(ctx context.Context, roomID, userID string) ([]commontype.SwipeRecord, error)
	InsertMatch(ctx context.Context, match commontype.Match) error
	FindMatchesByRoom(ctx context.Context, roomID string) ([]commontype.Match, error)
	InsertMovie(ctx context.Context, movie commontype.MovieSummary) error
	FindMovieByID(ctx context.Context, movieID string) (*commontype.MovieSummary, error)
}

// LikeCache is the redis slice: like sets and the room-by-code cache.
type LikeCache interface {
	CacheRoomByCode(code string, roomJSON []byte) error
	GetCachedRoomByCode(code string) (string, error)
	InvalidateRoomCode(code string) error
	AddMovieLike(roomID, movieID, userID string) (int, error)
	RemoveMovieLike(roomID, movieID, userID string) error
	ClearMovieLikes(roomID, movieID string) error
}

type RoomService struct {
	rooms   RoomStore
	deck    DeckStore
	likes   LikeCache
	emitter MQEmitter
	log     zerolog.Logger
}

func NewRoomService(rooms RoomStore, deck DeckStore, likes LikeCache, emitter MQEmitter, log zerolog.Logger) *RoomService {
	return &RoomService{
		rooms:   rooms,
		deck:    deck,
		likes:   likes,
		emitter: emitter,
		log:     log,
	}
}

func (s *RoomService) CreateRoom(name, ownerID string) (*commontype.Room, error) {
	room := &commontype.Room{
		ID:        uuid.NewString(),
		Name:      name,
		OwnerID:   ownerID,
		Status:    commontype.RoomStatusOpen,
		CreatedAt: time.Now(),
	}

	// Codes are random; retry the insert on the rare collision.
	var err error
	for i := 0; i < 3; i++ {
		room.Code = helper.GenerateRoomCode()
		if err = s.rooms.InsertRoom(room); err == nil {
			break
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create room: %v", err)
	}

	if err := s.rooms.AddMember(room.ID, ownerID); err != nil {
		return nil, err
	}
	room.MemberCount = 1
	return room, nil
}

// RoomByCode resolves a code, serving repeated lookups out of redis.
func (s *RoomService) RoomByCode(code string) (*commontype.Room, error) {
	if cached, err := s.likes.GetCachedRoomByCode(code); err == nil {
		var room commontype.Room
		if err := json.Unmarshal([]byte(cached), &room); err == nil {
			return &room, nil
		}
	}

	room, err := s.rooms.GetRoomByCode(code)
	if err != nil {
		return nil, err
	}

	if encoded, err := json.Marshal(room); err == nil {
		if err := s.likes.CacheRoomByCode(code, encoded); err != nil {
			s.log.Warn().Msgf("Failed to cache room code %s: %v", code, err)
		}
	}
	return room, nil
}

func (s *RoomService) JoinRoom(code, userID string) (*commontype.Room, error) {
	room, err := s.rooms.GetRoomByCode(code)
	if err != nil {
		return nil, err
	}

	if err := s.rooms.AddMember(room.ID, userID); err != nil {
		return nil, err
	}

	// The cached copy carries a stale member count now.
	if err := s.likes.InvalidateRoomCode(code); err != nil {
		s.log.Warn().Msgf("Failed to invalidate room code cache for %s: %v", code, err)
	}

	return s.rooms.GetRoomByID(room.ID)
}

// RecordSwipe stores a vote and runs match detection. It returns the
// created match when this swipe completed one, nil otherwise.
func (s *RoomService) RecordSwipe(ctx context.Context, roomID, userID, movieID string, value bool) (*commontype.Match, error) {
	isMember, err := s.rooms.IsMember(roomID, userID)
	if err != nil {
		return nil, err
	}
	if !isMember {
		return nil, ErrNotAMember
	}

	swipe := commontype.SwipeRecord{
		RoomID:    roomID,
		UserID:    userID,
		MovieID:   movieID,
		Value:     value,
		CreatedAt: time.Now(),
	}
	if err := s.deck.UpsertSwipe(ctx, swipe); err != nil {
		return nil, err
	}

	if !value {
		// A changed mind withdraws the earlier like, if any.
		if err := s.likes.RemoveMovieLike(roomID, movieID, userID); err != nil {
			s.log.Warn().Msgf("Failed to withdraw like for movie %s in room %s: %v", movieID, roomID, err)
		}
		return nil, nil
	}

	likeCount, err := s.likes.AddMovieLike(roomID, movieID, userID)
	if err != nil {
		return nil, err
	}

	members, err := s.rooms.MemberCount(roomID)
	if err != nil {
		return nil, err
	}
	if members < commontype.RoomMemberMin || likeCount < members {
		return nil, nil
	}

	return s.createMatch(ctx, roomID, movieID, likeCount)
}

func (s *RoomService) createMatch(ctx context.Context, roomID, movieID string, votes int) (*commontype.Match, error) {
	match := commontype.Match{
		ID:        uuid.NewString(),
		RoomID:    roomID,
		MovieID:   movieID,
		VoteCount: votes,
		CreatedAt: time.Now(),
	}
	if err := s.deck.InsertMatch(ctx, match); err != nil {
		if errors.Is(err, repository.ErrMatchExists) {
			// Two final likes raced past the vote count check; the
			// other member's insert claimed this match.
			s.log.Info().Msgf("Match for movie %s in room %s already claimed", movieID, roomID)
			return nil, nil
		}
		return nil, err
	}

	if err := s.likes.ClearMovieLikes(roomID, movieID); err != nil {
		s.log.Warn().Msgf("Failed to clear like set for movie %s in room %s: %v", movieID, roomID, err)
	}

	push := eventtypes.MatchPush{
		Match: eventtypes.MatchCreatedEvent{
			MatchID:   match.ID,
			RoomID:    match.RoomID,
			MovieID:   match.MovieID,
			VoteCount: match.VoteCount,
			CreatedAt: match.CreatedAt,
		},
	}
	// Movie enrichment is best effort; the push goes out either way.
	if movie, err := s.deck.FindMovieByID(ctx, movieID); err == nil {
		push.Movie = movie
	}

	if err := s.emitter.PublishMatchCreated(push); err != nil {
		s.log.Error().Msgf("Failed to publish match %s: %v", match.ID, err)
	} else {
		s.log.Info().Msgf("Match %s created in room %s for movie %s", match.ID, roomID, movieID)
	}

	return &match, nil
}

func (s *RoomService) UserSwipes(ctx context.Context, roomID, userID string) ([]commontype.SwipeRecord, error) {
	return s.deck.FindUserSwipes(ctx, roomID, userID)
}

func (s *RoomService) Matches(ctx context.Context, roomID string) ([]commontype.Match, error) {
	return s.deck.FindMatchesByRoom(ctx, roomID)
}

func (s *RoomService) AddMovie(ctx context.Context, roomID string, movie commontype.MovieSummary) (*commontype.MovieSummary, error) {
	if movie.ID == "" {
		movie.ID = uuid.NewString()
	}
	movie.RoomID = roomID
	if err := s.deck.InsertMovie(ctx, movie); err != nil {
		return nil, err
	}
	return &movie, nil
}

func (s *RoomService) Movie(ctx context.Context, movieID string) (*commontype.MovieSummary, error) {
	return s.deck.FindMovieByID(ctx, movieID)
}
