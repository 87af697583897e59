package repository

import (
	"errors"
	"time"

	"swipemovie/pkg/types/commontype"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

var ErrRoomNotFound = errors.New("room not found")

type RoomRepository struct {
	db *gorm.DB
}

func NewRoomRepository(db *gorm.DB) *RoomRepository {
	return &RoomRepository{db: db}
}

func (r *RoomRepository) InitDB() error {
	err := r.db.AutoMigrate(&commontype.Room{}, &commontype.RoomMember{})
	if err != nil {
		log.Error().Msgf("Failed to migrate room tables: %v", err)
		return err
	}
	return nil
}

func (r *RoomRepository) InsertRoom(room *commontype.Room) error {
	if err := r.db.Create(room).Error; err != nil {
		log.Error().Msgf("Failed to insert room %s: %v", room.ID, err)
		return err
	}
	return nil
}

func (r *RoomRepository) GetRoomByID(id string) (*commontype.Room, error) {
	var room commontype.Room
	err := r.db.Where("id = ?", id).First(&room).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoomNotFound
		}
		log.Error().Msgf("Failed to get room by ID %s: %v", id, err)
		return nil, err
	}
	return r.withMemberCount(&room)
}

func (r *RoomRepository) GetRoomByCode(code string) (*commontype.Room, error) {
	var room commontype.Room
	err := r.db.Where("code = ?", code).First(&room).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoomNotFound
		}
		log.Error().Msgf("Failed to get room by code %s: %v", code, err)
		return nil, err
	}
	return r.withMemberCount(&room)
}

func (r *RoomRepository) withMemberCount(room *commontype.Room) (*commontype.Room, error) {
	count, err := r.MemberCount(room.ID)
	if err != nil {
		return nil, err
	}
	room.MemberCount = count
	return room, nil
}

func (r *RoomRepository) AddMember(roomID, userID string) error {
	member := commontype.RoomMember{
		RoomID:   roomID,
		UserID:   userID,
		JoinedAt: time.Now(),
	}
	// Re-joining the same room is a no-op, not an error.
	err := r.db.Where("room_id = ? AND user_id = ?", roomID, userID).
		FirstOrCreate(&member).Error
	if err != nil {
		log.Error().Msgf("Failed to add member %s to room %s: %v", userID, roomID, err)
		return err
	}
	return nil
}

func (r *RoomRepository) IsMember(roomID, userID string) (bool, error) {
	var count int64
	err := r.db.Model(&commontype.RoomMember{}).
		Where("room_id = ? AND user_id = ?", roomID, userID).
		Count(&count).Error
	if err != nil {
		log.Error().Msgf("Failed to check membership of %s in room %s: %v", userID, roomID, err)
		return false, err
	}
	return count > 0, nil
}

func (r *RoomRepository) MemberCount(roomID string) (int, error) {
	var count int64
	err := r.db.Model(&commontype.RoomMember{}).
		Where("room_id = ?", roomID).
		Count(&count).Error
	if err != nil {
		log.Error().Msgf("Failed to count members of room %s: %v", roomID, err)
		return 0, err
	}
	return int(count), nil
}
