package redis

import (
	"fmt"
	"time"
)

// Room code lookups are read-heavy and nearly immutable, so room-by-code
// responses are cached as raw JSON.

const roomCodeCacheTTL = 5 * time.Minute

func roomCodeKey(code string) string {
	return fmt.Sprintf("room_code:%s", code)
}

func movieLikesKey(roomID, movieID string) string {
	return fmt.Sprintf("room:%s:likes:%s", roomID, movieID)
}

func (r *RedisClient) CacheRoomByCode(code string, roomJSON []byte) error {
	return r.Set(roomCodeKey(code), roomJSON, roomCodeCacheTTL)
}

func (r *RedisClient) GetCachedRoomByCode(code string) (string, error) {
	return r.Get(roomCodeKey(code))
}

func (r *RedisClient) InvalidateRoomCode(code string) error {
	return r.Delete(roomCodeKey(code))
}

// AddMovieLike records a like vote and returns the number of distinct
// likers for the movie in the room.
func (r *RedisClient) AddMovieLike(roomID, movieID, userID string) (int, error) {
	key := movieLikesKey(roomID, movieID)

	err := r.Client.SAdd(ctx, key, userID).Err()
	if err != nil {
		return 0, fmt.Errorf("failed to add like for movie %s in room %s: %v", movieID, roomID, err)
	}

	count, err := r.Client.SCard(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to count likes for movie %s in room %s: %v", movieID, roomID, err)
	}
	return int(count), nil
}

// RemoveMovieLike withdraws a like, used when a user swipes the same
// movie again as a dislike.
func (r *RedisClient) RemoveMovieLike(roomID, movieID, userID string) error {
	return r.Client.SRem(ctx, movieLikesKey(roomID, movieID), userID).Err()
}

// ClearMovieLikes drops the like set once a match has been persisted.
func (r *RedisClient) ClearMovieLikes(roomID, movieID string) error {
	return r.Delete(movieLikesKey(roomID, movieID))
}
