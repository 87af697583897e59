// Package roomstate keeps a cached view of room metadata and the current
// user's swipe history, with optimistic local updates that are replaced
// wholesale whenever fresh server data arrives.
package roomstate

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"swipemovie/pkg/helper"
	"swipemovie/pkg/types/commontype"

	"github.com/rs/zerolog"
)

// API is the slice of the room service this package consumes.
type API interface {
	RoomByCode(ctx context.Context, code string) (*commontype.Room, error)
	MySwipes(ctx context.Context, roomID string) ([]commontype.SwipeRecord, error)
}

// Room metadata barely changes after creation; swipes change on every
// card. The two caches age out on separate clocks.
const (
	DefaultRoomTTL  = 5 * time.Minute
	DefaultSwipeTTL = 30 * time.Second
)

type Reconciler struct {
	api      API
	roomTTL  time.Duration
	swipeTTL time.Duration
	log      zerolog.Logger

	mu         sync.Mutex
	code       string
	room       *commontype.Room
	roomAt     time.Time
	swipes     []commontype.SwipeRecord
	swipesAt   time.Time
	haveSwipes bool
	override   map[string]struct{} // optimistic swiped set; nil means no override
	loading    bool
	errMsg     string
}

type Option func(*Reconciler)

func WithTTLs(roomTTL, swipeTTL time.Duration) Option {
	return func(r *Reconciler) {
		r.roomTTL = roomTTL
		r.swipeTTL = swipeTTL
	}
}

func WithLogger(log zerolog.Logger) Option {
	return func(r *Reconciler) {
		r.log = log
	}
}

// New builds a reconciler for roomCode. An empty code disables fetching
// until SetCode supplies one.
func New(api API, roomCode string, opts ...Option) *Reconciler {
	r := &Reconciler{
		api:      api,
		code:     roomCode,
		roomTTL:  DefaultRoomTTL,
		swipeTTL: DefaultSwipeTTL,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// SetCode switches to a different room code and drops all cached state.
func (r *Reconciler) SetCode(code string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if code == r.code {
		return
	}
	r.code = code
	r.room = nil
	r.roomAt = time.Time{}
	r.swipes = nil
	r.swipesAt = time.Time{}
	r.haveSwipes = false
	r.override = nil
	r.loading = false
	r.errMsg = ""
}

// Load brings both caches up to date, skipping fetches that are still
// fresh. Room lookup failure aborts the cycle; swipe history failure
// degrades to an empty set so the room still renders.
func (r *Reconciler) Load(ctx context.Context) {
	r.mu.Lock()
	if r.code == "" {
		r.mu.Unlock()
		return
	}
	code := r.code
	needRoom := r.room == nil || time.Since(r.roomAt) > r.roomTTL
	needSwipes := !r.haveSwipes || time.Since(r.swipesAt) > r.swipeTTL
	if !needRoom && !needSwipes {
		r.mu.Unlock()
		return
	}
	// Loading only covers the window where nothing usable is cached yet.
	r.loading = r.room == nil || !r.haveSwipes
	r.errMsg = ""
	room := r.room
	r.mu.Unlock()

	var errParts []string

	if needRoom {
		fetched, err := r.api.RoomByCode(ctx, code)
		if err != nil {
			r.finishLoad(code, nil, nil, false, fmt.Sprintf("failed to load room %s: %v", code, err))
			return
		}
		room = fetched
	}

	// A fresh swipe cache survives a room-metadata refresh, along with
	// any optimistic override layered on it.
	if !needSwipes {
		r.finishLoad(code, room, nil, false, "")
		return
	}

	swipes, err := r.api.MySwipes(ctx, room.ID)
	if err != nil {
		r.log.Warn().Msgf("Failed to load swipe history for room %s, starting empty: %v", room.ID, err)
		errParts = append(errParts, fmt.Sprintf("failed to load swipe history: %v", err))
		swipes = nil
	}

	r.finishLoad(code, room, swipes, true, strings.Join(errParts, "; "))
}

// finishLoad commits fetch results unless the room code changed while the
// fetch was in flight.
func (r *Reconciler) finishLoad(code string, room *commontype.Room, swipes []commontype.SwipeRecord, gotSwipes bool, errMsg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.code != code {
		return
	}
	r.loading = false
	r.errMsg = errMsg
	if room != nil {
		r.room = room
		r.roomAt = time.Now()
	}
	if gotSwipes {
		r.swipes = swipes
		r.swipesAt = time.Now()
		r.haveSwipes = true
		// Server truth wins: any optimistic override is gone now.
		r.override = nil
	}
}

// SwipedMovieIDs returns the set of movie IDs the user has swiped. The
// optimistic override takes precedence until fresh server data lands.
func (r *Reconciler) SwipedMovieIDs() map[string]struct{} {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.override != nil {
		return helper.CopyIDSet(r.override)
	}
	return helper.SwipedMovieIDs(r.swipes)
}

// SetSwipedMovieIDs replaces the swiped set optimistically, ahead of
// server confirmation.
func (r *Reconciler) SetSwipedMovieIDs(ids map[string]struct{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.override = helper.CopyIDSet(ids)
}

// UpdateSwipedMovieIDs applies fn to the current derived set and stores
// the result as the optimistic override.
func (r *Reconciler) UpdateSwipedMovieIDs(fn func(map[string]struct{}) map[string]struct{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	current := r.override
	if current == nil {
		current = helper.SwipedMovieIDs(r.swipes)
	} else {
		current = helper.CopyIDSet(current)
	}
	r.override = fn(current)
}

// ReloadSwipes discards the optimistic override and forces a fresh
// swipe-history fetch.
func (r *Reconciler) ReloadSwipes(ctx context.Context) {
	r.mu.Lock()
	r.override = nil
	r.swipesAt = time.Time{}
	r.haveSwipes = false
	r.mu.Unlock()
	r.Load(ctx)
}

// ReloadRoom forces a fresh room-metadata fetch, used after
// room-mutating actions elsewhere.
func (r *Reconciler) ReloadRoom(ctx context.Context) {
	r.mu.Lock()
	r.roomAt = time.Time{}
	r.room = nil
	r.mu.Unlock()
	r.Load(ctx)
}

func (r *Reconciler) Room() *commontype.Room {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.room == nil {
		return nil
	}
	room := *r.room
	return &room
}

func (r *Reconciler) Loading() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loading
}

// Err returns the combined error message of the last load cycle, empty
// when it succeeded.
func (r *Reconciler) Err() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.errMsg
}
