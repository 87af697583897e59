package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"swipemovie/pkg/middleware"
	"swipemovie/pkg/types/commontype"
	"swipemovie/services/room/repository"
	"swipemovie/services/room/service"

	"github.com/go-chi/chi/v5"
)

type RoomHandler struct {
	roomService *service.RoomService
}

func NewRoomHandler(roomService *service.RoomService) *RoomHandler {
	return &RoomHandler{
		roomService: roomService,
	}
}

type createRoomRequest struct {
	Name string `json:"name"`
}

func (h *RoomHandler) CreateRoom(w http.ResponseWriter, r *http.Request) {
	var req createRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	room, err := h.roomService.CreateRoom(req.Name, middleware.UserID(r))
	if err != nil {
		http.Error(w, "Failed to create room", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(room)
}

type joinRoomRequest struct {
	Code string `json:"code"`
}

func (h *RoomHandler) JoinRoom(w http.ResponseWriter, r *http.Request) {
	var req joinRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	room, err := h.roomService.JoinRoom(req.Code, middleware.UserID(r))
	if err != nil {
		if errors.Is(err, repository.ErrRoomNotFound) {
			http.Error(w, "Room not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to join room", http.StatusInternalServerError)
		return
	}

	json.NewEncoder(w).Encode(room)
}

func (h *RoomHandler) GetRoomByCode(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	room, err := h.roomService.RoomByCode(code)
	if err != nil {
		if errors.Is(err, repository.ErrRoomNotFound) {
			http.Error(w, "Room not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to look up room", http.StatusInternalServerError)
		return
	}

	json.NewEncoder(w).Encode(room)
}

type swipeRequest struct {
	MovieID string `json:"movie_id"`
	Value   bool   `json:"value"`
}

func (h *RoomHandler) PostSwipe(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "id")

	var req swipeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.MovieID == "" {
		http.Error(w, "movie_id is required", http.StatusBadRequest)
		return
	}

	match, err := h.roomService.RecordSwipe(r.Context(), roomID, middleware.UserID(r), req.MovieID, req.Value)
	if err != nil {
		if errors.Is(err, service.ErrNotAMember) {
			http.Error(w, "You are not a member of this room", http.StatusForbidden)
			return
		}
		http.Error(w, "Failed to record swipe", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusCreated)
	if match != nil {
		json.NewEncoder(w).Encode(match)
	}
}

func (h *RoomHandler) GetMySwipes(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "id")

	swipes, err := h.roomService.UserSwipes(r.Context(), roomID, middleware.UserID(r))
	if err != nil {
		http.Error(w, "Failed to load swipe history", http.StatusInternalServerError)
		return
	}
	if swipes == nil {
		swipes = []commontype.SwipeRecord{}
	}

	json.NewEncoder(w).Encode(swipes)
}

func (h *RoomHandler) GetMatches(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "id")

	matches, err := h.roomService.Matches(r.Context(), roomID)
	if err != nil {
		http.Error(w, "Failed to load matches", http.StatusInternalServerError)
		return
	}
	if matches == nil {
		matches = []commontype.Match{}
	}

	json.NewEncoder(w).Encode(matches)
}

func (h *RoomHandler) AddMovie(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "id")

	var movie commontype.MovieSummary
	if err := json.NewDecoder(r.Body).Decode(&movie); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if movie.Title == "" {
		http.Error(w, "title is required", http.StatusBadRequest)
		return
	}

	created, err := h.roomService.AddMovie(r.Context(), roomID, movie)
	if err != nil {
		http.Error(w, "Failed to add movie", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(created)
}

func (h *RoomHandler) GetMovie(w http.ResponseWriter, r *http.Request) {
	movieID := chi.URLParam(r, "id")

	movie, err := h.roomService.Movie(r.Context(), movieID)
	if err != nil {
		if errors.Is(err, repository.ErrMovieNotFound) {
			http.Error(w, "Movie not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to load movie", http.StatusInternalServerError)
		return
	}

	json.NewEncoder(w).Encode(movie)
}
