package transport

import (
	"net/http"

	"swipemovie/pkg/middleware"
	"swipemovie/services/room/handler"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

func NewRouter(roomHandler *handler.RoomHandler) http.Handler {
	mux := chi.NewRouter()

	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token", "X-User-ID"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	mux.Use(middleware.RequireUserID)

	mux.Post("/rooms", roomHandler.CreateRoom)
	mux.Post("/rooms/join", roomHandler.JoinRoom)
	mux.Get("/rooms/code/{code}", roomHandler.GetRoomByCode)

	mux.Post("/rooms/{id}/swipes", roomHandler.PostSwipe)
	mux.Get("/rooms/{id}/swipes/me", roomHandler.GetMySwipes)
	mux.Get("/rooms/{id}/matches", roomHandler.GetMatches)

	mux.Post("/rooms/{id}/movies", roomHandler.AddMovie)
	mux.Get("/movies/{id}", roomHandler.GetMovie)

	return mux
}
