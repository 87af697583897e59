package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"swipemovie/pkg/types/commontype"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientSendsIdentityAndDecodes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "user-1", r.Header.Get("X-User-ID"))
		switch r.URL.Path {
		case "/rooms/code/ABC123":
			json.NewEncoder(w).Encode(commontype.Room{ID: "room-1", Code: "ABC123"})
		case "/rooms/room-1/swipes/me":
			json.NewEncoder(w).Encode([]commontype.SwipeRecord{
				{MovieID: "123", Value: true},
			})
		case "/movies/123":
			json.NewEncoder(w).Encode(commontype.MovieSummary{ID: "123", Title: "Heat"})
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	client := New(srv.URL, "user-1")
	ctx := context.Background()

	room, err := client.RoomByCode(ctx, "ABC123")
	require.NoError(t, err)
	assert.Equal(t, "room-1", room.ID)

	swipes, err := client.MySwipes(ctx, "room-1")
	require.NoError(t, err)
	require.Len(t, swipes, 1)
	assert.Equal(t, "123", swipes[0].MovieID)

	movie, err := client.MovieDetails(ctx, "123")
	require.NoError(t, err)
	assert.Equal(t, "Heat", movie.Title)
}

func TestClientPostsSwipe(t *testing.T) {
	var got swipeRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/rooms/room-1/swipes", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	client := New(srv.URL, "user-1")
	require.NoError(t, client.PostSwipe(context.Background(), "room-1", "789", true))
	assert.Equal(t, "789", got.MovieID)
	assert.True(t, got.Value)
}

func TestClientReportsUnexpectedStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := New(srv.URL, "user-1")
	_, err := client.RoomByCode(context.Background(), "ABC123")
	assert.ErrorContains(t, err, "unexpected status code: 500")
}
