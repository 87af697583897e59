// Package rest is a typed client for the room service REST API.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"swipemovie/pkg/types/commontype"
)

type Client struct {
	BaseURL string
	UserID  string

	HTTPClient *http.Client
}

func New(baseURL, userID string) *Client {
	return &Client{
		BaseURL:    baseURL,
		UserID:     userID,
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// RoomByCode resolves a short room code into full room metadata.
func (c *Client) RoomByCode(ctx context.Context, code string) (*commontype.Room, error) {
	var room commontype.Room
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/rooms/code/%s", code), nil, &room)
	if err != nil {
		return nil, err
	}
	return &room, nil
}

// MySwipes returns the calling user's swipe history for a room.
func (c *Client) MySwipes(ctx context.Context, roomID string) ([]commontype.SwipeRecord, error) {
	var swipes []commontype.SwipeRecord
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/rooms/%s/swipes/me", roomID), nil, &swipes)
	if err != nil {
		return nil, err
	}
	return swipes, nil
}

// MovieDetails fetches the summary for one movie.
func (c *Client) MovieDetails(ctx context.Context, movieID string) (*commontype.MovieSummary, error) {
	var movie commontype.MovieSummary
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/movies/%s", movieID), nil, &movie)
	if err != nil {
		return nil, err
	}
	return &movie, nil
}

// Matches returns every match found in a room so far.
func (c *Client) Matches(ctx context.Context, roomID string) ([]commontype.Match, error) {
	var matches []commontype.Match
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/rooms/%s/matches", roomID), nil, &matches)
	if err != nil {
		return nil, err
	}
	return matches, nil
}

type swipeRequest struct {
	MovieID string `json:"movie_id"`
	Value   bool   `json:"value"`
}

// PostSwipe records a like/dislike vote. Fire-and-forget from the
// caller's perspective; the optimistic swiped-set update happens
// client-side regardless of the outcome here.
func (c *Client) PostSwipe(ctx context.Context, roomID, movieID string, value bool) error {
	body := swipeRequest{MovieID: movieID, Value: value}
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/rooms/%s/swipes", roomID), body, nil)
}

func (c *Client) do(ctx context.Context, method, path string, in, out interface{}) error {
	var reqBody io.Reader
	if in != nil {
		encoded, err := json.Marshal(in)
		if err != nil {
			return err
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reqBody)
	if err != nil {
		return err
	}
	req.Header.Set("X-User-ID", c.UserID)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	if out == nil {
		return nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %v", err)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode response: %v", err)
	}
	return nil
}
