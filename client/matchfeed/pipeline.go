// Package matchfeed turns raw match pushes into deduplicated user-facing
// side effects: a notification, a movie-detail fetch, an animation state
// and a match-list refresh signal.
package matchfeed

import (
	"context"
	"sync"

	"swipemovie/pkg/types/commontype"
	eventtypes "swipemovie/pkg/types/eventtype"

	"github.com/rs/zerolog"
)

// EventSource is the read-and-clear surface of a realtime subscription.
type EventSource interface {
	PendingEvent() *eventtypes.MatchCreatedEvent
	ClearEvent()
	Notify() <-chan struct{}
}

// MovieAPI fetches the summary shown in the match animation.
type MovieAPI interface {
	MovieDetails(ctx context.Context, movieID string) (*commontype.MovieSummary, error)
}

// Notifier receives the immediate match notification (the toast).
type Notifier interface {
	MatchFound(event eventtypes.MatchCreatedEvent)
}

type Pipeline struct {
	source   EventSource
	api      MovieAPI
	notifier Notifier
	log      zerolog.Logger

	mu            sync.Mutex
	lastMatchID   string
	matchedMovie  *commontype.MovieSummary
	showAnimation bool
	refresh       int64
	closed        bool
}

func New(source EventSource, api MovieAPI, notifier Notifier, log zerolog.Logger) *Pipeline {
	return &Pipeline{
		source:   source,
		api:      api,
		notifier: notifier,
		log:      log,
	}
}

// Run drives Process off the subscription's wake channel until ctx ends.
func (p *Pipeline) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			p.mu.Lock()
			p.closed = true
			p.mu.Unlock()
			return
		case <-p.source.Notify():
			p.Process(ctx)
		}
	}
}

// Process consumes the pending event, if any. Reconnects redeliver
// unacknowledged events, so the match ID is recorded before any
// asynchronous work; a redelivery of the same ID is a no-op.
func (p *Pipeline) Process(ctx context.Context) {
	event := p.source.PendingEvent()
	if event == nil {
		return
	}

	p.mu.Lock()
	if event.MatchID == p.lastMatchID {
		p.mu.Unlock()
		p.source.ClearEvent()
		return
	}
	p.lastMatchID = event.MatchID
	p.mu.Unlock()

	if p.notifier != nil {
		p.notifier.MatchFound(*event)
	}

	if event.MovieID != "" {
		go p.fetchMovie(ctx, event.MovieID)
	}

	// The refresh signal fires whether or not the detail fetch pans out;
	// match-list views refetch on any increment.
	p.mu.Lock()
	p.refresh++
	p.mu.Unlock()

	p.source.ClearEvent()
}

func (p *Pipeline) fetchMovie(ctx context.Context, movieID string) {
	movie, err := p.api.MovieDetails(ctx, movieID)
	if err != nil {
		p.log.Warn().Msgf("Failed to fetch matched movie %s, skipping animation: %v", movieID, err)
		return
	}

	p.mu.Lock()
	if !p.closed {
		p.matchedMovie = movie
		p.showAnimation = true
	}
	p.mu.Unlock()
}

// TriggerMatchAnimation shows the animation for a locally-detected
// match. Deduplication is the caller's business here.
func (p *Pipeline) TriggerMatchAnimation(movie *commontype.MovieSummary) {
	p.mu.Lock()
	p.matchedMovie = movie
	p.showAnimation = true
	p.mu.Unlock()
}

// CompleteMatchAnimation resets the animation to idle, called after the
// display duration or an explicit dismissal.
func (p *Pipeline) CompleteMatchAnimation() {
	p.mu.Lock()
	p.matchedMovie = nil
	p.showAnimation = false
	p.mu.Unlock()
}

// AnimationState reports the currently matched movie and whether the
// animation is live.
func (p *Pipeline) AnimationState() (*commontype.MovieSummary, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.matchedMovie, p.showAnimation
}

// RefreshSignal is a monotonically increasing counter; consumers treat
// any change as "refetch the match list".
func (p *Pipeline) RefreshSignal() int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.refresh
}
