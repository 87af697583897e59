package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"swipemovie/pkg/types/commontype"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	ErrMovieNotFound = errors.New("movie not found")
	ErrMatchExists   = errors.New("match already exists for this movie")
)

const deckDatabase = "swipe_db"

// DeckRepository stores the high-churn document data of a room: swipes,
// matches and the movie deck.
type DeckRepository struct {
	client *mongo.Client
}

func NewDeckRepository(client *mongo.Client) (*DeckRepository, error) {
	repo := &DeckRepository{client: client}
	if err := repo.initDatabase(); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %v", err)
	}
	return repo, nil
}

func (r *DeckRepository) initDatabase() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db := r.client.Database(deckDatabase)

	collections := []string{"swipes", "matches", "movies"}
	for _, name := range collections {
		err := db.CreateCollection(ctx, name)
		if err != nil && !strings.Contains(err.Error(), "already exists") {
			log.Error().Msgf("Error creating collection %s: %v", name, err)
			return err
		}
	}

	_, err := db.Collection("swipes").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "room_id", Value: 1}, {Key: "user_id", Value: 1}}},
	})
	if err != nil {
		return err
	}

	// The unique index doubles as the match claim: when two concurrent
	// final likes race past the vote count check, only one insert wins.
	_, err = db.Collection("matches").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "room_id", Value: 1}, {Key: "movie_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	})
	if err != nil {
		return err
	}

	_, err = db.Collection("movies").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}},
	})
	return err
}

func (r *DeckRepository) collection(name string) *mongo.Collection {
	return r.client.Database(deckDatabase).Collection(name)
}

// UpsertSwipe stores a swipe, replacing any earlier vote by the same
// user on the same movie in the same room.
func (r *DeckRepository) UpsertSwipe(ctx context.Context, swipe commontype.SwipeRecord) error {
	filter := bson.M{
		"room_id":  swipe.RoomID,
		"user_id":  swipe.UserID,
		"movie_id": swipe.MovieID,
	}
	opts := options.Replace().SetUpsert(true)
	_, err := r.collection("swipes").ReplaceOne(ctx, filter, swipe, opts)
	if err != nil {
		log.Error().Msgf("Failed to upsert swipe for movie %s in room %s: %v", swipe.MovieID, swipe.RoomID, err)
	}
	return err
}

func (r *DeckRepository) FindUserSwipes(ctx context.Context, roomID, userID string) ([]commontype.SwipeRecord, error) {
	filter := bson.M{"room_id": roomID, "user_id": userID}
	cursor, err := r.collection("swipes").Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var swipes []commontype.SwipeRecord
	if err := cursor.All(ctx, &swipes); err != nil {
		return nil, err
	}
	return swipes, nil
}

func (r *DeckRepository) InsertMatch(ctx context.Context, match commontype.Match) error {
	_, err := r.collection("matches").InsertOne(ctx, match)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrMatchExists
		}
		log.Error().Msgf("Failed to insert match %s: %v", match.ID, err)
	}
	return err
}

func (r *DeckRepository) FindMatchesByRoom(ctx context.Context, roomID string) ([]commontype.Match, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection("matches").Find(ctx, bson.M{"room_id": roomID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var matches []commontype.Match
	if err := cursor.All(ctx, &matches); err != nil {
		return nil, err
	}
	return matches, nil
}

func (r *DeckRepository) InsertMovie(ctx context.Context, movie commontype.MovieSummary) error {
	_, err := r.collection("movies").InsertOne(ctx, movie)
	if err != nil {
		log.Error().Msgf("Failed to insert movie %s: %v", movie.ID, err)
	}
	return err
}

func (r *DeckRepository) FindMovieByID(ctx context.Context, movieID string) (*commontype.MovieSummary, error) {
	var movie commontype.MovieSummary
	err := r.collection("movies").FindOne(ctx, bson.M{"id": movieID}).Decode(&movie)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrMovieNotFound
		}
		return nil, err
	}
	return &movie, nil
}
