package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"moviesrev/pkg/models"
)

// MongoReviewStore implements ReviewStore on a MongoDB collection. The
// collection handle is created once at startup and shared by all
// handlers; MongoDB's per-document atomicity covers every write here, so
// the store needs no locking of its own.
type MongoReviewStore struct {
	coll   *mongo.Collection
	logger *slog.Logger
}

func NewMongoReviewStore(coll *mongo.Collection, logger *slog.Logger) *MongoReviewStore {
	return &MongoReviewStore{coll: coll, logger: logger}
}

func (s *MongoReviewStore) Insert(ctx context.Context, review *models.Review) (string, error) {
	result, err := s.coll.InsertOne(ctx, review)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to insert review",
			slog.String("movieId", review.MovieID), slog.String("error", err.Error()))
		return "", fmt.Errorf("insert review: %w", err)
	}

	oid, ok := result.InsertedID.(bson.ObjectID)
	if !ok {
		return "", fmt.Errorf("insert review: unexpected inserted id type %T", result.InsertedID)
	}
	review.ID = oid

	s.logger.InfoContext(ctx, "Review created",
		slog.String("reviewId", oid.Hex()), slog.String("movieId", review.MovieID))
	return oid.Hex(), nil
}

func (s *MongoReviewStore) GetByID(ctx context.Context, id string) (*models.Review, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		// Malformed ids cannot reference any document.
		return nil, ErrReviewNotFound
	}

	var review models.Review
	err = s.coll.FindOne(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(&review)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrReviewNotFound
		}
		s.logger.ErrorContext(ctx, "Failed to fetch review",
			slog.String("reviewId", id), slog.String("error", err.Error()))
		return nil, fmt.Errorf("get review %s: %w", id, err)
	}
	return &review, nil
}

func (s *MongoReviewStore) ByMovie(ctx context.Context, movieID string) ([]models.Review, error) {
	return s.find(ctx, bson.D{{Key: "movieId", Value: movieID}})
}

func (s *MongoReviewStore) ByUser(ctx context.Context, username string) ([]models.Review, error) {
	return s.find(ctx, bson.D{{Key: "username", Value: username}})
}

func (s *MongoReviewStore) All(ctx context.Context) ([]models.Review, error) {
	return s.find(ctx, bson.D{})
}

func (s *MongoReviewStore) Update(ctx context.Context, id string, rating int, text string, updatedAt time.Time) error {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return ErrReviewNotFound
	}

	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "rating", Value: rating},
		{Key: "review", Value: text},
		{Key: "updatedAt", Value: updatedAt},
	}}}

	result, err := s.coll.UpdateOne(ctx, bson.D{{Key: "_id", Value: oid}}, update)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to update review",
			slog.String("reviewId", id), slog.String("error", err.Error()))
		return fmt.Errorf("update review %s: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return ErrReviewNotFound
	}
	return nil
}

func (s *MongoReviewStore) Delete(ctx context.Context, id string) error {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return ErrReviewNotFound
	}

	result, err := s.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: oid}})
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to delete review",
			slog.String("reviewId", id), slog.String("error", err.Error()))
		return fmt.Errorf("delete review %s: %w", id, err)
	}
	if result.DeletedCount == 0 {
		return ErrReviewNotFound
	}

	s.logger.InfoContext(ctx, "Review deleted", slog.String("reviewId", id))
	return nil
}

func (s *MongoReviewStore) find(ctx context.Context, filter bson.D) ([]models.Review, error) {
	// Ask for newest-first anyway; handlers still re-sort locally, so
	// correctness never depends on this option.
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := s.coll.Find(ctx, filter, opts)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to query reviews", slog.String("error", err.Error()))
		return nil, fmt.Errorf("query reviews: %w", err)
	}
	defer cursor.Close(ctx)

	reviews := []models.Review{}
	if err := cursor.All(ctx, &reviews); err != nil {
		s.logger.ErrorContext(ctx, "Failed to decode reviews", slog.String("error", err.Error()))
		return nil, fmt.Errorf("decode reviews: %w", err)
	}
	return reviews, nil
}
