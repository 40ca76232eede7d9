package models

import (
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Review is a user-submitted star rating plus free-text comment for one
// movie. movieId and movieTitle come from the external catalog and are
// stored denormalized; nothing re-validates them against the catalog.
type Review struct {
	ID         bson.ObjectID `json:"id" bson:"_id,omitempty"`
	MovieID    string        `json:"movieId" bson:"movieId"`
	MovieTitle string        `json:"movieTitle" bson:"movieTitle"`
	Rating     int           `json:"rating" bson:"rating"`
	Review     string        `json:"review" bson:"review"`
	Username   string        `json:"username" bson:"username"`
	CreatedAt  time.Time     `json:"createdAt" bson:"createdAt"`
	UpdatedAt  time.Time     `json:"updatedAt" bson:"updatedAt"`
}

// CreateReviewRequest is the POST /reviews body. Rating deliberately has
// no binding tag: a missing rating must produce the generic "all fields
// are required" message, not a binding error.
type CreateReviewRequest struct {
	MovieID    string `json:"movieId"`
	MovieTitle string `json:"movieTitle"`
	Rating     int    `json:"rating"`
	Review     string `json:"review"`
	Username   string `json:"username"`
}

// UpdateReviewRequest is the PUT /reviews/:id body. Only rating and the
// review text are mutable after creation.
type UpdateReviewRequest struct {
	Rating int    `json:"rating"`
	Review string `json:"review"`
}

// HasAllFields reports whether every required field is present. A zero
// rating counts as missing, mirroring the range check that follows.
func (r *CreateReviewRequest) HasAllFields() bool {
	return r.MovieID != "" && r.MovieTitle != "" && r.Rating != 0 &&
		r.Review != "" && r.Username != ""
}

// RatingInRange reports whether a rating is a valid star count.
func RatingInRange(rating int) bool {
	return rating >= 1 && rating <= 5
}

// ToReview builds the persistable record from a create request. Both
// timestamps get the same instant so createdAt == updatedAt on a fresh
// review; millisecond precision survives a round trip through the store.
func (r *CreateReviewRequest) ToReview() *Review {
	now := Now()
	return &Review{
		MovieID:    r.MovieID,
		MovieTitle: r.MovieTitle,
		Rating:     r.Rating,
		Review:     r.Review,
		Username:   r.Username,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// Now returns the server timestamp used for review stamping: UTC,
// truncated to the datetime granularity the store persists.
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

// SortNewestFirst orders reviews by createdAt descending in place. Every
// list handler calls this regardless of how the store ordered its result,
// so the wire ordering never depends on a server-side sort being present.
func SortNewestFirst(reviews []Review) {
	sort.SliceStable(reviews, func(i, j int) bool {
		return reviews[i].CreatedAt.After(reviews[j].CreatedAt)
	})
}
