package router

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moviesrev/internal/store"
	"moviesrev/pkg/models"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestServer(t *testing.T, s store.ReviewStore) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := discardLogger()
	reviews := NewReviewHandler(s, logger)
	catalog := NewCatalogHandler(&fakeCatalog{}, nil, logger)

	InitEngine(logger)
	InitializeRoutes(reviews, catalog)
	return Router
}

func doJSON(t *testing.T, engine *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func decodeReview(t *testing.T, body []byte) models.Review {
	t.Helper()
	var review models.Review
	require.NoError(t, json.Unmarshal(body, &review))
	return review
}

func decodeReviews(t *testing.T, body []byte) []models.Review {
	t.Helper()
	var reviews []models.Review
	require.NoError(t, json.Unmarshal(body, &reviews))
	return reviews
}

func seedReview(t *testing.T, s *store.MemoryReviewStore, movieID, username string, createdAt time.Time) string {
	t.Helper()
	id, err := s.Insert(context.Background(), &models.Review{
		MovieID:    movieID,
		MovieTitle: "Seeded Title",
		Rating:     3,
		Review:     "seeded",
		Username:   username,
		CreatedAt:  createdAt,
		UpdatedAt:  createdAt,
	})
	require.NoError(t, err)
	return id
}

func TestHealthCheck(t *testing.T) {
	engine := newTestServer(t, store.NewMemoryReviewStore())

	rec := doJSON(t, engine, http.MethodGet, "/api/health", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "OK", body["status"])
}

func TestCreateReview(t *testing.T) {
	st := store.NewMemoryReviewStore()
	engine := newTestServer(t, st)

	rec := doJSON(t, engine, http.MethodPost, "/api/reviews", gin.H{
		"movieId":    "42",
		"movieTitle": "Dune",
		"rating":     5,
		"review":     "Great",
		"username":   "alice",
	})

	require.Equal(t, http.StatusCreated, rec.Code)
	created := decodeReview(t, rec.Body.Bytes())
	assert.False(t, created.ID.IsZero(), "id must be generated")
	assert.Equal(t, "42", created.MovieID)
	assert.Equal(t, 5, created.Rating)
	assert.True(t, created.CreatedAt.Equal(created.UpdatedAt))

	// Raw body must carry ISO 8601 timestamps.
	var raw map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw))
	_, err := time.Parse(time.RFC3339, raw["createdAt"].(string))
	assert.NoError(t, err)

	// And the scenario round trip: the review comes back for its movie.
	rec = doJSON(t, engine, http.MethodGet, "/api/reviews/42", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	listed := decodeReviews(t, rec.Body.Bytes())
	require.Len(t, listed, 1)
	assert.Equal(t, created.ID, listed[0].ID)
}

func TestCreateReviewMissingFields(t *testing.T) {
	st := store.NewMemoryReviewStore()
	engine := newTestServer(t, st)

	rec := doJSON(t, engine, http.MethodPost, "/api/reviews", gin.H{
		"movieId": "42",
		"rating":  4,
	})

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "All fields are required")

	persisted, err := st.All(context.Background())
	require.NoError(t, err)
	assert.Empty(t, persisted, "rejected create must not persist anything")
}

func TestCreateReviewRatingOutOfRange(t *testing.T) {
	st := store.NewMemoryReviewStore()
	engine := newTestServer(t, st)

	for _, rating := range []int{-1, 6, 42} {
		rec := doJSON(t, engine, http.MethodPost, "/api/reviews", gin.H{
			"movieId":    "42",
			"movieTitle": "Dune",
			"rating":     rating,
			"review":     "Great",
			"username":   "alice",
		})

		require.Equal(t, http.StatusBadRequest, rec.Code, "rating %d", rating)
		assert.Contains(t, rec.Body.String(), "Rating must be between 1 and 5")
	}

	persisted, err := st.All(context.Background())
	require.NoError(t, err)
	assert.Empty(t, persisted)
}

func TestListByMovieOrdersNewestFirst(t *testing.T) {
	st := store.NewMemoryReviewStore()
	engine := newTestServer(t, st)

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	// Insert newest first so store order disagrees with the wire order.
	newest := seedReview(t, st, "42", "alice", base.Add(time.Hour))
	oldest := seedReview(t, st, "42", "bob", base)
	seedReview(t, st, "99", "carol", base.Add(2*time.Hour))

	rec := doJSON(t, engine, http.MethodGet, "/api/reviews/42", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	reviews := decodeReviews(t, rec.Body.Bytes())
	require.Len(t, reviews, 2)
	assert.Equal(t, newest, reviews[0].ID.Hex())
	assert.Equal(t, oldest, reviews[1].ID.Hex())

	// Idempotence of read: same call, same ordered result.
	again := doJSON(t, engine, http.MethodGet, "/api/reviews/42", nil)
	assert.Equal(t, rec.Body.String(), again.Body.String())
}

func TestListByMovieUnknownMovieIsEmpty(t *testing.T) {
	engine := newTestServer(t, store.NewMemoryReviewStore())

	rec := doJSON(t, engine, http.MethodGet, "/api/reviews/nope", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestListByUserFiltersAndListAllReturnsEverything(t *testing.T) {
	st := store.NewMemoryReviewStore()
	engine := newTestServer(t, st)

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	seedReview(t, st, "42", "alice", base)
	seedReview(t, st, "43", "alice", base.Add(time.Hour))
	seedReview(t, st, "42", "bob", base.Add(2*time.Hour))

	rec := doJSON(t, engine, http.MethodGet, "/api/reviews/user/alice", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	mine := decodeReviews(t, rec.Body.Bytes())
	require.Len(t, mine, 2)
	for _, review := range mine {
		assert.Equal(t, "alice", review.Username)
	}
	assert.True(t, mine[0].CreatedAt.After(mine[1].CreatedAt))

	rec = doJSON(t, engine, http.MethodGet, "/api/reviews", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	all := decodeReviews(t, rec.Body.Bytes())
	assert.Len(t, all, 3)
	assert.Equal(t, "bob", all[0].Username, "newest review first")
}

func TestUpdateReview(t *testing.T) {
	st := store.NewMemoryReviewStore()
	engine := newTestServer(t, st)

	createdAt := time.Now().UTC().Truncate(time.Millisecond).Add(-time.Hour)
	id := seedReview(t, st, "42", "alice", createdAt)

	rec := doJSON(t, engine, http.MethodPut, "/api/reviews/"+id, gin.H{
		"rating": 2,
		"review": "changed my mind",
	})

	require.Equal(t, http.StatusOK, rec.Code)
	updated := decodeReview(t, rec.Body.Bytes())
	assert.Equal(t, id, updated.ID.Hex())
	assert.Equal(t, "42", updated.MovieID)
	assert.Equal(t, "Seeded Title", updated.MovieTitle)
	assert.Equal(t, "alice", updated.Username)
	assert.True(t, updated.CreatedAt.Equal(createdAt), "createdAt is immutable")
	assert.Equal(t, 2, updated.Rating)
	assert.Equal(t, "changed my mind", updated.Review)
	assert.True(t, updated.UpdatedAt.After(createdAt), "updatedAt must be refreshed")
}

func TestUpdateReviewValidation(t *testing.T) {
	st := store.NewMemoryReviewStore()
	engine := newTestServer(t, st)

	id := seedReview(t, st, "42", "alice", time.Now().UTC().Add(-time.Hour))

	rec := doJSON(t, engine, http.MethodPut, "/api/reviews/"+id, gin.H{
		"rating": 0,
		"review": "x",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Rating and review are required")

	rec = doJSON(t, engine, http.MethodPut, "/api/reviews/"+id, gin.H{
		"rating": 7,
		"review": "x",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Rating must be between 1 and 5")

	// Store unchanged after both rejections.
	stored, err := st.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, 3, stored.Rating)
	assert.Equal(t, "seeded", stored.Review)
}

func TestUpdateReviewNotFound(t *testing.T) {
	engine := newTestServer(t, store.NewMemoryReviewStore())

	rec := doJSON(t, engine, http.MethodPut, "/api/reviews/68b000000000000000000000", gin.H{
		"rating": 4,
		"review": "x",
	})

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Review not found")
}

func TestDeleteReview(t *testing.T) {
	st := store.NewMemoryReviewStore()
	engine := newTestServer(t, st)

	id := seedReview(t, st, "42", "alice", time.Now().UTC().Add(-time.Hour))

	rec := doJSON(t, engine, http.MethodDelete, "/api/reviews/"+id, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Review deleted successfully", body["message"])
	assert.Equal(t, id, body["id"])

	_, err := st.GetByID(context.Background(), id)
	assert.ErrorIs(t, err, store.ErrReviewNotFound)

	// Repeating the delete reports not found rather than succeeding.
	rec = doJSON(t, engine, http.MethodDelete, "/api/reviews/"+id, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteUnknownReview(t *testing.T) {
	engine := newTestServer(t, store.NewMemoryReviewStore())

	rec := doJSON(t, engine, http.MethodDelete, "/api/reviews/doesnotexist", nil)

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Review not found")
}

// failingStore simulates a storage outage for every operation.
type failingStore struct{}

var errStoreDown = errors.New("store unavailable")

func (failingStore) Insert(context.Context, *models.Review) (string, error) {
	return "", errStoreDown
}
func (failingStore) GetByID(context.Context, string) (*models.Review, error) {
	return nil, errStoreDown
}
func (failingStore) ByMovie(context.Context, string) ([]models.Review, error) {
	return nil, errStoreDown
}
func (failingStore) ByUser(context.Context, string) ([]models.Review, error) {
	return nil, errStoreDown
}
func (failingStore) All(context.Context) ([]models.Review, error) {
	return nil, errStoreDown
}
func (failingStore) Update(context.Context, string, int, string, time.Time) error {
	return errStoreDown
}
func (failingStore) Delete(context.Context, string) error {
	return errStoreDown
}

func TestStorageFailureSurfacesErrors(t *testing.T) {
	engine := newTestServer(t, failingStore{})

	cases := []struct {
		method string
		path   string
		body   any
	}{
		{http.MethodGet, "/api/reviews/42", nil},
		{http.MethodGet, "/api/reviews/user/alice", nil},
		{http.MethodGet, "/api/reviews", nil},
		{http.MethodPost, "/api/reviews", gin.H{
			"movieId": "42", "movieTitle": "Dune", "rating": 5,
			"review": "Great", "username": "alice",
		}},
		{http.MethodPut, "/api/reviews/abc", gin.H{"rating": 4, "review": "x"}},
		{http.MethodDelete, "/api/reviews/abc", nil},
	}

	for _, tc := range cases {
		rec := doJSON(t, engine, tc.method, tc.path, tc.body)
		require.Equal(t, http.StatusInternalServerError, rec.Code, "%s %s", tc.method, tc.path)
		assert.Contains(t, rec.Body.String(), "error", "%s %s", tc.method, tc.path)
	}
}
