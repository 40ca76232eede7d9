package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"moviesrev/pkg/models"
)

var ErrReviewNotFound = errors.New("review not found")

// ReviewStore is the minimal contract the service requires from any
// backing store: opaque generated ids, equality filters on movieId and
// username, single-document writes. Ordering of query results is not
// part of the contract; callers re-sort locally.
type ReviewStore interface {
	Insert(ctx context.Context, review *models.Review) (string, error)
	GetByID(ctx context.Context, id string) (*models.Review, error)
	ByMovie(ctx context.Context, movieID string) ([]models.Review, error)
	ByUser(ctx context.Context, username string) ([]models.Review, error)
	All(ctx context.Context) ([]models.Review, error)
	Update(ctx context.Context, id string, rating int, text string, updatedAt time.Time) error
	Delete(ctx context.Context, id string) error
}

// MemoryReviewStore backs tests and local development without a
// database. Results come back in insertion order, which deliberately
// exercises the handlers' local re-sort.
type MemoryReviewStore struct {
	mu      sync.RWMutex
	order   []string
	reviews map[string]*models.Review
}

func NewMemoryReviewStore() *MemoryReviewStore {
	return &MemoryReviewStore{reviews: make(map[string]*models.Review)}
}

func (m *MemoryReviewStore) Insert(ctx context.Context, review *models.Review) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	review.ID = bson.NewObjectID()
	id := review.ID.Hex()
	copied := *review
	m.reviews[id] = &copied
	m.order = append(m.order, id)
	return id, nil
}

func (m *MemoryReviewStore) GetByID(ctx context.Context, id string) (*models.Review, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	review, ok := m.reviews[id]
	if !ok {
		return nil, ErrReviewNotFound
	}
	copied := *review
	return &copied, nil
}

func (m *MemoryReviewStore) ByMovie(ctx context.Context, movieID string) ([]models.Review, error) {
	return m.filter(func(r *models.Review) bool { return r.MovieID == movieID })
}

func (m *MemoryReviewStore) ByUser(ctx context.Context, username string) ([]models.Review, error) {
	return m.filter(func(r *models.Review) bool { return r.Username == username })
}

func (m *MemoryReviewStore) All(ctx context.Context) ([]models.Review, error) {
	return m.filter(func(*models.Review) bool { return true })
}

func (m *MemoryReviewStore) Update(ctx context.Context, id string, rating int, text string, updatedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	review, ok := m.reviews[id]
	if !ok {
		return ErrReviewNotFound
	}
	review.Rating = rating
	review.Review = text
	review.UpdatedAt = updatedAt
	return nil
}

func (m *MemoryReviewStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.reviews[id]; !ok {
		return ErrReviewNotFound
	}
	delete(m.reviews, id)
	for i, existing := range m.order {
		if existing == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

func (m *MemoryReviewStore) filter(keep func(*models.Review) bool) ([]models.Review, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	results := []models.Review{}
	for _, id := range m.order {
		if review := m.reviews[id]; keep(review) {
			results = append(results, *review)
		}
	}
	return results, nil
}
