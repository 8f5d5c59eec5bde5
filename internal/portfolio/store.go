package portfolio

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/yoockh/coldreach/internal/models"
)

// VectorStore is the persisted collection behind the index.
type VectorStore interface {
	Count(ctx context.Context) (int64, error)
	// Replace drops every stored item and inserts items.
	Replace(ctx context.Context, items []models.PortfolioItem) error
	// Nearest returns up to n items ordered by ascending cosine distance.
	Nearest(ctx context.Context, vec []float32, n int) ([]models.PortfolioMatch, error)
}

// MemoryStore keeps the collection in process.
type MemoryStore struct {
	mu    sync.RWMutex
	items []models.PortfolioItem
}

func NewMemoryStore() *MemoryStore { return &MemoryStore{} }

func (s *MemoryStore) Count(context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.items)), nil
}

func (s *MemoryStore) Replace(_ context.Context, items []models.PortfolioItem) error {
	cp := make([]models.PortfolioItem, len(items))
	copy(cp, items)
	s.mu.Lock()
	s.items = cp
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Nearest(_ context.Context, vec []float32, n int) ([]models.PortfolioMatch, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matches := make([]models.PortfolioMatch, 0, len(s.items))
	for _, it := range s.items {
		matches = append(matches, models.PortfolioMatch{
			Skill:    it.Skill,
			Link:     it.Link,
			Distance: cosineDistance(vec, it.Embedding.Slice()),
		})
	}
	sort.SliceStable(matches, func(i, j int) bool { return matches[i].Distance < matches[j].Distance })
	if n > 0 && len(matches) > n {
		matches = matches[:n]
	}
	return matches, nil
}

func cosineDistance(a, b []float32) float64 {
	if len(a) != len(b) {
		return 2
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 1
	}
	return 1 - dot/(math.Sqrt(na)*math.Sqrt(nb))
}
