package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/yoockh/coldreach/internal/models"
)

// DraftRepo keeps draft records in process when Mongo is not configured.
type DraftRepo struct {
	mu     sync.Mutex
	drafts []models.Draft
}

func NewDraftRepo() *DraftRepo { return &DraftRepo{} }

func (r *DraftRepo) Insert(_ context.Context, d *models.Draft) error {
	if d.CreatedAt.IsZero() {
		d.CreatedAt = time.Now().UTC()
	}
	r.mu.Lock()
	r.drafts = append(r.drafts, *d)
	r.mu.Unlock()
	return nil
}

func (r *DraftRepo) ListRecent(_ context.Context, limit int) ([]models.Draft, error) {
	if limit <= 0 {
		limit = 5
	}
	r.mu.Lock()
	out := make([]models.Draft, len(r.drafts))
	copy(out, r.drafts)
	r.mu.Unlock()

	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	for i := range out {
		out[i].Body = ""
	}
	return out, nil
}
