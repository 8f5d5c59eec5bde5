package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/yoockh/coldreach/internal/models"
)

type DraftRepository interface {
	Insert(ctx context.Context, d *models.Draft) error
	ListRecent(ctx context.Context, limit int) ([]models.Draft, error)
}

type draftRepo struct {
	col *mongo.Collection
}

func NewDraftRepo(db *mongo.Database, collection string) DraftRepository {
	return &draftRepo{col: db.Collection(collection)}
}

func (r *draftRepo) Insert(ctx context.Context, d *models.Draft) error {
	if d.CreatedAt.IsZero() {
		d.CreatedAt = time.Now().UTC()
	}
	_, err := r.col.InsertOne(ctx, d)
	return err
}

func (r *draftRepo) ListRecent(ctx context.Context, limit int) ([]models.Draft, error) {
	if limit <= 0 {
		limit = 5
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit)).
		SetProjection(bson.M{"body": 0})

	cur, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Draft{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
