package postgres

import (
	"context"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"

	"github.com/yoockh/coldreach/internal/models"
)

type PortfolioRepo interface {
	Count(ctx context.Context) (int64, error)
	Replace(ctx context.Context, items []models.PortfolioItem) error
	Nearest(ctx context.Context, vec []float32, n int) ([]models.PortfolioMatch, error)
}

type portfolioRepo struct {
	db *gorm.DB
}

func NewPortfolioRepo(db *gorm.DB) PortfolioRepo {
	return &portfolioRepo{db: db}
}

func (r *portfolioRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.PortfolioItem{}).Count(&n).Error
	return n, err
}

// Replace swaps the whole collection in one transaction.
func (r *portfolioRepo) Replace(ctx context.Context, items []models.PortfolioItem) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM portfolio_items").Error; err != nil {
			return err
		}
		if len(items) == 0 {
			return nil
		}
		return tx.CreateInBatches(items, 100).Error
	})
}

func (r *portfolioRepo) Nearest(ctx context.Context, vec []float32, n int) ([]models.PortfolioMatch, error) {
	if n <= 0 {
		n = 2
	}
	var rows []models.PortfolioMatch
	err := r.db.WithContext(ctx).
		Raw("SELECT skill, link, embedding <=> ? AS distance FROM portfolio_items ORDER BY distance LIMIT ?",
			pgvector.NewVector(vec), n).
		Scan(&rows).Error
	return rows, err
}
