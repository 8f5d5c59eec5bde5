package services

import (
	"bytes"
	"context"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/yoockh/coldreach/internal/portfolio"
	"github.com/yoockh/coldreach/internal/utils"
)

const maxPortfolioBytes = 5 << 20

type PortfolioService interface {
	// Replace validates a CSV upload, re-indexes it and then overwrites the portfolio file.
	Replace(ctx context.Context, r io.Reader) (int, error)
	Count(ctx context.Context) int64
}

type portfolioService struct {
	index *portfolio.Index
	log   *logrus.Logger
}

func NewPortfolioService(idx *portfolio.Index, log *logrus.Logger) PortfolioService {
	return &portfolioService{index: idx, log: log}
}

func (s *portfolioService) Replace(ctx context.Context, r io.Reader) (int, error) {
	const op = "PortfolioService.Replace"

	b, err := io.ReadAll(io.LimitReader(r, maxPortfolioBytes+1))
	if err != nil {
		return 0, utils.E(utils.CodeInvalidArgument, op, "failed to read upload", err)
	}
	if len(b) > maxPortfolioBytes {
		return 0, utils.E(utils.CodeInvalidArgument, op, "portfolio file is too large", nil)
	}
	entries, err := portfolio.ReadCSV(bytes.NewReader(b))
	if err != nil {
		return 0, utils.E(utils.CodeInvalidArgument, op, "invalid portfolio csv", err)
	}
	if len(entries) == 0 {
		return 0, utils.E(utils.CodeInvalidArgument, op, "portfolio csv has no usable rows", nil)
	}

	n, err := s.index.Replace(ctx, b)
	if err != nil {
		return 0, err
	}
	s.log.WithFields(logrus.Fields{"op": op, "items": n}).Info("portfolio replaced")
	return n, nil
}

// Count returns the indexed item count, or 0 when the store is unreachable.
func (s *portfolioService) Count(ctx context.Context) int64 {
	n, err := s.index.Count(ctx)
	if err != nil {
		s.log.WithError(err).Warn("portfolio count failed")
		return 0
	}
	return n
}
