package portfolio

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"github.com/sirupsen/logrus"
	"github.com/tmc/langchaingo/embeddings"
	"gorm.io/datatypes"

	"github.com/yoockh/coldreach/internal/models"
	"github.com/yoockh/coldreach/internal/utils"
)

// Index embeds the portfolio CSV into a vector store and answers link lookups.
type Index struct {
	path     string
	vectors  VectorStore
	embedder embeddings.Embedder
	results  int
	log      *logrus.Logger

	mu sync.Mutex
}

func NewIndex(path string, store VectorStore, embedder embeddings.Embedder, results int, log *logrus.Logger) *Index {
	if results <= 0 {
		results = 2
	}
	return &Index{path: path, vectors: store, embedder: embedder, results: results, log: log}
}

// Path is the CSV file the index reads from.
func (i *Index) Path() string { return i.path }

// Load indexes the CSV if the collection is empty. It reports whether the
// collection holds any entries afterwards.
func (i *Index) Load(ctx context.Context) (bool, error) {
	const op = "PortfolioIndex.Load"

	i.mu.Lock()
	defer i.mu.Unlock()

	n, err := i.vectors.Count(ctx)
	if err != nil {
		return false, utils.E(utils.CodeUnavailable, op, "failed to count portfolio", err)
	}
	if n > 0 {
		return true, nil
	}
	added, err := i.reindex(ctx, op)
	if err != nil {
		return false, err
	}
	return added > 0, nil
}

// Reload re-reads the CSV and replaces the whole collection.
func (i *Index) Reload(ctx context.Context) (int, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.reindex(ctx, "PortfolioIndex.Reload")
}

func (i *Index) Count(ctx context.Context) (int64, error) {
	return i.vectors.Count(ctx)
}

func (i *Index) reindex(ctx context.Context, op string) (int, error) {
	f, err := os.Open(i.path)
	if errors.Is(err, fs.ErrNotExist) {
		return 0, utils.E(utils.CodeNotFound, op, "portfolio file not found: "+i.path, err)
	}
	if err != nil {
		return 0, utils.E(utils.CodeInternal, op, "failed to open portfolio", err)
	}
	defer f.Close()

	entries, err := ReadCSV(f)
	if err != nil {
		return 0, utils.E(utils.CodeInvalidArgument, op, "invalid portfolio csv", err)
	}
	return i.store(ctx, op, entries)
}

// Replace indexes data and installs it as the portfolio file. The file on
// disk is only swapped once the store holds the new entries, so a failed
// embed or store leaves both on the previous portfolio.
func (i *Index) Replace(ctx context.Context, data []byte) (int, error) {
	const op = "PortfolioIndex.Replace"

	entries, err := ReadCSV(bytes.NewReader(data))
	if err != nil {
		return 0, utils.E(utils.CodeInvalidArgument, op, "invalid portfolio csv", err)
	}

	i.mu.Lock()
	defer i.mu.Unlock()

	dir := filepath.Dir(i.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, utils.E(utils.CodeInternal, op, "failed to prepare portfolio dir", err)
	}
	tmp, err := os.CreateTemp(dir, ".portfolio-*.csv")
	if err != nil {
		return 0, utils.E(utils.CodeInternal, op, "failed to stage portfolio", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	_, werr := tmp.Write(data)
	if cerr := tmp.Close(); werr == nil {
		werr = cerr
	}
	if werr != nil {
		return 0, utils.E(utils.CodeInternal, op, "failed to stage portfolio", werr)
	}

	n, err := i.store(ctx, op, entries)
	if err != nil {
		return 0, err
	}
	if err := os.Rename(tmpName, i.path); err != nil {
		return 0, utils.E(utils.CodeInternal, op, "failed to install portfolio", err)
	}
	return n, nil
}

func (i *Index) store(ctx context.Context, op string, entries []Entry) (int, error) {
	texts := make([]string, len(entries))
	for k, e := range entries {
		texts[k] = e.Skill
	}
	var (
		vecs [][]float32
		err  error
	)
	if len(texts) > 0 {
		vecs, err = i.embedder.EmbedDocuments(ctx, texts)
		if err != nil {
			return 0, utils.E(utils.CodeUnavailable, op, "failed to embed portfolio", err)
		}
		if len(vecs) != len(texts) {
			return 0, utils.E(utils.CodeInternal, op, "embedder returned wrong number of vectors", nil)
		}
	}

	now := time.Now().UTC()
	items := make([]models.PortfolioItem, len(entries))
	for k, e := range entries {
		var meta datatypes.JSON
		if len(e.Extra) > 0 {
			b, _ := json.Marshal(e.Extra)
			meta = datatypes.JSON(b)
		}
		items[k] = models.PortfolioItem{
			ID:        uuid.NewString(),
			Skill:     e.Skill,
			Link:      e.Link,
			Tags:      Tags(e.Skill),
			Metadata:  meta,
			Embedding: pgvector.NewVector(vecs[k]),
			CreatedAt: now,
		}
	}

	if err := i.vectors.Replace(ctx, items); err != nil {
		return 0, utils.E(utils.CodeUnavailable, op, "failed to store portfolio", err)
	}

	i.log.WithFields(logrus.Fields{
		"op":    op,
		"path":  i.path,
		"items": len(items),
	}).Info("portfolio indexed")
	return len(items), nil
}

// QueryLinks returns the links of the nearest entries for every skill, in
// query order, without duplicates.
func (i *Index) QueryLinks(ctx context.Context, skills []string) ([]string, error) {
	const op = "PortfolioIndex.QueryLinks"

	links := []string{}
	seen := make(map[string]struct{})
	for _, s := range skills {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		vec, err := i.embedder.EmbedQuery(ctx, s)
		if err != nil {
			return nil, utils.E(utils.CodeUnavailable, op, "failed to embed skill", err)
		}
		matches, err := i.vectors.Nearest(ctx, vec, i.results)
		if err != nil {
			return nil, utils.E(utils.CodeUnavailable, op, "portfolio lookup failed", err)
		}
		for _, m := range matches {
			if _, dup := seen[m.Link]; dup {
				continue
			}
			seen[m.Link] = struct{}{}
			links = append(links, m.Link)
		}
	}
	return links, nil
}
