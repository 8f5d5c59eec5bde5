package file

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/yoockh/coldreach/internal/models"
	"github.com/yoockh/coldreach/internal/utils"
)

type ProfileRepository interface {
	// Get returns utils.ErrNotFound when no profile has been saved.
	Get(ctx context.Context) (*models.Profile, error)
	Save(ctx context.Context, p models.Profile) error
	Delete(ctx context.Context) error
}

type profileRepo struct {
	path string
	mu   sync.Mutex
}

// NewProfileRepo stores the profile as indented JSON at path.
func NewProfileRepo(path string) ProfileRepository {
	return &profileRepo{path: path}
}

func (r *profileRepo) Get(_ context.Context) (*models.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, err := os.ReadFile(r.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, utils.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	p := models.WithPreferenceDefaults()
	if err := json.Unmarshal(b, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Save overwrites the file wholesale through a temp file and rename.
func (r *profileRepo) Save(_ context.Context, p models.Profile) error {
	b, err := json.MarshalIndent(p, "", "    ")
	if err != nil {
		return err
	}
	b = append(b, '\n')

	r.mu.Lock()
	defer r.mu.Unlock()

	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".profile-*.json")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(b); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), r.path)
}

func (r *profileRepo) Delete(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	err := os.Remove(r.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// Export returns the saved file content, or the JSON of fallback when none exists.
func Export(ctx context.Context, repo ProfileRepository, fallback models.Profile) ([]byte, error) {
	p, err := repo.Get(ctx)
	if errors.Is(err, utils.ErrNotFound) {
		p = &fallback
	} else if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "    ")
	if err := enc.Encode(p); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
