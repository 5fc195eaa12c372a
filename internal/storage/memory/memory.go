package memory

import (
	"context"
	"fmt"
	"path"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/awaisahmed1123/hadeedcart-backend/internal/domain"
	"github.com/awaisahmed1123/hadeedcart-backend/internal/storage"
	apperrors "github.com/awaisahmed1123/hadeedcart-backend/pkg/errors"
)

// Storage implements storage.Storage using an in-memory map.
// It keeps asset metadata only, not the bytes.
type Storage struct {
	mu      sync.RWMutex
	assets  map[string]domain.MediaAsset
	baseURL string
	now     func() time.Time
}

var _ storage.Storage = (*Storage)(nil)

// New creates a new in-memory media store serving URLs under baseURL.
func New(baseURL string) *Storage {
	return &Storage{
		assets:  make(map[string]domain.MediaAsset),
		baseURL: baseURL,
		now:     time.Now,
	}
}

// Upload records the asset under folder/<uuid>.
func (s *Storage) Upload(ctx context.Context, input *storage.UploadInput) (*domain.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(input.Data) == 0 {
		return nil, apperrors.InvalidInput("empty upload")
	}

	id := path.Join(input.Folder, uuid.NewString())
	ext := path.Ext(input.Filename)
	url := fmt.Sprintf("%s/media/%s%s", s.baseURL, id, ext)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.assets[id] = domain.MediaAsset{
		AssetID:   id,
		URL:       url,
		Folder:    input.Folder,
		Format:    trimDot(ext),
		Bytes:     int64(len(input.Data)),
		CreatedAt: s.now().UTC(),
	}
	return &domain.Image{AssetID: id, URL: url}, nil
}

// Delete removes one asset.
func (s *Storage) Delete(_ context.Context, assetID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.assets[assetID]; !exists {
		return apperrors.NotFound("media asset", assetID)
	}
	delete(s.assets, assetID)
	return nil
}

// DeleteMany removes every known asset of the batch.
func (s *Storage) DeleteMany(_ context.Context, assetIDs []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range assetIDs {
		delete(s.assets, id)
	}
	return nil
}

// Search returns the folder's assets newest first.
func (s *Storage) Search(_ context.Context, query storage.SearchQuery) ([]domain.MediaAsset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []domain.MediaAsset{}
	for _, a := range s.assets {
		if a.Folder == query.Folder {
			out = append(out, a)
		}
	}
	slices.SortFunc(out, func(a, b domain.MediaAsset) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	if query.MaxResults > 0 && len(out) > query.MaxResults {
		out = out[:query.MaxResults]
	}
	return out, nil
}

// Exists reports whether the asset is stored.
func (s *Storage) Exists(assetID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.assets[assetID]
	return ok
}

// Len returns the number of stored assets.
func (s *Storage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.assets)
}

func trimDot(ext string) string {
	if len(ext) > 0 && ext[0] == '.' {
		return ext[1:]
	}
	return ext
}
