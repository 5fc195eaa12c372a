// Package storage defines the media store that product, variation and banner
// images are offloaded to.
package storage

import (
	"context"

	"github.com/awaisahmed1123/hadeedcart-backend/internal/domain"
)

// Storage defines the interface for media asset operations.
type Storage interface {
	// Upload stores an image in a folder and returns its asset id and URL.
	Upload(ctx context.Context, input *UploadInput) (*domain.Image, error)

	// Delete removes a single asset. Unknown ids yield apperrors.NotFound.
	Delete(ctx context.Context, assetID string) error

	// DeleteMany removes a batch of assets. Unknown ids are ignored.
	DeleteMany(ctx context.Context, assetIDs []string) error

	// Search lists the assets of a folder, newest first.
	Search(ctx context.Context, query SearchQuery) ([]domain.MediaAsset, error)
}

// UploadInput holds the parameters for uploading an image.
type UploadInput struct {
	Folder      string
	Filename    string
	ContentType string
	Data        []byte
}

// SearchQuery selects the assets of one folder.
type SearchQuery struct {
	Folder     string
	MaxResults int
}
