package domain

import "time"

// Media store folders.
const (
	FolderProducts = "hadeedcart_products"
	FolderBanners  = "hadeedcart_banners"
)

// MediaAsset is an entry of the media library.
type MediaAsset struct {
	AssetID   string    `json:"assetId"`
	URL       string    `json:"url"`
	Folder    string    `json:"folder"`
	Format    string    `json:"format,omitempty"`
	Bytes     int64     `json:"bytes"`
	Width     int       `json:"width,omitempty"`
	Height    int       `json:"height,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
