package domain

import "time"

// BannerType is the storefront slot a banner is shown in.
type BannerType string

const (
	BannerTypeSlider        BannerType = "Slider"
	BannerTypeMiddle        BannerType = "Middle"
	BannerTypeAdvertisement BannerType = "Advertisement"
)

// IsValidBannerType reports whether t is a known banner slot.
func IsValidBannerType(t BannerType) bool {
	switch t {
	case BannerTypeSlider, BannerTypeMiddle, BannerTypeAdvertisement:
		return true
	}
	return false
}

// Banner is a promotional image.
type Banner struct {
	ID        string     `json:"id"`
	Image     Image      `json:"image"`
	Type      BannerType `json:"type"`
	Link      string     `json:"link,omitempty"`
	IsActive  bool       `json:"isActive"`
	CreatedAt time.Time  `json:"createdAt"`
}
