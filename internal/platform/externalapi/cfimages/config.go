// Package cfimages provides a client for the Cloudflare Images API.
package cfimages

import (
	"strings"
	"time"
)

// Default endpoints and variants.
const (
	DefaultAPIBase       = "https://api.cloudflare.com/client/v4/accounts"
	DefaultDeliveryBase  = "https://imagedelivery.net"
	DefaultAvatarVariant = "avatar"
	DefaultCoverVariant  = "cover"
)

// Config holds configuration for the image service.
type Config struct {
	AccountID     string        // account that owns the uploads
	AccountHash   string        // public hash used in delivery URLs
	APIToken      string        // token with Images edit permission
	APIBase       string        // e.g. "https://api.cloudflare.com/client/v4/accounts"
	DeliveryBase  string        // e.g. "https://imagedelivery.net"
	AvatarVariant string        // variant for profile images
	CoverVariant  string        // variant for cover images
	Timeout       time.Duration // HTTP request timeout
}

// UploadsConfigured reports whether direct uploads can be requested.
func (c Config) UploadsConfigured() bool {
	return c.AccountID != "" && c.APIToken != ""
}

// Delivery returns the read-side settings with defaults applied.
func (c Config) Delivery() Delivery {
	d := Delivery{
		BaseURL:       strings.TrimRight(c.DeliveryBase, "/"),
		AccountHash:   c.AccountHash,
		AvatarVariant: c.AvatarVariant,
		CoverVariant:  c.CoverVariant,
	}
	if d.BaseURL == "" {
		d.BaseURL = DefaultDeliveryBase
	}
	if d.AvatarVariant == "" {
		d.AvatarVariant = DefaultAvatarVariant
	}
	if d.CoverVariant == "" {
		d.CoverVariant = DefaultCoverVariant
	}
	return d
}

// Delivery builds public image URLs.
type Delivery struct {
	BaseURL       string
	AccountHash   string
	AvatarVariant string
	CoverVariant  string
}

// Enabled reports whether an account hash is configured.
func (d Delivery) Enabled() bool {
	return d.AccountHash != ""
}

// URL returns {base}/{account hash}/{image id}/{variant}.
func (d Delivery) URL(imageID, variant string) string {
	base := d.BaseURL
	if base == "" {
		base = DefaultDeliveryBase
	}
	return base + "/" + d.AccountHash + "/" + imageID + "/" + variant
}
