// Package entity defines the domain entities for the shop feature.
package entity

// Shop is the stored shop profile. Timestamps are epoch seconds.
type Shop struct {
	ID                string  `gorm:"primaryKey;size:64" json:"id"`
	NameLo            string  `gorm:"size:120;not null" json:"name_lo"`
	NameEn            string  `gorm:"size:120;not null" json:"name_en"`
	BioLo             string  `gorm:"size:500;not null" json:"bio_lo"`
	BioEn             string  `gorm:"size:500;not null" json:"bio_en"`
	WhatsAppPhone     string  `gorm:"column:whatsapp_phone;size:20;not null" json:"whatsapp_phone"`
	WhatsAppMessageLo string  `gorm:"column:whatsapp_message_lo;size:500;not null" json:"whatsapp_message_lo"`
	WhatsAppMessageEn string  `gorm:"column:whatsapp_message_en;size:500;not null" json:"whatsapp_message_en"`
	ProfileImageID    *string `json:"profile_image_id"`
	CoverImageID      *string `json:"cover_image_id"`
	// SocialJSON is always a canonical JSON object string.
	SocialJSON string `gorm:"column:social_json;not null;default:'{}'" json:"social_json"`
	CreatedAt  int64  `gorm:"autoCreateTime:false;not null" json:"created_at"`
	UpdatedAt  int64  `gorm:"autoUpdateTime:false;not null;index" json:"updated_at"`
}

// TableName pins the table name.
func (Shop) TableName() string { return "shops" }

// SocialLinks is the parsed form of Shop.SocialJSON.
type SocialLinks struct {
	Facebook  string `json:"facebook,omitempty"`
	TikTok    string `json:"tiktok,omitempty"`
	Instagram string `json:"instagram,omitempty"`
}

// PublicShop is the unauthenticated projection of a Shop. It is computed on
// every read and never stored.
type PublicShop struct {
	ID                string      `json:"id"`
	NameLo            string      `json:"name_lo"`
	NameEn            string      `json:"name_en"`
	BioLo             string      `json:"bio_lo"`
	BioEn             string      `json:"bio_en"`
	WhatsAppPhone     string      `json:"whatsapp_phone"`
	WhatsAppMessageLo string      `json:"whatsapp_message_lo"`
	WhatsAppMessageEn string      `json:"whatsapp_message_en"`
	ProfileImageURL   *string     `json:"profile_image_url"`
	CoverImageURL     *string     `json:"cover_image_url"`
	Social            SocialLinks `json:"social"`
}

// Summary is one row of the admin shop list.
type Summary struct {
	ID        string `json:"id"`
	NameLo    string `json:"name_lo"`
	NameEn    string `json:"name_en"`
	UpdatedAt int64  `json:"updated_at"`
}

// ImageKind selects which image slot of a shop is addressed.
type ImageKind string

const (
	ImageProfile ImageKind = "profile"
	ImageCover   ImageKind = "cover"
)

// Valid reports whether k is a known slot.
func (k ImageKind) Valid() bool {
	return k == ImageProfile || k == ImageCover
}

// NewSampleShop returns the shop created by the one-time bootstrap.
func NewSampleShop(id string, now int64) *Shop {
	return &Shop{
		ID:                id,
		NameLo:            "ຮ້ານຕົວຢ່າງ",
		NameEn:            "Sample Shop",
		BioLo:             "ຄຳອະທິບາຍ",
		BioEn:             "Short bio",
		WhatsAppPhone:     "8562012345678",
		WhatsAppMessageLo: "ສະບາຍດີ",
		WhatsAppMessageEn: "Hello",
		SocialJSON:        "{}",
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}
