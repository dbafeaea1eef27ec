// Package mapper converts between validated payloads, stored shop rows and
// the public projection.
package mapper

import (
	"encoding/json"

	"myshop_backend/internal/feature/shop/domain/entity"
	"myshop_backend/internal/platform/externalapi/cfimages"
	"myshop_backend/internal/shared/validation"
)

// NewShop builds a row from a validated creation payload.
func NewShop(id string, in validation.ShopCreateInput, now int64) *entity.Shop {
	return &entity.Shop{
		ID:                id,
		NameLo:            in.NameLo,
		NameEn:            in.NameEn,
		BioLo:             in.BioLo,
		BioEn:             in.BioEn,
		WhatsAppPhone:     in.WhatsAppPhone,
		WhatsAppMessageLo: in.WhatsAppMessageLo,
		WhatsAppMessageEn: in.WhatsAppMessageEn,
		SocialJSON:        in.SocialJSON,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}

// ApplyUpdate copies every field present in in onto s and stamps UpdatedAt,
// even when in is empty.
func ApplyUpdate(s *entity.Shop, in validation.ShopUpdateInput, now int64) {
	set := func(dst *string, v *string) {
		if v != nil {
			*dst = *v
		}
	}
	set(&s.NameLo, in.NameLo)
	set(&s.NameEn, in.NameEn)
	set(&s.BioLo, in.BioLo)
	set(&s.BioEn, in.BioEn)
	set(&s.WhatsAppPhone, in.WhatsAppPhone)
	set(&s.WhatsAppMessageLo, in.WhatsAppMessageLo)
	set(&s.WhatsAppMessageEn, in.WhatsAppMessageEn)
	set(&s.SocialJSON, in.SocialJSON)
	s.UpdatedAt = now
}

// SetImage points the slot kind of s at imageID and stamps UpdatedAt.
func SetImage(s *entity.Shop, kind entity.ImageKind, imageID string, now int64) {
	id := imageID
	switch kind {
	case entity.ImageProfile:
		s.ProfileImageID = &id
	case entity.ImageCover:
		s.CoverImageID = &id
	}
	s.UpdatedAt = now
}

// ParseSocial decodes the stored social links. Anything that is not a JSON
// object yields empty links.
func ParseSocial(raw string) entity.SocialLinks {
	var links entity.SocialLinks
	if raw == "" || !json.Valid([]byte(raw)) {
		return entity.SocialLinks{}
	}
	if err := json.Unmarshal([]byte(raw), &links); err != nil {
		// valid JSON but not an object, or a key holding a non-string
		return entity.SocialLinks{}
	}
	return links
}

// ToPublicShop projects s for unauthenticated readers. Image URLs are nil
// when the id is unset or no delivery account hash is configured.
func ToPublicShop(s entity.Shop, d cfimages.Delivery) entity.PublicShop {
	return entity.PublicShop{
		ID:                s.ID,
		NameLo:            s.NameLo,
		NameEn:            s.NameEn,
		BioLo:             s.BioLo,
		BioEn:             s.BioEn,
		WhatsAppPhone:     s.WhatsAppPhone,
		WhatsAppMessageLo: s.WhatsAppMessageLo,
		WhatsAppMessageEn: s.WhatsAppMessageEn,
		ProfileImageURL:   imageURL(d, s.ProfileImageID, d.AvatarVariant),
		CoverImageURL:     imageURL(d, s.CoverImageID, d.CoverVariant),
		Social:            ParseSocial(s.SocialJSON),
	}
}

func imageURL(d cfimages.Delivery, imageID *string, variant string) *string {
	if imageID == nil || *imageID == "" || !d.Enabled() {
		return nil
	}
	u := d.URL(*imageID, variant)
	return &u
}
