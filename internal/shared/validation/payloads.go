package validation

// ShopCreateInput is a fully validated creation payload. Image identifiers are
// never part of it; they are set after an upload completes.
type ShopCreateInput struct {
	NameLo            string `json:"name_lo"`
	NameEn            string `json:"name_en"`
	BioLo             string `json:"bio_lo"`
	BioEn             string `json:"bio_en"`
	WhatsAppPhone     string `json:"whatsapp_phone"`
	WhatsAppMessageLo string `json:"whatsapp_message_lo"`
	WhatsAppMessageEn string `json:"whatsapp_message_en"`
	SocialJSON        string `json:"social_json"`
}

// ShopUpdateInput holds only the keys present in the request. A nil field
// means "leave the stored value unchanged".
type ShopUpdateInput struct {
	NameLo            *string `json:"name_lo,omitempty"`
	NameEn            *string `json:"name_en,omitempty"`
	BioLo             *string `json:"bio_lo,omitempty"`
	BioEn             *string `json:"bio_en,omitempty"`
	WhatsAppPhone     *string `json:"whatsapp_phone,omitempty"`
	WhatsAppMessageLo *string `json:"whatsapp_message_lo,omitempty"`
	WhatsAppMessageEn *string `json:"whatsapp_message_en,omitempty"`
	SocialJSON        *string `json:"social_json,omitempty"`
}

// IsEmpty reports whether the update carries no fields.
func (u ShopUpdateInput) IsEmpty() bool {
	return u == ShopUpdateInput{}
}

// LoginInput is a validated login request.
type LoginInput struct {
	Email    string
	Password string
}

type textField struct {
	key    string
	maxLen int
}

var (
	fieldNameLo   = textField{"name_lo", MaxName}
	fieldNameEn   = textField{"name_en", MaxName}
	fieldBioLo    = textField{"bio_lo", MaxBio}
	fieldBioEn    = textField{"bio_en", MaxBio}
	fieldMsgLo    = textField{"whatsapp_message_lo", MaxWhatsAppMsg}
	fieldMsgEn    = textField{"whatsapp_message_en", MaxWhatsAppMsg}
	fieldPhone    = "whatsapp_phone"
	fieldSocial   = "social_json"
	requiredTexts = []textField{fieldNameLo, fieldNameEn, fieldBioLo, fieldBioEn}
)

// ValidateShopCreate validates every shop field of body. Fields are checked in
// a fixed order so the first reported error is deterministic.
func ValidateShopCreate(body any) (ShopCreateInput, error) {
	b, err := asObject(body)
	if err != nil {
		return ShopCreateInput{}, err
	}

	texts := make(map[string]string, len(requiredTexts))
	for _, f := range requiredTexts {
		v, err := ValidateRequiredString(b[f.key], f.key, f.maxLen)
		if err != nil {
			return ShopCreateInput{}, err
		}
		texts[f.key] = v
	}
	phone, err := ValidateWhatsAppPhone(b[fieldPhone])
	if err != nil {
		return ShopCreateInput{}, err
	}
	msgLo, err := ValidateRequiredString(b[fieldMsgLo.key], fieldMsgLo.key, fieldMsgLo.maxLen)
	if err != nil {
		return ShopCreateInput{}, err
	}
	msgEn, err := ValidateRequiredString(b[fieldMsgEn.key], fieldMsgEn.key, fieldMsgEn.maxLen)
	if err != nil {
		return ShopCreateInput{}, err
	}
	social, err := ValidateSocialJSON(b[fieldSocial])
	if err != nil {
		return ShopCreateInput{}, err
	}

	return ShopCreateInput{
		NameLo:            texts[fieldNameLo.key],
		NameEn:            texts[fieldNameEn.key],
		BioLo:             texts[fieldBioLo.key],
		BioEn:             texts[fieldBioEn.key],
		WhatsAppPhone:     phone,
		WhatsAppMessageLo: msgLo,
		WhatsAppMessageEn: msgEn,
		SocialJSON:        social,
	}, nil
}

// ValidateShopUpdate validates only the keys present in body. An explicit
// null counts as present and fails the required-field check.
func ValidateShopUpdate(body any) (ShopUpdateInput, error) {
	b, err := asObject(body)
	if err != nil {
		return ShopUpdateInput{}, err
	}

	var out ShopUpdateInput
	text := func(f textField, dst **string) error {
		raw, ok := b[f.key]
		if !ok {
			return nil
		}
		v, err := ValidateRequiredString(raw, f.key, f.maxLen)
		if err != nil {
			return err
		}
		*dst = &v
		return nil
	}

	for _, step := range []struct {
		f   textField
		dst **string
	}{
		{fieldNameLo, &out.NameLo},
		{fieldNameEn, &out.NameEn},
		{fieldBioLo, &out.BioLo},
		{fieldBioEn, &out.BioEn},
	} {
		if err := text(step.f, step.dst); err != nil {
			return ShopUpdateInput{}, err
		}
	}
	if raw, ok := b[fieldPhone]; ok {
		v, err := ValidateWhatsAppPhone(raw)
		if err != nil {
			return ShopUpdateInput{}, err
		}
		out.WhatsAppPhone = &v
	}
	if err := text(fieldMsgLo, &out.WhatsAppMessageLo); err != nil {
		return ShopUpdateInput{}, err
	}
	if err := text(fieldMsgEn, &out.WhatsAppMessageEn); err != nil {
		return ShopUpdateInput{}, err
	}
	if raw, ok := b[fieldSocial]; ok {
		v, err := ValidateSocialJSON(raw)
		if err != nil {
			return ShopUpdateInput{}, err
		}
		out.SocialJSON = &v
	}
	return out, nil
}

// ValidateLogin validates a login body.
func ValidateLogin(body any) (LoginInput, error) {
	b, err := asObject(body)
	if err != nil {
		return LoginInput{}, err
	}
	email, err := ValidateEmail(b["email"])
	if err != nil {
		return LoginInput{}, err
	}
	password, err := ValidatePassword(b["password"])
	if err != nil {
		return LoginInput{}, err
	}
	return LoginInput{Email: email, Password: password}, nil
}
