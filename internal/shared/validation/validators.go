package validation

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Length limits, counted in Unicode code points.
const (
	MaxEmail          = 254
	MinPassword       = 8
	MaxPassword       = 256
	MaxShopID         = 64
	MaxName           = 120
	MaxBio            = 500
	MaxWhatsAppMsg    = 500
	MaxWhatsAppRaw    = 20
	MinWhatsAppDigits = 10
	MaxWhatsAppDigits = 15
	MaxSocialURL      = 500
)

var (
	emailPattern  = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	shopIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
)

// socialKeys is the fixed set of recognized social networks, in output order.
var socialKeys = []string{"facebook", "tiktok", "instagram"}

// socialLinks mirrors socialKeys so the canonical JSON keeps the same order.
type socialLinks struct {
	Facebook  string `json:"facebook,omitempty"`
	TikTok    string `json:"tiktok,omitempty"`
	Instagram string `json:"instagram,omitempty"`
}

func (s *socialLinks) set(key, value string) {
	switch key {
	case "facebook":
		s.Facebook = value
	case "tiktok":
		s.TikTok = value
	case "instagram":
		s.Instagram = value
	}
}

func length(s string) int {
	return utf8.RuneCountInString(s)
}

// ValidateEmail trims and lower-cases an email address.
func ValidateEmail(v any) (string, error) {
	s, ok := v.(string)
	if !ok || strings.TrimSpace(s) == "" {
		return "", fail("email", "Email is required and must be a non-empty string.")
	}
	email := strings.ToLower(strings.TrimSpace(s))
	if !emailPattern.MatchString(email) {
		return "", fail("email", "Invalid email format.")
	}
	if length(email) > MaxEmail {
		return "", fail("email", "Email too long.")
	}
	return email, nil
}

// ValidatePassword checks the length of a password. Passwords are returned
// unchanged; surrounding whitespace is significant.
func ValidatePassword(v any) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", fail("password", "Password must be a string.")
	}
	n := length(s)
	if n < MinPassword {
		return "", fail("password", fmt.Sprintf("Password must be at least %d characters.", MinPassword))
	}
	if n > MaxPassword {
		return "", fail("password", "Password too long.")
	}
	return s, nil
}

// ValidateShopID trims a shop identifier and checks it against [A-Za-z0-9_-]{1,64}.
func ValidateShopID(v any) (string, error) {
	s, ok := v.(string)
	if !ok || strings.TrimSpace(s) == "" {
		return "", fail("id", "Shop ID is required and must be a non-empty string.")
	}
	id := strings.TrimSpace(s)
	if length(id) > MaxShopID || !shopIDPattern.MatchString(id) {
		return "", fail("id", "Invalid shop ID format.")
	}
	return id, nil
}

// ValidateRequiredString returns the trimmed value of a mandatory text field.
func ValidateRequiredString(v any, field string, maxLen int) (string, error) {
	if v == nil {
		return "", fail(field, fmt.Sprintf("%s is required.", field))
	}
	s, ok := v.(string)
	if !ok {
		return "", fail(field, fmt.Sprintf("%s must be a string.", field))
	}
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return "", fail(field, fmt.Sprintf("%s cannot be empty.", field))
	}
	if length(trimmed) > maxLen {
		return "", fail(field, fmt.Sprintf("%s must be at most %d characters.", field, maxLen))
	}
	return trimmed, nil
}

// ValidateOptionalString returns the trimmed value of an optional text field.
// Missing, null and non-string values all become "". Only over-length fails.
func ValidateOptionalString(v any, field string, maxLen int) (string, error) {
	s, ok := v.(string)
	if !ok || s == "" {
		return "", nil
	}
	trimmed := strings.TrimSpace(s)
	if length(trimmed) > maxLen {
		return "", fail(field, fmt.Sprintf("%s must be at most %d characters.", field, maxLen))
	}
	return trimmed, nil
}

// ValidateWhatsAppPhone strips separators and a leading + from a phone number
// and returns the 10 to 15 remaining digits, country code included.
func ValidateWhatsAppPhone(v any) (string, error) {
	raw, err := ValidateRequiredString(v, "whatsapp_phone", MaxWhatsAppRaw)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if len(digits) < MinWhatsAppDigits || len(digits) > MaxWhatsAppDigits {
		return "", fail("whatsapp_phone",
			fmt.Sprintf("WhatsApp phone must be %d-%d digits (E.164).", MinWhatsAppDigits, MaxWhatsAppDigits))
	}
	return digits, nil
}

// ValidateSocialJSON accepts nil, a JSON-encoded string or a decoded object
// and returns the canonical JSON object string holding only the recognized
// keys with valid absolute URLs. Unknown keys are dropped.
func ValidateSocialJSON(v any) (string, error) {
	switch s := v.(type) {
	case nil:
		return "{}", nil
	case string:
		var decoded any
		if err := json.Unmarshal([]byte(s), &decoded); err != nil {
			return "", fail("social_json", "social_json must be valid JSON.")
		}
		obj, ok := decoded.(map[string]any)
		if !ok {
			return "", fail("social_json", "social_json must be a JSON object.")
		}
		return validateSocialLinks(obj)
	case map[string]any:
		return validateSocialLinks(s)
	default:
		return "", fail("social_json", "social_json must be an object or JSON string.")
	}
}

func validateSocialLinks(obj map[string]any) (string, error) {
	var out socialLinks
	for _, key := range socialKeys {
		s, ok := obj[key].(string)
		if !ok {
			continue
		}
		trimmed := strings.TrimSpace(s)
		if trimmed == "" {
			continue
		}
		field := "social_json." + key
		if length(trimmed) > MaxSocialURL {
			return "", fail(field, fmt.Sprintf("Social URL %s must be at most %d characters.", key, MaxSocialURL))
		}
		if !isAbsoluteURL(trimmed) {
			return "", fail(field, fmt.Sprintf("Social URL %s must be a valid URL.", key))
		}
		out.set(key, trimmed)
	}
	return canonicalJSON(out)
}

func isAbsoluteURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil || !u.IsAbs() {
		return false
	}
	return u.Host != "" || u.Opaque != ""
}

// canonicalJSON encodes without HTML escaping so stored URLs stay readable.
func canonicalJSON(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", fmt.Errorf("encode social links: %w", err)
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}

func asObject(body any) (map[string]any, error) {
	obj, ok := body.(map[string]any)
	if !ok || obj == nil {
		return nil, fail("", "Request body must be a JSON object.")
	}
	return obj, nil
}
