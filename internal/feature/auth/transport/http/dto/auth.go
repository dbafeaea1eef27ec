// Package dto defines the request and response bodies of the auth routes.
package dto

// UserResponse identifies the signed-in admin.
type UserResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// LoginResponse is returned by a successful login. The token itself travels
// only in the session cookie.
type LoginResponse struct {
	OK   bool         `json:"ok"`
	User UserResponse `json:"user"`
}

// OKResponse is the body of logout.
type OKResponse struct {
	OK bool `json:"ok"`
}

// SeedRequest is the body of POST /api/seed. Fields stay untyped so the
// validator can report wrong types with its own messages.
type SeedRequest struct {
	Secret   any `json:"secret"`
	Email    any `json:"email"`
	Password any `json:"password"`
}

// SeedResponse is returned by a successful seed.
type SeedResponse struct {
	OK      bool   `json:"ok"`
	Email   string `json:"email"`
	ShopID  string `json:"shopId"`
	Message string `json:"message"`
}
