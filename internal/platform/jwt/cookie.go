package jwtmw

import (
	"net/http"
	"time"
)

// CookieName is the cookie holding the admin session token.
const CookieName = "myshop_admin_session"

// SetSessionCookie stores token in the session cookie for SessionTTL.
func SetSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, sessionCookie(token, int(SessionTTL/time.Second)))
}

// ClearSessionCookie expires the session cookie immediately.
func ClearSessionCookie(w http.ResponseWriter) {
	// A negative MaxAge is written as "Max-Age=0".
	http.SetCookie(w, sessionCookie("", -1))
}

func sessionCookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
	}
}
