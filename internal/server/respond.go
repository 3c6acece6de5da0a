package server

import (
	"encoding/json"
	"net/http"
)

// tokenCookieName is the cookie carrying the capability token. The cookie
// is deliberately not HTTP-only: the browser frontend reads it.
const tokenCookieName = "token"

// tokenCookieMaxAge is one year in seconds. The cookie lifetime is a
// transport detail only; server-side validity is purely set membership.
const tokenCookieMaxAge = 365 * 24 * 60 * 60

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// requestToken reads the capability token from the inbound cookie, if any.
func requestToken(r *http.Request) string {
	cookie, err := r.Cookie(tokenCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

func setTokenCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     tokenCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   tokenCookieMaxAge,
		HttpOnly: false,
	})
}

func clearTokenCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     tokenCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: false,
	})
}
