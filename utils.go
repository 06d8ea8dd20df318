package main

import (
	"encoding/json"
	"net/http"
)

// cookieMaxAge is the session cookie lifetime in seconds, matching the token.
const cookieMaxAge = 86400

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// setSessionCookie installs the signed token on the client. One consistent
// configuration: HttpOnly, SameSite=Lax, Secure and Domain from config.
func (app *App) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		Domain:   app.cfg.CookieDomain,
		MaxAge:   cookieMaxAge,
		HttpOnly: true,
		Secure:   app.cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

// clearSessionCookie overwrites the cookie so the client discards it
// immediately.
func (app *App) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		Domain:   app.cfg.CookieDomain,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   app.cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}
