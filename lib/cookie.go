package lib

import (
	"net/http"
	"sinemagic_server/config"
	"time"
)

const (
	ClientCookieName = "sm_client"
	CSRFCookieName   = "csrf"
	CSRFHeaderName   = "X-CSRF-Token"
)

func cookieBase(key, val string) *http.Cookie {
	cookie := &http.Cookie{
		Name:     key,
		Value:    val,
		Path:     "/",
		SameSite: http.SameSiteLaxMode,
		HttpOnly: true,
	}

	if config.IsProduction() {
		// www and api live on different subdomains in production
		cookie.SameSite = http.SameSiteNoneMode
		cookie.Secure = true
		cookie.Domain = config.GetConfig().Server.CookieDomain
	}

	return cookie
}

// SetCookie sets a secure, HttpOnly cookie for session usage
func SetCookie(key, val string, expiry time.Time, w http.ResponseWriter) {
	cookie := cookieBase(key, val)
	cookie.Expires = expiry
	http.SetCookie(w, cookie)
}

func GetCookieValue(key string, r *http.Request) (string, error) {
	cookie, err := r.Cookie(key)
	if err != nil {
		return "", err
	}
	return cookie.Value, nil
}

// ClearCookie removes the cookie from the browser
func ClearCookie(key string, w http.ResponseWriter) {
	cookie := cookieBase(key, "")
	cookie.Expires = time.Now().Add(-time.Hour)
	cookie.MaxAge = -1
	http.SetCookie(w, cookie)
}

// SetCSRFCookie sets a CSRF token cookie that must be readable by JavaScript
func SetCSRFCookie(val string, expiry time.Time, w http.ResponseWriter) {
	cookie := cookieBase(CSRFCookieName, val)
	cookie.Expires = expiry
	cookie.MaxAge = int(time.Until(expiry).Seconds())
	cookie.HttpOnly = false
	http.SetCookie(w, cookie)
}
