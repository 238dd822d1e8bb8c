package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	visitorCookie = "kiosk_visitor"
	visitorMaxAge = 365 * 24 * time.Hour
)

// visitorID returns the visitor's id from the cookie, issuing a new one when
// the cookie is missing or not a UUID. With allowed origins configured the page
// calling the API may live on another site, so the cookie must be sent cross-site.
func (s *HTTPServer) visitorID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(visitorCookie); err == nil {
		if id, err := uuid.Parse(c.Value); err == nil {
			return id.String()
		}
	}

	id := uuid.NewString()
	cookie := &http.Cookie{
		Name:     visitorCookie,
		Value:    id,
		Path:     "/",
		MaxAge:   int(visitorMaxAge.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	if len(s.origins) > 0 {
		// browsers drop SameSite=None cookies that are not Secure
		cookie.SameSite = http.SameSiteNoneMode
		cookie.Secure = true
	}
	http.SetCookie(w, cookie)
	return id
}

// prefersLight reads the colour scheme hint from the client hint header or ?scheme=.
func prefersLight(r *http.Request) bool {
	hint := r.URL.Query().Get("scheme")
	if hint == "" {
		hint = r.Header.Get("Sec-CH-Prefers-Color-Scheme")
	}
	return strings.EqualFold(strings.Trim(hint, `" `), "light")
}
