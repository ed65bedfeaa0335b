package access

import (
	"net/http"
	"strings"
	"time"

	"testea/internal/config"
)

// SanitizeCookieName maps a project name onto the cookie-name-safe alphabet:
// every byte outside [A-Za-z0-9_-] becomes '_'. The mapping is lossy — two
// names may sanitize identically — so cookie names are a namespace, never an
// identity. Identity lives in the signed token payload.
func SanitizeCookieName(projectName string) string {
	var b strings.Builder
	b.Grow(len(projectName))
	for i := 0; i < len(projectName); i++ {
		ch := projectName[i]
		switch {
		case ch >= 'a' && ch <= 'z', ch >= 'A' && ch <= 'Z', ch >= '0' && ch <= '9', ch == '_', ch == '-':
			b.WriteByte(ch)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}

// CookieName builds the per-project cookie name under the configured prefix.
func CookieName(prefix, projectName string) string {
	return prefix + "_" + SanitizeCookieName(projectName)
}

// CookieStore persists access tokens in per-project cookies for one
// request/response cycle. Writes go to the response, reads come from the
// request, so a Set is visible to Get only on the next request — the normal
// browser round trip.
type CookieStore struct {
	w      http.ResponseWriter
	r      *http.Request
	prefix string
	secure bool
}

func NewCookieStore(w http.ResponseWriter, r *http.Request, cfg config.AccessConfig) *CookieStore {
	prefix := cfg.CookiePrefix
	if prefix == "" {
		prefix = "project_access"
	}
	return &CookieStore{w: w, r: r, prefix: prefix, secure: cfg.SecureCookies}
}

// Set writes the token cookie for the project. HttpOnly keeps the bearer
// token away from page scripts; SameSite=Lax covers the redirect-after-unlock
// flow without exposing the cookie to cross-site POSTs.
func (s *CookieStore) Set(projectName, token string, maxAge time.Duration) {
	http.SetCookie(s.w, &http.Cookie{
		Name:     CookieName(s.prefix, projectName),
		Value:    token,
		Path:     "/",
		MaxAge:   int(maxAge / time.Second),
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Get returns the stored token for the project, if any.
func (s *CookieStore) Get(projectName string) (string, bool) {
	c, err := s.r.Cookie(CookieName(s.prefix, projectName))
	if err != nil || c.Value == "" {
		return "", false
	}
	return c.Value, true
}

// Delete expires the project's cookie on the client.
func (s *CookieStore) Delete(projectName string) {
	http.SetCookie(s.w, &http.Cookie{
		Name:     CookieName(s.prefix, projectName),
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// All returns every access token the request carries, keyed by the
// sanitized name suffix of each cookie. The reverse mapping cannot recover
// the original project name; callers that need identity must verify the
// token and read the payload.
func (s *CookieStore) All() map[string]string {
	out := map[string]string{}
	prefix := s.prefix + "_"
	for _, c := range s.r.Cookies() {
		if !strings.HasPrefix(c.Name, prefix) || c.Value == "" {
			continue
		}
		out[strings.TrimPrefix(c.Name, prefix)] = c.Value
	}
	return out
}

// DeletionHeader renders a Set-Cookie header value that expires the
// project's cookie. For flows that build the response by hand and cannot
// reach the store's ResponseWriter.
func DeletionHeader(prefix, projectName string) string {
	c := http.Cookie{
		Name:     CookieName(prefix, projectName),
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	return c.String()
}
