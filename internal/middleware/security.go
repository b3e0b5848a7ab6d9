package middleware

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/foodlog/foodlog/internal/ctxkeys"
)

// Third-party script origins used by the layout.
const scriptCDN = "https://unpkg.com"

// SecurityHeaders sets the CSP and the usual hardening headers. Images may
// come from the object store, Google avatars and any https URL saved as an
// absolute image reference.
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Content-Security-Policy", contentSecurityPolicy(r))
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")

		cfg := ctxkeys.Config(r.Context())
		if cfg != nil && cfg.IsProduction() {
			h.Set("Strict-Transport-Security", "max-age=63072000; includeSubDomains")
		}

		next.ServeHTTP(w, r)
	})
}

func contentSecurityPolicy(r *http.Request) string {
	scriptSrc := []string{"'self'", scriptCDN}
	if nonce := GetNonce(r.Context()); nonce != "" {
		scriptSrc = append(scriptSrc, fmt.Sprintf("'nonce-%s'", nonce))
	}

	imgSrc := []string{"'self'", "data:", "blob:", "https:"}
	connectSrc := []string{"'self'", "ws:", "wss:"}
	if cfg := ctxkeys.Config(r.Context()); cfg != nil && cfg.S3Endpoint != "" {
		if u, err := url.Parse(cfg.S3Endpoint); err == nil && u.Host != "" {
			// local MinIO is usually plain http
			imgSrc = append(imgSrc, u.Scheme+"://"+u.Host)
		}
	}

	directives := []string{
		"default-src 'self'",
		"script-src " + strings.Join(scriptSrc, " "),
		"style-src 'self' 'unsafe-inline'",
		"img-src " + strings.Join(imgSrc, " "),
		"connect-src " + strings.Join(connectSrc, " "),
		"frame-ancestors 'none'",
		"form-action 'self' https://accounts.google.com",
		"base-uri 'self'",
	}
	return strings.Join(directives, "; ")
}
