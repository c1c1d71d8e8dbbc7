package middleware

import (
	"net/http"

	"foidesk/internal/locale"
)

// Locale negotiates the request locale from the ?locale= query parameter
// or the Accept-Language header, stores it in the request context and
// echoes it in Content-Language.
func Locale(p *locale.Provider) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			code := p.Match(r.URL.Query().Get("locale"), r.Header.Get("Accept-Language"))
			w.Header().Set("Content-Language", code)
			w.Header().Add("Vary", "Accept-Language")
			next.ServeHTTP(w, r.WithContext(locale.WithLocale(r.Context(), code)))
		})
	}
}
