package middleware

import (
	"context"
	"net"
	"net/http"
	"strings"

	"server/internal/infra/geoip"
)

type localeKey string

const (
	// LocaleKey carries the visitor's BCP 47 language tag.
	LocaleKey localeKey = "locale"
	// CountryKey carries the visitor's ISO 3166-1 alpha-2 country code.
	CountryKey localeKey = "country"
)

const defaultLocale = "en"

var supportedLocales = map[string]struct{}{
	"en": {},
	"ko": {},
	"ja": {},
	"es": {},
	"fr": {},
	"de": {},
}

// I18N resolves the request locale and visitor country. Locale comes from the
// X-Locale header when present, otherwise from the token claim already in
// context, otherwise Accept-Language. Country is a best-effort GeoIP lookup
// on the client IP; resolver may be nil.
func I18N(resolver geoip.CountryResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			ctx = context.WithValue(ctx, LocaleKey, resolveLocale(r, ctx))

			if resolver != nil {
				if code, err := resolver.CountryCode(clientIP(r)); err == nil && code != "" {
					ctx = context.WithValue(ctx, CountryKey, code)
				}
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func resolveLocale(r *http.Request, ctx context.Context) string {
	if loc := normalizeLocale(r.Header.Get("X-Locale")); loc != "" {
		return loc
	}
	if v, ok := ctx.Value(LocaleKey).(string); ok {
		if loc := normalizeLocale(v); loc != "" {
			return loc
		}
	}
	for _, part := range strings.Split(r.Header.Get("Accept-Language"), ",") {
		lang, _, _ := strings.Cut(strings.TrimSpace(part), ";")
		if loc := normalizeLocale(lang); loc != "" {
			return loc
		}
	}
	return defaultLocale
}

func normalizeLocale(raw string) string {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if raw == "" {
		return ""
	}
	base, _, _ := strings.Cut(raw, "-")
	if _, ok := supportedLocales[base]; ok {
		return base
	}
	return ""
}

// LocaleFromContext returns the resolved locale, defaulting to "en".
func LocaleFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(LocaleKey).(string); ok && v != "" {
		return v
	}
	return defaultLocale
}

// CountryFromContext returns the visitor country code or "" when unknown.
func CountryFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(CountryKey).(string); ok {
		return v
	}
	return ""
}

func clientIP(r *http.Request) string {
	if xf := r.Header.Get("X-Forwarded-For"); xf != "" {
		first, _, _ := strings.Cut(xf, ",")
		if ip := strings.TrimSpace(first); net.ParseIP(ip) != nil {
			return ip
		}
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
