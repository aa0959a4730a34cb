package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

type staticCountry struct {
	code string
}

func (s staticCountry) CountryCode(string) (string, error) {
	return s.code, nil
}

func TestI18NLocaleHeaderWins(t *testing.T) {
	var gotLocale string
	h := I18N(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotLocale = LocaleFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Locale", "ko-KR")
	req.Header.Set("Accept-Language", "ja")
	h.ServeHTTP(httptest.NewRecorder(), req)

	if gotLocale != "ko" {
		t.Fatalf("locale = %q, want ko", gotLocale)
	}
}

func TestI18NAcceptLanguageFallback(t *testing.T) {
	var gotLocale string
	h := I18N(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotLocale = LocaleFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Language", "zz, fr;q=0.8")
	h.ServeHTTP(httptest.NewRecorder(), req)

	if gotLocale != "fr" {
		t.Fatalf("locale = %q, want fr", gotLocale)
	}
}

func TestI18NDefaultsToEnglish(t *testing.T) {
	var gotLocale string
	h := I18N(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotLocale = LocaleFromContext(r.Context())
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	if gotLocale != "en" {
		t.Fatalf("locale = %q, want en", gotLocale)
	}
}

func TestI18NCountryFromResolver(t *testing.T) {
	var gotCountry string
	h := I18N(staticCountry{code: "KR"})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotCountry = CountryFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "203.0.113.9:1234"
	h.ServeHTTP(httptest.NewRecorder(), req)

	if gotCountry != "KR" {
		t.Fatalf("country = %q, want KR", gotCountry)
	}
}
