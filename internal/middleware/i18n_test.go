package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func serveWithI18N(t *testing.T, configure func(*http.Request), lookup CountryLookup) (string, string) {
	t.Helper()
	var locale, country string
	handler := I18N("en", lookup)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		locale = LocaleFromContext(r.Context())
		country = CountryFromContext(r.Context())
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	configure(req)
	handler.ServeHTTP(httptest.NewRecorder(), req)
	return locale, country
}

func TestI18NLocaleDetection(t *testing.T) {
	tests := []struct {
		name      string
		configure func(*http.Request)
		want      string
	}{
		{
			name:      "x-locale header wins",
			configure: func(r *http.Request) { r.Header.Set("X-Locale", "id-ID") },
			want:      "id",
		},
		{
			name:      "accept-language matched",
			configure: func(r *http.Request) { r.Header.Set("Accept-Language", "es-MX,es;q=0.9,en;q=0.5") },
			want:      "es",
		},
		{
			name:      "unsupported falls back to default",
			configure: func(r *http.Request) { r.Header.Set("Accept-Language", "zz") },
			want:      "en",
		},
		{
			name:      "no headers use default",
			configure: func(r *http.Request) {},
			want:      "en",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			locale, _ := serveWithI18N(t, tc.configure, nil)
			if locale != tc.want {
				t.Fatalf("locale = %q, want %q", locale, tc.want)
			}
		})
	}
}

func TestI18NCountryResolution(t *testing.T) {
	_, country := serveWithI18N(t, func(r *http.Request) {
		r.Header.Set("CF-IPCountry", "au")
	}, nil)
	if country != "AU" {
		t.Fatalf("country = %q, want AU", country)
	}

	lookup := func(ip string) (string, error) { return "de", nil }
	_, country = serveWithI18N(t, func(r *http.Request) {
		r.RemoteAddr = "198.51.100.10:1234"
	}, lookup)
	if country != "DE" {
		t.Fatalf("country = %q, want DE", country)
	}
}
