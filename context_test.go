package authgate

import (
	"net/http/httptest"
	"testing"
)

func TestClientIPHeaderChain(t *testing.T) {
	cases := []struct {
		name    string
		headers map[string]string
		want    string
	}{
		{
			"x-real-ip wins over everything",
			map[string]string{
				"X-Real-Ip":        "1.1.1.1",
				"X-Forwarded-For":  "2.2.2.2, 3.3.3.3",
				"Cf-Connecting-Ip": "4.4.4.4",
			},
			"1.1.1.1",
		},
		{
			"first forwarded hop when no real-ip",
			map[string]string{
				"X-Forwarded-For":  "2.2.2.2, 3.3.3.3",
				"Cf-Connecting-Ip": "4.4.4.4",
			},
			"2.2.2.2",
		},
		{
			"forwarded-for whitespace trimmed",
			map[string]string{"X-Forwarded-For": "  2.2.2.2 , 3.3.3.3"},
			"2.2.2.2",
		},
		{
			"cloudflare header as last resort",
			map[string]string{"Cf-Connecting-Ip": "4.4.4.4"},
			"4.4.4.4",
		},
		{
			"no headers",
			nil,
			"unknown",
		},
		{
			"empty forwarded-for falls through",
			map[string]string{"X-Forwarded-For": " ", "Cf-Connecting-Ip": "4.4.4.4"},
			"4.4.4.4",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/", nil)
			for k, v := range tc.headers {
				r.Header.Set(k, v)
			}
			if got := ClientIPFromRequest(r); got != tc.want {
				t.Fatalf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestRateKeyDerivation(t *testing.T) {
	if got := RateKey("login", "1.2.3.4"); got != "login:1.2.3.4" {
		t.Fatalf("got %q", got)
	}
	if got := RateKey("login", ""); got != "login:unknown" {
		t.Fatalf("got %q, empty ip must bucket as unknown", got)
	}
}
