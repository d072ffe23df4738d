package utils

import (
	"net/http/httptest"
	"testing"
)

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		xff        string
		realIP     string
		trustProxy bool
		want       string
	}{
		{"remote addr only", "10.0.0.1:1234", "", "", false, "10.0.0.1"},
		{"ignores xff when proxy untrusted", "10.0.0.1:1234", "1.2.3.4", "", false, "10.0.0.1"},
		{"prefers xff when trusted", "10.0.0.1:1234", "1.2.3.4", "", true, "1.2.3.4"},
		{"first xff hop wins", "10.0.0.1:1234", "1.2.3.4, 5.6.7.8", "", true, "1.2.3.4"},
		{"falls back to real ip", "10.0.0.1:1234", "", "9.9.9.9", true, "9.9.9.9"},
		{"ipv6 remote", "[::1]:1234", "", "", false, "::1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/", nil)
			r.RemoteAddr = tt.remoteAddr
			if tt.xff != "" {
				r.Header.Set("X-Forwarded-For", tt.xff)
			}
			if tt.realIP != "" {
				r.Header.Set("X-Real-IP", tt.realIP)
			}
			if got := ClientIP(r, tt.trustProxy); got != tt.want {
				t.Errorf("ClientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIPMatcher(t *testing.T) {
	m := NewIPMatcher([]string{"10.0.0.0/8", "192.168.1.5", " ", "garbage"})

	if m.IsEmpty() {
		t.Fatal("matcher should not be empty")
	}
	if !m.Allow("10.1.2.3") {
		t.Error("CIDR member rejected")
	}
	if !m.Allow("192.168.1.5") {
		t.Error("exact IP rejected")
	}
	if m.Allow("8.8.8.8") {
		t.Error("outsider allowed")
	}
	if m.Allow("not-an-ip") {
		t.Error("garbage input allowed")
	}

	if !NewIPMatcher(nil).IsEmpty() {
		t.Error("empty list should produce an empty matcher")
	}
}
