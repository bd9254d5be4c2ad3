package cache

import (
	"strings"
	"testing"
)

func TestLoginKey(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		ip   string
	}{
		{"IPv4", "192.168.1.1"},
		{"IPv4 localhost", "127.0.0.1"},
		{"IPv6 localhost", "::1"},
		{"IPv6 full", "2001:0db8:85a3:0000:0000:8a2e:0370:7334"},
		{"empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			key := loginKey(tt.ip)
			if !strings.HasPrefix(key, rateLimitLoginPrefix) {
				t.Fatalf("loginKey(%q) = %q, want prefix %q", tt.ip, key, rateLimitLoginPrefix)
			}
			digest := strings.TrimPrefix(key, rateLimitLoginPrefix)
			if len(digest) != 16 {
				t.Errorf("digest length = %d, want 16", len(digest))
			}
			if tt.ip != "" && strings.Contains(key, tt.ip) {
				t.Errorf("key %q leaks the raw IP", key)
			}
			if again := loginKey(tt.ip); again != key {
				t.Errorf("loginKey not deterministic: %q then %q", key, again)
			}
		})
	}
}

func TestLoginKey_SeparateBuckets(t *testing.T) {
	t.Parallel()

	pairs := [][2]string{
		{"192.168.1.1", "192.168.1.2"},
		{"127.0.0.1", "::1"},
		{"8.8.8.8", "192.168.1.1"},
	}
	for _, p := range pairs {
		if loginKey(p[0]) == loginKey(p[1]) {
			t.Errorf("%s and %s share a login bucket", p[0], p[1])
		}
	}
}
