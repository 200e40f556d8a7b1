package http

import (
	"net/http"
	"testing"
	"time"
)

func TestNewHTTPClient(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		timeout  time.Duration
		expected time.Duration
	}{
		{"explicit timeout", 90 * time.Second, 90 * time.Second},
		{"zero uses default", 0, DefaultTimeout},
		{"negative uses default", -time.Second, DefaultTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := NewHTTPClient(tt.timeout)

			if c.Timeout != tt.expected {
				t.Errorf("expected timeout %v, got %v", tt.expected, c.Timeout)
			}
			tr, ok := c.Transport.(*http.Transport)
			if !ok {
				t.Fatalf("expected *http.Transport, got %T", c.Transport)
			}
			if tr.TLSHandshakeTimeout != 5*time.Second {
				t.Errorf("unexpected TLS handshake timeout %v", tr.TLSHandshakeTimeout)
			}
			if tr.Proxy == nil {
				t.Error("expected proxy to be read from the environment")
			}
		})
	}
}
