package cache

import (
	"testing"
	"time"
)

func TestEntry_IsExpired(t *testing.T) {
	tests := []struct {
		name    string
		expires time.Time
		want    bool
	}{
		{
			name:    "future expiry",
			expires: time.Now().Add(1 * time.Hour),
			want:    false,
		},
		{
			name:    "past expiry",
			expires: time.Now().Add(-1 * time.Minute),
			want:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := &Entry{
				Data:     []byte(`{}`),
				CachedAt: time.Now().Add(-1 * time.Hour),
				Expires:  tt.expires,
			}
			if got := e.IsExpired(); got != tt.want {
				t.Errorf("IsExpired() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEntry_TTL(t *testing.T) {
	e := &Entry{Expires: time.Now().Add(10 * time.Minute)}
	ttl := e.TTL()
	if ttl <= 9*time.Minute || ttl > 10*time.Minute {
		t.Errorf("TTL() = %v, want just under 10m", ttl)
	}

	expired := &Entry{Expires: time.Now().Add(-1 * time.Minute)}
	if got := expired.TTL(); got != 0 {
		t.Errorf("TTL() = %v for expired entry, want 0", got)
	}
}
