package cache

import (
	"testing"
	"time"

	"github.com/quillnote/quillnote/internal/model"
)

func TestSessionKey(t *testing.T) {
	t.Parallel()

	if got := sessionKey("abc"); got != "session:abc" {
		t.Errorf("sessionKey = %q, want %q", got, "session:abc")
	}
}

func TestKeyTTL(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	future := now.Add(time.Hour)
	past := now.Add(-time.Second)

	tests := []struct {
		name    string
		expires *time.Time
		wantTTL time.Duration
		wantOK  bool
	}{
		{"no expiry", nil, 0, true},
		{"future expiry", &future, time.Hour, true},
		{"already expired", &past, 0, false},
		{"expiring now", &now, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ttl, ok := keyTTL(&model.Session{ExpiresAt: tt.expires}, now)
			if ttl != tt.wantTTL || ok != tt.wantOK {
				t.Errorf("keyTTL = (%v, %v), want (%v, %v)", ttl, ok, tt.wantTTL, tt.wantOK)
			}
		})
	}
}

func TestDecodeSession_Corrupt(t *testing.T) {
	t.Parallel()

	if _, err := decodeSession("h", []byte("{not json")); err == nil {
		t.Error("expected error for corrupt payload")
	}
}

func TestEncodeDecodeSession_KeepsIdentityAndExpiry(t *testing.T) {
	t.Parallel()

	expires := time.Date(2024, 1, 1, 1, 0, 0, 0, time.UTC)
	in := &model.Session{
		TokenHash:  "h",
		IdentityID: "01HID",
		CreatedAt:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		ExpiresAt:  &expires,
	}

	data, err := encodeSession(in)
	if err != nil {
		t.Fatalf("encodeSession: %v", err)
	}
	out, err := decodeSession("h", data)
	if err != nil {
		t.Fatalf("decodeSession: %v", err)
	}
	if out.IdentityID != in.IdentityID || out.TokenHash != "h" {
		t.Errorf("decoded %+v, want identity %q", out, in.IdentityID)
	}
	if out.ExpiresAt == nil || !out.ExpiresAt.Equal(expires) {
		t.Errorf("ExpiresAt = %v, want %v", out.ExpiresAt, expires)
	}
}
