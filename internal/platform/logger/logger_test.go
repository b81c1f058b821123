package logger

import (
	"strings"
	"testing"
)

func TestSanitizeRedactsSecretsAndHashesIDs(t *testing.T) {
	kv := sanitizeKVs([]interface{}{
		"access_token", "abc",
		"user_id", "7f1c2d9e-0000-4000-8000-000000000001",
		"track", "defender",
	})
	if len(kv) != 6 {
		t.Fatalf("len=%d", len(kv))
	}
	if kv[1] != "[REDACTED]" {
		t.Fatalf("token not redacted: %v", kv[1])
	}
	if s, _ := kv[3].(string); !strings.HasPrefix(s, "hash:") {
		t.Fatalf("user_id not hashed: %v", kv[3])
	}
	if kv[5] != "defender" {
		t.Fatalf("plain value changed: %v", kv[5])
	}
}

func TestSanitizeOddKeyCount(t *testing.T) {
	kv := sanitizeKVs([]interface{}{"a", 1, "dangling"})
	if len(kv) != 3 || kv[2] != "dangling" {
		t.Fatalf("unexpected: %v", kv)
	}
}

func TestJWTLookingValueRedacted(t *testing.T) {
	jwtish := "eyJhbGciOiJIUzI1NiJ9.eyJzdWIiOiIxMjM0NTY3ODkwIn0.sig"
	if got := sanitizeValue("note", jwtish); got != "[REDACTED]" {
		t.Fatalf("got %v", got)
	}
}
