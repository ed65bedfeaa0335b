package access

import (
	"strings"
	"testing"
)

func TestHashPassword_FreshSaltPerCall(t *testing.T) {
	h1, err := HashPassword("password123")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	h2, err := HashPassword("password123")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if h1 == h2 {
		t.Fatalf("expected distinct hashes for the same password")
	}
	if !CheckPassword("password123", h1) || !CheckPassword("password123", h2) {
		t.Fatalf("expected both hashes to verify")
	}
	if !strings.HasPrefix(h1, "$2") {
		t.Fatalf("expected bcrypt version prefix, got %q", h1)
	}
}

func TestCheckPassword_ExactMatchOnly(t *testing.T) {
	h, err := HashPassword("password123")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if CheckPassword("password123 ", h) {
		t.Fatalf("trailing space should not verify")
	}
	if CheckPassword(" password123", h) {
		t.Fatalf("leading space should not verify")
	}
	if CheckPassword("Password123", h) {
		t.Fatalf("case difference should not verify")
	}
}

func TestCheckPassword_MalformedHash(t *testing.T) {
	if CheckPassword("password123", "") {
		t.Fatalf("empty hash should not verify")
	}
	if CheckPassword("password123", "not-a-bcrypt-hash") {
		t.Fatalf("garbage hash should not verify")
	}
}

func TestHashPassword_NonASCIIAndEmpty(t *testing.T) {
	for _, pw := range []string{"", "pässwörd-日本語"} {
		h, err := HashPassword(pw)
		if err != nil {
			t.Fatalf("hash %q: %v", pw, err)
		}
		if !CheckPassword(pw, h) {
			t.Fatalf("expected %q to verify against its own hash", pw)
		}
	}
}
