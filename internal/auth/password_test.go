package auth

import (
	"strings"
	"testing"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("s3cret-pw")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if !strings.HasPrefix(hash, "$2") {
		t.Fatalf("expected bcrypt hash, got %q", hash)
	}
	if hash == "s3cret-pw" {
		t.Fatalf("hash equals plaintext")
	}
	if !VerifyPassword(hash, "s3cret-pw") {
		t.Fatalf("correct password rejected")
	}
	if VerifyPassword(hash, "wrong") {
		t.Fatalf("wrong password accepted")
	}
	if VerifyPassword("not-a-hash", "s3cret-pw") {
		t.Fatalf("garbage hash accepted")
	}
}

func TestHashPassword_Salted(t *testing.T) {
	h1, _ := HashPassword("same")
	h2, _ := HashPassword("same")
	if h1 == h2 {
		t.Fatalf("two hashes of the same password should differ")
	}
}
