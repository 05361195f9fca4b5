package auth

import (
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestHashAndVerify(t *testing.T) {
	ps := NewPasswordServiceForTest(bcrypt.MinCost)

	hash, err := ps.Hash("longenough")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	if hash == "longenough" {
		t.Fatal("Hash() must not return the plaintext")
	}

	if err := ps.Verify(hash, "longenough"); err != nil {
		t.Errorf("Verify() with correct password: %v", err)
	}
	if err := ps.Verify(hash, "wrongpassword"); err == nil {
		t.Error("Verify() should fail with the wrong password")
	}
}

func TestHash_SaltedPerCall(t *testing.T) {
	ps := NewPasswordServiceForTest(bcrypt.MinCost)

	h1, err := ps.Hash("longenough")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	h2, err := ps.Hash("longenough")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	if h1 == h2 {
		t.Error("two hashes of the same password should differ (random salt)")
	}
}

func TestHash_RejectsOver72Bytes(t *testing.T) {
	ps := NewPasswordServiceForTest(bcrypt.MinCost)

	if _, err := ps.Hash(strings.Repeat("x", 73)); err == nil {
		t.Fatal("Hash() should reject passwords over 72 bytes")
	}
}
