package utils

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestHashPasswordNormalizesCost(t *testing.T) {
	for _, cost := range []int{0, -1, bcrypt.MaxCost + 1} {
		hash, err := HashPassword("hunter22", cost)
		if err != nil {
			t.Fatalf("cost %d: %v", cost, err)
		}
		got, err := bcrypt.Cost([]byte(hash))
		if err != nil {
			t.Fatalf("cost %d: %v", cost, err)
		}
		if got != bcrypt.DefaultCost {
			t.Errorf("cost %d: hashed with cost %d, want default %d", cost, got, bcrypt.DefaultCost)
		}
		if !VerifyPassword(hash, "hunter22") {
			t.Errorf("cost %d: hash does not verify", cost)
		}
	}
}

func TestVerifyPasswordMalformedHash(t *testing.T) {
	if VerifyPassword("not-a-bcrypt-hash", "hunter22") {
		t.Error("malformed hash accepted")
	}
}
