package auth

import (
	"errors"
	"strings"
	"testing"

	"github.com/sakif/sportsforum/internal/apperror"
)

// newTestPasswordService returns a PasswordService with bcrypt cost 4, the
// minimum bcrypt accepts.
func newTestPasswordService() *PasswordService {
	return NewPasswordService(4)
}

// =========================================================================
// Hash TESTS
// =========================================================================

func TestHash_OutputLooksBcrypt(t *testing.T) {
	ps := newTestPasswordService()

	hash, err := ps.Hash("password123")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	if !strings.HasPrefix(hash, "$2") {
		t.Errorf("Hash() does not look like a bcrypt hash: %q", hash)
	}
}

func TestHash_SamePasswordProducesDifferentHashes(t *testing.T) {
	ps := newTestPasswordService()

	hash1, _ := ps.Hash("same-password")
	hash2, _ := ps.Hash("same-password")

	if hash1 == hash2 {
		t.Error("Hash() produced identical hashes for the same password")
	}
}

func TestHash_RejectsEmptyPassword(t *testing.T) {
	ps := newTestPasswordService()

	_, err := ps.Hash("")
	if !errors.Is(err, apperror.ErrValidation) {
		t.Fatalf("Hash(\"\") error = %v, want ErrValidation", err)
	}
}

func TestHash_RejectsPasswordOver72Bytes(t *testing.T) {
	ps := newTestPasswordService()

	_, err := ps.Hash(strings.Repeat("a", 73))
	if !errors.Is(err, apperror.ErrValidation) {
		t.Fatalf("Hash() error = %v, want ErrValidation", err)
	}
}

func TestHash_AcceptsPasswordExactly72Bytes(t *testing.T) {
	ps := newTestPasswordService()

	if _, err := ps.Hash(strings.Repeat("a", 72)); err != nil {
		t.Fatalf("Hash() should accept a 72-byte password, got error: %v", err)
	}
}

func TestNewPasswordService_OutOfRangeCostFallsBack(t *testing.T) {
	for _, cost := range []int{0, 3, 32} {
		if got := NewPasswordService(cost).cost; got != DefaultCost {
			t.Errorf("NewPasswordService(%d).cost = %d, want %d", cost, got, DefaultCost)
		}
	}
}

// =========================================================================
// Verify TESTS
// =========================================================================

func TestVerify_CorrectPassword(t *testing.T) {
	ps := newTestPasswordService()

	hash, err := ps.Hash("correct-horse-battery-staple")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	if err := ps.Verify(hash, "correct-horse-battery-staple"); err != nil {
		t.Errorf("Verify() should return nil for a correct password, got: %v", err)
	}
}

func TestVerify_WrongPassword(t *testing.T) {
	ps := newTestPasswordService()

	hash, _ := ps.Hash("the-real-password")

	err := ps.Verify(hash, "the-wrong-password")
	if !errors.Is(err, ErrPasswordMismatch) {
		t.Fatalf("Verify() error = %v, want ErrPasswordMismatch", err)
	}
}

func TestVerify_GarbageHash(t *testing.T) {
	ps := newTestPasswordService()

	err := ps.Verify("not-a-valid-bcrypt-hash", "password")
	if err == nil {
		t.Fatal("Verify() should return an error for a garbage hash")
	}
	if errors.Is(err, ErrPasswordMismatch) {
		t.Error("a garbage hash is not a password mismatch")
	}
}

// The seed script ships hashes produced by crypt(3) ($2b$ prefix).
func TestVerify_AcceptsSeedHash(t *testing.T) {
	ps := newTestPasswordService()

	const seedHash = "$2b$10$oQwwdmv9IWGC1fkNC7Ah8OVm/A.Ke92ExsPXXji5grm435UVFla8W"
	if err := ps.Verify(seedHash, "alice-pass"); err != nil {
		t.Errorf("Verify() of seed hash error = %v", err)
	}
}

func TestHashVerify_RoundTrip(t *testing.T) {
	ps := newTestPasswordService()

	cases := []struct {
		name     string
		password string
	}{
		{"simple alphanumeric", "hello123"},
		{"special characters", "p@$$w0rd!#%"},
		{"unicode", "пароль-密码"},
		{"whitespace", "  leading and trailing  "},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			hash, err := ps.Hash(tc.password)
			if err != nil {
				t.Fatalf("Hash(%q) error = %v", tc.password, err)
			}
			if err := ps.Verify(hash, tc.password); err != nil {
				t.Errorf("Verify() failed for %q: %v", tc.password, err)
			}
		})
	}
}
