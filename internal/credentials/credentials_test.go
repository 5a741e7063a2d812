package credentials_test

import (
	"testing"

	"github.com/mryoshq/Accounting-AI/internal/credentials"
)

func TestEncryptDecryptRoundTrip(t *testing.T) {
	secret := []byte("test-secret")
	const key = "sk-proj-abcdef1234567890"

	encrypted, err := credentials.Encrypt(secret, key)
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	if encrypted == key {
		t.Fatal("stored form must not equal the raw key")
	}

	decrypted, err := credentials.Decrypt(secret, encrypted)
	if err != nil {
		t.Fatalf("Decrypt: %v", err)
	}
	if decrypted != key {
		t.Errorf("round-trip produced %q, want %q", decrypted, key)
	}
}

func TestDecrypt_WrongSecret(t *testing.T) {
	encrypted, err := credentials.Encrypt([]byte("secret-a"), "sk-test")
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	if _, err := credentials.Decrypt([]byte("secret-b"), encrypted); err == nil {
		t.Error("expected failure decrypting with the wrong secret")
	}
}

func TestDecrypt_Garbage(t *testing.T) {
	if _, err := credentials.Decrypt([]byte("secret"), "not-a-token"); err == nil {
		t.Error("expected failure for a malformed stored token")
	}
}

func TestPreview(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{"sk-proj-abcdef1234567890", "sk-...67890"},
		{"short", "..."},
		{"", "..."},
	}
	for _, tt := range tests {
		if got := credentials.Preview(tt.key); got != tt.want {
			t.Errorf("Preview(%q) = %q, want %q", tt.key, got, tt.want)
		}
	}
}
