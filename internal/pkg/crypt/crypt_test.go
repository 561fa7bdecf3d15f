package crypt

import "testing"

func TestEncryptDecryptRoundTrip(t *testing.T) {
	secret := "test-auth-secret"
	inputs := []string{
		"a",
		"refresh-token-1//0abcDEF",
		"exactly sixteen!",
		"a much longer client secret value that spans multiple AES blocks to exercise padding",
	}

	for _, in := range inputs {
		encrypted, err := Encrypt(in, secret)
		if err != nil {
			t.Fatalf("Encrypt(%q) failed: %v", in, err)
		}
		decrypted, err := Decrypt(encrypted, secret)
		if err != nil {
			t.Fatalf("Decrypt failed for %q: %v", in, err)
		}
		if decrypted != in {
			t.Fatalf("round trip mismatch: got %q, want %q", decrypted, in)
		}
	}
}

func TestEncryptUsesFreshIV(t *testing.T) {
	secret := "test-auth-secret"
	first, err := Encrypt("same plaintext", secret)
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}
	second, err := Encrypt("same plaintext", secret)
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}
	if first == second {
		t.Fatal("two encryptions of the same plaintext must differ")
	}
}

func TestDecryptRejectsWrongSecret(t *testing.T) {
	encrypted, err := Encrypt("payload", "secret-a")
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}
	if out, err := Decrypt(encrypted, "secret-b"); err == nil && out == "payload" {
		t.Fatal("decryption with the wrong secret must not recover the plaintext")
	}
}

func TestDecryptRejectsGarbage(t *testing.T) {
	for _, in := range []string{"", "not-base64!!", "QUJD"} {
		if _, err := Decrypt(in, "secret"); err == nil {
			t.Fatalf("Decrypt(%q) should fail", in)
		}
	}
}
