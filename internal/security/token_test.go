package security

import (
	"testing"
	"time"
)

func TestTokenRoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", "arisefit", time.Hour)

	token, err := issuer.Mint(42, "shadow_monarch")
	if err != nil {
		t.Fatalf("Mint failed: %v", err)
	}

	claims, err := issuer.Verify(token)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if claims.Subject != "42" {
		t.Errorf("subject = %q, want %q", claims.Subject, "42")
	}
	if claims.Username != "shadow_monarch" {
		t.Errorf("username = %q, want %q", claims.Username, "shadow_monarch")
	}
}

func TestTokenRejection(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", "arisefit", time.Hour)

	t.Run("garbage token", func(t *testing.T) {
		if _, err := issuer.Verify("not-a-token"); err != ErrInvalidToken {
			t.Errorf("error = %v, want ErrInvalidToken", err)
		}
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := NewTokenIssuer("other-secret", "arisefit", time.Hour)
		token, err := other.Mint(1, "user")
		if err != nil {
			t.Fatalf("Mint failed: %v", err)
		}
		if _, err := issuer.Verify(token); err != ErrInvalidToken {
			t.Errorf("error = %v, want ErrInvalidToken", err)
		}
	})

	t.Run("wrong issuer", func(t *testing.T) {
		other := NewTokenIssuer("test-secret", "someone-else", time.Hour)
		token, err := other.Mint(1, "user")
		if err != nil {
			t.Fatalf("Mint failed: %v", err)
		}
		if _, err := issuer.Verify(token); err != ErrInvalidToken {
			t.Errorf("error = %v, want ErrInvalidToken", err)
		}
	})

	t.Run("expired token", func(t *testing.T) {
		expired := NewTokenIssuer("test-secret", "arisefit", -time.Minute)
		token, err := expired.Mint(1, "user")
		if err != nil {
			t.Fatalf("Mint failed: %v", err)
		}
		if _, err := issuer.Verify(token); err != ErrInvalidToken {
			t.Errorf("error = %v, want ErrInvalidToken", err)
		}
	})
}

func TestRateLimiter(t *testing.T) {
	limiter := NewRateLimiter(3, time.Hour)

	for i := 0; i < 3; i++ {
		if !limiter.Allow("1.2.3.4") {
			t.Fatalf("request %d denied, want allowed", i+1)
		}
	}
	if limiter.Allow("1.2.3.4") {
		t.Error("request over budget allowed, want denied")
	}

	// Other clients have their own budget.
	if !limiter.Allow("5.6.7.8") {
		t.Error("unrelated client denied")
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("Arise!123")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if hash == "Arise!123" {
		t.Fatal("hash equals plaintext")
	}

	if !CheckPassword(hash, "Arise!123") {
		t.Error("correct password rejected")
	}
	if CheckPassword(hash, "wrong") {
		t.Error("wrong password accepted")
	}
}
