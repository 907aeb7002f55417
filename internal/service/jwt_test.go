package service

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestJWT_RoundTrip(t *testing.T) {
	InitJWT("unit-test-secret")

	token, err := IssueJWT("player-42")
	if err != nil {
		t.Fatalf("IssueJWT: %v", err)
	}
	got, err := ParseJWT(token)
	if err != nil {
		t.Fatalf("ParseJWT: %v", err)
	}
	if got != "player-42" {
		t.Fatalf("player id = %q", got)
	}
}

func TestJWT_Rejects(t *testing.T) {
	InitJWT("unit-test-secret")

	sign := func(claims jwt.RegisteredClaims, secret string) string {
		s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
		if err != nil {
			t.Fatalf("sign: %v", err)
		}
		return s
	}
	now := time.Now()
	valid := jwt.RegisteredClaims{
		Issuer:    jwtIssuer,
		Subject:   "p1",
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
	}

	expired := valid
	expired.ExpiresAt = jwt.NewNumericDate(now.Add(-time.Minute))

	noExp := valid
	noExp.ExpiresAt = nil

	foreign := valid
	foreign.Issuer = "someone-else"

	noSubject := valid
	noSubject.Subject = ""

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not-a-token"},
		{"wrong secret", sign(valid, "other-secret")},
		{"expired", sign(expired, "unit-test-secret")},
		{"no expiry", sign(noExp, "unit-test-secret")},
		{"wrong issuer", sign(foreign, "unit-test-secret")},
		{"empty subject", sign(noSubject, "unit-test-secret")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseJWT(tt.token); !errors.Is(err, ErrInvalidToken) {
				t.Fatalf("err = %v, want ErrInvalidToken", err)
			}
		})
	}
}

func TestInitJWT_EphemeralSecret(t *testing.T) {
	InitJWT("")
	if len(jwtSecret) == 0 {
		t.Fatal("secret not generated")
	}
	token, err := IssueJWT("p1")
	if err != nil {
		t.Fatalf("IssueJWT: %v", err)
	}
	if _, err := ParseJWT(token); err != nil {
		t.Fatalf("ParseJWT: %v", err)
	}
}
