package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/moon90/rms-admin/pkg/config"
)

func testManager() *JWTManager {
	return NewJWTManager(&config.JWTConfig{
		Secret:           "test-secret-for-unit-tests",
		AccessExpiresIn:  15 * time.Minute,
		RefreshExpiresIn: 24 * time.Hour,
		Issuer:           "rms-admin-test",
	})
}

func TestGenerateAndVerifyToken(t *testing.T) {
	m := testManager()

	token, expiresAt, err := m.GenerateToken(42, "admin", AccessToken)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	if time.Until(expiresAt) > 15*time.Minute || time.Until(expiresAt) < 14*time.Minute {
		t.Fatalf("unexpected access expiry: %v", expiresAt)
	}

	claims, err := m.VerifyToken(token)
	if err != nil {
		t.Fatalf("verify token: %v", err)
	}
	if claims.UserID != 42 || claims.UserName != "admin" {
		t.Fatalf("claims do not round-trip: %+v", claims)
	}
	if claims.Type != string(AccessToken) {
		t.Fatalf("expected access token type, got %q", claims.Type)
	}
}

func TestVerifyTokenWrongSecret(t *testing.T) {
	m := testManager()
	other := NewJWTManager(&config.JWTConfig{
		Secret:           "a-different-secret",
		AccessExpiresIn:  15 * time.Minute,
		RefreshExpiresIn: 24 * time.Hour,
	})

	token, _, err := m.GenerateToken(1, "admin", AccessToken)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	if _, err := other.VerifyToken(token); err == nil {
		t.Fatalf("token signed with another secret must not verify")
	}
}

func TestVerifyTokenMalformed(t *testing.T) {
	m := testManager()

	if _, err := m.VerifyToken("not-a-jwt"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestVerifyTokenExpired(t *testing.T) {
	m := NewJWTManager(&config.JWTConfig{
		Secret:           "test-secret-for-unit-tests",
		AccessExpiresIn:  -time.Minute,
		RefreshExpiresIn: 24 * time.Hour,
	})

	token, _, err := m.GenerateToken(1, "admin", AccessToken)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	if _, err := m.VerifyToken(token); !errors.Is(err, ErrExpiredToken) {
		t.Fatalf("expected ErrExpiredToken, got %v", err)
	}
}

func TestRefreshTokensRequireRefreshType(t *testing.T) {
	m := testManager()

	accessToken, _, err := m.GenerateToken(1, "admin", AccessToken)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	if _, _, err := m.RefreshTokens(accessToken); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("access token must not pass as refresh token, got %v", err)
	}

	_, refreshToken, err := m.GenerateTokenPair(1, "admin")
	if err != nil {
		t.Fatalf("generate pair: %v", err)
	}

	newAccess, newRefresh, err := m.RefreshTokens(refreshToken)
	if err != nil {
		t.Fatalf("refresh tokens: %v", err)
	}
	if newAccess == "" || newRefresh == "" {
		t.Fatalf("refresh should issue a full pair")
	}

	claims, err := m.VerifyToken(newAccess)
	if err != nil {
		t.Fatalf("verify refreshed access token: %v", err)
	}
	if claims.Type != string(AccessToken) {
		t.Fatalf("expected access token, got %q", claims.Type)
	}
}
