package service

import (
	"context"
	"testing"

	"github.com/alceillini1999/Zaad.POS/internal/config"
	"github.com/alceillini1999/Zaad.POS/internal/dto"
	"github.com/alceillini1999/Zaad.POS/internal/middleware"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func authFixture(t *testing.T) (*config.Config, AuthService) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("secret-pass"), bcrypt.MinCost)
	require.NoError(t, err)
	cfg := &config.Config{
		JWTSecret:          "test-secret",
		JWTExpirationHours: 12,
		AdminUsername:      "admin",
		AdminPasswordHash:  string(hash),
	}
	return cfg, NewAuthService(cfg)
}

func TestLoginIssuesValidToken(t *testing.T) {
	cfg, svc := authFixture(t)

	resp, err := svc.Login(context.Background(), dto.LoginRequest{Username: "admin", Password: "secret-pass"})
	require.NoError(t, err)
	assert.True(t, resp.OK)
	assert.Equal(t, "bearer", resp.TokenType)
	assert.Equal(t, 12*3600, resp.ExpiresIn)

	claims := &middleware.JWTClaims{}
	token, err := jwt.ParseWithClaims(resp.Token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(cfg.JWTSecret), nil
	})
	require.NoError(t, err)
	assert.True(t, token.Valid)
	assert.Equal(t, "admin", claims.Username)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	_, svc := authFixture(t)

	_, err := svc.Login(context.Background(), dto.LoginRequest{Username: "admin", Password: "wrong"})
	assert.Error(t, err)

	_, err = svc.Login(context.Background(), dto.LoginRequest{Username: "other", Password: "secret-pass"})
	assert.Error(t, err)
}
