package auth

import (
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rpupo63/research-project-pages/errs"
)

const (
	RememberCookie = "remember_token"
	rememberFor    = 30 * 24 * time.Hour
	rememberIssuer = "research-project-pages"
)

func (m *Manager) issueRemember(userID uint) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Issuer:    rememberIssuer,
		Subject:   strconv.FormatUint(uint64(userID), 10),
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(rememberFor)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("signing remember token: %w", err)
	}
	return token, nil
}

func (m *Manager) parseRemember(raw string) (uint, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	}, jwt.WithIssuer(rememberIssuer), jwt.WithExpirationRequired())
	if err != nil {
		return 0, errs.NewInvalidTokenError(err)
	}
	id, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil || id == 0 {
		return 0, errs.NewInvalidTokenError(fmt.Errorf("bad subject %q", claims.Subject))
	}
	return uint(id), nil
}
