package helpers

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/oksasatya/go-ddd-user-terms/internal/domain/entity"
)

// JWTManager signs and verifies HS256 access tokens carrying the caller identity.
type JWTManager struct {
	Secret []byte
	TTL    time.Duration
}

func NewJWTManager(secret string, ttl time.Duration) *JWTManager {
	return &JWTManager{Secret: []byte(secret), TTL: ttl}
}

type Claims struct {
	ID      string      `json:"id"`
	Email   string      `json:"email"`
	TermsID *string     `json:"termsId"`
	Role    entity.Role `json:"role"`
	jwt.RegisteredClaims
}

// Identity converts verified claims into the caller identity passed to services.
func (c *Claims) Identity() entity.Identity {
	return entity.Identity{ID: c.ID, Email: c.Email, TermsID: c.TermsID, Role: c.Role}
}

func (m *JWTManager) GenerateAccessToken(id entity.Identity) (string, time.Time, error) {
	now := time.Now()
	exp := now.Add(m.TTL)
	claims := &Claims{
		ID:      id.ID,
		Email:   id.Email,
		TermsID: id.TermsID,
		Role:    id.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.ID,
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := t.SignedString(m.Secret)
	return s, exp, err
}

func (m *JWTManager) ParseAccessToken(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	tkn, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.Secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	if !tkn.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}
