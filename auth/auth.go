package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/filmflow/filmflow/identity"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidToken = errors.New("invalid or expired token")

// Manager issues and verifies the HS256 bearer tokens the HTTP layer uses
// to establish a request identity.
type Manager struct {
	options Options
}

func (m *Manager) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (m *Manager) VerifyPassword(hash string, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

func (m *Manager) IssueToken(id identity.Identity) (string, error) {
	now := time.Now()

	claims := jwt.MapClaims{
		"sub":  id.ID,
		"role": id.Role,
		"iat":  now.Unix(),
		"exp":  now.Add(m.options.TokenTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	return token.SignedString([]byte(m.options.Secret))
}

func (m *Manager) ParseToken(tokenString string) (identity.Identity, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(m.options.Secret), nil
	})
	if err != nil || !token.Valid {
		return identity.Identity{}, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return identity.Identity{}, ErrInvalidToken
	}

	sub, _ := claims["sub"].(string)
	role, _ := claims["role"].(string)
	if len(sub) == 0 || len(role) == 0 {
		return identity.Identity{}, ErrInvalidToken
	}

	return identity.Identity{ID: sub, Role: role}, nil
}

func NewManager(opts ...Option) (*Manager, error) {
	options := NewOptions(opts...)

	if len(options.Secret) == 0 {
		return nil, errors.New("signing secret is required")
	}

	return &Manager{options: options}, nil
}
