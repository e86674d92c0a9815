package service

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const adminTokenIssuer = "crypto-match"

// AdminTokenService emite y valida tokens HS256 para los endpoints de administracion.
type AdminTokenService struct {
	secret []byte
	ttl    time.Duration
	issuer string
}

type AdminClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

var (
	ErrTokenInvalid = errors.New("admin token invalid")
	ErrTokenExpired = errors.New("admin token expired")
)

func NewAdminTokenService(secret string, ttl time.Duration) *AdminTokenService {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &AdminTokenService{
		secret: []byte(secret),
		ttl:    ttl,
		issuer: adminTokenIssuer,
	}
}

// Enabled indica si hay secreto configurado; sin secreto los endpoints admin quedan abiertos.
func (s *AdminTokenService) Enabled() bool {
	return s != nil && len(s.secret) > 0
}

func (s *AdminTokenService) Issue(subject string) (string, error) {
	if !s.Enabled() || strings.TrimSpace(subject) == "" {
		return "", ErrTokenInvalid
	}
	now := time.Now().UTC()
	claims := AdminClaims{
		Role: "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    s.issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

func (s *AdminTokenService) Parse(token string) (AdminClaims, error) {
	if !s.Enabled() || strings.TrimSpace(token) == "" {
		return AdminClaims{}, ErrTokenInvalid
	}
	var claims AdminClaims
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	_, err := parser.ParseWithClaims(token, &claims, func(_ *jwt.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return AdminClaims{}, ErrTokenExpired
		}
		return AdminClaims{}, ErrTokenInvalid
	}
	if claims.Role != "admin" || claims.Issuer != s.issuer || strings.TrimSpace(claims.Subject) == "" {
		return AdminClaims{}, ErrTokenInvalid
	}
	return claims, nil
}
