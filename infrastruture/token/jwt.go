package token

import (
	"errors"
	"time"

	"github.com/beka-birhanu/vinom-maze/service/i"
	"github.com/dgrijalva/jwt-go"
)

var (
	ErrInvalidToken          = errors.New("invalid token")
	ErrUnexpectedSigningAlgo = errors.New("unexpected signing method")
	ErrWrongIssuer           = errors.New("token issued by another service")
	ErrEmptySecret           = errors.New("jwt secret must not be empty")
)

// JwtService signs and verifies HS256 session tokens.
// Implements i.Tokenizer.
type JwtService struct {
	secretKey string
	issuer    string
}

var _ i.Tokenizer = &JwtService{}

// NewJwtService creates a new JWT Service with the provided configuration.
func NewJwtService(secretKey, issuer string) (*JwtService, error) {
	if secretKey == "" {
		return nil, ErrEmptySecret
	}
	return &JwtService{
		secretKey: secretKey,
		issuer:    issuer,
	}, nil
}

// Generate creates a JWT for the given claims. The exp, iat and iss claims
// are always set by the service.
func (s *JwtService) Generate(claims map[string]interface{}, expTime time.Duration) (string, error) {
	now := time.Now().UTC()
	jwtClaims := jwt.MapClaims{}
	for key, val := range claims {
		jwtClaims[key] = val
	}
	jwtClaims["exp"] = now.Add(expTime).Unix()
	jwtClaims["iat"] = now.Unix()
	jwtClaims["iss"] = s.issuer

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwtClaims)
	return token.SignedString([]byte(s.secretKey))
}

// Decode parses and validates a JWT, returning the claims if valid.
func (s *JwtService) Decode(tokenString string) (map[string]interface{}, error) {
	token, err := jwt.Parse(tokenString, s.getSigningKey)
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if !claims.VerifyIssuer(s.issuer, true) {
		return nil, ErrWrongIssuer
	}
	return claims, nil
}

// getSigningKey returns the signing key for token validation.
func (s *JwtService) getSigningKey(token *jwt.Token) (interface{}, error) {
	if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, ErrUnexpectedSigningAlgo
	}
	return []byte(s.secretKey), nil
}
