package utils

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	AccountTeacher  = "teacher"
	AccountParent   = "parent"
	AccountSchool   = "school"
	AccountBusiness = "business"
	AccountAdmin    = "admin"
)

// ValidAccountTypes lists the account types a user can sign up with.
var ValidAccountTypes = []string{AccountTeacher, AccountParent, AccountSchool, AccountBusiness}

// LocalsUserKey is where JWTProtected stores the verified claims.
const LocalsUserKey = "user"

var (
	ErrMissingToken  = errors.New("missing or invalid Authorization header")
	ErrInvalidToken  = errors.New("invalid or expired token")
	ErrInvalidClaims = errors.New("invalid token claims")
)

// TokenClaims is the access token payload. "id" and "sub" both carry the user id.
type TokenClaims struct {
	UserID      string `json:"id"`
	Email       string `json:"email"`
	AccountType string `json:"account_type"`
	jwt.RegisteredClaims
}

func (c TokenClaims) UID() (uuid.UUID, error) {
	return uuid.Parse(c.UserID)
}

// GenerateAccessToken signs an HS256 access token. A non-positive ttl produces a token without exp.
func GenerateAccessToken(secret string, userID uuid.UUID, email, accountType string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := TokenClaims{
		UserID:      userID.String(),
		Email:       email,
		AccountType: accountType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  userID.String(),
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseToken verifies an HS256 token against secret and returns its claims.
func ParseToken(secret, tokenString string) (*TokenClaims, error) {
	claims := &TokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if _, err := claims.UID(); err != nil {
		return nil, ErrInvalidClaims
	}
	return claims, nil
}

// BearerToken extracts the token from an "Authorization: Bearer <token>" header value.
func BearerToken(authHeader string) (string, error) {
	if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
		return "", ErrMissingToken
	}
	token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	if token == "" {
		return "", ErrMissingToken
	}
	return token, nil
}

// CurrentUser returns the caller's id and claims as stored by JWTProtected.
func CurrentUser(c *fiber.Ctx) (uuid.UUID, *TokenClaims, error) {
	claims, ok := c.Locals(LocalsUserKey).(*TokenClaims)
	if !ok || claims == nil {
		return uuid.Nil, nil, ErrInvalidClaims
	}
	id, err := claims.UID()
	if err != nil {
		return uuid.Nil, nil, ErrInvalidClaims
	}
	return id, claims, nil
}

func IsAdmin(claims *TokenClaims) bool {
	return claims != nil && claims.AccountType == AccountAdmin
}
