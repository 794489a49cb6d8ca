package jwtutil

import (
	"time"

	"github.com/golang-jwt/jwt/v4"

	"voicehub/pkg/config"
)

var (
	secret          []byte
	expirationHours int
)

// Initialize configures the signing key and token lifetime.
func Initialize(cfg *config.JWTConfig) {
	secret = []byte(cfg.SigningKey)
	expirationHours = cfg.ExpirationHours
	if expirationHours <= 0 {
		expirationHours = 24
	}
}

// UserClaims represents the JWT claims for user authentication. Org fields
// are present once the user has an active organization; Role is the role
// held in that organization only.
type UserClaims struct {
	Email   string `json:"email"`
	UserID  uint   `json:"user_id"`
	OrgID   *uint  `json:"org_id,omitempty"`
	OrgName string `json:"org_name,omitempty"`
	Role    string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// GenerateToken creates a JWT token without organization context.
func GenerateToken(email string, userID uint) (string, error) {
	return GenerateTokenWithOrg(email, userID, nil, "", "")
}

// GenerateTokenWithOrg creates a JWT token carrying the active organization
// and the user's role within it.
func GenerateTokenWithOrg(email string, userID uint, orgID *uint, orgName string, role string) (string, error) {
	claims := UserClaims{
		Email:   email,
		UserID:  userID,
		OrgID:   orgID,
		OrgName: orgName,
		Role:    role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Duration(expirationHours) * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// ValidateToken validates and parses the JWT token
func ValidateToken(tokenString string) (*UserClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &UserClaims{}, func(token *jwt.Token) (interface{}, error) {
		return secret, nil
	})
	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*UserClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, jwt.ErrSignatureInvalid
}
