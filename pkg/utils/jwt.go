package utils

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var jwtSecret = []byte("secret")

// SetSecret allows injecting the secret from config
func SetSecret(secret string) {
	jwtSecret = []byte(secret)
}

const UserClaimsKey = "userClaims"

// RoleUser is the restricted citizen role; everything else sees all reports.
const RoleUser = "User"

// UserMetadata mirrors the name/role metadata the auth backend stamps
// into its access tokens.
type UserMetadata struct {
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
	Role      string `json:"role"`
}

type UserClaims struct {
	Email    string       `json:"email"`
	Metadata UserMetadata `json:"user_metadata"`
	jwt.RegisteredClaims
}

// UserID returns the subject claim (the auth user's id).
func (c *UserClaims) UserID() string {
	return c.Subject
}

// Role returns the viewer's role, defaulting to the restricted citizen role
// when the token carries none.
func (c *UserClaims) Role() string {
	if strings.TrimSpace(c.Metadata.Role) == "" {
		return RoleUser
	}
	return c.Metadata.Role
}

func GenerateToken(userID, email string, metadata UserMetadata) (string, error) {
	claims := UserClaims{
		Email:    email,
		Metadata: metadata,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour * 72)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret)
}

func ValidateToken(tokenString string) (*UserClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &UserClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return jwtSecret, nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*UserClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, jwt.ErrTokenSignatureInvalid
}
