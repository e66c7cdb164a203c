package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"markethub/internal/core/domain"
)

var (
	ErrTokenExpired = errors.New("token has expired")
	ErrTokenInvalid = errors.New("token is invalid")
)

// Claims represents the session token claims. The principal is the
// tagged session owner: customer, vendor, or the reserved admin.
type Claims struct {
	Identity string `json:"identity"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// ChallengeClaims represents the admin step-1 challenge token claims.
// The token proves the admin password was presented; it is only good
// for completing step 2 before it expires.
type ChallengeClaims struct {
	Purpose string `json:"purpose"`
	jwt.RegisteredClaims
}

// ChallengePurpose marks a token issued by admin login step 1.
const ChallengePurpose = "admin-challenge"

// GenerateSessionToken generates a session token for a principal
func GenerateSessionToken(p domain.Principal, secret string, expiryMinutes int) (string, error) {
	claims := Claims{
		Identity: p.Identity,
		Role:     string(p.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Duration(expiryMinutes) * time.Minute)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
			Issuer:    "markethub",
			Subject:   p.Identity,
			ID:        uuid.New().String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// GenerateChallengeToken generates the short-lived token that carries
// the admin flow from step 1 to step 2, returning the token and its id.
// The caller tracks the id so each challenge admits exactly one step-2
// attempt.
func GenerateChallengeToken(secret string, expiry time.Duration) (string, string, error) {
	id := uuid.New().String()
	claims := ChallengeClaims{
		Purpose: ChallengePurpose,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiry)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
			Issuer:    "markethub",
			ID:        id,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", "", err
	}
	return signed, id, nil
}

// ValidateSessionToken validates a session token and returns its principal
func ValidateSessionToken(tokenString, secret string) (*domain.Principal, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return []byte(secret), nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrTokenInvalid
	}

	return &domain.Principal{
		Identity: claims.Identity,
		Role:     domain.Role(claims.Role),
	}, nil
}

// ValidateChallengeToken validates an admin challenge token and
// returns its id
func ValidateChallengeToken(tokenString, secret string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &ChallengeClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return []byte(secret), nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrTokenExpired
		}
		return "", ErrTokenInvalid
	}

	claims, ok := token.Claims.(*ChallengeClaims)
	if !ok || !token.Valid || claims.Purpose != ChallengePurpose {
		return "", ErrTokenInvalid
	}
	return claims.ID, nil
}
