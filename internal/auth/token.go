package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/luno/jettison/errors"
	"github.com/luno/jettison/j"
)

var ErrTokenInvalid = errors.New("token invalid", j.C("ERR_6e0b3c8d14a2f975"))

type Claims struct {
	jwt.RegisteredClaims
}

// IssueToken signs an HS256 token for subject that expires after ttl.
// There are no accounts; tokens are minted by operators for a workspace.
func IssueToken(secret, subject string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", errors.New("jwt secret not configured")
	}
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := signTokenFn(token, []byte(secret))
	if err != nil {
		return "", errors.Wrap(err, "sign token")
	}
	return signed, nil
}

// ParseToken returns the subject of a valid token.
func ParseToken(secret, token string) (string, error) {
	parsed, err := parseClaimsFn(token, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.Wrap(ErrTokenInvalid, "unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil {
		return "", errors.Wrap(ErrTokenInvalid, err.Error())
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return "", ErrTokenInvalid
	}
	return claims.Subject, nil
}

var (
	signTokenFn = func(t *jwt.Token, key []byte) (string, error) {
		return t.SignedString(key)
	}
	parseClaimsFn = jwt.ParseWithClaims
)
