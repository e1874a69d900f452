// Package auth covers password hashing and the HS256 bearer tokens
// used for both access and refresh credentials.
package auth

import (
	"crypto/rand"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrTokenExpired   = errors.New("token expired")
	ErrTokenInvalid   = errors.New("token invalid")
	ErrSubjectMissing = errors.New("token subject missing")
)

// Claims carried by every issued token. Subject holds the user id.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies HS256 tokens with a shared secret.
type TokenIssuer struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewTokenIssuer(secret string, accessTTL, refreshTTL time.Duration) *TokenIssuer {
	return &TokenIssuer{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

func (t *TokenIssuer) AccessTTL() time.Duration  { return t.accessTTL }
func (t *TokenIssuer) RefreshTTL() time.Duration { return t.refreshTTL }

// IssueAccess signs a short-lived access token for the user.
func (t *TokenIssuer) IssueAccess(userID int64, role string) (string, error) {
	return t.issue(userID, role, t.accessTTL)
}

// IssueRefresh signs a long-lived refresh token for the user.
func (t *TokenIssuer) IssueRefresh(userID int64, role string) (string, error) {
	return t.issue(userID, role, t.refreshTTL)
}

// issue signs a token with a random jti. iat/exp have second
// granularity, so without the jti two tokens issued back to back could
// be byte-identical and refresh rotation would never retire the old
// one.
func (t *TokenIssuer) issue(userID int64, role string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        randomHexID(12),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
}

func randomHexID(nBytes int) string {
	buf := make([]byte, nBytes)
	if _, err := rand.Read(buf); err != nil {
		return fmt.Sprintf("%d", time.Now().UnixNano())
	}
	return fmt.Sprintf("%x", buf)
}

// Parse verifies signature and expiry and extracts the user id and
// role. Expired tokens map to ErrTokenExpired, any other defect to
// ErrTokenInvalid, and a well-formed token without a subject to
// ErrSubjectMissing.
func (t *TokenIssuer) Parse(token string) (int64, string, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return t.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return 0, "", ErrTokenExpired
		}
		return 0, "", ErrTokenInvalid
	}
	if claims.Subject == "" {
		return 0, "", ErrSubjectMissing
	}
	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return 0, "", ErrSubjectMissing
	}
	return userID, claims.Role, nil
}
