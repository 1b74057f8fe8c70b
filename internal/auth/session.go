package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidSession is returned for tokens that are malformed, expired or
// signed with another key.
var ErrInvalidSession = errors.New("invalid session")

// Session identifies the logged-in user of a browser.
type Session struct {
	UserID int64
	Name   string
}

type sessionClaims struct {
	Name string `json:"name"`
	jwt.RegisteredClaims
}

// SessionCodec signs sessions into opaque tokens and reads them back.
type SessionCodec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewSessionCodec(secret string, ttl time.Duration) *SessionCodec {
	return &SessionCodec{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

func (c *SessionCodec) Encode(s Session) (string, error) {
	now := c.now()
	claims := sessionClaims{
		Name: s.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  strconv.FormatInt(s.UserID, 10),
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if c.ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(c.ttl))
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign session: %w", err)
	}
	return token, nil
}

func (c *SessionCodec) Decode(token string) (Session, error) {
	var claims sessionClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return c.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(c.now))
	if err != nil || !parsed.Valid {
		return Session{}, ErrInvalidSession
	}

	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || id <= 0 {
		return Session{}, ErrInvalidSession
	}
	return Session{UserID: id, Name: claims.Name}, nil
}
