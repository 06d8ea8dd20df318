package main

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// tokenLifetime matches the session cookie MaxAge.
const tokenLifetime = 86400 * time.Second

var (
	ErrTokenMalformed = errors.New("token malformed")
	ErrTokenInvalid   = errors.New("token signature invalid")
	ErrTokenExpired   = errors.New("token expired")
)

// Session identifies the authenticated user behind a request.
type Session struct {
	UserID   primitive.ObjectID
	Username string
}

type sessionClaims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// TokenCodec signs and verifies session tokens with the process-wide secret.
// The clock is injectable so expiry can be tested.
type TokenCodec struct {
	secret []byte
	now    func() time.Time
}

func NewTokenCodec(secret string) *TokenCodec {
	return &TokenCodec{secret: []byte(secret), now: time.Now}
}

// Issue creates a signed token for the user, valid for 24 hours.
func (tc *TokenCodec) Issue(userID primitive.ObjectID, username string) (string, error) {
	now := tc.now()
	claims := sessionClaims{
		UserID:   userID.Hex(),
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenLifetime)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(tc.secret)
}

// Verify parses and checks a token, returning the session it carries.
func (tc *TokenCodec) Verify(tokenStr string) (Session, error) {
	var claims sessionClaims
	_, err := jwt.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (interface{}, error) {
		return tc.secret, nil
	},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithTimeFunc(tc.now),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return Session{}, ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return Session{}, ErrTokenInvalid
		default:
			return Session{}, ErrTokenMalformed
		}
	}
	uid, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return Session{}, ErrTokenMalformed
	}
	return Session{UserID: uid, Username: claims.Username}, nil
}
