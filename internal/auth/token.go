package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrInvalidToken covers bad signatures, malformed tokens and tokens minted for another purpose.
	ErrInvalidToken = errors.New("invalid token")
	// ErrTokenExpired is returned for well formed tokens past their expiry.
	ErrTokenExpired = errors.New("token expired")
)

const purposePasswordReset = "password_reset"

// Claims is the JWT payload. Access tokens leave Purpose empty.
type Claims struct {
	jwt.RegisteredClaims
	UserID      string `json:"uid"`
	Purpose     string `json:"purpose,omitempty"`
	Fingerprint string `json:"fp,omitempty"`
}

// Issuer mints and verifies HS256 tokens with a server held secret.
type Issuer struct {
	secret   []byte
	ttl      time.Duration
	resetTTL time.Duration
	now      func() time.Time
}

func NewIssuer(secret string, ttl, resetTTL time.Duration) *Issuer {
	return &Issuer{
		secret:   []byte(secret),
		ttl:      ttl,
		resetTTL: resetTTL,
		now:      time.Now,
	}
}

// Mint returns an access token for userID.
func (i *Issuer) Mint(userID string) (string, error) {
	return i.sign(Claims{UserID: userID}, i.ttl)
}

// Verify checks signature and expiry and returns the subject user id.
func (i *Issuer) Verify(token string) (string, error) {
	claims, err := i.parse(token)
	if err != nil {
		return "", err
	}
	if claims.Purpose != "" {
		return "", ErrInvalidToken
	}
	return claims.UserID, nil
}

// MintReset returns a password reset token bound to the user's current
// password hash, so it stops verifying once the password changes.
func (i *Issuer) MintReset(userID, passwordHash string) (string, error) {
	return i.sign(Claims{
		UserID:      userID,
		Purpose:     purposePasswordReset,
		Fingerprint: fingerprint(passwordHash),
	}, i.resetTTL)
}

// VerifyReset checks a token minted by MintReset against the user it must
// belong to and the hash currently stored for that user.
func (i *Issuer) VerifyReset(token, userID, passwordHash string) error {
	claims, err := i.parse(token)
	if err != nil {
		return err
	}
	if claims.Purpose != purposePasswordReset || claims.UserID != userID {
		return ErrInvalidToken
	}
	if subtle.ConstantTimeCompare([]byte(claims.Fingerprint), []byte(fingerprint(passwordHash))) != 1 {
		return ErrInvalidToken
	}
	return nil
}

func (i *Issuer) sign(claims Claims, ttl time.Duration) (string, error) {
	now := i.now()
	claims.IssuedAt = jwt.NewNumericDate(now)
	claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
}

func (i *Issuer) parse(token string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}
	if !parsed.Valid || claims.UserID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func fingerprint(passwordHash string) string {
	sum := sha256.Sum256([]byte(passwordHash))
	return hex.EncodeToString(sum[:8])
}
