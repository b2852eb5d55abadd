package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/hkdf"

	"github.com/custodia-labs/documentor/internal/core/domain"
	"github.com/custodia-labs/documentor/internal/core/ports/driven"
)

// Ensure Adapter implements AuthAdapter
var _ driven.AuthAdapter = (*Adapter)(nil)

const (
	jwtKeyInfo     = "documentor/jwt/v1"
	webhookKeyInfo = "documentor/webhook/v1"
	derivedKeySize = 32
)

// jwtClaims maps domain.TokenClaims onto registered JWT claims; the user
// ID travels as "sub".
type jwtClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Adapter issues and verifies HS256 identity tokens and signs storage
// webhooks. Both keys are derived from one master secret with HKDF so a
// leaked webhook key cannot mint tokens.
type Adapter struct {
	jwtKey     []byte
	webhookKey []byte
}

// NewAdapter derives the signing keys from secret
func NewAdapter(secret string) (*Adapter, error) {
	if secret == "" {
		return nil, errors.New("auth secret is required")
	}
	jwtKey, err := deriveKey(secret, jwtKeyInfo)
	if err != nil {
		return nil, err
	}
	webhookKey, err := deriveKey(secret, webhookKeyInfo)
	if err != nil {
		return nil, err
	}
	return &Adapter{jwtKey: jwtKey, webhookKey: webhookKey}, nil
}

func deriveKey(secret, info string) ([]byte, error) {
	key := make([]byte, derivedKeySize)
	if _, err := io.ReadFull(hkdf.New(sha256.New, []byte(secret), nil, []byte(info)), key); err != nil {
		return nil, fmt.Errorf("derive %s key: %w", info, err)
	}
	return key, nil
}

// GenerateToken creates a signed JWT from domain claims
func (a *Adapter) GenerateToken(claims *domain.TokenClaims) (string, error) {
	jc := jwtClaims{
		Email: claims.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  claims.UserID,
			IssuedAt: jwt.NewNumericDate(time.Unix(claims.IssuedAt, 0)),
		},
	}
	if claims.ExpiresAt != 0 {
		jc.ExpiresAt = jwt.NewNumericDate(time.Unix(claims.ExpiresAt, 0))
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, jc).SignedString(a.jwtKey)
}

// ParseToken validates a JWT and extracts domain claims.
// Expired tokens return domain.ErrTokenExpired; anything else that fails
// verification returns domain.ErrTokenInvalid.
func (a *Adapter) ParseToken(tokenString string) (*domain.TokenClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwtClaims{}, func(token *jwt.Token) (any, error) {
		return a.jwtKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if errors.Is(err, jwt.ErrTokenExpired) {
		return nil, domain.ErrTokenExpired
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrTokenInvalid, err)
	}

	claims, ok := token.Claims.(*jwtClaims)
	if !ok || !token.Valid || claims.Subject == "" {
		return nil, domain.ErrTokenInvalid
	}

	out := &domain.TokenClaims{UserID: claims.Subject, Email: claims.Email}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Unix()
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Unix()
	}
	return out, nil
}

// SignWebhook returns the hex HMAC-SHA256 of body
func (a *Adapter) SignWebhook(body []byte) string {
	mac := hmac.New(sha256.New, a.webhookKey)
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifyWebhook compares signatures in constant time
func (a *Adapter) VerifyWebhook(body []byte, signature string) bool {
	want, err := hex.DecodeString(signature)
	if err != nil {
		return false
	}
	mac := hmac.New(sha256.New, a.webhookKey)
	mac.Write(body)
	return hmac.Equal(mac.Sum(nil), want)
}
