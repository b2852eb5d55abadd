package driven

import "github.com/custodia-labs/documentor/internal/core/domain"

// AuthAdapter handles identity token and webhook signature operations.
type AuthAdapter interface {
	// Token operations
	GenerateToken(claims *domain.TokenClaims) (string, error)
	ParseToken(token string) (*domain.TokenClaims, error)

	// SignWebhook returns the hex HMAC of a storage callback body
	SignWebhook(body []byte) string
	// VerifyWebhook checks a storage callback signature
	VerifyWebhook(body []byte, signature string) bool
}
