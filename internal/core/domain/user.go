package domain

import "time"

// User is an identity synced from the external identity provider.
type User struct {
	ID                     string     `json:"id"`
	Email                  string     `json:"email"`
	StripeCustomerID       string     `json:"-"`
	StripeSubscriptionID   string     `json:"-"`
	StripePriceID          string     `json:"-"`
	StripeCurrentPeriodEnd *time.Time `json:"stripe_current_period_end,omitempty"`
	CreatedAt              time.Time  `json:"created_at"`
	UpdatedAt              time.Time  `json:"updated_at"`
}

// Entitlement derives billing state: subscribed while the paid period has not ended.
func (u *User) Entitlement(now time.Time) Entitlement {
	e := Entitlement{CurrentPeriodEnd: u.StripeCurrentPeriodEnd}
	if u.StripePriceID != "" && u.StripeCurrentPeriodEnd != nil {
		e.IsSubscribed = u.StripeCurrentPeriodEnd.Add(24 * time.Hour).After(now)
	}
	return e
}
