package domain

import "time"

// Plan is a subscription tier's resource ceilings.
type Plan struct {
	Name        string `json:"name" toml:"name"`
	Slug        string `json:"slug" toml:"slug"`
	PagesPerPDF int    `json:"pages_per_pdf" toml:"pages_per_pdf"`
	MaxFileSize int64  `json:"max_file_size" toml:"max_file_size"`
}

// Plans holds the two tiers the quota enforcer chooses between.
type Plans struct {
	Free Plan `toml:"free"`
	Pro  Plan `toml:"pro"`
}

// DefaultPlans returns the built-in tier limits.
func DefaultPlans() Plans {
	return Plans{
		Free: Plan{Name: "Free", Slug: "free", PagesPerPDF: 5, MaxFileSize: 4 << 20},
		Pro:  Plan{Name: "Pro", Slug: "pro", PagesPerPDF: 25, MaxFileSize: 16 << 20},
	}
}

// For returns the plan matching the entitlement.
func (p Plans) For(e Entitlement) Plan {
	if e.IsSubscribed {
		return p.Pro
	}
	return p.Free
}

// Entitlement is the caller's billing state, read-only to this system.
type Entitlement struct {
	IsSubscribed     bool       `json:"is_subscribed"`
	IsCanceled       bool       `json:"is_canceled"`
	CurrentPeriodEnd *time.Time `json:"current_period_end,omitempty"`
}

// SubscriptionPlan is the entitlement resolved against the plan table.
type SubscriptionPlan struct {
	Entitlement
	Plan Plan `json:"plan"`
}
