package services

import "github.com/custodia-labs/documentor/internal/core/domain"

// QuotaEnforcer decides whether a document fits the caller's plan.
type QuotaEnforcer struct {
	plans domain.Plans
}

// NewQuotaEnforcer creates a QuotaEnforcer over the given tiers
func NewQuotaEnforcer(plans domain.Plans) *QuotaEnforcer {
	return &QuotaEnforcer{plans: plans}
}

// Allow reports whether pageCount is within the entitlement's page ceiling.
// The ceiling itself is allowed.
func (q *QuotaEnforcer) Allow(pageCount int, ent domain.Entitlement) bool {
	return pageCount <= q.plans.For(ent).PagesPerPDF
}

// AllowSize reports whether an upload of size bytes fits the plan's file limit
func (q *QuotaEnforcer) AllowSize(size int64, ent domain.Entitlement) bool {
	return size <= q.plans.For(ent).MaxFileSize
}

// Plan returns the tier that applies to the entitlement
func (q *QuotaEnforcer) Plan(ent domain.Entitlement) domain.Plan {
	return q.plans.For(ent)
}
