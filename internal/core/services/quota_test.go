package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/documentor/internal/core/domain"
)

func TestQuotaEnforcer_Allow(t *testing.T) {
	q := NewQuotaEnforcer(domain.DefaultPlans())
	free := domain.Entitlement{}
	pro := domain.Entitlement{IsSubscribed: true}

	tests := []struct {
		name  string
		pages int
		ent   domain.Entitlement
		want  bool
	}{
		{"free under ceiling", 3, free, true},
		{"free at ceiling", 5, free, true},
		{"free over ceiling", 6, free, false},
		{"pro at ceiling", 25, pro, true},
		{"pro over ceiling", 26, pro, false},
		{"pro accepts what free rejects", 6, pro, true},
		{"empty document", 0, free, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, q.Allow(tt.pages, tt.ent))
		})
	}
}

func TestQuotaEnforcer_AllowSize(t *testing.T) {
	q := NewQuotaEnforcer(domain.DefaultPlans())

	assert.True(t, q.AllowSize(4<<20, domain.Entitlement{}))
	assert.False(t, q.AllowSize(4<<20+1, domain.Entitlement{}))
	assert.True(t, q.AllowSize(16<<20, domain.Entitlement{IsSubscribed: true}))
	assert.False(t, q.AllowSize(16<<20+1, domain.Entitlement{IsSubscribed: true}))
}

func TestQuotaEnforcer_CustomPlans(t *testing.T) {
	plans := domain.DefaultPlans()
	plans.Free.PagesPerPDF = 1
	q := NewQuotaEnforcer(plans)

	assert.True(t, q.Allow(1, domain.Entitlement{}))
	assert.False(t, q.Allow(2, domain.Entitlement{}))
	assert.Equal(t, "Pro", q.Plan(domain.Entitlement{IsSubscribed: true}).Name)
}
