package entities

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTotalOf(t *testing.T) {
	items := []QuoteItem{
		{Name: "Oil change", Quantity: 1, UnitPrice: 150},
		{Name: "Brake pad", Quantity: 2, UnitPrice: 80.5},
	}
	assert.Equal(t, 311.0, TotalOf(items))

	assert.Equal(t, 0.0, TotalOf(nil))
}

func TestQuoteCanTransition(t *testing.T) {
	cases := []struct {
		name string
		from QuoteStatus
		to   QuoteStatus
		want bool
	}{
		{"pending to sent", QuoteStatusPending, QuoteStatusSent, true},
		{"pending to approved", QuoteStatusPending, QuoteStatusApproved, true},
		{"pending to rejected", QuoteStatusPending, QuoteStatusRejected, true},
		{"pending to expired", QuoteStatusPending, QuoteStatusExpired, true},
		{"sent to approved", QuoteStatusSent, QuoteStatusApproved, true},
		{"sent to rejected", QuoteStatusSent, QuoteStatusRejected, true},
		{"sent to pending", QuoteStatusSent, QuoteStatusPending, false},
		{"approved is terminal", QuoteStatusApproved, QuoteStatusRejected, false},
		{"expired is terminal", QuoteStatusExpired, QuoteStatusApproved, false},
		{"rejected to rejected is idempotent", QuoteStatusRejected, QuoteStatusRejected, true},
		{"rejected to approved", QuoteStatusRejected, QuoteStatusApproved, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			q := Quote{Status: tc.from}
			assert.Equal(t, tc.want, q.CanTransition(tc.to))
		})
	}
}

func TestQuoteExpired(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	q := Quote{ValidUntil: now.Add(time.Hour)}
	assert.False(t, q.Expired(now))

	q.ValidUntil = now.Add(-time.Minute)
	assert.True(t, q.Expired(now))
}
