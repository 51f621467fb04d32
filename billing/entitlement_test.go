package billing

import (
	"testing"
	"time"

	"github.com/manaujo/Chef-Cardapio-sub000/models"

	"github.com/stretchr/testify/assert"
)

func TestHasAccess(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	in30d := now.AddDate(0, 0, 30).Unix()
	ago := now.AddDate(0, 0, -1).Unix()

	record := func(status models.SubscriptionStatus, periodEnd int64) *models.SubscriptionRecord {
		return &models.SubscriptionRecord{
			StripeCustomerID:     "cus_1",
			StripeSubscriptionID: "sub_1",
			Status:               status,
			PeriodEnd:            periodEnd,
		}
	}

	tests := []struct {
		name   string
		record *models.SubscriptionRecord
		want   bool
	}{
		{"no record", nil, false},
		{"not started ignores period", record(models.SubscriptionNotStarted, in30d), false},
		{"active within period", record(models.SubscriptionActive, in30d), true},
		{"active no period set", record(models.SubscriptionActive, 0), true},
		{"active past period end", record(models.SubscriptionActive, ago), false},
		{"active at exact period end", record(models.SubscriptionActive, now.Unix()), false},
		{"trialing within period", record(models.SubscriptionTrialing, in30d), true},
		{"past_due keeps access until period end", record(models.SubscriptionPastDue, in30d), true},
		{"past_due after period end", record(models.SubscriptionPastDue, ago), false},
		{"canceled", record(models.SubscriptionCanceled, in30d), false},
		{"unpaid", record(models.SubscriptionUnpaid, in30d), false},
		{"paused", record(models.SubscriptionPaused, in30d), false},
		{"incomplete", record(models.SubscriptionIncomplete, in30d), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HasAccess(tt.record, now))
		})
	}
}

func TestHasAccessEmptySubscriptionID(t *testing.T) {
	now := time.Now()
	record := &models.SubscriptionRecord{
		StripeCustomerID: "cus_1",
		Status:           models.SubscriptionActive,
		PeriodEnd:        now.AddDate(0, 1, 0).Unix(),
	}

	// Payment never completed: no subscription id means no access even
	// with an otherwise healthy status.
	assert.False(t, HasAccess(record, now))
}
