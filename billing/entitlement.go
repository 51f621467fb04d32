package billing

import (
	"time"

	"github.com/manaujo/Chef-Cardapio-sub000/models"
)

// HasAccess reports whether the stored snapshot grants paid access at
// the given instant. Pure function, no I/O; callers must re-evaluate it
// on every check because webhook delivery is asynchronous and the
// snapshot can lag Stripe briefly.
//
// past_due keeps access until the period ends: Stripe is still retrying
// collection during that window and cutting the customer off early loses
// recoverable revenue. Everything ambiguous evaluates to false, so the
// system fails closed with respect to paid features.
func HasAccess(record *models.SubscriptionRecord, now time.Time) bool {
	if record == nil || record.StripeSubscriptionID == "" || record.Status == models.SubscriptionNotStarted {
		return false
	}

	switch record.Status {
	case models.SubscriptionActive, models.SubscriptionTrialing, models.SubscriptionPastDue:
	default:
		return false
	}

	if record.PeriodEnd > 0 && record.PeriodEnd <= now.Unix() {
		return false
	}

	return true
}
