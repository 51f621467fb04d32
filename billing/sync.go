package billing

import (
	"context"
	"errors"
	"fmt"

	"github.com/manaujo/Chef-Cardapio-sub000/models"
	"github.com/manaujo/Chef-Cardapio-sub000/utils"

	stripe "github.com/stripe/stripe-go/v82"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// subscriptionColumns are the columns replaced wholesale on every sync.
var subscriptionColumns = []string{
	"stripe_subscription_id",
	"status",
	"price_id",
	"period_start",
	"period_end",
	"cancel_at_period_end",
	"payment_brand",
	"payment_last4",
	"updated_at",
}

// Sync re-reads the customer's subscription state from Stripe and
// replaces the stored snapshot with it. Events only ever tell us which
// customer changed, never what to write: every invocation asks Stripe
// what is true right now, so duplicate, concurrent and out-of-order
// deliveries all converge on the same final row.
func (s *Service) Sync(ctx context.Context, customerID string) error {
	sub, err := s.payments.LatestSubscription(ctx, customerID)
	if err != nil {
		return fmt.Errorf("%w: listing subscriptions for %s: %v", ErrExternalService, customerID, err)
	}

	record := models.SubscriptionRecord{
		StripeCustomerID: customerID,
		Status:           models.SubscriptionNotStarted,
	}

	if sub != nil {
		record.StripeSubscriptionID = sub.ID
		record.Status = mapStatus(sub.Status)
		record.CancelAtPeriodEnd = sub.CancelAtPeriodEnd
		if sub.Items != nil && len(sub.Items.Data) > 0 {
			item := sub.Items.Data[0]
			if item.Price != nil {
				record.PriceID = item.Price.ID
			}
			record.PeriodStart = item.CurrentPeriodStart
			record.PeriodEnd = item.CurrentPeriodEnd
		}
		if pm := sub.DefaultPaymentMethod; pm != nil && pm.Card != nil {
			record.PaymentBrand = string(pm.Card.Brand)
			record.PaymentLast4 = pm.Card.Last4
		}
	}

	if err := s.upsertRecord(&record); err != nil {
		return fmt.Errorf("storing subscription snapshot for %s: %w", customerID, err)
	}
	return nil
}

// EnsureRecord inserts a not_started snapshot for the customer if none
// exists yet. Called before a subscription checkout opens, so an
// entitlement check racing the first webhook finds a row instead of
// nothing.
func (s *Service) EnsureRecord(customerID string) error {
	record := models.SubscriptionRecord{
		StripeCustomerID: customerID,
		Status:           models.SubscriptionNotStarted,
	}
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "stripe_customer_id"}},
		DoNothing: true,
	}).Create(&record).Error
}

// RecordForCustomer returns the stored snapshot, or nil when the
// customer was never synced.
func (s *Service) RecordForCustomer(customerID string) (*models.SubscriptionRecord, error) {
	var record models.SubscriptionRecord
	err := s.db.First(&record, "stripe_customer_id = ?", customerID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading subscription record: %w", err)
	}
	return &record, nil
}

func (s *Service) upsertRecord(record *models.SubscriptionRecord) error {
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "stripe_customer_id"}},
		DoUpdates: clause.AssignmentColumns(subscriptionColumns),
	}).Create(record).Error
}

// mapStatus narrows a Stripe status to the local enum. A status this
// code has never seen is stored as unpaid so it can never grant access.
func mapStatus(status stripe.SubscriptionStatus) models.SubscriptionStatus {
	switch status {
	case stripe.SubscriptionStatusIncomplete:
		return models.SubscriptionIncomplete
	case stripe.SubscriptionStatusIncompleteExpired:
		return models.SubscriptionIncompleteExpired
	case stripe.SubscriptionStatusTrialing:
		return models.SubscriptionTrialing
	case stripe.SubscriptionStatusActive:
		return models.SubscriptionActive
	case stripe.SubscriptionStatusPastDue:
		return models.SubscriptionPastDue
	case stripe.SubscriptionStatusCanceled:
		return models.SubscriptionCanceled
	case stripe.SubscriptionStatusUnpaid:
		return models.SubscriptionUnpaid
	case stripe.SubscriptionStatusPaused:
		return models.SubscriptionPaused
	default:
		utils.LogWarn(nil, "unknown stripe subscription status: "+string(status))
		return models.SubscriptionUnpaid
	}
}
