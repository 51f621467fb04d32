package models

import (
	"time"

	"gorm.io/gorm"
)

type SubscriptionStatus string

// Statuses mirror Stripe's subscription lifecycle, plus NotStarted for
// accounts that opened a checkout but never completed a payment.
const (
	SubscriptionNotStarted        SubscriptionStatus = "not_started"
	SubscriptionIncomplete        SubscriptionStatus = "incomplete"
	SubscriptionIncompleteExpired SubscriptionStatus = "incomplete_expired"
	SubscriptionTrialing          SubscriptionStatus = "trialing"
	SubscriptionActive            SubscriptionStatus = "active"
	SubscriptionPastDue           SubscriptionStatus = "past_due"
	SubscriptionCanceled          SubscriptionStatus = "canceled"
	SubscriptionUnpaid            SubscriptionStatus = "unpaid"
	SubscriptionPaused            SubscriptionStatus = "paused"
)

// CustomerMapping ties a local user to a Stripe customer. A user has at
// most one live mapping and a Stripe customer id is never reused, both
// enforced by unique indexes rather than application locks. The user_id
// index is partial so a soft-deleted mapping does not block creating a
// fresh one for the same user.
type CustomerMapping struct {
	ID               string         `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	UserID           string         `json:"userId" gorm:"type:uuid;index:idx_customer_mappings_user_id,unique,where:deleted_at IS NULL;not null"`
	StripeCustomerID string         `json:"stripeCustomerId" gorm:"uniqueIndex;not null"`
	CreatedAt        time.Time      `json:"createdAt"`
	DeletedAt        gorm.DeletedAt `json:"-" gorm:"index"`
}

// SubscriptionRecord is the locally stored snapshot of a customer's
// Stripe subscription. Exactly one row per customer; every sync replaces
// the whole row with a fresh authoritative read.
type SubscriptionRecord struct {
	ID                   string             `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	StripeCustomerID     string             `json:"stripeCustomerId" gorm:"uniqueIndex;not null"`
	StripeSubscriptionID string             `json:"stripeSubscriptionId"`
	Status               SubscriptionStatus `json:"status" gorm:"type:varchar(20);default:'not_started'"`
	PriceID              string             `json:"priceId"`
	PeriodStart          int64              `json:"periodStart"`
	PeriodEnd            int64              `json:"periodEnd"`
	CancelAtPeriodEnd    bool               `json:"cancelAtPeriodEnd"`
	PaymentBrand         string             `json:"paymentBrand"`
	PaymentLast4         string             `json:"paymentLast4"`
	CreatedAt            time.Time          `json:"createdAt"`
	UpdatedAt            time.Time          `json:"updatedAt"`
}

// OrderRecord tracks a completed one-time purchase. The unique session id
// makes duplicate checkout.session.completed deliveries a no-op.
type OrderRecord struct {
	ID                    string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	StripeSessionID       string    `json:"stripeSessionId" gorm:"uniqueIndex;not null"`
	StripePaymentIntentID string    `json:"stripePaymentIntentId"`
	StripeCustomerID      string    `json:"stripeCustomerId" gorm:"index"`
	AmountSubtotal        int64     `json:"amountSubtotal"`
	AmountTotal           int64     `json:"amountTotal"`
	Currency              string    `json:"currency" gorm:"type:varchar(3)"`
	PaymentStatus         string    `json:"paymentStatus"`
	FulfillmentStatus     string    `json:"fulfillmentStatus" gorm:"default:'pending'"`
	CreatedAt             time.Time `json:"createdAt"`
}
