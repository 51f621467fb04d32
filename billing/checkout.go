package billing

import (
	"context"
	"fmt"

	"github.com/manaujo/Chef-Cardapio-sub000/payments"
)

const (
	ModeOneTime   = "one_time"
	ModeRecurring = "recurring"
)

type CheckoutInput struct {
	PriceID    string
	Mode       string
	SuccessURL string
	CancelURL  string
}

type CheckoutSession struct {
	SessionID string
	URL       string
}

// StartCheckout maps the user to a Stripe customer and opens a hosted
// checkout session. For recurring mode a not_started subscription
// snapshot is written first so entitlement checks made before the first
// webhook lands see a record rather than nothing.
func (s *Service) StartCheckout(ctx context.Context, userID, email string, in CheckoutInput) (*CheckoutSession, error) {
	customerID, err := s.EnsureCustomer(ctx, userID, email)
	if err != nil {
		return nil, err
	}

	recurring := in.Mode == ModeRecurring
	if recurring {
		if err := s.EnsureRecord(customerID); err != nil {
			return nil, fmt.Errorf("preparing subscription record: %w", err)
		}
	}

	sess, err := s.payments.CreateCheckoutSession(ctx, payments.CheckoutParams{
		CustomerID: customerID,
		PriceID:    in.PriceID,
		SuccessURL: in.SuccessURL,
		CancelURL:  in.CancelURL,
		UserID:     userID,
		Recurring:  recurring,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: creating checkout session: %v", ErrExternalService, err)
	}

	return &CheckoutSession{SessionID: sess.ID, URL: sess.URL}, nil
}

// PortalURL opens a Stripe-hosted self-service billing page for a user
// that already has a customer mapping.
func (s *Service) PortalURL(ctx context.Context, userID, returnURL string) (string, error) {
	mapping, err := s.MappingForUser(userID)
	if err != nil {
		return "", err
	}

	url, err := s.payments.CreatePortalSession(ctx, mapping.StripeCustomerID, returnURL)
	if err != nil {
		return "", fmt.Errorf("%w: creating portal session: %v", ErrExternalService, err)
	}
	return url, nil
}

// SetCancelAtPeriodEnd flips the cancel flag on the customer's
// subscription at Stripe, then re-syncs so the stored snapshot reflects
// the authoritative state immediately instead of waiting for the
// webhook.
func (s *Service) SetCancelAtPeriodEnd(ctx context.Context, userID string, cancel bool) error {
	mapping, err := s.MappingForUser(userID)
	if err != nil {
		return err
	}

	record, err := s.RecordForCustomer(mapping.StripeCustomerID)
	if err != nil {
		return err
	}
	if record == nil || record.StripeSubscriptionID == "" {
		return ErrNoSubscription
	}

	if err := s.payments.SetCancelAtPeriodEnd(ctx, record.StripeSubscriptionID, cancel); err != nil {
		return fmt.Errorf("%w: updating subscription: %v", ErrExternalService, err)
	}

	return s.Sync(ctx, mapping.StripeCustomerID)
}
