package payments

import (
	"context"
	"time"

	stripe "github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"
)

// CheckoutParams carries everything needed to open a hosted checkout
// page for a mapped customer.
type CheckoutParams struct {
	CustomerID string
	PriceID    string
	SuccessURL string
	CancelURL  string
	UserID     string
	Recurring  bool
}

// Client is the narrow surface of the payments processor the rest of the
// service is allowed to touch. Implemented by StripeClient; tests supply
// fakes.
type Client interface {
	CreateCustomer(ctx context.Context, email, userID string) (string, error)
	DeleteCustomer(ctx context.Context, customerID string) error
	LatestSubscription(ctx context.Context, customerID string) (*stripe.Subscription, error)
	CreateCheckoutSession(ctx context.Context, params CheckoutParams) (*stripe.CheckoutSession, error)
	CreatePortalSession(ctx context.Context, customerID, returnURL string) (string, error)
	SetCancelAtPeriodEnd(ctx context.Context, subscriptionID string, cancel bool) error
}

type StripeClient struct {
	api     *client.API
	timeout time.Duration
}

func NewStripeClient(secretKey string, timeout time.Duration) *StripeClient {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &StripeClient{api: api, timeout: timeout}
}

// bound caps every outbound Stripe call so a stalled processor surfaces
// as a retryable error instead of hanging the request.
func (s *StripeClient) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.timeout)
}

func (s *StripeClient) CreateCustomer(ctx context.Context, email, userID string) (string, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	params := &stripe.CustomerParams{
		Email: stripe.String(email),
	}
	params.Context = ctx
	// The user id on the customer makes orphans traceable from the
	// Stripe dashboard.
	params.AddMetadata("user_id", userID)

	cust, err := s.api.Customers.New(params)
	if err != nil {
		return "", err
	}
	return cust.ID, nil
}

func (s *StripeClient) DeleteCustomer(ctx context.Context, customerID string) error {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	params := &stripe.CustomerParams{}
	params.Context = ctx
	_, err := s.api.Customers.Del(customerID, params)
	return err
}

// LatestSubscription returns the customer's most recent subscription, or
// nil when the customer has none. Only one subscription per customer is
// tracked, so the list is capped at a single result.
func (s *StripeClient) LatestSubscription(ctx context.Context, customerID string) (*stripe.Subscription, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	params := &stripe.SubscriptionListParams{
		Customer: stripe.String(customerID),
		Status:   stripe.String("all"),
	}
	params.Context = ctx
	params.Limit = stripe.Int64(1)
	params.AddExpand("data.default_payment_method")

	iter := s.api.Subscriptions.List(params)
	for iter.Next() {
		return iter.Subscription(), nil
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	return nil, nil
}

func (s *StripeClient) CreateCheckoutSession(ctx context.Context, p CheckoutParams) (*stripe.CheckoutSession, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	mode := stripe.CheckoutSessionModePayment
	if p.Recurring {
		mode = stripe.CheckoutSessionModeSubscription
	}

	params := &stripe.CheckoutSessionParams{
		Customer: stripe.String(p.CustomerID),
		Mode:     stripe.String(string(mode)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(p.PriceID),
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL:        stripe.String(p.SuccessURL),
		CancelURL:         stripe.String(p.CancelURL),
		ClientReferenceID: stripe.String(p.UserID),
	}
	params.Context = ctx
	params.AddMetadata("user_id", p.UserID)

	return s.api.CheckoutSessions.New(params)
}

func (s *StripeClient) CreatePortalSession(ctx context.Context, customerID, returnURL string) (string, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	params := &stripe.BillingPortalSessionParams{
		Customer:  stripe.String(customerID),
		ReturnURL: stripe.String(returnURL),
	}
	params.Context = ctx

	sess, err := s.api.BillingPortalSessions.New(params)
	if err != nil {
		return "", err
	}
	return sess.URL, nil
}

func (s *StripeClient) SetCancelAtPeriodEnd(ctx context.Context, subscriptionID string, cancel bool) error {
	ctx, cancelFn := s.bound(ctx)
	defer cancelFn()

	params := &stripe.SubscriptionParams{
		CancelAtPeriodEnd: stripe.Bool(cancel),
	}
	params.Context = ctx

	_, err := s.api.Subscriptions.Update(subscriptionID, params)
	return err
}
