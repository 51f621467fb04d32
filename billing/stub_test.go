package billing

import (
	"context"

	"github.com/manaujo/Chef-Cardapio-sub000/payments"

	stripe "github.com/stripe/stripe-go/v82"
)

// fakeClient records calls to the payments processor boundary.
type fakeClient struct {
	customerID  string
	customerErr error
	created     int
	deleted     []string
	deleteErr   error

	sub    *stripe.Subscription
	subErr error

	session    *stripe.CheckoutSession
	sessionErr error

	portalURL string
	portalErr error

	cancelFlags []bool
	cancelErr   error
}

func (f *fakeClient) CreateCustomer(ctx context.Context, email, userID string) (string, error) {
	if f.customerErr != nil {
		return "", f.customerErr
	}
	f.created++
	return f.customerID, nil
}

func (f *fakeClient) DeleteCustomer(ctx context.Context, customerID string) error {
	f.deleted = append(f.deleted, customerID)
	return f.deleteErr
}

func (f *fakeClient) LatestSubscription(ctx context.Context, customerID string) (*stripe.Subscription, error) {
	return f.sub, f.subErr
}

func (f *fakeClient) CreateCheckoutSession(ctx context.Context, p payments.CheckoutParams) (*stripe.CheckoutSession, error) {
	return f.session, f.sessionErr
}

func (f *fakeClient) CreatePortalSession(ctx context.Context, customerID, returnURL string) (string, error) {
	return f.portalURL, f.portalErr
}

func (f *fakeClient) SetCancelAtPeriodEnd(ctx context.Context, subscriptionID string, cancel bool) error {
	f.cancelFlags = append(f.cancelFlags, cancel)
	return f.cancelErr
}
