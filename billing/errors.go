package billing

import "errors"

var (
	// ErrExternalService means the payments processor was unreachable or
	// rejected the call. Safe for callers to retry.
	ErrExternalService = errors.New("payments provider error")

	// ErrMappingFailed means local persistence failed after a customer
	// was created at the processor; the compensating delete has already
	// been attempted.
	ErrMappingFailed = errors.New("customer mapping failed")

	// ErrNoCustomerMapping means the user never started a checkout.
	ErrNoCustomerMapping = errors.New("no customer mapping for user")

	// ErrNoSubscription means no subscription exists to operate on.
	ErrNoSubscription = errors.New("no subscription for customer")
)
