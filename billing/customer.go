package billing

import (
	"context"
	"errors"
	"fmt"

	"github.com/manaujo/Chef-Cardapio-sub000/models"
	"github.com/manaujo/Chef-Cardapio-sub000/utils"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// EnsureCustomer returns the Stripe customer id for a user, creating the
// customer and its local mapping on first use.
//
// Concurrent first checkouts race on the unique user_id index: the insert
// either wins or affects zero rows, and a loser deletes the Stripe
// customer it just created and adopts the winner's mapping. An orphaned
// Stripe customer with no local mapping would make reconciliation for
// this user silently impossible, which is why the compensating delete
// also runs when persistence fails outright.
func (s *Service) EnsureCustomer(ctx context.Context, userID, email string) (string, error) {
	var mapping models.CustomerMapping
	err := s.db.First(&mapping, "user_id = ?", userID).Error
	if err == nil {
		return mapping.StripeCustomerID, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", fmt.Errorf("looking up customer mapping: %w", err)
	}

	customerID, err := s.payments.CreateCustomer(ctx, email, userID)
	if err != nil {
		return "", fmt.Errorf("%w: creating customer: %v", ErrExternalService, err)
	}

	mapping = models.CustomerMapping{
		UserID:           userID,
		StripeCustomerID: customerID,
	}
	res := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoNothing: true,
	}).Create(&mapping)

	if res.Error == nil && res.RowsAffected > 0 {
		return customerID, nil
	}

	// Best effort: a failed compensating delete is logged for manual
	// cleanup but must not mask the original failure.
	if delErr := s.payments.DeleteCustomer(ctx, customerID); delErr != nil {
		utils.LogError(delErr, "compensating delete failed, orphan stripe customer "+customerID)
	}

	if res.Error != nil {
		return "", fmt.Errorf("%w: %v", ErrMappingFailed, res.Error)
	}

	var winner models.CustomerMapping
	if err := s.db.First(&winner, "user_id = ?", userID).Error; err != nil {
		return "", fmt.Errorf("%w: mapping vanished after conflict: %v", ErrMappingFailed, err)
	}
	return winner.StripeCustomerID, nil
}

// MappingForUser returns the live customer mapping for a user, or
// ErrNoCustomerMapping when checkout was never started.
func (s *Service) MappingForUser(userID string) (*models.CustomerMapping, error) {
	var mapping models.CustomerMapping
	err := s.db.First(&mapping, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNoCustomerMapping
	}
	if err != nil {
		return nil, fmt.Errorf("looking up customer mapping: %w", err)
	}
	return &mapping, nil
}
