package billing

import (
	"fmt"

	"github.com/manaujo/Chef-Cardapio-sub000/models"
	"github.com/manaujo/Chef-Cardapio-sub000/utils"

	stripe "github.com/stripe/stripe-go/v82"
	"gorm.io/gorm/clause"
)

// RecordOrder stores a completed one-time purchase. The unique session
// id absorbs redelivered checkout.session.completed events: the second
// insert affects zero rows and is not an error.
func (s *Service) RecordOrder(sess *stripe.CheckoutSession) error {
	order := models.OrderRecord{
		StripeSessionID: sess.ID,
		AmountSubtotal:  sess.AmountSubtotal,
		AmountTotal:     sess.AmountTotal,
		Currency:        string(sess.Currency),
		PaymentStatus:   string(sess.PaymentStatus),
	}
	if sess.PaymentIntent != nil {
		order.StripePaymentIntentID = sess.PaymentIntent.ID
	}
	if sess.Customer != nil {
		order.StripeCustomerID = sess.Customer.ID
	}

	res := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "stripe_session_id"}},
		DoNothing: true,
	}).Create(&order)
	if res.Error != nil {
		return fmt.Errorf("storing order for session %s: %w", sess.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		utils.LogInfo("duplicate checkout session ignored: " + sess.ID)
	}
	return nil
}
