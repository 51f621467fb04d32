package billing

import (
	"github.com/manaujo/Chef-Cardapio-sub000/payments"

	"gorm.io/gorm"
)

// Service owns the subscription state pipeline: customer mapping,
// checkout initiation, webhook-driven reconciliation and order intake.
// All dependencies are injected; the service holds no global state.
type Service struct {
	db       *gorm.DB
	payments payments.Client
}

func NewService(db *gorm.DB, client payments.Client) *Service {
	return &Service{db: db, payments: client}
}
