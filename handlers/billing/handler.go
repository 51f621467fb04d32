package billing

import (
	"github.com/manaujo/Chef-Cardapio-sub000/billing"
)

// Handler exposes the billing HTTP surface. spawn runs webhook
// processing after the event is acknowledged; tests replace it with a
// synchronous version.
type Handler struct {
	svc           *billing.Service
	webhookSecret string
	spawn         func(func())
}

func NewHandler(svc *billing.Service, webhookSecret string) *Handler {
	return &Handler{
		svc:           svc,
		webhookSecret: webhookSecret,
		spawn:         func(fn func()) { go fn() },
	}
}
