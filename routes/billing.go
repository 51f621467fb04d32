package routes

import (
	"github.com/manaujo/Chef-Cardapio-sub000/middleware"

	"github.com/gin-gonic/gin"
)

func BillingRoutes(r *gin.Engine, h Handlers) {
	billingRoutes := r.Group("/billing")
	billingRoutes.Use(middleware.JWTAuth(h.JWTSecret))
	{
		billingRoutes.POST("/checkout", h.Billing.CreateCheckout)
		billingRoutes.POST("/portal", h.Billing.CreatePortal)
		billingRoutes.GET("/subscription", h.Billing.GetSubscription)
		billingRoutes.POST("/subscription/cancel", h.Billing.CancelSubscription)
		billingRoutes.POST("/subscription/reactivate", h.Billing.ReactivateSubscription)
	}

	// Signature-gated, no bearer auth: Stripe is the caller.
	r.POST("/stripe/webhook", h.Billing.HandleWebhook)
}
