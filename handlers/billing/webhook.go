package billing

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/manaujo/Chef-Cardapio-sub000/utils"

	"github.com/gin-gonic/gin"
	stripe "github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"
)

// Events that feed the reconciliation pipeline. Anything else is
// acknowledged and dropped.
var handledEvents = map[stripe.EventType]bool{
	"customer.subscription.created": true,
	"customer.subscription.updated": true,
	"customer.subscription.deleted": true,
	"invoice.payment_succeeded":     true,
	"invoice.payment_failed":        true,
	"checkout.session.completed":    true,
}

// HandleWebhook receives signed Stripe events
// @Summary Stripe webhook endpoint
// @Description Verify the Stripe signature over the raw payload and schedule reconciliation. Responds as soon as the signature checks out; processing happens in the background so Stripe's delivery timeout never triggers redelivery storms.
// @Tags billing
// @Accept json
// @Produce json
// @Success 200 {object} map[string]bool "received: true"
// @Failure 400 {object} map[string]string "error: Signature verification failed"
// @Router /stripe/webhook [post]
func (h *Handler) HandleWebhook(c *gin.Context) {
	const maxBodyBytes = int64(65536)
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes)

	// Signatures are computed over the literal byte stream; the body
	// must not be re-serialized before verification.
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Could not read request body"})
		return
	}

	event, err := webhook.ConstructEventWithOptions(
		payload,
		c.GetHeader("Stripe-Signature"),
		h.webhookSecret,
		webhook.ConstructEventOptions{
			IgnoreAPIVersionMismatch: true,
		},
	)
	if err != nil {
		// The signature is checked before the body is parsed, so any
		// non-signature error here means a signed but unparseable body.
		if isSignatureError(err) {
			utils.LogWarn(err, "stripe webhook signature verification failed")
			c.JSON(http.StatusBadRequest, gin.H{"error": "Signature verification failed"})
			return
		}
		utils.LogWarn(err, "stripe webhook payload malformed")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Malformed payload"})
		return
	}

	if !handledEvents[event.Type] {
		utils.LogDebug("ignoring stripe event " + string(event.Type))
		c.JSON(http.StatusOK, gin.H{"received": true})
		return
	}

	// Ack before processing. A failure past this point cannot be
	// retried by Stripe, so processEvent logs loudly instead.
	c.JSON(http.StatusOK, gin.H{"received": true})
	h.spawn(func() { h.processEvent(event) })
}

func (h *Handler) processEvent(event stripe.Event) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	switch event.Type {
	case "customer.subscription.created", "customer.subscription.updated", "customer.subscription.deleted":
		var sub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			utils.LogError(err, "malformed subscription payload in "+string(event.Type))
			return
		}
		h.syncCustomer(ctx, event.Type, customerID(sub.Customer))

	case "invoice.payment_succeeded", "invoice.payment_failed":
		var inv stripe.Invoice
		if err := json.Unmarshal(event.Data.Raw, &inv); err != nil {
			utils.LogError(err, "malformed invoice payload in "+string(event.Type))
			return
		}
		h.syncCustomer(ctx, event.Type, customerID(inv.Customer))

	case "checkout.session.completed":
		var sess stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
			utils.LogError(err, "malformed checkout session payload")
			return
		}
		if sess.Mode == stripe.CheckoutSessionModePayment {
			if err := h.svc.RecordOrder(&sess); err != nil {
				utils.LogError(err, "recording order for session "+sess.ID+" failed after ack")
			}
			return
		}
		h.syncCustomer(ctx, event.Type, customerID(sess.Customer))
	}
}

// syncCustomer runs one reconciliation for the customer referenced by an
// event. The event payload itself is never trusted for subscription
// state; Sync always re-fetches from Stripe.
func (h *Handler) syncCustomer(ctx context.Context, eventType stripe.EventType, custID string) {
	if custID == "" {
		utils.LogWarn(nil, "stripe event "+string(eventType)+" carries no customer id, dropped")
		return
	}
	if err := h.svc.Sync(ctx, custID); err != nil {
		// Already acked; this is the alerting path for missed state.
		utils.LogError(err, "reconciliation failed after ack for customer "+custID)
		return
	}
	utils.LogInfo("reconciled customer " + custID + " from " + string(eventType))
}

func isSignatureError(err error) bool {
	return errors.Is(err, webhook.ErrNotSigned) ||
		errors.Is(err, webhook.ErrInvalidHeader) ||
		errors.Is(err, webhook.ErrTooOld) ||
		errors.Is(err, webhook.ErrNoValidSignature)
}

func customerID(c *stripe.Customer) string {
	if c == nil {
		return ""
	}
	return c.ID
}
