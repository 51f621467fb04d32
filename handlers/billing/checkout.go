package billing

import (
	"errors"
	"net/http"
	"time"

	"github.com/manaujo/Chef-Cardapio-sub000/billing"
	"github.com/manaujo/Chef-Cardapio-sub000/utils"

	"github.com/gin-gonic/gin"
)

type checkoutRequest struct {
	PriceID    string `json:"price_id" binding:"required"`
	Mode       string `json:"mode" binding:"required,oneof=one_time recurring"`
	SuccessURL string `json:"success_url" binding:"required,url"`
	CancelURL  string `json:"cancel_url" binding:"required,url"`
}

type portalRequest struct {
	ReturnURL string `json:"return_url" binding:"required,url"`
}

// CreateCheckout starts a Stripe Checkout session for the authenticated user
// @Summary Create a Stripe Checkout session
// @Description Start a Stripe payment for a one-time purchase or a subscription. Returns the hosted checkout URL to redirect the user to.
// @Tags billing
// @Accept json
// @Produce json
// @Param checkout body checkoutRequest true "Checkout parameters"
// @Security BearerAuth
// @Success 200 {object} map[string]string "session_id, url"
// @Failure 400 {object} map[string]string "error: Invalid input"
// @Failure 401 {object} map[string]string "error: Unauthorized"
// @Failure 500 {object} map[string]string "error: Processor or storage failure"
// @Router /billing/checkout [post]
func (h *Handler) CreateCheckout(c *gin.Context) {
	userID := c.GetString("user_id")
	email := c.GetString("email")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	sess, err := h.svc.StartCheckout(c.Request.Context(), userID, email, billing.CheckoutInput{
		PriceID:    req.PriceID,
		Mode:       req.Mode,
		SuccessURL: req.SuccessURL,
		CancelURL:  req.CancelURL,
	})
	if err != nil {
		utils.LogErrorWithUser(userID, err, "checkout session creation failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not start checkout, please retry"})
		return
	}

	utils.LogSuccessWithUser(userID, "checkout session created")
	c.JSON(http.StatusOK, gin.H{"session_id": sess.SessionID, "url": sess.URL})
}

// CreatePortal opens the Stripe self-service billing portal
// @Summary Open the billing portal
// @Description Return a URL to the Stripe-hosted billing portal for the authenticated user.
// @Tags billing
// @Accept json
// @Produce json
// @Param portal body portalRequest true "Portal parameters"
// @Security BearerAuth
// @Success 200 {object} map[string]string "url"
// @Failure 400 {object} map[string]string "error: Invalid input"
// @Failure 401 {object} map[string]string "error: Unauthorized"
// @Failure 404 {object} map[string]string "error: No billing account"
// @Router /billing/portal [post]
func (h *Handler) CreatePortal(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req portalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	url, err := h.svc.PortalURL(c.Request.Context(), userID, req.ReturnURL)
	if errors.Is(err, billing.ErrNoCustomerMapping) {
		c.JSON(http.StatusNotFound, gin.H{"error": "No billing account for this user"})
		return
	}
	if err != nil {
		utils.LogErrorWithUser(userID, err, "portal session creation failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not open billing portal, please retry"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": url})
}

// GetSubscription returns the stored subscription snapshot and entitlement
// @Summary Current subscription state
// @Description Return the locally stored subscription snapshot and whether the account currently has paid access. Clients poll this while waiting for webhook delivery.
// @Tags billing
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "subscription, entitled"
// @Failure 401 {object} map[string]string "error: Unauthorized"
// @Router /billing/subscription [get]
func (h *Handler) GetSubscription(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	mapping, err := h.svc.MappingForUser(userID)
	if errors.Is(err, billing.ErrNoCustomerMapping) {
		c.JSON(http.StatusOK, gin.H{"subscription": nil, "entitled": false})
		return
	}
	if err != nil {
		utils.LogErrorWithUser(userID, err, "loading customer mapping failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not load subscription"})
		return
	}

	record, err := h.svc.RecordForCustomer(mapping.StripeCustomerID)
	if err != nil {
		utils.LogErrorWithUser(userID, err, "loading subscription record failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not load subscription"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"subscription": record,
		"entitled":     billing.HasAccess(record, time.Now()),
	})
}

// CancelSubscription schedules cancellation at period end
// @Summary Cancel the subscription at period end
// @Tags billing
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]string "message"
// @Failure 401 {object} map[string]string "error: Unauthorized"
// @Failure 404 {object} map[string]string "error: No subscription"
// @Router /billing/subscription/cancel [post]
func (h *Handler) CancelSubscription(c *gin.Context) {
	h.setCancelFlag(c, true, "Subscription will cancel at period end")
}

// ReactivateSubscription clears a pending cancellation
// @Summary Reactivate a subscription scheduled for cancellation
// @Tags billing
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]string "message"
// @Failure 401 {object} map[string]string "error: Unauthorized"
// @Failure 404 {object} map[string]string "error: No subscription"
// @Router /billing/subscription/reactivate [post]
func (h *Handler) ReactivateSubscription(c *gin.Context) {
	h.setCancelFlag(c, false, "Subscription reactivated")
}

func (h *Handler) setCancelFlag(c *gin.Context, cancel bool, message string) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	err := h.svc.SetCancelAtPeriodEnd(c.Request.Context(), userID, cancel)
	if errors.Is(err, billing.ErrNoCustomerMapping) || errors.Is(err, billing.ErrNoSubscription) {
		c.JSON(http.StatusNotFound, gin.H{"error": "No subscription to update"})
		return
	}
	if err != nil {
		utils.LogErrorWithUser(userID, err, "updating cancel_at_period_end failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not update subscription, please retry"})
		return
	}

	utils.LogSuccessWithUser(userID, message)
	c.JSON(http.StatusOK, gin.H{"message": message})
}
