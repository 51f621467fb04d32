package billing

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	corebilling "github.com/manaujo/Chef-Cardapio-sub000/billing"
	"github.com/manaujo/Chef-Cardapio-sub000/testutils"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	stripe "github.com/stripe/stripe-go/v82"
	"gorm.io/gorm"
)

const testWebhookSecret = "whsec_test_secret"

// signatureHeader builds a Stripe-Signature value the way Stripe signs
// deliveries: HMAC-SHA256 over "<timestamp>.<payload>".
func signatureHeader(payload []byte, secret string, at time.Time) string {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.%s", at.Unix(), payload)
	return fmt.Sprintf("t=%d,v1=%s", at.Unix(), hex.EncodeToString(mac.Sum(nil)))
}

func newWebhookHandler(db *gorm.DB, client *fakeClient) *Handler {
	h := NewHandler(corebilling.NewService(db, client), testWebhookSecret)
	// Run processing inline so tests observe its effects.
	h.spawn = func(fn func()) { fn() }
	return h
}

func postWebhook(h *Handler, payload []byte, signature string) *httptest.ResponseRecorder {
	r := testutils.SetupTestRouter()
	r.POST("/stripe/webhook", h.HandleWebhook)

	req, _ := http.NewRequest(http.MethodPost, "/stripe/webhook", bytes.NewReader(payload))
	req.Header.Set("Stripe-Signature", signature)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func eventPayload(eventType string, object map[string]interface{}) []byte {
	payload, _ := json.Marshal(map[string]interface{}{
		"id":   "evt_test_1",
		"type": eventType,
		"data": map[string]interface{}{
			"object": object,
		},
	})
	return payload
}

func TestWebhook_InvalidSignature(t *testing.T) {
	gormDB, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	payload := eventPayload("customer.subscription.updated", map[string]interface{}{
		"id":       "sub_1",
		"customer": "cus_1",
	})

	h := newWebhookHandler(gormDB, &fakeClient{})
	resp := postWebhook(h, payload, signatureHeader(payload, "whsec_wrong_secret", time.Now()))

	assert.Equal(t, http.StatusBadRequest, resp.Code)

	var body map[string]string
	json.Unmarshal(resp.Body.Bytes(), &body)
	assert.Equal(t, "Signature verification failed", body["error"])
	// Rejected before any processing: no statement may reach storage.
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWebhook_MalformedPayloadWithValidSignature(t *testing.T) {
	gormDB, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	// Correctly signed, but not an event: the response must name the
	// payload, not the signature.
	payload := []byte(`{"type": "customer.subscription.updated"`)

	h := newWebhookHandler(gormDB, &fakeClient{})
	resp := postWebhook(h, payload, signatureHeader(payload, testWebhookSecret, time.Now()))

	assert.Equal(t, http.StatusBadRequest, resp.Code)

	var body map[string]string
	json.Unmarshal(resp.Body.Bytes(), &body)
	assert.Equal(t, "Malformed payload", body["error"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWebhook_TamperedPayload(t *testing.T) {
	gormDB, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	payload := eventPayload("customer.subscription.updated", map[string]interface{}{
		"id":       "sub_1",
		"customer": "cus_1",
	})
	signature := signatureHeader(payload, testWebhookSecret, time.Now())

	// Flip one byte after signing.
	tampered := bytes.Replace(payload, []byte("cus_1"), []byte("cus_2"), 1)

	h := newWebhookHandler(gormDB, &fakeClient{})
	resp := postWebhook(h, tampered, signature)

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWebhook_UnknownEventAckedAndDropped(t *testing.T) {
	gormDB, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	payload := eventPayload("product.created", map[string]interface{}{"id": "prod_1"})

	h := newWebhookHandler(gormDB, &fakeClient{})
	resp := postWebhook(h, payload, signatureHeader(payload, testWebhookSecret, time.Now()))

	assert.Equal(t, http.StatusOK, resp.Code)

	var body map[string]bool
	json.Unmarshal(resp.Body.Bytes(), &body)
	assert.True(t, body["received"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWebhook_SubscriptionUpdatedSyncs(t *testing.T) {
	gormDB, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	// The event payload carries stale-looking data on purpose; only the
	// customer id is read, state comes from a fresh fetch.
	payload := eventPayload("customer.subscription.updated", map[string]interface{}{
		"id":       "sub_1",
		"customer": "cus_1",
		"status":   "canceled",
	})

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "subscription_records" (.+) ON CONFLICT (.+) DO UPDATE SET (.+) RETURNING "id"`).
		WillReturnRows(mock.NewRows([]string{"id"}).AddRow("rec-1"))
	mock.ExpectCommit()

	client := &fakeClient{
		sub: &stripe.Subscription{
			ID:     "sub_1",
			Status: stripe.SubscriptionStatusActive,
			Items: &stripe.SubscriptionItemList{
				Data: []*stripe.SubscriptionItem{
					{
						Price:            &stripe.Price{ID: "price_123"},
						CurrentPeriodEnd: time.Now().AddDate(0, 0, 30).Unix(),
					},
				},
			},
		},
	}

	h := newWebhookHandler(gormDB, client)
	resp := postWebhook(h, payload, signatureHeader(payload, testWebhookSecret, time.Now()))

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWebhook_InvoicePaymentSucceededSyncs(t *testing.T) {
	gormDB, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	payload := eventPayload("invoice.payment_succeeded", map[string]interface{}{
		"id":       "in_1",
		"customer": "cus_1",
	})

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "subscription_records" (.+) ON CONFLICT (.+) DO UPDATE SET (.+) RETURNING "id"`).
		WillReturnRows(mock.NewRows([]string{"id"}).AddRow("rec-1"))
	mock.ExpectCommit()

	h := newWebhookHandler(gormDB, &fakeClient{})
	resp := postWebhook(h, payload, signatureHeader(payload, testWebhookSecret, time.Now()))

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func checkoutCompletedPayload() []byte {
	return eventPayload("checkout.session.completed", map[string]interface{}{
		"id":              "cs_123",
		"mode":            "payment",
		"customer":        "cus_1",
		"payment_intent":  "pi_1",
		"amount_subtotal": 1000,
		"amount_total":    1200,
		"currency":        "brl",
		"payment_status":  "paid",
	})
}

func expectOrderInsert(mock sqlmock.Sqlmock, inserted bool) {
	rows := mock.NewRows([]string{"id"})
	if inserted {
		rows.AddRow("ord-1")
	}
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "order_records" (.+) ON CONFLICT (.+) DO NOTHING RETURNING "id"`).
		WillReturnRows(rows)
	mock.ExpectCommit()
}

func TestWebhook_CheckoutCompletedPaymentModeIdempotent(t *testing.T) {
	gormDB, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	payload := checkoutCompletedPayload()

	// First delivery inserts; the redelivery conflicts on the session
	// id and affects no rows. Exactly one order either way.
	expectOrderInsert(mock, true)
	expectOrderInsert(mock, false)

	h := newWebhookHandler(gormDB, &fakeClient{})

	resp := postWebhook(h, payload, signatureHeader(payload, testWebhookSecret, time.Now()))
	assert.Equal(t, http.StatusOK, resp.Code)

	resp = postWebhook(h, payload, signatureHeader(payload, testWebhookSecret, time.Now()))
	assert.Equal(t, http.StatusOK, resp.Code)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWebhook_CheckoutCompletedSubscriptionModeSyncs(t *testing.T) {
	gormDB, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	payload := eventPayload("checkout.session.completed", map[string]interface{}{
		"id":       "cs_456",
		"mode":     "subscription",
		"customer": "cus_1",
	})

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "subscription_records" (.+) ON CONFLICT (.+) DO UPDATE SET (.+) RETURNING "id"`).
		WillReturnRows(mock.NewRows([]string{"id"}).AddRow("rec-1"))
	mock.ExpectCommit()

	h := newWebhookHandler(gormDB, &fakeClient{})
	resp := postWebhook(h, payload, signatureHeader(payload, testWebhookSecret, time.Now()))

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWebhook_SyncFailureStillAcked(t *testing.T) {
	gormDB, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	payload := eventPayload("customer.subscription.deleted", map[string]interface{}{
		"id":       "sub_1",
		"customer": "cus_1",
	})

	h := newWebhookHandler(gormDB, &fakeClient{subErr: fmt.Errorf("stripe unreachable")})
	resp := postWebhook(h, payload, signatureHeader(payload, testWebhookSecret, time.Now()))

	// Already verified, so the sender gets a 200 and the failure goes
	// to the logs instead of triggering redelivery.
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
