package controllers

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/nutcrate/nutcrate-api/models"
	"github.com/nutcrate/nutcrate-api/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestComputeShipping(t *testing.T) {
	tests := []struct {
		name     string
		subtotal float64
		want     float64
	}{
		{"below threshold pays flat fee", 1000, 40},
		{"at threshold ships free", 1200, 0},
		{"above threshold ships free", 2500, 0},
		{"just below threshold pays flat fee", 1199.99, 40},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, computeShipping(tt.subtotal))
		})
	}
}

func TestCheckoutTotalExample(t *testing.T) {
	subtotal := 1000.0
	total := subtotal + computeShipping(subtotal)
	assert.Equal(t, 1040.0, total)
}

func TestToPaise(t *testing.T) {
	assert.Equal(t, int64(104000), toPaise(1040))
	assert.Equal(t, int64(99999), toPaise(999.99))
}

func TestVerifyWebhookSignature(t *testing.T) {
	secret := "whsec_test"
	body := []byte(`{"event":"payment.captured"}`)

	assert.True(t, verifyWebhookSignature(secret, body, sign(secret, body)))
	assert.False(t, verifyWebhookSignature(secret, body, sign("other", body)))
	assert.False(t, verifyWebhookSignature(secret, body, ""))
	assert.False(t, verifyWebhookSignature("", body, sign(secret, body)))
	assert.False(t, verifyWebhookSignature(secret, []byte(`tampered`), sign(secret, body)))
}

func webhookRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	server := gin.New()
	server.POST("/api/payment/webhook", PaymentWebhook)
	return server
}

func TestPaymentWebhookRejectsInvalidSignature(t *testing.T) {
	t.Setenv("RAZORPAY_WEBHOOK_SECRET", "whsec_test")
	server := webhookRouter()

	body := []byte(`{"event":"payment.captured"}`)

	req := httptest.NewRequest(http.MethodPost, "/api/payment/webhook", bytes.NewReader(body))
	req.Header.Set("X-Razorpay-Signature", "deadbeef")
	w := httptest.NewRecorder()
	server.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestPaymentWebhookRejectsMissingSignature(t *testing.T) {
	t.Setenv("RAZORPAY_WEBHOOK_SECRET", "whsec_test")
	server := webhookRouter()

	req := httptest.NewRequest(http.MethodPost, "/api/payment/webhook", bytes.NewReader([]byte(`{}`)))
	w := httptest.NewRecorder()
	server.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestPaymentWebhookAcksEventWithoutOrderNumber(t *testing.T) {
	t.Setenv("RAZORPAY_WEBHOOK_SECRET", "whsec_test")
	server := webhookRouter()

	body := []byte(`{"event":"order.paid","payload":{"payment":{"entity":{"id":"pay_1"}}}}`)
	req := httptest.NewRequest(http.MethodPost, "/api/payment/webhook", bytes.NewReader(body))
	req.Header.Set("X-Razorpay-Signature", sign("whsec_test", body))
	w := httptest.NewRecorder()
	server.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ok")
}

func TestReserveOrderNumberSkipsTakenNumbers(t *testing.T) {
	s := store.NewPendingOrderStore()
	session := &store.PendingOrder{UserID: 1}

	calls := 0
	taken := func(string) (bool, error) {
		calls++
		return calls == 1, nil
	}

	number, err := reserveOrderNumber(s, session, taken)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.Regexp(t, `^ORNUT\d{8}$`, number)
	assert.Equal(t, number, session.OrderNumber)

	reserved, ok := s.Get(number)
	require.True(t, ok)
	assert.Same(t, session, reserved)
}

func TestReserveOrderNumberGivesUpWhenEveryNumberIsTaken(t *testing.T) {
	s := store.NewPendingOrderStore()
	taken := func(string) (bool, error) { return true, nil }

	_, err := reserveOrderNumber(s, &store.PendingOrder{UserID: 1}, taken)
	require.Error(t, err)
	assert.Equal(t, 0, s.Len())
}

func seedPendingSession(t *testing.T, db *gorm.DB, user models.User, product models.Product, orderNumber string) {
	t.Helper()
	require.NoError(t, db.Create(&models.CartItem{UserID: user.ID, ProductID: product.ID, Quantity: 2}).Error)
	store.PendingOrders.Put(&store.PendingOrder{
		OrderNumber:    orderNumber,
		UserID:         user.ID,
		Items:          []store.PendingItem{{ProductID: product.ID, Name: product.Name, Price: product.Price, Quantity: 2}},
		Subtotal:       product.Price * 2,
		ShippingFee:    computeShipping(product.Price * 2),
		Total:          product.Price*2 + computeShipping(product.Price*2),
		FirstName:      "Asha",
		Email:          user.Email,
		GatewayOrderID: "order_gw_" + orderNumber,
	})
}

func TestMaterializeOrderIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t, db, "user_pay_idem")
	product := seedProduct(t, db, "jar-1kg", 800)
	seedPendingSession(t, db, user, product, "ORNUT00000042")

	first, err := materializeOrder("ORNUT00000042", "pay_1")
	require.NoError(t, err)
	second, err := materializeOrder("ORNUT00000042", "pay_1")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	var orderCount int64
	require.NoError(t, db.Model(&models.Order{}).Where("order_number = ?", "ORNUT00000042").Count(&orderCount).Error)
	assert.EqualValues(t, 1, orderCount)

	var tracking models.DeliveryTracking
	require.NoError(t, db.Where("order_id = ?", first.ID).First(&tracking).Error)
	assert.Equal(t, models.DeliveryOrderPlaced, tracking.Status)

	var cartCount int64
	require.NoError(t, db.Model(&models.CartItem{}).Where("user_id = ?", user.ID).Count(&cartCount).Error)
	assert.Zero(t, cartCount)
}

func TestMaterializeOrderWithoutSessionOrRow(t *testing.T) {
	setupTestDB(t)

	_, err := materializeOrder("ORNUT99999999", "pay_x")
	require.ErrorIs(t, err, errNoPendingSession)
}

func postVerify(server http.Handler, orderNumber, paymentID string) *httptest.ResponseRecorder {
	body := []byte(fmt.Sprintf(`{"orderNumber":%q,"paymentId":%q}`, orderNumber, paymentID))
	req := httptest.NewRequest(http.MethodPost, "/api/payment/verify", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	server.ServeHTTP(w, req)
	return w
}

// The webhook can land before the browser polls; verification must then
// return the already-persisted order instead of a spurious 404.
func TestVerifyPaymentAfterWebhookReturnsExistingOrder(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t, db, "user_pay_verify")
	product := seedProduct(t, db, "jar-500g", 500)
	seedPendingSession(t, db, user, product, "ORNUT00000077")

	_, err := materializeOrder("ORNUT00000077", "pay_hook")
	require.NoError(t, err)

	server := authedRouter(user, http.MethodPost, "/api/payment/verify", VerifyPayment)
	w := postVerify(server, "ORNUT00000077", "pay_hook")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ORNUT00000077")

	var orderCount int64
	require.NoError(t, db.Model(&models.Order{}).Where("order_number = ?", "ORNUT00000077").Count(&orderCount).Error)
	assert.EqualValues(t, 1, orderCount)
}

func TestVerifyPaymentUnknownOrder(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t, db, "user_pay_unknown")
	server := authedRouter(user, http.MethodPost, "/api/payment/verify", VerifyPayment)

	w := postVerify(server, "ORNUT11111111", "pay_x")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestVerifyPaymentHidesOtherUsersOrder(t *testing.T) {
	db := setupTestDB(t)
	owner := seedUser(t, db, "user_pay_owner")
	other := seedUser(t, db, "user_pay_snoop")
	product := seedProduct(t, db, "jar-250g", 250)
	seedPendingSession(t, db, owner, product, "ORNUT00000088")

	_, err := materializeOrder("ORNUT00000088", "pay_owner")
	require.NoError(t, err)

	server := authedRouter(other, http.MethodPost, "/api/payment/verify", VerifyPayment)
	w := postVerify(server, "ORNUT00000088", "pay_owner")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
