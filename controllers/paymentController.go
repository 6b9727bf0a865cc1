package controllers

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/nutcrate/nutcrate-api/initializers"
	"github.com/nutcrate/nutcrate-api/middlewares"
	"github.com/nutcrate/nutcrate-api/models"
	"github.com/nutcrate/nutcrate-api/store"
	"github.com/nutcrate/nutcrate-api/utils"
	"gorm.io/gorm"
)

const (
	gatewayBaseURL        = "https://api.razorpay.com/v1"
	freeShippingThreshold = 1200.0
	flatShippingFee       = 40.0
	maxMintAttempts       = 5
)

var errNoPendingSession = errors.New("no pending payment session")

type checkoutInput struct {
	FirstName  string `json:"firstName" binding:"required"`
	LastName   string `json:"lastName" binding:"required"`
	Email      string `json:"email" binding:"required,email"`
	Phone      string `json:"phone" binding:"required"`
	Address    string `json:"address" binding:"required"`
	City       string `json:"city" binding:"required"`
	State      string `json:"state" binding:"required"`
	Pincode    string `json:"pincode" binding:"required"`
	CouponCode string `json:"couponCode"`
}

// computeShipping applies the flat fee below the free-shipping threshold.
func computeShipping(subtotal float64) float64 {
	if subtotal >= freeShippingThreshold {
		return 0
	}
	return flatShippingFee
}

// toPaise converts a rupee amount to the gateway's integer paise.
func toPaise(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// reserveOrderNumber mints order numbers until one is free in both the
// orders table and the pending store, then reserves it there. An 8-digit
// number can collide with an existing order; handing back a duplicate
// would hand that customer someone else's order.
func reserveOrderNumber(s *store.PendingOrderStore, session *store.PendingOrder, taken func(string) (bool, error)) (string, error) {
	for attempt := 0; attempt < maxMintAttempts; attempt++ {
		number, err := utils.GenerateOrderNumber()
		if err != nil {
			return "", err
		}
		inUse, err := taken(number)
		if err != nil {
			return "", err
		}
		if inUse {
			continue
		}
		session.OrderNumber = number
		if s.PutIfAbsent(session) {
			return number, nil
		}
	}
	return "", errors.New("could not mint a unique order number")
}

func orderNumberTaken(number string) (bool, error) {
	var count int64
	err := initializers.DB.Model(&models.Order{}).Where("order_number = ?", number).Count(&count).Error
	return count > 0, err
}

func gatewayClient() *resty.Client {
	return resty.New().
		SetTimeout(30 * time.Second).
		SetBaseURL(gatewayBaseURL).
		SetBasicAuth(os.Getenv("RAZORPAY_KEY_ID"), os.Getenv("RAZORPAY_KEY_SECRET"))
}

// CreatePaymentOrder stages a checkout: prices the cart, mints an order
// number, registers a pending session, and opens a gateway order. The
// Order row is deliberately not created until payment is confirmed.
func CreatePaymentOrder(ctx *gin.Context) {
	user, _ := middlewares.CurrentUser(ctx)

	var input checkoutInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		log.Println("Bind error:", err)
		sendErrorResponse(ctx, http.StatusBadRequest, "Invalid request body")
		return
	}

	var cartItems []models.CartItem
	if result := initializers.DB.Where("user_id = ?", user.ID).Preload("Product").Find(&cartItems); result.Error != nil {
		log.Println("Database error:", result.Error)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to fetch cart")
		return
	}
	if len(cartItems) == 0 {
		sendErrorResponse(ctx, http.StatusBadRequest, "Your cart is empty")
		return
	}

	// Price from live product rows, never from the client.
	subtotal := 0.0
	pendingItems := make([]store.PendingItem, 0, len(cartItems))
	for _, item := range cartItems {
		subtotal += item.Product.Price * float64(item.Quantity)
		pendingItems = append(pendingItems, store.PendingItem{
			ProductID: item.ProductID,
			Name:      item.Product.Name,
			ImageURL:  item.Product.ImageURL,
			Price:     item.Product.Price,
			Quantity:  item.Quantity,
		})
	}

	discount := 0.0
	if input.CouponCode != "" {
		coupon, err := findCouponByCode(input.CouponCode)
		if err != nil {
			sendErrorResponse(ctx, http.StatusBadRequest, "Invalid coupon code")
			return
		}
		discount, err = couponDiscount(coupon, subtotal, time.Now())
		if err != nil {
			sendErrorResponse(ctx, http.StatusBadRequest, err.Error())
			return
		}
	}

	shipping := computeShipping(subtotal)
	total := subtotal + shipping - discount

	session := &store.PendingOrder{
		UserID:      user.ID,
		Items:       pendingItems,
		Subtotal:    subtotal,
		ShippingFee: shipping,
		Discount:    discount,
		Total:       total,
		CouponCode:  input.CouponCode,
		FirstName:   input.FirstName,
		LastName:    input.LastName,
		Email:       input.Email,
		Phone:       input.Phone,
		Address:     input.Address,
		City:        input.City,
		State:       input.State,
		Pincode:     input.Pincode,
	}
	orderNumber, err := reserveOrderNumber(store.PendingOrders, session, orderNumberTaken)
	if err != nil {
		log.Println("Order number reservation error:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, msgInternalServerError)
		return
	}

	resp, err := gatewayClient().R().
		SetHeader("Content-Type", "application/json").
		SetHeader("X-Request-Id", uuid.NewString()).
		SetBody(map[string]any{
			"amount":   toPaise(total),
			"currency": "INR",
			"receipt":  orderNumber,
			"notes":    map[string]string{"order_number": orderNumber},
		}).
		Post("/orders")
	if err != nil || resp.StatusCode() != http.StatusOK {
		log.Printf("Gateway order error: %v, response: %s", err, resp.Body())
		store.PendingOrders.Evict(orderNumber)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to initiate payment")
		return
	}

	var gatewayResp struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(resp.Body(), &gatewayResp); err != nil || gatewayResp.ID == "" {
		store.PendingOrders.Evict(orderNumber)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Invalid response from payment gateway")
		return
	}

	session.GatewayOrderID = gatewayResp.ID
	store.PendingOrders.Put(session)

	sendJSONResponse(ctx, http.StatusOK, gin.H{
		"orderNumber":    orderNumber,
		"gatewayOrderId": gatewayResp.ID,
		"amount":         toPaise(total),
		"currency":       "INR",
		"keyId":          os.Getenv("RAZORPAY_KEY_ID"),
	})
}

// materializeOrder turns a pending session into a persisted Order exactly
// once. Both confirmation paths funnel through here; the per-order lock
// plus the unique index on order_number keep a webhook/verify race from
// creating two rows.
func materializeOrder(orderNumber, paymentID string) (*models.Order, error) {
	unlock := store.PendingOrders.LockOrder(orderNumber)
	defer unlock()

	var existing models.Order
	err := initializers.DB.Preload("OrderItems").Where("order_number = ?", orderNumber).First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	session, ok := store.PendingOrders.Claim(orderNumber)
	if !ok {
		return nil, fmt.Errorf("%w for order %s", errNoPendingSession, orderNumber)
	}

	order := models.Order{
		OrderNumber:    session.OrderNumber,
		UserID:         session.UserID,
		FirstName:      session.FirstName,
		LastName:       session.LastName,
		Email:          session.Email,
		Phone:          session.Phone,
		Address:        session.Address,
		City:           session.City,
		State:          session.State,
		Pincode:        session.Pincode,
		Subtotal:       session.Subtotal,
		ShippingFee:    session.ShippingFee,
		Discount:       session.Discount,
		Total:          session.Total,
		CouponCode:     session.CouponCode,
		Status:         models.OrderStatusConfirmed,
		DeliveryStatus: models.DeliveryOrderPlaced,
		PaymentID:      paymentID,
		GatewayOrderID: session.GatewayOrderID,
	}

	txErr := initializers.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&order).Error; err != nil {
			return err
		}
		for _, item := range session.Items {
			orderItem := models.OrderItem{
				OrderID:   order.ID,
				ProductID: item.ProductID,
				Name:      item.Name,
				ImageURL:  item.ImageURL,
				Price:     item.Price,
				Quantity:  item.Quantity,
			}
			if err := tx.Create(&orderItem).Error; err != nil {
				return err
			}
		}
		tracking := models.DeliveryTracking{
			OrderID: order.ID,
			Status:  models.DeliveryOrderPlaced,
			Message: "Order placed and payment confirmed",
		}
		return tx.Create(&tracking).Error
	})
	if txErr != nil {
		// A concurrent confirmation may have won the unique-index race;
		// return its row instead of failing.
		if errors.Is(txErr, gorm.ErrDuplicatedKey) {
			var winner models.Order
			if err := initializers.DB.Preload("OrderItems").Where("order_number = ?", orderNumber).First(&winner).Error; err == nil {
				return &winner, nil
			}
		}
		store.PendingOrders.Put(session)
		return nil, txErr
	}

	if err := initializers.DB.Where("user_id = ?", session.UserID).Delete(&models.CartItem{}).Error; err != nil {
		log.Println("Failed to clear cart after order", orderNumber, ":", err)
	}

	if session.CouponCode != "" {
		if err := initializers.DB.Model(&models.Coupon{}).
			Where("code = ?", session.CouponCode).
			UpdateColumn("used_count", gorm.Expr("used_count + 1")).Error; err != nil {
			log.Println("Failed to bump coupon usage for", session.CouponCode, ":", err)
		}
	}

	go func(order models.Order, items []store.PendingItem) {
		emailItems := make([]utils.OrderEmailItem, 0, len(items))
		for _, item := range items {
			emailItems = append(emailItems, utils.OrderEmailItem{Name: item.Name, Quantity: item.Quantity, Price: item.Price})
		}
		err := utils.SendOrderConfirmationEmail(order.Email, utils.OrderEmailData{
			Name:        order.FirstName,
			OrderNumber: order.OrderNumber,
			Total:       order.Total,
			Items:       emailItems,
		})
		if err != nil {
			log.Println("Failed to send confirmation email for", order.OrderNumber, ":", err)
		}
	}(order, session.Items)

	return &order, nil
}

// VerifyPayment is the client-poll confirmation path. The browser's claim
// of success is ignored; the gateway is asked directly.
func VerifyPayment(ctx *gin.Context) {
	user, _ := middlewares.CurrentUser(ctx)

	var input struct {
		OrderNumber string `json:"orderNumber" binding:"required"`
		PaymentID   string `json:"paymentId"`
	}
	if err := ctx.ShouldBindJSON(&input); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Invalid request body")
		return
	}

	// With a live session the gateway is asked for the authoritative
	// status. Without one the webhook may already have materialized the
	// order; materializeOrder re-checks under the per-order lock either
	// way, so a confirmation landing mid-request is still found.
	session, hasSession := store.PendingOrders.Get(input.OrderNumber)
	if hasSession {
		if session.UserID != user.ID {
			sendErrorResponse(ctx, http.StatusNotFound, "Order not found")
			return
		}

		resp, err := gatewayClient().R().
			SetHeader("Accept", "application/json").
			Get("/orders/" + session.GatewayOrderID)
		if err != nil || resp.StatusCode() != http.StatusOK {
			log.Printf("Gateway status error: %v, response: %s", err, resp.Body())
			sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to check payment status")
			return
		}

		var status struct {
			Status     string `json:"status"`
			AmountPaid int64  `json:"amount_paid"`
		}
		if err := json.Unmarshal(resp.Body(), &status); err != nil {
			sendErrorResponse(ctx, http.StatusInternalServerError, "Invalid response from payment gateway")
			return
		}

		if status.Status != "paid" {
			store.PendingOrders.Evict(input.OrderNumber)
			sendErrorResponse(ctx, http.StatusBadRequest, "Payment was not completed")
			return
		}
	}

	order, err := materializeOrder(input.OrderNumber, input.PaymentID)
	if err != nil {
		if errors.Is(err, errNoPendingSession) {
			sendErrorResponse(ctx, http.StatusNotFound, "Order not found")
			return
		}
		log.Println("Order materialization error:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to create order")
		return
	}
	if order.UserID != user.ID {
		sendErrorResponse(ctx, http.StatusNotFound, "Order not found")
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"order": order})
}

// verifyWebhookSignature checks the gateway's HMAC-SHA256 over the raw
// body. Fails closed: an unverified payload is never processed.
func verifyWebhookSignature(secret string, body []byte, signature string) bool {
	if secret == "" || signature == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(strings.TrimSpace(signature)))
}

type webhookEvent struct {
	Event   string `json:"event"`
	Payload struct {
		Payment struct {
			Entity struct {
				ID      string            `json:"id"`
				OrderID string            `json:"order_id"`
				Notes   map[string]string `json:"notes"`
			} `json:"entity"`
		} `json:"payment"`
	} `json:"payload"`
}

// PaymentWebhook is the server-push confirmation path. After the signature
// checks out the handler always acks 200, even on internal failure, so the
// gateway does not retry-storm us; failures are logged instead.
func PaymentWebhook(ctx *gin.Context) {
	body, err := io.ReadAll(ctx.Request.Body)
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Failed to read body")
		return
	}

	signature := ctx.GetHeader("X-Razorpay-Signature")
	if !verifyWebhookSignature(os.Getenv("RAZORPAY_WEBHOOK_SECRET"), body, signature) {
		sendErrorResponse(ctx, http.StatusUnauthorized, "Invalid webhook signature")
		return
	}

	var event webhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		log.Println("Webhook payload parse error:", err)
		sendJSONResponse(ctx, http.StatusOK, gin.H{"status": "ok"})
		return
	}

	payment := event.Payload.Payment.Entity
	orderNumber := payment.Notes["order_number"]
	if orderNumber == "" {
		log.Println("Webhook event without an order number, ignoring:", event.Event)
		sendJSONResponse(ctx, http.StatusOK, gin.H{"status": "ok"})
		return
	}

	switch event.Event {
	case "payment.captured":
		if _, err := materializeOrder(orderNumber, payment.ID); err != nil {
			log.Println("Webhook materialization error for", orderNumber, ":", err)
		}
	case "payment.failed":
		store.PendingOrders.Evict(orderNumber)
		result := initializers.DB.Model(&models.Order{}).
			Where("order_number = ?", orderNumber).
			Update("status", models.OrderStatusFailed)
		if result.Error != nil {
			log.Println("Failed to mark order failed:", result.Error)
		}
	default:
		// Other events are not ours to handle.
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"status": "ok"})
}
