package models

import "gorm.io/gorm"

type OrderStatus string
type DeliveryStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusFailed    OrderStatus = "failed"
	OrderStatusCancelled OrderStatus = "cancelled"

	DeliveryOrderPlaced    DeliveryStatus = "order_placed"
	DeliveryProcessing     DeliveryStatus = "processing"
	DeliveryShipped        DeliveryStatus = "shipped"
	DeliveryInTransit      DeliveryStatus = "in_transit"
	DeliveryOutForDelivery DeliveryStatus = "out_for_delivery"
	DeliveryDelivered      DeliveryStatus = "delivered"
)

// DeliveryStatuses lists the shipment lifecycle stages in order.
var DeliveryStatuses = []DeliveryStatus{
	DeliveryOrderPlaced,
	DeliveryProcessing,
	DeliveryShipped,
	DeliveryInTransit,
	DeliveryOutForDelivery,
	DeliveryDelivered,
}

type Order struct {
	gorm.Model
	OrderNumber      string             `json:"orderNumber" gorm:"uniqueIndex;size:32"`
	UserID           uint               `json:"userId" gorm:"index"`
	FirstName        string             `json:"firstName"`
	LastName         string             `json:"lastName"`
	Email            string             `json:"email"`
	Phone            string             `json:"phone"`
	Address          string             `json:"address"`
	City             string             `json:"city"`
	State            string             `json:"state"`
	Pincode          string             `json:"pincode"`
	Subtotal         float64            `json:"subtotal"`
	ShippingFee      float64            `json:"shippingFee"`
	Discount         float64            `json:"discount"`
	Total            float64            `json:"total"`
	CouponCode       string             `json:"couponCode"`
	Status           OrderStatus        `json:"status" gorm:"type:varchar(20);default:'pending'"`
	DeliveryStatus   DeliveryStatus     `json:"deliveryStatus" gorm:"type:varchar(20);default:'order_placed'"`
	PaymentID        string             `json:"paymentId"`
	GatewayOrderID   string             `json:"gatewayOrderId"`
	OrderItems       []OrderItem        `json:"orderItems" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	DeliveryTracking []DeliveryTracking `json:"deliveryTracking" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// OrderItem snapshots the product at purchase time so later product edits
// never rewrite order history.
type OrderItem struct {
	gorm.Model
	OrderID   uint    `json:"orderId" gorm:"index"`
	ProductID uint    `json:"productId"`
	Name      string  `json:"name"`
	ImageURL  string  `json:"imageUrl"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
}

type DeliveryTracking struct {
	gorm.Model
	OrderID  uint           `json:"orderId" gorm:"index"`
	Status   DeliveryStatus `json:"status" gorm:"type:varchar(20)"`
	Location string         `json:"location"`
	Message  string         `json:"message"`
}
