package models

import (
	"time"

	"gorm.io/gorm"
)

type Coupon struct {
	gorm.Model
	Code          string     `json:"code" binding:"required" gorm:"uniqueIndex;size:32"`
	DiscountType  string     `json:"discountType" binding:"required"` // "percent" or "flat"
	DiscountValue float64    `json:"discountValue" binding:"required"`
	MinOrderValue float64    `json:"minOrderValue"`
	MaxDiscount   float64    `json:"maxDiscount"`
	UsageLimit    int        `json:"usageLimit"`
	UsedCount     int        `json:"usedCount"`
	Active        bool       `json:"active"`
	Public        bool       `json:"public"`
	ExpiresAt     *time.Time `json:"expiresAt"`
}
