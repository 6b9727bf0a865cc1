package controllers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nutcrate/nutcrate-api/initializers"
	"github.com/nutcrate/nutcrate-api/models"
	"gorm.io/gorm"
)

func findCouponByCode(code string) (models.Coupon, error) {
	var coupon models.Coupon
	err := initializers.DB.Where("code = ?", strings.ToUpper(strings.TrimSpace(code))).First(&coupon).Error
	return coupon, err
}

// couponDiscount validates a coupon against an order value and returns the
// discount amount. Each rejection carries its own message because the
// storefront shows them verbatim.
func couponDiscount(coupon models.Coupon, orderValue float64, now time.Time) (float64, error) {
	if !coupon.Active {
		return 0, errors.New("this coupon is no longer active")
	}
	if coupon.ExpiresAt != nil && now.After(*coupon.ExpiresAt) {
		return 0, errors.New("this coupon has expired")
	}
	if orderValue < coupon.MinOrderValue {
		return 0, fmt.Errorf("this coupon requires a minimum order value of ₹%.0f", coupon.MinOrderValue)
	}
	if coupon.UsageLimit > 0 && coupon.UsedCount >= coupon.UsageLimit {
		return 0, errors.New("this coupon has reached its usage limit")
	}

	var discount float64
	switch coupon.DiscountType {
	case "percent":
		discount = orderValue * coupon.DiscountValue / 100
		if coupon.MaxDiscount > 0 && discount > coupon.MaxDiscount {
			discount = coupon.MaxDiscount
		}
	case "flat":
		discount = coupon.DiscountValue
	default:
		return 0, errors.New("this coupon is misconfigured")
	}

	if discount > orderValue {
		discount = orderValue
	}
	return discount, nil
}

func ValidateCoupon(ctx *gin.Context) {
	var input struct {
		Code       string  `json:"code" binding:"required"`
		OrderValue float64 `json:"orderValue" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&input); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Invalid input")
		return
	}

	coupon, err := findCouponByCode(input.Code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			sendErrorResponse(ctx, http.StatusBadRequest, "Invalid coupon code")
		} else {
			log.Println("Database error:", err)
			sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to validate coupon")
		}
		return
	}

	discount, err := couponDiscount(coupon, input.OrderValue, time.Now())
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, err.Error())
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{
		"code":     coupon.Code,
		"discount": discount,
	})
}

func GetPublicCoupons(ctx *gin.Context) {
	var coupons []models.Coupon
	result := initializers.DB.
		Where("public = ? AND active = ?", true, true).
		Order("created_at desc").
		Find(&coupons)
	if result.Error != nil {
		log.Println("Database error:", result.Error)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to fetch coupons")
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"coupons": coupons})
}

func GetCoupons(ctx *gin.Context) {
	var coupons []models.Coupon
	if result := initializers.DB.Order("created_at desc").Find(&coupons); result.Error != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Failed to fetch coupons", result.Error)
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"coupons": coupons})
}

func CreateCoupon(ctx *gin.Context) {
	var coupon models.Coupon
	if err := ctx.ShouldBindJSON(&coupon); err != nil {
		respondWithError(ctx, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	coupon.Code = strings.ToUpper(strings.TrimSpace(coupon.Code))

	if err := initializers.DB.Create(&coupon).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			respondWithError(ctx, http.StatusBadRequest, "A coupon with this code already exists", nil)
			return
		}
		respondWithError(ctx, http.StatusInternalServerError, "Failed to create coupon", err)
		return
	}

	ctx.JSON(http.StatusCreated, coupon)
}

func UpdateCoupon(ctx *gin.Context) {
	couponId, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		respondWithError(ctx, http.StatusBadRequest, "Invalid coupon id", err)
		return
	}

	var coupon models.Coupon
	if err := initializers.DB.First(&coupon, couponId).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondWithError(ctx, http.StatusNotFound, "Coupon not found", nil)
		} else {
			respondWithError(ctx, http.StatusInternalServerError, "Failed to fetch coupon", err)
		}
		return
	}

	var updates map[string]any
	if err := ctx.ShouldBindJSON(&updates); err != nil {
		respondWithError(ctx, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	delete(updates, "id")
	delete(updates, "usedCount")

	if err := initializers.DB.Model(&coupon).Updates(updates).Error; err != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Failed to update coupon", err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"coupon": coupon})
}

func DeleteCoupon(ctx *gin.Context) {
	couponId, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		respondWithError(ctx, http.StatusBadRequest, "Invalid coupon id", err)
		return
	}

	result := initializers.DB.Delete(&models.Coupon{}, couponId)
	if result.Error != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Failed to delete coupon", result.Error)
		return
	}
	if result.RowsAffected == 0 {
		respondWithError(ctx, http.StatusNotFound, "Coupon not found", nil)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Coupon deleted successfully."})
}
