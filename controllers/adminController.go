package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nutcrate/nutcrate-api/initializers"
	"github.com/nutcrate/nutcrate-api/models"
)

// GetAdminStats powers the back-office dashboard cards.
func GetAdminStats(ctx *gin.Context) {
	var orderCount, productCount, pendingReturns, undelivered int64
	var revenue float64

	initializers.DB.Model(&models.Order{}).Where("status = ?", models.OrderStatusConfirmed).Count(&orderCount)
	initializers.DB.Model(&models.Product{}).Count(&productCount)
	initializers.DB.Model(&models.Return{}).Where("status = ?", models.ReturnPending).Count(&pendingReturns)
	initializers.DB.Model(&models.Order{}).
		Where("status = ? AND delivery_status != ?", models.OrderStatusConfirmed, models.DeliveryDelivered).
		Count(&undelivered)

	row := initializers.DB.Model(&models.Order{}).
		Where("status = ?", models.OrderStatusConfirmed).
		Select("COALESCE(SUM(total), 0)").
		Row()
	if err := row.Scan(&revenue); err != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Failed to compute revenue", err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"orders":            orderCount,
		"products":          productCount,
		"pendingReturns":    pendingReturns,
		"undeliveredOrders": undelivered,
		"revenue":           revenue,
	})
}
