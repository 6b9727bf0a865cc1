package controllers

import (
	"errors"
	"log"
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/nutcrate/nutcrate-api/initializers"
	"github.com/nutcrate/nutcrate-api/middlewares"
	"github.com/nutcrate/nutcrate-api/models"
	"gorm.io/gorm"
)

func GetMyOrders(ctx *gin.Context) {
	user, _ := middlewares.CurrentUser(ctx)

	var orders []models.Order
	result := initializers.DB.
		Where("user_id = ?", user.ID).
		Preload("OrderItems").
		Order("created_at desc").
		Find(&orders)
	if result.Error != nil {
		log.Println("Database error:", result.Error)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to fetch orders")
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"orders": orders})
}

func GetOrderById(ctx *gin.Context) {
	user, _ := middlewares.CurrentUser(ctx)

	orderId, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Failed to parse order id")
		return
	}

	var order models.Order
	err = initializers.DB.
		Where("id = ? AND user_id = ?", orderId, user.ID).
		Preload("OrderItems").
		Preload("DeliveryTracking").
		First(&order).Error
	if err != nil {
		// Another user's order looks identical to a missing one.
		if errors.Is(err, gorm.ErrRecordNotFound) {
			sendErrorResponse(ctx, http.StatusNotFound, "Order not found")
		} else {
			log.Println("Database error:", err)
			sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to fetch order")
		}
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"order": order})
}

func GetOrderTracking(ctx *gin.Context) {
	user, _ := middlewares.CurrentUser(ctx)

	orderId, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Failed to parse order id")
		return
	}

	var order models.Order
	err = initializers.DB.Where("id = ? AND user_id = ?", orderId, user.ID).First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			sendErrorResponse(ctx, http.StatusNotFound, "Order not found")
		} else {
			log.Println("Database error:", err)
			sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to fetch order")
		}
		return
	}

	var tracking []models.DeliveryTracking
	if result := initializers.DB.Where("order_id = ?", order.ID).Order("created_at asc").Find(&tracking); result.Error != nil {
		log.Println("Database error:", result.Error)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to fetch tracking")
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{
		"orderNumber":    order.OrderNumber,
		"deliveryStatus": order.DeliveryStatus,
		"tracking":       tracking,
	})
}

// TrackOrder is the public tracking endpoint: order number in, status and
// timeline out. No account details are exposed.
func TrackOrder(ctx *gin.Context) {
	orderNumber := ctx.Param("orderNumber")

	var order models.Order
	err := initializers.DB.Where("order_number = ?", orderNumber).First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			sendErrorResponse(ctx, http.StatusNotFound, "Order not found")
		} else {
			log.Println("Database error:", err)
			sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to fetch order")
		}
		return
	}

	var tracking []models.DeliveryTracking
	if result := initializers.DB.Where("order_id = ?", order.ID).Order("created_at asc").Find(&tracking); result.Error != nil {
		log.Println("Database error:", result.Error)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to fetch tracking")
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{
		"orderNumber":    order.OrderNumber,
		"status":         order.Status,
		"deliveryStatus": order.DeliveryStatus,
		"tracking":       tracking,
	})
}

func GetOrders(ctx *gin.Context) {
	var orders []models.Order

	page, limit, offset := parsePagination(ctx)

	sortOrder := ctx.DefaultQuery("sort", "desc")
	if sortOrder != "asc" && sortOrder != "desc" {
		sortOrder = "desc"
	}

	query := initializers.DB.Preload("OrderItems")

	if search := ctx.Query("search"); search != "" {
		query = query.Where("order_number LIKE ?", "%"+search+"%")
	}
	if status := ctx.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	query = query.Order("created_at " + sortOrder)

	result := query.Limit(limit).Offset(offset).Find(&orders)
	if result.Error != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Unable to fetch orders", result.Error)
		return
	}

	var count int64
	countQuery := initializers.DB.Model(&models.Order{})
	if search := ctx.Query("search"); search != "" {
		countQuery = countQuery.Where("order_number LIKE ?", "%"+search+"%")
	}
	if status := ctx.Query("status"); status != "" {
		countQuery = countQuery.Where("status = ?", status)
	}
	countQuery.Count(&count)

	previousPage := page - 1
	nextPage := page + 1
	totalPages := math.Ceil(float64(count) / float64(limit))

	ctx.JSON(http.StatusOK, gin.H{
		"orders": orders,
		"metadata": gin.H{
			"total":        count,
			"currentPage":  page,
			"limit":        limit,
			"hasPrevPage":  previousPage > 0,
			"hasNextPage":  int(totalPages) > page,
			"previousPage": previousPage,
			"nextPage":     nextPage,
		},
	})
}

func isValidDeliveryStatus(status models.DeliveryStatus) bool {
	for _, s := range models.DeliveryStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// UpdateDeliveryStatus moves an order along the shipment lifecycle. The
// status flip and the new tracking row land in one transaction so the
// timeline never lags the order.
func UpdateDeliveryStatus(ctx *gin.Context) {
	var input struct {
		DeliveryStatus models.DeliveryStatus `json:"deliveryStatus" binding:"required"`
		Location       string                `json:"location"`
		Message        string                `json:"message"`
	}
	if err := ctx.ShouldBindJSON(&input); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Failed to parse request body")
		return
	}

	if !isValidDeliveryStatus(input.DeliveryStatus) {
		sendErrorResponse(ctx, http.StatusBadRequest, "Invalid delivery status")
		return
	}

	orderId, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Failed to parse order id")
		return
	}

	var order models.Order
	if err := initializers.DB.First(&order, orderId).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			sendErrorResponse(ctx, http.StatusNotFound, "Order not found")
		} else {
			log.Println("Database error:", err)
			sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to fetch order")
		}
		return
	}

	txErr := initializers.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&order).Update("delivery_status", input.DeliveryStatus).Error; err != nil {
			return err
		}
		tracking := models.DeliveryTracking{
			OrderID:  order.ID,
			Status:   input.DeliveryStatus,
			Location: input.Location,
			Message:  input.Message,
		}
		return tx.Create(&tracking).Error
	})
	if txErr != nil {
		log.Println("Delivery status update error:", txErr)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to update delivery status")
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": "Delivery status updated successfully."})
}

func DeleteOrder(ctx *gin.Context) {
	orderId, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Failed to parse order id.")
		return
	}

	result := initializers.DB.Delete(&models.Order{}, orderId)
	if result.Error != nil {
		log.Println("Delete error:", result.Error)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to delete order.")
		return
	}
	if result.RowsAffected == 0 {
		sendErrorResponse(ctx, http.StatusNotFound, "Order not found")
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": "Order deleted successfully."})
}
