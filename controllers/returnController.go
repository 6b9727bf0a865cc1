package controllers

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nutcrate/nutcrate-api/initializers"
	"github.com/nutcrate/nutcrate-api/middlewares"
	"github.com/nutcrate/nutcrate-api/models"
	"gorm.io/gorm"
)

const returnWindow = 5 * 24 * time.Hour

var (
	errNotDelivered    = errors.New("this order has not been delivered yet")
	errWindowExpired   = errors.New("the 5-day return window for this order has expired")
	errDuplicateReturn = errors.New("a return request already exists for this order")
)

// checkReturnEligibility enforces the return rules: delivered orders only,
// within 5 days of the delivery timestamp, one return per order.
func checkReturnEligibility(order models.Order, deliveredAt *time.Time, hasReturn bool, now time.Time) error {
	if order.DeliveryStatus != models.DeliveryDelivered || deliveredAt == nil {
		return errNotDelivered
	}
	if now.Sub(*deliveredAt) > returnWindow {
		return errWindowExpired
	}
	if hasReturn {
		return errDuplicateReturn
	}
	return nil
}

func CreateReturn(ctx *gin.Context) {
	user, _ := middlewares.CurrentUser(ctx)

	var input struct {
		OrderID uint   `json:"orderId" binding:"required"`
		Reason  string `json:"reason" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&input); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Invalid input")
		return
	}

	var order models.Order
	err := initializers.DB.Where("id = ? AND user_id = ?", input.OrderID, user.ID).First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			sendErrorResponse(ctx, http.StatusNotFound, "Order not found")
		} else {
			log.Println("Database error:", err)
			sendErrorResponse(ctx, http.StatusInternalServerError, msgInternalServerError)
		}
		return
	}

	var deliveredAt *time.Time
	var tracking models.DeliveryTracking
	err = initializers.DB.
		Where("order_id = ? AND status = ?", order.ID, models.DeliveryDelivered).
		Order("created_at desc").
		First(&tracking).Error
	if err == nil {
		deliveredAt = &tracking.CreatedAt
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Println("Database error:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, msgInternalServerError)
		return
	}

	var returnCount int64
	if err := initializers.DB.Model(&models.Return{}).Where("order_id = ?", order.ID).Count(&returnCount).Error; err != nil {
		log.Println("Database error:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, msgInternalServerError)
		return
	}

	if err := checkReturnEligibility(order, deliveredAt, returnCount > 0, time.Now()); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, err.Error())
		return
	}

	ret := models.Return{
		OrderID:      order.ID,
		UserID:       user.ID,
		Reason:       input.Reason,
		Status:       models.ReturnPending,
		ReturnStatus: models.StageRequested,
	}
	if err := initializers.DB.Create(&ret).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			sendErrorResponse(ctx, http.StatusBadRequest, errDuplicateReturn.Error())
			return
		}
		log.Println("Create error:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to create return request")
		return
	}

	sendJSONResponse(ctx, http.StatusCreated, gin.H{"return": ret})
}

func GetMyReturns(ctx *gin.Context) {
	user, _ := middlewares.CurrentUser(ctx)

	var returns []models.Return
	result := initializers.DB.
		Where("user_id = ?", user.ID).
		Preload("Order").
		Order("created_at desc").
		Find(&returns)
	if result.Error != nil {
		log.Println("Database error:", result.Error)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to fetch returns")
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"returns": returns})
}

func GetReturns(ctx *gin.Context) {
	var returns []models.Return
	result := initializers.DB.Preload("Order").Order("created_at desc").Find(&returns)
	if result.Error != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Failed to fetch returns", result.Error)
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"returns": returns})
}

func isValidReturnStage(stage models.ReturnStage) bool {
	for _, s := range models.ReturnStages {
		if s == stage {
			return true
		}
	}
	return false
}

func UpdateReturn(ctx *gin.Context) {
	returnId, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		respondWithError(ctx, http.StatusBadRequest, "Invalid return id", err)
		return
	}

	var input struct {
		Status       models.ReturnStatus `json:"status"`
		ReturnStatus models.ReturnStage  `json:"returnStatus"`
	}
	if err := ctx.ShouldBindJSON(&input); err != nil {
		respondWithError(ctx, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	var ret models.Return
	if err := initializers.DB.First(&ret, returnId).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondWithError(ctx, http.StatusNotFound, "Return not found", nil)
		} else {
			respondWithError(ctx, http.StatusInternalServerError, "Failed to fetch return", err)
		}
		return
	}

	updates := map[string]any{}
	if input.Status != "" {
		switch input.Status {
		case models.ReturnPending, models.ReturnApproved, models.ReturnRejected, models.ReturnCompleted:
			updates["status"] = input.Status
		default:
			respondWithError(ctx, http.StatusBadRequest, "Invalid return status", nil)
			return
		}
	}
	if input.ReturnStatus != "" {
		if !isValidReturnStage(input.ReturnStatus) {
			respondWithError(ctx, http.StatusBadRequest, "Invalid return stage", nil)
			return
		}
		updates["return_status"] = input.ReturnStatus
	}
	if len(updates) == 0 {
		respondWithError(ctx, http.StatusBadRequest, "Nothing to update", nil)
		return
	}

	if err := initializers.DB.Model(&ret).Updates(updates).Error; err != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Failed to update return", err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"return": ret})
}
