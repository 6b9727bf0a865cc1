package controllers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/nutcrate/nutcrate-api/initializers"
	"github.com/nutcrate/nutcrate-api/middlewares"
	"github.com/nutcrate/nutcrate-api/models"
	"gorm.io/gorm"
)

type cartItemInput struct {
	ProductID uint `json:"productId" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required,min=1"`
}

func GetCart(ctx *gin.Context) {
	user, _ := middlewares.CurrentUser(ctx)

	var items []models.CartItem
	result := initializers.DB.
		Where("user_id = ?", user.ID).
		Preload("Product").
		Order("created_at desc").
		Find(&items)
	if result.Error != nil {
		log.Println("Database error:", result.Error)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to fetch cart")
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"items": items})
}

// CreateCartItem adds a product to the cart. Adding a product that is
// already in the cart bumps its quantity instead of inserting a second row.
func CreateCartItem(ctx *gin.Context) {
	user, _ := middlewares.CurrentUser(ctx)

	var input cartItemInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		log.Println("Bind error:", err)
		sendErrorResponse(ctx, http.StatusBadRequest, "Invalid input")
		return
	}

	var product models.Product
	if err := initializers.DB.First(&product, input.ProductID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			sendErrorResponse(ctx, http.StatusNotFound, "Product not found")
		} else {
			log.Println("Database error:", err)
			sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to fetch product")
		}
		return
	}

	var existingItem models.CartItem
	err := initializers.DB.
		Where("user_id = ? AND product_id = ?", user.ID, input.ProductID).
		First(&existingItem).Error

	if err == nil {
		existingItem.Quantity += input.Quantity
		if err := initializers.DB.Save(&existingItem).Error; err != nil {
			log.Println("Update error:", err)
			sendErrorResponse(ctx, http.StatusInternalServerError, "Unable to update cart item quantity.")
			return
		}

		sendJSONResponse(ctx, http.StatusOK, gin.H{
			"message": "Cart item quantity updated",
			"id":      existingItem.ID,
		})
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Println("Database error:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Unable to fetch cart item")
		return
	}

	cartItem := models.CartItem{
		UserID:    user.ID,
		ProductID: input.ProductID,
		Quantity:  input.Quantity,
	}
	if err := initializers.DB.Create(&cartItem).Error; err != nil {
		log.Println("Create error:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to add cart item")
		return
	}

	sendJSONResponse(ctx, http.StatusCreated, gin.H{
		"message": product.Name + " added to cart",
		"id":      cartItem.ID,
	})
}

func UpdateCartItem(ctx *gin.Context) {
	user, _ := middlewares.CurrentUser(ctx)

	itemId, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Failed to parse cart item id")
		return
	}

	var input struct {
		Quantity int `json:"quantity" binding:"required,min=1"`
	}
	if err := ctx.ShouldBindJSON(&input); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Invalid input")
		return
	}

	// Scoping the update to the caller keeps another user's rows invisible.
	result := initializers.DB.Model(&models.CartItem{}).
		Where("id = ? AND user_id = ?", itemId, user.ID).
		Update("quantity", input.Quantity)
	if result.Error != nil {
		log.Println("Update error:", result.Error)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to update cart item")
		return
	}
	if result.RowsAffected == 0 {
		sendErrorResponse(ctx, http.StatusNotFound, "Cart item not found")
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": "Cart item updated"})
}

func DeleteCartItem(ctx *gin.Context) {
	user, _ := middlewares.CurrentUser(ctx)

	itemId, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Failed to parse cart item id")
		return
	}

	result := initializers.DB.
		Where("id = ? AND user_id = ?", itemId, user.ID).
		Delete(&models.CartItem{})
	if result.Error != nil {
		log.Println("Delete error:", result.Error)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to remove cart item")
		return
	}
	if result.RowsAffected == 0 {
		sendErrorResponse(ctx, http.StatusNotFound, "Cart item not found")
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": "Cart item removed"})
}

func GetWishlist(ctx *gin.Context) {
	user, _ := middlewares.CurrentUser(ctx)

	var items []models.WishlistItem
	result := initializers.DB.
		Where("user_id = ?", user.ID).
		Preload("Product").
		Order("created_at desc").
		Find(&items)
	if result.Error != nil {
		log.Println("Database error:", result.Error)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to fetch wishlist")
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"items": items})
}

func AddWishlistItem(ctx *gin.Context) {
	user, _ := middlewares.CurrentUser(ctx)

	var input struct {
		ProductID uint `json:"productId" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&input); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Invalid input")
		return
	}

	var existing models.WishlistItem
	err := initializers.DB.
		Where("user_id = ? AND product_id = ?", user.ID, input.ProductID).
		First(&existing).Error
	if err == nil {
		sendJSONResponse(ctx, http.StatusOK, gin.H{"message": "Already in wishlist", "id": existing.ID})
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Println("Database error:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to fetch wishlist")
		return
	}

	item := models.WishlistItem{UserID: user.ID, ProductID: input.ProductID}
	if err := initializers.DB.Create(&item).Error; err != nil {
		log.Println("Create error:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to add wishlist item")
		return
	}

	sendJSONResponse(ctx, http.StatusCreated, gin.H{"message": "Added to wishlist", "id": item.ID})
}

func DeleteWishlistItem(ctx *gin.Context) {
	user, _ := middlewares.CurrentUser(ctx)

	itemId, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Failed to parse wishlist item id")
		return
	}

	result := initializers.DB.
		Where("id = ? AND user_id = ?", itemId, user.ID).
		Delete(&models.WishlistItem{})
	if result.Error != nil {
		log.Println("Delete error:", result.Error)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to remove wishlist item")
		return
	}
	if result.RowsAffected == 0 {
		sendErrorResponse(ctx, http.StatusNotFound, "Wishlist item not found")
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": "Wishlist item removed"})
}
