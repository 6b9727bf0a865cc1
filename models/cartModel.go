package models

import "gorm.io/gorm"

type CartItem struct {
	gorm.Model
	UserID    uint    `json:"userId" gorm:"uniqueIndex:idx_cart_user_product"`
	ProductID uint    `json:"productId" gorm:"uniqueIndex:idx_cart_user_product"`
	Quantity  int     `json:"quantity"`
	Product   Product `json:"product" gorm:"foreignKey:ProductID"`
}

type WishlistItem struct {
	gorm.Model
	UserID    uint    `json:"userId" gorm:"uniqueIndex:idx_wishlist_user_product"`
	ProductID uint    `json:"productId" gorm:"uniqueIndex:idx_wishlist_user_product"`
	Product   Product `json:"product" gorm:"foreignKey:ProductID"`
}
