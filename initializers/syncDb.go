package initializers

import (
	"log"

	"github.com/nutcrate/nutcrate-api/models"
)

func SyncDatabase() {
	DB.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.CartItem{},
		&models.WishlistItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.DeliveryTracking{},
		&models.Return{},
		&models.Coupon{},
	)
	log.Println("Database synced successfully.")
}
