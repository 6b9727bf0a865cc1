package controllers

import (
	"database/sql"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/nutcrate/nutcrate-api/initializers"
	"github.com/nutcrate/nutcrate-api/middlewares"
	"github.com/nutcrate/nutcrate-api/models"
	"github.com/nutcrate/nutcrate-api/store"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB swaps the package-global database handle and pending store
// for an in-memory SQLite instance so handlers run against real queries.
// A single connection keeps every session on the same in-memory database.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.CartItem{},
		&models.WishlistItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.DeliveryTracking{},
		&models.Return{},
		&models.Coupon{},
	))

	prevDB := initializers.DB
	prevStore := store.PendingOrders
	initializers.DB = db
	store.PendingOrders = store.NewPendingOrderStore()
	t.Cleanup(func() {
		initializers.DB = prevDB
		store.PendingOrders = prevStore
		closeQuietly(sqlDB)
	})

	return db
}

func closeQuietly(sqlDB *sql.DB) {
	_ = sqlDB.Close()
}

func seedUser(t *testing.T, db *gorm.DB, clerkID string) models.User {
	t.Helper()
	user := models.User{ClerkID: clerkID, Email: clerkID + "@example.com", Name: "Test User"}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func seedProduct(t *testing.T, db *gorm.DB, slug string, price float64) models.Product {
	t.Helper()
	product := models.Product{
		Name:        "Crunchy Peanut Butter",
		Slug:        slug,
		Description: "Stone ground",
		Price:       price,
		Category:    "peanut-butter",
	}
	require.NoError(t, db.Create(&product).Error)
	return product
}

// authedRouter mounts a handler behind a stub that injects the given user,
// standing in for RequireAuth.
func authedRouter(user models.User, method, path string, handler gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	server := gin.New()
	server.Handle(method, path, func(ctx *gin.Context) {
		ctx.Set(middlewares.UserContextKey, user)
	}, handler)
	return server
}
