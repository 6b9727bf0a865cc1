package controllers

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/nutcrate/nutcrate-api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func postCartItem(server http.Handler, productID uint, quantity int) *httptest.ResponseRecorder {
	body := []byte(fmt.Sprintf(`{"productId":%d,"quantity":%d}`, productID, quantity))
	req := httptest.NewRequest(http.MethodPost, "/api/cart", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	server.ServeHTTP(w, req)
	return w
}

func TestCreateCartItemMergesDuplicateProduct(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t, db, "user_cart_merge")
	product := seedProduct(t, db, "crunchy-500g", 450)
	server := authedRouter(user, http.MethodPost, "/api/cart", CreateCartItem)

	w := postCartItem(server, product.ID, 2)
	require.Equal(t, http.StatusCreated, w.Code)

	w = postCartItem(server, product.ID, 3)
	require.Equal(t, http.StatusOK, w.Code)

	var items []models.CartItem
	require.NoError(t, db.Where("user_id = ?", user.ID).Find(&items).Error)
	require.Len(t, items, 1)
	assert.Equal(t, 5, items[0].Quantity)
	assert.Equal(t, product.ID, items[0].ProductID)
}

func TestCreateCartItemUnknownProduct(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t, db, "user_cart_missing")
	server := authedRouter(user, http.MethodPost, "/api/cart", CreateCartItem)

	w := postCartItem(server, 9999, 1)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteCartItemScopedToOwner(t *testing.T) {
	db := setupTestDB(t)
	owner := seedUser(t, db, "user_cart_owner")
	other := seedUser(t, db, "user_cart_other")
	product := seedProduct(t, db, "smooth-250g", 250)

	item := models.CartItem{UserID: owner.ID, ProductID: product.ID, Quantity: 1}
	require.NoError(t, db.Create(&item).Error)

	server := authedRouter(other, http.MethodDelete, "/api/cart/:id", DeleteCartItem)
	req := httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/api/cart/%d", item.ID), nil)
	w := httptest.NewRecorder()
	server.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)

	var count int64
	require.NoError(t, db.Model(&models.CartItem{}).Where("id = ?", item.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}
