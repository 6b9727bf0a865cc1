package controllers

import (
	"testing"
	"time"

	"github.com/nutcrate/nutcrate-api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReturnEligibility(t *testing.T) {
	now := time.Now()
	recentDelivery := now.Add(-2 * 24 * time.Hour)
	oldDelivery := now.Add(-6 * 24 * time.Hour)

	delivered := models.Order{DeliveryStatus: models.DeliveryDelivered}
	shipped := models.Order{DeliveryStatus: models.DeliveryShipped}

	tests := []struct {
		name        string
		order       models.Order
		deliveredAt *time.Time
		hasReturn   bool
		wantErr     error
	}{
		{"eligible within window", delivered, &recentDelivery, false, nil},
		{"not delivered yet", shipped, nil, false, errNotDelivered},
		{"delivered status without timestamp", delivered, nil, false, errNotDelivered},
		{"window expired", delivered, &oldDelivery, false, errWindowExpired},
		{"duplicate request", delivered, &recentDelivery, true, errDuplicateReturn},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := checkReturnEligibility(tt.order, tt.deliveredAt, tt.hasReturn, now)
			if tt.wantErr == nil {
				require.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestReturnEligibilityAtWindowEdge(t *testing.T) {
	now := time.Now()
	edge := now.Add(-5 * 24 * time.Hour)
	order := models.Order{DeliveryStatus: models.DeliveryDelivered}

	// Exactly five days is still inside the window.
	assert.NoError(t, checkReturnEligibility(order, &edge, false, now))

	past := edge.Add(-time.Second)
	assert.ErrorIs(t, checkReturnEligibility(order, &past, false, now), errWindowExpired)
}

func TestReturnErrorMessagesAreDistinct(t *testing.T) {
	messages := map[string]bool{
		errNotDelivered.Error():    true,
		errWindowExpired.Error():   true,
		errDuplicateReturn.Error(): true,
	}
	assert.Len(t, messages, 3)
}
