package store

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSession(orderNumber string) *PendingOrder {
	return &PendingOrder{
		OrderNumber: orderNumber,
		UserID:      1,
		Total:       1040,
		Items:       []PendingItem{{ProductID: 2, Name: "Classic Crunchy 1kg", Price: 500, Quantity: 2}},
	}
}

func TestPutAndGet(t *testing.T) {
	s := NewPendingOrderStore()
	s.Put(newSession("ORNUT00000001"))

	got, ok := s.Get("ORNUT00000001")
	require.True(t, ok)
	assert.Equal(t, uint(1), got.UserID)
	assert.False(t, got.CreatedAt.IsZero())

	_, ok = s.Get("ORNUT99999999")
	assert.False(t, ok)
}

func TestClaimConsumesExactlyOnce(t *testing.T) {
	s := NewPendingOrderStore()
	s.Put(newSession("ORNUT00000002"))

	_, first := s.Claim("ORNUT00000002")
	_, second := s.Claim("ORNUT00000002")
	assert.True(t, first)
	assert.False(t, second)
	assert.Equal(t, 0, s.Len())
}

func TestClaimRaceGivesSingleWinner(t *testing.T) {
	s := NewPendingOrderStore()
	s.Put(newSession("ORNUT00000003"))

	const racers = 50
	var wg sync.WaitGroup
	wins := make(chan bool, racers)
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := s.LockOrder("ORNUT00000003")
			_, ok := s.Claim("ORNUT00000003")
			unlock()
			wins <- ok
		}()
	}
	wg.Wait()
	close(wins)

	winners := 0
	for ok := range wins {
		if ok {
			winners++
		}
	}
	assert.Equal(t, 1, winners)
}

func TestEvict(t *testing.T) {
	s := NewPendingOrderStore()
	s.Put(newSession("ORNUT00000004"))
	s.Evict("ORNUT00000004")

	_, ok := s.Get("ORNUT00000004")
	assert.False(t, ok)
}

func TestPurgeOlderThan(t *testing.T) {
	s := NewPendingOrderStore()

	stale := newSession("ORNUT00000005")
	stale.CreatedAt = time.Now().Add(-2 * time.Hour)
	s.Put(stale)
	s.Put(newSession("ORNUT00000006"))

	purged := s.PurgeOlderThan(time.Hour)
	assert.Equal(t, 1, purged)

	// A purged session can no longer be confirmed.
	_, ok := s.Claim("ORNUT00000005")
	assert.False(t, ok)

	_, ok = s.Get("ORNUT00000006")
	assert.True(t, ok)
}

func TestLockOrderSerializesPerKey(t *testing.T) {
	s := NewPendingOrderStore()

	var inside int
	var maxInside int
	var mu sync.Mutex
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := s.LockOrder("ORNUT00000007")
			defer unlock()
			mu.Lock()
			inside++
			if inside > maxInside {
				maxInside = inside
			}
			mu.Unlock()
			time.Sleep(time.Millisecond)
			mu.Lock()
			inside--
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, maxInside)
}

func TestPutIfAbsentKeepsLiveSession(t *testing.T) {
	s := NewPendingOrderStore()

	original := newSession("ORNUT00000008")
	require.True(t, s.PutIfAbsent(original))
	assert.False(t, original.CreatedAt.IsZero())

	clash := newSession("ORNUT00000008")
	clash.UserID = 2
	assert.False(t, s.PutIfAbsent(clash))

	got, ok := s.Get("ORNUT00000008")
	require.True(t, ok)
	assert.Equal(t, uint(1), got.UserID)
	assert.Equal(t, 1, s.Len())
}
