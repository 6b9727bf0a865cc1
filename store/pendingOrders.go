// Package store holds the staged checkout sessions that exist between
// payment-intent creation and payment confirmation. An Order row is only
// written once the gateway confirms payment, so everything needed to build
// the order lives here until then.
package store

import (
	"log"
	"sync"
	"time"
)

type PendingItem struct {
	ProductID uint
	Name      string
	ImageURL  string
	Price     float64
	Quantity  int
}

type PendingOrder struct {
	OrderNumber    string
	UserID         uint
	Items          []PendingItem
	Subtotal       float64
	ShippingFee    float64
	Discount       float64
	Total          float64
	CouponCode     string
	FirstName      string
	LastName       string
	Email          string
	Phone          string
	Address        string
	City           string
	State          string
	Pincode        string
	GatewayOrderID string
	CreatedAt      time.Time
}

type PendingOrderStore struct {
	mu       sync.Mutex
	sessions map[string]*PendingOrder
	locks    map[string]*sync.Mutex
}

// PendingOrders is the process-wide store, mirroring how the database
// handle is shared via initializers.DB.
var PendingOrders = NewPendingOrderStore()

func NewPendingOrderStore() *PendingOrderStore {
	return &PendingOrderStore{
		sessions: make(map[string]*PendingOrder),
		locks:    make(map[string]*sync.Mutex),
	}
}

func (s *PendingOrderStore) Put(po *PendingOrder) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if po.CreatedAt.IsZero() {
		po.CreatedAt = time.Now()
	}
	s.sessions[po.OrderNumber] = po
}

// PutIfAbsent stores the session only when its order number is free, so a
// freshly minted number can never silently replace another live checkout.
func (s *PendingOrderStore) PutIfAbsent(po *PendingOrder) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.sessions[po.OrderNumber]; exists {
		return false
	}
	if po.CreatedAt.IsZero() {
		po.CreatedAt = time.Now()
	}
	s.sessions[po.OrderNumber] = po
	return true
}

func (s *PendingOrderStore) Get(orderNumber string) (*PendingOrder, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	po, ok := s.sessions[orderNumber]
	return po, ok
}

// Claim removes and returns the session in one step so two racing
// confirmations can never both consume it.
func (s *PendingOrderStore) Claim(orderNumber string) (*PendingOrder, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	po, ok := s.sessions[orderNumber]
	if ok {
		delete(s.sessions, orderNumber)
	}
	return po, ok
}

func (s *PendingOrderStore) Evict(orderNumber string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, orderNumber)
}

func (s *PendingOrderStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// LockOrder serializes the materialize-if-absent sequence per order number.
// The returned func releases the lock.
func (s *PendingOrderStore) LockOrder(orderNumber string) func() {
	s.mu.Lock()
	l, ok := s.locks[orderNumber]
	if !ok {
		l = &sync.Mutex{}
		s.locks[orderNumber] = l
	}
	s.mu.Unlock()

	l.Lock()
	return l.Unlock
}

// PurgeOlderThan drops sessions older than maxAge and reports how many
// were removed. Abandoned checkouts are never confirmed, so this is the
// only way they leave the map.
func (s *PendingOrderStore) PurgeOlderThan(maxAge time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	cutoff := time.Now().Add(-maxAge)
	purged := 0
	for number, po := range s.sessions {
		if po.CreatedAt.Before(cutoff) {
			delete(s.sessions, number)
			purged++
		}
	}
	// Locks without a live session are no longer reachable by a
	// confirmation path, so drop them here too.
	for number := range s.locks {
		if _, ok := s.sessions[number]; !ok {
			delete(s.locks, number)
		}
	}
	return purged
}

// StartSweeper purges expired sessions on a fixed ticker, independent of
// request traffic.
func (s *PendingOrderStore) StartSweeper(interval, maxAge time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for range ticker.C {
			if purged := s.PurgeOlderThan(maxAge); purged > 0 {
				log.Printf("Purged %d expired pending payment sessions", purged)
			}
		}
	}()
}
