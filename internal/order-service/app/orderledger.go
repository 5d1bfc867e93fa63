package app

import (
	"sync"

	"github.com/jcmexdev/ecommerce-orders/internal/order-service/domain"
)

// OrderLedger is the authoritative in-memory store for finalized orders.
// Ids are allocated by the orchestrator via NextID, monotonically increasing
// from 1 and never reused. List preserves insertion order.
type OrderLedger struct {
	mu      sync.RWMutex
	orders  map[int]*domain.Order
	inserts []int
	nextID  int
}

func NewOrderLedger() *OrderLedger {
	return &OrderLedger{orders: make(map[int]*domain.Order)}
}

// NextID allocates the next order identifier. Ids handed out are never
// reclaimed, even if the caller subsequently fails to store an order.
func (l *OrderLedger) NextID() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.nextID++
	return l.nextID
}

// Put stores a finalized order by its id.
func (l *OrderLedger) Put(order *domain.Order) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.orders[order.ID]; !ok {
		l.inserts = append(l.inserts, order.ID)
	}
	l.orders[order.ID] = order
}

// Get returns the order with the given id or ErrOrderNotFound.
func (l *OrderLedger) Get(id int) (*domain.Order, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	order, ok := l.orders[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	return order, nil
}

// List returns all orders in insertion order.
func (l *OrderLedger) List() []*domain.Order {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]*domain.Order, 0, len(l.inserts))
	for _, id := range l.inserts {
		out = append(out, l.orders[id])
	}
	return out
}

// Count reports how many orders are stored.
func (l *OrderLedger) Count() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.inserts)
}
