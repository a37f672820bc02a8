package procurement

import (
	"context"
	"fmt"
	"sync"

	"github.com/rvela/hemoplan/pkg/domain/entities"
	"github.com/rvela/hemoplan/pkg/domain/repositories"
)

// InMemoryProcurement is the offline stand-in for the supplier API: it
// accepts every order and assigns sequential ids. Used by the CLI, the
// example program and tests.
type InMemoryProcurement struct {
	mutex  sync.Mutex
	orders []entities.PurchaseOrder
	nextID int
}

var _ repositories.ProcurementService = (*InMemoryProcurement)(nil)

// NewInMemoryProcurement creates an empty in-memory procurement service
func NewInMemoryProcurement() *InMemoryProcurement {
	return &InMemoryProcurement{nextID: 1}
}

// PlaceOrder accepts the order and assigns the next sequential id
func (p *InMemoryProcurement) PlaceOrder(ctx context.Context, order *entities.PurchaseOrder) (*entities.PurchaseOrder, error) {
	if order == nil {
		return nil, fmt.Errorf("purchase order cannot be nil")
	}

	p.mutex.Lock()
	defer p.mutex.Unlock()

	placed := *order
	placed.PurchaseOrderID = fmt.Sprintf("PO-%06d", p.nextID)
	p.nextID++
	p.orders = append(p.orders, placed)
	return &placed, nil
}

// Orders returns every order placed so far, in placement order
func (p *InMemoryProcurement) Orders() []entities.PurchaseOrder {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	return append([]entities.PurchaseOrder(nil), p.orders...)
}
