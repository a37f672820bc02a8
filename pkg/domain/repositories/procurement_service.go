package repositories

import (
	"context"

	"github.com/rvela/hemoplan/pkg/domain/entities"
)

// ProcurementService is the external purchase-order API boundary. Executing
// a recommendation places exactly one order through this interface.
type ProcurementService interface {
	// PlaceOrder submits a purchase order and returns it with the
	// supplier-assigned id filled in.
	PlaceOrder(ctx context.Context, order *entities.PurchaseOrder) (*entities.PurchaseOrder, error)
}
