package procurement

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/rvela/hemoplan/pkg/domain/entities"
	"github.com/rvela/hemoplan/pkg/domain/repositories"
)

// orderRequest is the wire shape of a purchase-order submission
type orderRequest struct {
	RecommendationID string          `json:"recommendation_id"`
	BloodType        string          `json:"blood_type"`
	Quantity         float64         `json:"quantity"`
	Cost             decimal.Decimal `json:"cost"`
	Priority         string          `json:"priority"`
	ExpectedDelivery string          `json:"expected_delivery"`
}

// orderResponse is the supplier acknowledgment
type orderResponse struct {
	OrderID string `json:"order_id"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

// APIClient places purchase orders against the supplier's REST API.
type APIClient struct {
	httpClient *resty.Client
	logger     *zap.Logger
}

var _ repositories.ProcurementService = (*APIClient)(nil)

// NewAPIClient creates a supplier API client
func NewAPIClient(baseURL, apiKey string, logger *zap.Logger) *APIClient {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(15 * time.Second).
		SetRetryCount(3).
		SetRetryWaitTime(1 * time.Second).
		SetRetryMaxWaitTime(5 * time.Second).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetAuthToken(apiKey)

	return &APIClient{
		httpClient: client,
		logger:     logger,
	}
}

// PlaceOrder submits one purchase order and returns it with the
// supplier-assigned id
func (c *APIClient) PlaceOrder(ctx context.Context, order *entities.PurchaseOrder) (*entities.PurchaseOrder, error) {
	request := orderRequest{
		RecommendationID: order.RecommendationID,
		BloodType:        order.BloodType.String(),
		Quantity:         float64(order.Quantity),
		Cost:             order.Cost,
		Priority:         order.Priority.String(),
		ExpectedDelivery: order.ExpectedDelivery.Format(time.RFC3339),
	}

	c.logger.Info("placing purchase order",
		zap.String("recommendation_id", order.RecommendationID),
		zap.String("blood_type", order.BloodType.String()),
		zap.Float64("quantity", float64(order.Quantity)),
	)

	var response orderResponse
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(request).
		SetResult(&response).
		Post("/orders")
	if err != nil {
		c.logger.Error("purchase order submission failed", zap.Error(err))
		return nil, fmt.Errorf("submitting purchase order: %w", err)
	}
	if resp.IsError() {
		c.logger.Error("supplier rejected purchase order",
			zap.Int("status_code", resp.StatusCode()),
			zap.String("message", response.Message),
		)
		return nil, fmt.Errorf("supplier rejected order: %s (status %d)", response.Message, resp.StatusCode())
	}
	if response.OrderID == "" {
		return nil, fmt.Errorf("supplier acknowledged without an order id")
	}

	placed := *order
	placed.PurchaseOrderID = response.OrderID
	c.logger.Info("purchase order placed",
		zap.String("purchase_order_id", placed.PurchaseOrderID),
		zap.String("recommendation_id", placed.RecommendationID),
	)
	return &placed, nil
}
