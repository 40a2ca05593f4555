package httpx

// CreateOrderRequest is the POST /api/orders body.
type CreateOrderRequest struct {
	CustomerName string               `json:"customer_name"`
	Email        string               `json:"email"`
	Address      string               `json:"address"`
	Items        []CreateOrderItemDTO `json:"items"`
}

// CreateOrderItemDTO is one requested item. Quantity is decoded as a number
// so fractional values surface as validation errors rather than bad JSON.
// Subtotal is accepted for compatibility and ignored.
type CreateOrderItemDTO struct {
	ProductID string   `json:"product_id"`
	Name      string   `json:"name"`
	Quantity  float64  `json:"quantity"`
	Price     float64  `json:"price"`
	Subtotal  *float64 `json:"subtotal,omitempty"`
}

type CreateOrderResponse struct {
	ID string `json:"id"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Field   string `json:"field,omitempty"`
	Index   *int   `json:"index,omitempty"`
}
