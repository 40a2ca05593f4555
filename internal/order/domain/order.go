package domain

import (
	"fmt"
	"math"
)

// LineItem is one requested item as it arrives from the client. Name and
// UnitPrice are snapshots taken at order time; they are not re-checked
// against the catalog.
type LineItem struct {
	ProductID string
	Name      string
	Quantity  int
	UnitPrice float64
}

// OrderLine is a LineItem with its server-computed subtotal.
type OrderLine struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"price"`
	Subtotal  float64 `json:"subtotal"`
}

// Order is the persisted purchase record. ID is empty until the order store
// assigns one.
type Order struct {
	ID           string      `json:"id"`
	CustomerName string      `json:"customer_name"`
	Email        string      `json:"email"`
	Address      string      `json:"address"`
	Items        []OrderLine `json:"items"`
	TotalAmount  float64     `json:"total_amount"`
}

type buildOptions struct {
	strict bool
}

// BuildOption tweaks the validation applied by BuildOrder.
type BuildOption func(*buildOptions)

// Strict requires a customer name, an address and at least one item.
// Without it those inputs are accepted as sent.
func Strict() BuildOption {
	return func(o *buildOptions) { o.strict = true }
}

// BuildOrder validates the requested items and returns an order ready for
// persistence. Subtotals are always recomputed as quantity × unit price and
// the total is their sum in input order. The first invalid item rejects the
// whole order with a *ValidationError.
func BuildOrder(customerName, email, address string, items []LineItem, opts ...BuildOption) (Order, error) {
	var o buildOptions
	for _, opt := range opts {
		opt(&o)
	}

	if o.strict {
		if err := validateContact(customerName, address, len(items)); err != nil {
			return Order{}, err
		}
	}

	lines := make([]OrderLine, 0, len(items))
	var total float64
	for i, item := range items {
		if err := validateItem(i, item); err != nil {
			return Order{}, err
		}
		subtotal := float64(item.Quantity) * item.UnitPrice
		total += subtotal
		lines = append(lines, OrderLine{
			ProductID: item.ProductID,
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Subtotal:  subtotal,
		})
	}

	return Order{
		CustomerName: customerName,
		Email:        email,
		Address:      address,
		Items:        lines,
		TotalAmount:  total,
	}, nil
}

func validateItem(i int, item LineItem) error {
	if item.Quantity < 1 {
		return &ValidationError{
			Field:  fmt.Sprintf("items[%d].quantity", i),
			Index:  i,
			Reason: fmt.Sprintf("must be at least 1, got %d", item.Quantity),
		}
	}
	if math.IsNaN(item.UnitPrice) || math.IsInf(item.UnitPrice, 0) {
		return &ValidationError{
			Field:  fmt.Sprintf("items[%d].price", i),
			Index:  i,
			Reason: "must be a finite number",
		}
	}
	if item.UnitPrice < 0 {
		return &ValidationError{
			Field:  fmt.Sprintf("items[%d].price", i),
			Index:  i,
			Reason: fmt.Sprintf("must not be negative, got %v", item.UnitPrice),
		}
	}
	return nil
}

func validateContact(customerName, address string, itemCount int) error {
	switch {
	case customerName == "":
		return &ValidationError{Field: "customer_name", Index: NoIndex, Reason: "is required"}
	case address == "":
		return &ValidationError{Field: "address", Index: NoIndex, Reason: "is required"}
	case itemCount == 0:
		return &ValidationError{Field: "items", Index: NoIndex, Reason: "must contain at least one item"}
	}
	return nil
}
