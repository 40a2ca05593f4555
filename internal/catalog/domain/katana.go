package domain

import (
	"errors"
	"fmt"
)

// Katana is a product in the catalog. WeightKg and Rating are optional.
type Katana struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	Steel       string   `json:"steel"`
	LengthCm    float64  `json:"length_cm"`
	WeightKg    *float64 `json:"weight_kg"`
	Images      []string `json:"images"`
	Stock       int      `json:"stock"`
	Rating      *float64 `json:"rating"`
}

// Validate checks the field constraints the catalog store relies on.
func (k Katana) Validate() error {
	var errs []error
	if k.Name == "" {
		errs = append(errs, errors.New("name is required"))
	}
	if k.Price < 0 {
		errs = append(errs, fmt.Errorf("price must not be negative, got %v", k.Price))
	}
	if k.LengthCm < 0 {
		errs = append(errs, fmt.Errorf("length_cm must not be negative, got %v", k.LengthCm))
	}
	if k.WeightKg != nil && *k.WeightKg < 0 {
		errs = append(errs, fmt.Errorf("weight_kg must not be negative, got %v", *k.WeightKg))
	}
	if k.Stock < 0 {
		errs = append(errs, fmt.Errorf("stock must not be negative, got %d", k.Stock))
	}
	if k.Rating != nil && (*k.Rating < 0 || *k.Rating > 5) {
		errs = append(errs, fmt.Errorf("rating must be within 0..5, got %v", *k.Rating))
	}
	return errors.Join(errs...)
}

func ptr(v float64) *float64 { return &v }

// DemoKatanas returns the sample products inserted into an empty catalog.
func DemoKatanas() []Katana {
	return []Katana{
		{
			Name:        "Hattori Hanzo Classic",
			Description: "Hand-forged T10 steel with clay tempering.",
			Price:       899.0,
			Steel:       "T10",
			LengthCm:    73.0,
			WeightKg:    ptr(1.2),
			Images:      []string{"https://images.unsplash.com/photo-1610248381701-4b4e8a5fb50a"},
			Stock:       5,
			Rating:      ptr(4.8),
		},
		{
			Name:        "Dragon's Breath",
			Description: "Folded Damascus steel, ornate tsuba.",
			Price:       1299.0,
			Steel:       "Damascus",
			LengthCm:    72.4,
			WeightKg:    ptr(1.25),
			Images:      []string{"https://images.unsplash.com/photo-1593808282301-8d3b0e3b60c1"},
			Stock:       3,
			Rating:      ptr(4.9),
		},
		{
			Name:        "Shinobi Light",
			Description: "Spring steel, agile and resilient.",
			Price:       499.0,
			Steel:       "5160",
			LengthCm:    70.0,
			WeightKg:    ptr(1.05),
			Images:      []string{"https://images.unsplash.com/photo-1519681393784-d120267933ba"},
			Stock:       10,
			Rating:      ptr(4.6),
		},
	}
}
