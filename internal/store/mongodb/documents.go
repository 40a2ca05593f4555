package mongodb

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	catalog "github.com/jcmexdev/katana-shop/internal/catalog/domain"
	"github.com/jcmexdev/katana-shop/internal/order/domain"
)

type katanaDocument struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Name        string             `bson:"name"`
	Description string             `bson:"description"`
	Price       float64            `bson:"price"`
	Steel       string             `bson:"steel"`
	LengthCm    float64            `bson:"length_cm"`
	WeightKg    *float64           `bson:"weight_kg"`
	Images      []string           `bson:"images"`
	Stock       int                `bson:"stock"`
	Rating      *float64           `bson:"rating"`
}

type orderItemDocument struct {
	ProductID string  `bson:"product_id"`
	Name      string  `bson:"name"`
	Quantity  int     `bson:"quantity"`
	Price     float64 `bson:"price"`
	Subtotal  float64 `bson:"subtotal"`
}

type orderDocument struct {
	ID           primitive.ObjectID  `bson:"_id,omitempty"`
	CustomerName string              `bson:"customer_name"`
	Email        string              `bson:"email"`
	Address      string              `bson:"address"`
	Items        []orderItemDocument `bson:"items"`
	TotalAmount  float64             `bson:"total_amount"`
}

func katanaFromDocument(d katanaDocument) catalog.Katana {
	images := d.Images
	if images == nil {
		images = []string{}
	}
	return catalog.Katana{
		ID:          d.ID.Hex(),
		Name:        d.Name,
		Description: d.Description,
		Price:       d.Price,
		Steel:       d.Steel,
		LengthCm:    d.LengthCm,
		WeightKg:    d.WeightKg,
		Images:      images,
		Stock:       d.Stock,
		Rating:      d.Rating,
	}
}

func katanaToDocument(k catalog.Katana) katanaDocument {
	images := k.Images
	if images == nil {
		images = []string{}
	}
	return katanaDocument{
		Name:        k.Name,
		Description: k.Description,
		Price:       k.Price,
		Steel:       k.Steel,
		LengthCm:    k.LengthCm,
		WeightKg:    k.WeightKg,
		Images:      images,
		Stock:       k.Stock,
		Rating:      k.Rating,
	}
}

func orderToDocument(o domain.Order) orderDocument {
	items := make([]orderItemDocument, len(o.Items))
	for i, line := range o.Items {
		items[i] = orderItemDocument{
			ProductID: line.ProductID,
			Name:      line.Name,
			Quantity:  line.Quantity,
			Price:     line.UnitPrice,
			Subtotal:  line.Subtotal,
		}
	}
	return orderDocument{
		CustomerName: o.CustomerName,
		Email:        o.Email,
		Address:      o.Address,
		Items:        items,
		TotalAmount:  o.TotalAmount,
	}
}

func orderFromDocument(d orderDocument) domain.Order {
	lines := make([]domain.OrderLine, len(d.Items))
	for i, item := range d.Items {
		lines[i] = domain.OrderLine{
			ProductID: item.ProductID,
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: item.Price,
			Subtotal:  item.Subtotal,
		}
	}
	return domain.Order{
		ID:           d.ID.Hex(),
		CustomerName: d.CustomerName,
		Email:        d.Email,
		Address:      d.Address,
		Items:        lines,
		TotalAmount:  d.TotalAmount,
	}
}
