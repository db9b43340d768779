package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Cart is an anonymous shopping cart. Its primary key is an opaque UUID
// issued to the client; possession of the token is the only credential.
// Carts and their items are hard-deleted.
type Cart struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	// Relationships
	Items []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

func (Cart) TableName() string {
	return "carts"
}

func (c *Cart) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

type CartItem struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CartID    string    `gorm:"type:uuid;not null;uniqueIndex:idx_cart_product" json:"cart_id"`
	ProductID uint      `gorm:"not null;uniqueIndex:idx_cart_product" json:"product_id"`
	Quantity  int       `gorm:"not null;check:quantity > 0" json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relationships
	Cart    Cart    `gorm:"foreignKey:CartID" json:"-"`
	Product Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

func (CartItem) TableName() string {
	return "cart_items"
}

// TotalPrice is the live price of the line at the product's current unit
// price. Requires Product to be loaded.
func (i *CartItem) TotalPrice() float64 {
	return float64(i.Quantity) * i.Product.UnitPrice
}
