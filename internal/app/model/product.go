package model

import (
	"time"

	"gorm.io/gorm"
)

// TaxMultiplier is the fixed factor applied to a unit price to obtain the
// tax-inclusive price. Taxed prices are derived at read time, never stored.
const TaxMultiplier = 1.2

type Product struct {
	ID           uint           `gorm:"primarykey" json:"id"`
	Title        string         `gorm:"not null" json:"title"`
	Slug         string         `gorm:"uniqueIndex;not null" json:"slug"`
	Description  string         `gorm:"type:text" json:"description"`
	UnitPrice    float64        `gorm:"not null;check:unit_price > 0" json:"unit_price"`
	Inventory    int            `gorm:"not null;default:0;check:inventory >= 0" json:"inventory"`
	CollectionID *uint          `gorm:"index" json:"collection_id,omitempty"`
	LastUpdate   time.Time      `gorm:"autoUpdateTime" json:"last_update"`
	CreatedAt    time.Time      `json:"created_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	// Derived, never persisted
	PriceWithTax float64 `gorm:"-" json:"price_with_tax"`

	// Relationships
	Collection *Collection `gorm:"foreignKey:CollectionID" json:"collection,omitempty"`
	Reviews    []Review    `gorm:"foreignKey:ProductID" json:"-"`
	OrderItems []OrderItem `gorm:"foreignKey:ProductID" json:"-"`
	CartItems  []CartItem  `gorm:"foreignKey:ProductID" json:"-"`
}

func (Product) TableName() string {
	return "products"
}

func (p *Product) AfterFind(tx *gorm.DB) error {
	p.PriceWithTax = p.UnitPrice * TaxMultiplier
	return nil
}
