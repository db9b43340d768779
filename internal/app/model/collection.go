package model

import (
	"time"

	"gorm.io/gorm"
)

type Collection struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	Title     string         `gorm:"not null" json:"title"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// ProductCount is scanned from a LEFT JOIN aggregate on list queries.
	// It is not a column.
	ProductCount int64 `gorm:"->;-:migration" json:"product_count"`

	// Relationships
	Products []Product `gorm:"foreignKey:CollectionID" json:"-"`
}

func (Collection) TableName() string {
	return "collections"
}
