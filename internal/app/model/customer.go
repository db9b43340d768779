package model

import (
	"time"

	"gorm.io/gorm"
)

type Membership string

const (
	MembershipBronze Membership = "bronze"
	MembershipSilver Membership = "silver"
	MembershipGold   Membership = "gold"
)

func (m Membership) Valid() bool {
	switch m {
	case MembershipBronze, MembershipSilver, MembershipGold:
		return true
	}
	return false
}

// Customer is the commerce profile attached 1:1 to a User. It is created
// lazily the first time the user touches their profile endpoint.
type Customer struct {
	ID         uint           `gorm:"primarykey" json:"id"`
	UserID     uint           `gorm:"uniqueIndex;not null" json:"user_id"`
	Phone      string         `json:"phone"`
	BirthDate  *time.Time     `json:"birth_date,omitempty"`
	Membership Membership     `gorm:"type:varchar(20);default:'bronze'" json:"membership"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	User   User    `gorm:"foreignKey:UserID" json:"-"`
	Orders []Order `gorm:"foreignKey:CustomerID" json:"orders,omitempty"`
}

func (Customer) TableName() string {
	return "customers"
}
