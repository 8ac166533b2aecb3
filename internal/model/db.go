package model

import "time"

type Product struct {
	ID          uint     `gorm:"primaryKey;autoIncrement"`
	Title       string   `gorm:"size:255;not null"`
	Price       int64    `gorm:"not null"` // minor currency units
	Description string   `gorm:"type:text;not null"`
	ImageRef    string   `gorm:"size:255;not null"`
	Variants    []string `gorm:"type:text;serializer:json;not null"` // ordered, possibly empty
	Active      bool     `gorm:"index;not null"`
	CreatedAt   time.Time
}

// HasVariant reports whether v is one of the product's declared variants.
// A product without variants only accepts the empty variant.
func (p *Product) HasVariant(v string) bool {
	if len(p.Variants) == 0 {
		return v == ""
	}
	for _, pv := range p.Variants {
		if pv == v {
			return true
		}
	}
	return false
}

type CartEntry struct {
	UserID    int64  `gorm:"primaryKey;autoIncrement:false"`
	ProductID uint   `gorm:"primaryKey;autoIncrement:false"`
	Variant   string `gorm:"primaryKey;size:64;not null"` // "" = no variant
	Qty       int64  `gorm:"not null"`

	// FK → products.id
	Product *Product `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
}

// CartKey identifies one cart row.
type CartKey struct {
	UserID    int64
	ProductID uint
	Variant   string
}

// CartLine is a cart entry joined with its (active) product.
type CartLine struct {
	ProductID uint
	Title     string
	Price     int64
	Variant   string
	Qty       int64
}

func (l CartLine) Subtotal() int64 {
	return l.Price * l.Qty
}

type Order struct {
	ID            uint   `gorm:"primaryKey;autoIncrement"`
	UserID        int64  `gorm:"index;not null"`
	Username      string `gorm:"size:64;not null"`
	FullName      string `gorm:"size:255;not null"`
	Phone         string `gorm:"size:32;not null"`
	City          string `gorm:"size:128;not null"`
	DeliveryType  string `gorm:"size:16;not null"` // branch, locker
	DeliveryPoint string `gorm:"size:255;not null"`
	Payment       string `gorm:"size:32;not null"` // cash-on-delivery, prepay
	Comment       string `gorm:"type:text;not null"`
	Total         int64  `gorm:"not null"` // sum of items
	CreatedAt     time.Time

	Items []*OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

type OrderItem struct {
	ID uint `gorm:"primaryKey"`
	// FK → orders.id
	OrderID uint `gorm:"index;not null"`
	// snapshot, not a FK: products may change or disappear later
	ProductID uint   `gorm:"index;not null"`
	Title     string `gorm:"size:255;not null"`
	Variant   string `gorm:"size:64;not null"`
	Price     int64  `gorm:"not null"`
	Qty       int64  `gorm:"not null"`
}
