package db

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Email    string `gorm:"unique"`
	UUID     string
	Password string
	Name     string
	Role     string `gorm:"size:16;default:customer"` // customer, admin, super_admin
}

type ArtListing struct {
	gorm.Model
	Title       string
	Artist      string
	Description string `gorm:"type:text"`
	Price       float64
	ImageURL    string
	Active      bool `gorm:"default:true"`
}

// Order is one checkout attempt. Created synchronously before the gateway
// is contacted, so a failed submission still leaves an auditable record.
// Never deleted by the payment subsystem.
type Order struct {
	ID          string `gorm:"primaryKey;size:36"` // uuid
	UserID      uint   `gorm:"index"`
	OrderNumber string `gorm:"uniqueIndex;size:64"`

	// base currency (USD), two-digit rounding applied at write time
	Subtotal     float64
	ShippingCost float64
	Tax          float64
	Total        float64

	// shipping snapshot, immutable once the order exists; a correction
	// requires a new order
	ShippingName    string
	ShippingEmail   string
	ShippingPhone   string
	ShippingAddress string
	ShippingCity    string
	ShippingCountry string

	PaymentMethod        string `gorm:"size:32"`
	PaymentStatus        string `gorm:"size:16;index;default:PENDING"`
	Status               string `gorm:"size:16;index;default:PENDING"`
	PesapalOrderID       string `gorm:"size:64;index"` // gateway tracking id, set after submission
	PesapalTransactionID string `gorm:"size:64"`       // set on first notification

	Notes string `gorm:"type:text"` // append-only gateway notification log

	Items []OrderItem `gorm:"foreignKey:OrderID"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// OrderItem snapshots title and price at purchase time; catalog edits
// never retroactively alter a placed order.
type OrderItem struct {
	ID           uint   `gorm:"primaryKey"`
	OrderID      string `gorm:"size:36;index"`
	ArtListingID uint
	Title        string
	Price        float64
	Quantity     int
	CreatedAt    time.Time
}

// ExchangeRate holds the admin-maintained conversion rate for one
// currency pair. The unique index on Currency keeps exactly one row per
// pair; updates upsert that row.
type ExchangeRate struct {
	ID        uint   `gorm:"primaryKey"`
	Currency  string `gorm:"uniqueIndex;size:16"` // pair key, e.g. USD_KES
	Rate      float64
	Source    string `gorm:"size:16"` // manual, api, bank, central_bank
	IsActive  bool   `gorm:"default:true"`
	UpdatedBy string `gorm:"size:64"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

type BlogPost struct {
	gorm.Model
	Title     string
	Slug      string `gorm:"uniqueIndex;size:128"`
	Body      string `gorm:"type:text"`
	AuthorID  uint
	Published bool
}

type TeamMember struct {
	gorm.Model
	Name     string
	Title    string
	Bio      string `gorm:"type:text"`
	PhotoURL string
}
