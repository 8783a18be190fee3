package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order is a customer order. TotalPrice is denormalized: it is recomputed
// from the line items on every create or full replace and is never written
// directly by callers. BlackList is customer-scoped: every order sharing a
// non-empty phone number carries the same value.
type Order struct {
	ID              int64           `json:"id" db:"id"`
	Name            string          `json:"name" db:"name"`
	Phone           string          `json:"phone" db:"phone"`
	Collected       bool            `json:"collected" db:"collected"`
	BlackList       bool            `json:"black_list" db:"black_list"`
	Date            time.Time       `json:"date" db:"date"`
	TotalPrice      decimal.Decimal `json:"total_price" db:"total_price"`
	CollectionPlace string          `json:"collection_place" db:"collection_place"`
	Observations    string          `json:"observations" db:"observations"`
	Items           []OrderItem     `json:"items,omitempty"`
}

// OrderItem is one product line within an order. UnitPrice is a snapshot
// taken at order time; later catalog price changes never alter it.
// LineTotal = Amount * UnitPrice, stored.
type OrderItem struct {
	ID        int64           `json:"id,omitempty" db:"id"`
	OrderID   int64           `json:"order_id,omitempty" db:"order_id"`
	ProductID string          `json:"product_id" db:"product_id"`
	Amount    int             `json:"amount" db:"amount"`
	UnitPrice decimal.Decimal `json:"unit_price" db:"unit_price"`
	LineTotal decimal.Decimal `json:"line_total" db:"line_total"`

	// Populated only when items are fetched joined with the catalog.
	ProductText     string           `json:"product_text,omitempty" db:"product_text"`
	ProductMetadata *ProductMetadata `json:"product_metadata,omitempty" db:"product_metadata"`
}
