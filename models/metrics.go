package models

import "github.com/shopspring/decimal"

// ProductSales aggregates every line item referencing one product.
type ProductSales struct {
	ProductID   string          `json:"product_id" db:"product_id"`
	ProductText string          `json:"product_text" db:"product_text"`
	UnitsSold   int64           `json:"units_sold" db:"units_sold"`
	Revenue     decimal.Decimal `json:"revenue" db:"revenue"`
}

// MetricsReport is the /api/metrics payload: per-product totals ordered by
// revenue descending, plus the top row as best seller. BestSeller is absent
// when no line items exist.
type MetricsReport struct {
	Products   []ProductSales `json:"products"`
	BestSeller *ProductSales  `json:"bestSeller,omitempty"`
}
