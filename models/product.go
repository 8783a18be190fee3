package models

import (
	"database/sql/driver"
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// Product is read-mostly catalog reference data. The API never mutates it;
// line items reference it by ID and keep their own price snapshot.
type Product struct {
	ID       string          `json:"id" db:"id"`
	Text     string          `json:"text" db:"text"`
	Metadata ProductMetadata `json:"metadata" db:"metadata"`
}

// ProductMetadata is the canonical typed shape of the jsonb metadata column.
// Historical rows with Spanish keys (titulo/descripcion/precio/imagen/
// categoria) are rewritten into this shape by migration 000002; the code
// never branches on the legacy shape.
type ProductMetadata struct {
	Title       string           `json:"title,omitempty"`
	Description string           `json:"description,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	ImageURL    string           `json:"image_url,omitempty"`
	Category    string           `json:"category,omitempty"`
	Media       []string         `json:"media,omitempty"`
}

// Value implements driver.Valuer so metadata round-trips through jsonb.
func (m ProductMetadata) Value() (driver.Value, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return nil, errors.Wrap(err, "marshal product metadata")
	}
	return data, nil
}

// Scan implements sql.Scanner for jsonb columns.
func (m *ProductMetadata) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*m = ProductMetadata{}
		return nil
	case []byte:
		return errors.Wrap(json.Unmarshal(v, m), "unmarshal product metadata")
	case string:
		return errors.Wrap(json.Unmarshal([]byte(v), m), "unmarshal product metadata")
	default:
		return errors.Errorf("unsupported metadata source type %T", src)
	}
}
