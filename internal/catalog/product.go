package catalog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

func init() {
	// Catalog documents store prices as bare JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation failed")
)

// Product field names follow the catalog document format: the whole catalog
// is one JSON blob in the store and existing documents must keep parsing.
type Product struct {
	ID          int             `json:"ProductId"`
	Name        string          `json:"ProductName"`
	Description string          `json:"ProductDesc"`
	Price       decimal.Decimal `json:"ProductPrice"`
	Image       string          `json:"ProductImage"`
}

type Catalog struct {
	Products []Product `json:"Products"`
}

// NextID assigns ids monotonically: max of existing ids plus one.
func (c Catalog) NextID() int {
	max := 0
	for _, p := range c.Products {
		if p.ID > max {
			max = p.ID
		}
	}
	return max + 1
}

func (c Catalog) Find(id int) (Product, bool) {
	for _, p := range c.Products {
		if p.ID == id {
			return p, true
		}
	}
	return Product{}, false
}

// ProductInput carries the raw form fields of a create/update request.
// Price stays a string until validation so that a missing field and a
// malformed number produce distinct messages.
type ProductInput struct {
	Name        string
	Description string
	Price       string
}

func (in ProductInput) validate() (decimal.Decimal, error) {
	if strings.TrimSpace(in.Name) == "" {
		return decimal.Decimal{}, fmt.Errorf("%w: name is required", ErrValidation)
	}
	if strings.TrimSpace(in.Description) == "" {
		return decimal.Decimal{}, fmt.Errorf("%w: description is required", ErrValidation)
	}
	if strings.TrimSpace(in.Price) == "" {
		return decimal.Decimal{}, fmt.Errorf("%w: price is required", ErrValidation)
	}

	price, err := decimal.NewFromString(strings.TrimSpace(in.Price))
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w: price is not a number", ErrValidation)
	}
	if price.IsNegative() {
		return decimal.Decimal{}, fmt.Errorf("%w: price must not be negative", ErrValidation)
	}
	return price, nil
}

// AssetUpload is an image received via a multipart form.
type AssetUpload struct {
	Filename    string
	ContentType string
	Data        []byte
}
