package dto

import "github.com/shopspring/decimal"

type AttributeRequest struct {
	Name string `json:"name"`
}

type AttributeResponse struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// Price wraps decimal.Decimal so responses always carry two decimal places
// ("6.00", never "6"). decimal's own marshaler trims trailing zeros.
type Price struct {
	decimal.Decimal
}

func (p Price) MarshalJSON() ([]byte, error) {
	return []byte(`"` + p.StringFixed(2) + `"`), nil
}

// RecipeRequest is shared by create, partial update and full update. Every
// field is a pointer so the handler can tell "omitted" from "zero"; the
// service decides what an omitted field means for the requested mode.
type RecipeRequest struct {
	Title       *string          `json:"title"`
	TimeMinutes *int             `json:"time_minutes"`
	Price       *decimal.Decimal `json:"price"`
	Link        *string          `json:"link"`
	Tags        *[]uint          `json:"tags"`
	Ingredients *[]uint          `json:"ingredients"`
}

// RecipeResponse is the flat projection for list and write responses.
type RecipeResponse struct {
	ID          uint   `json:"id"`
	Title       string `json:"title"`
	TimeMinutes int    `json:"time_minutes"`
	Price       Price  `json:"price"`
	Link        string `json:"link"`
	Tags        []uint `json:"tags"`
	Ingredients []uint `json:"ingredients"`
}

// RecipeDetailResponse is the nested projection for single-item retrieval.
type RecipeDetailResponse struct {
	ID          uint                `json:"id"`
	Title       string              `json:"title"`
	TimeMinutes int                 `json:"time_minutes"`
	Price       Price               `json:"price"`
	Link        string              `json:"link"`
	Image       string              `json:"image,omitempty"`
	Tags        []AttributeResponse `json:"tags"`
	Ingredients []AttributeResponse `json:"ingredients"`
}
