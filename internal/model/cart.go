package model

// Product is a shopping item as returned by search and recommendation
// endpoints. ExternalID is the stable product code.
type Product struct {
	ExternalID       string  `json:"externalId"`
	Name             string  `json:"name"`
	Price            int64   `json:"price"`
	ImageURL         string  `json:"imageUrl"`
	ProductURL       string  `json:"productUrl"`
	IngredientName   string  `json:"ingredientName"`
	RecommendedCount int     `json:"recommendedCount"`
	PackageGram      float64 `json:"packageGram"`
}

// CartItem is a cart entry keyed by ProductCode. The cart never holds two
// entries with the same code; adding an existing code updates the entry in
// place.
type CartItem struct {
	ProductCode      string  `json:"productCode"`
	Name             string  `json:"name"`
	Price            int64   `json:"price"`
	ImageURL         string  `json:"imageUrl"`
	ProductURL       string  `json:"productUrl"`
	IngredientName   string  `json:"ingredientName"`
	Quantity         int     `json:"quantity"`
	RecommendedCount int     `json:"recommendedCount"`
	PackageGram      float64 `json:"packageGram"`
}

// NewCartItem builds the cart entry for a recommended product.
func NewCartItem(p Product) CartItem {
	return CartItem{
		ProductCode:      p.ExternalID,
		Name:             p.Name,
		Price:            p.Price,
		ImageURL:         p.ImageURL,
		ProductURL:       p.ProductURL,
		IngredientName:   p.IngredientName,
		Quantity:         1,
		RecommendedCount: p.RecommendedCount,
		PackageGram:      p.PackageGram,
	}
}
