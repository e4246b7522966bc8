package api

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/nncoach/client-core/internal/httpx"
	"github.com/nncoach/client-core/internal/model"
)

// ShoppingService searches products and fetches ingredient-based
// recommendations.
type ShoppingService struct {
	client *httpx.Client
}

func NewShoppingService(client *httpx.Client) *ShoppingService {
	return &ShoppingService{client: client}
}

// Search looks products up by keyword.
func (s *ShoppingService) Search(ctx context.Context, keyword string) ([]model.Product, error) {
	data, err := s.client.Get(ctx, "/shopping/search", httpx.WithQuery("keyword", keyword))
	if err != nil {
		return nil, err
	}
	var products []model.Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}
	return products, nil
}

// Recommendations returns products covering neededGram of an ingredient.
func (s *ShoppingService) Recommendations(ctx context.Context, ingredient string, neededGram float64) ([]model.Product, error) {
	data, err := s.client.Get(ctx, "/shopping/recommendations",
		httpx.WithQuery("ingredient", ingredient),
		httpx.WithQuery("neededGram", strconv.FormatFloat(neededGram, 'f', -1, 64)),
	)
	if err != nil {
		return nil, err
	}
	var products []model.Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}
	return products, nil
}
