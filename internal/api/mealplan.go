package api

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nncoach/client-core/internal/httpx"
)

// MealPlanService reads and generates meal plans. Generation can take
// minutes server-side, so it requests the pipeline's extended timeout.
type MealPlanService struct {
	client *httpx.Client
}

func NewMealPlanService(client *httpx.Client) *MealPlanService {
	return &MealPlanService{client: client}
}

// Latest fetches the user's most recent plan.
func (s *MealPlanService) Latest(ctx context.Context, userID int64) (*MealPlan, error) {
	data, err := s.client.Get(ctx, fmt.Sprintf("/users/%d/meal-plans/latest", userID))
	if err != nil {
		return nil, err
	}
	var plan MealPlan
	if err := json.Unmarshal(data, &plan); err != nil {
		return nil, fmt.Errorf("decode meal plan: %w", err)
	}
	return &plan, nil
}

// Generate creates a month of meals for the user.
func (s *MealPlanService) Generate(ctx context.Context, req GenerateMealPlanRequest) (*MealPlan, error) {
	data, err := s.client.Post(ctx, "/meal-plans", req, httpx.WithTimeout(s.client.LongTimeout()))
	if err != nil {
		return nil, err
	}
	var plan MealPlan
	if err := json.Unmarshal(data, &plan); err != nil {
		return nil, fmt.Errorf("decode meal plan: %w", err)
	}
	return &plan, nil
}

// DayDetail fetches the full detail of one plan day.
func (s *MealPlanService) DayDetail(ctx context.Context, dayID int64) (*MealPlanDay, error) {
	data, err := s.client.Get(ctx, fmt.Sprintf("/meal-plans/days/%d", dayID))
	if err != nil {
		return nil, err
	}
	var day MealPlanDay
	if err := json.Unmarshal(data, &day); err != nil {
		return nil, fmt.Errorf("decode plan day: %w", err)
	}
	return &day, nil
}

// Ingredients summarises the ingredients a whole plan needs.
func (s *MealPlanService) Ingredients(ctx context.Context, planID int64) ([]IngredientSummary, error) {
	data, err := s.client.Get(ctx, fmt.Sprintf("/meal-plans/%d/ingredients", planID))
	if err != nil {
		return nil, err
	}
	var out []IngredientSummary
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decode ingredient summary: %w", err)
	}
	return out, nil
}
