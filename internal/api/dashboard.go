package api

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nncoach/client-core/internal/httpx"
)

// DashboardService reads the aggregated progress views.
type DashboardService struct {
	client *httpx.Client
}

func NewDashboardService(client *httpx.Client) *DashboardService {
	return &DashboardService{client: client}
}

// Summary fetches the headline numbers for the dashboard.
func (s *DashboardService) Summary(ctx context.Context, userID int64) (*DashboardSummary, error) {
	data, err := s.client.Get(ctx, fmt.Sprintf("/users/%d/dashboard-summary", userID))
	if err != nil {
		return nil, err
	}
	var sum DashboardSummary
	if err := json.Unmarshal(data, &sum); err != nil {
		return nil, fmt.Errorf("decode dashboard summary: %w", err)
	}
	return &sum, nil
}

// Trend fetches per-day weight/calorie points for the chart, optionally
// bounded by from/to dates.
func (s *DashboardService) Trend(ctx context.Context, userID int64, from, to string) ([]DayTrend, error) {
	opts := []httpx.RequestOption{
		httpx.WithQuery("userId", fmt.Sprintf("%d", userID)),
	}
	if from != "" {
		opts = append(opts, httpx.WithQuery("from", from))
	}
	if to != "" {
		opts = append(opts, httpx.WithQuery("to", to))
	}

	data, err := s.client.Get(ctx, "/dashboard/trend", opts...)
	if err != nil {
		return nil, err
	}
	var body struct {
		DayTrends []DayTrend `json:"dayTrends"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return nil, fmt.Errorf("decode trend: %w", err)
	}
	return body.DayTrends, nil
}
