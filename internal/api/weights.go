package api

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nncoach/client-core/internal/httpx"
)

// WeightService records and lists weigh-ins.
type WeightService struct {
	client *httpx.Client
}

func NewWeightService(client *httpx.Client) *WeightService {
	return &WeightService{client: client}
}

// Create stores (or updates) the weigh-in for the given date.
func (s *WeightService) Create(ctx context.Context, userID int64, input WeightInput) (*WeightRecord, error) {
	data, err := s.client.Post(ctx, fmt.Sprintf("/users/%d/weights", userID), input)
	if err != nil {
		return nil, err
	}
	var rec WeightRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("decode weight record: %w", err)
	}
	return &rec, nil
}

// List fetches weigh-ins, optionally bounded by from/to dates
// (YYYY-MM-DD; empty means unbounded).
func (s *WeightService) List(ctx context.Context, userID int64, from, to string) ([]WeightRecord, error) {
	opts := make([]httpx.RequestOption, 0, 2)
	if from != "" {
		opts = append(opts, httpx.WithQuery("from", from))
	}
	if to != "" {
		opts = append(opts, httpx.WithQuery("to", to))
	}

	data, err := s.client.Get(ctx, fmt.Sprintf("/users/%d/weights", userID), opts...)
	if err != nil {
		return nil, err
	}
	var recs []WeightRecord
	if err := json.Unmarshal(data, &recs); err != nil {
		return nil, fmt.Errorf("decode weight records: %w", err)
	}
	return recs, nil
}
