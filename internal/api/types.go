package api

// MealPlan is a generated month of meals.
type MealPlan struct {
	ID        int64         `json:"id"`
	UserID    int64         `json:"userId"`
	StartDate string        `json:"startDate"`
	EndDate   string        `json:"endDate"`
	Days      []MealPlanDay `json:"days"`
}

// MealPlanDay is one day inside a plan.
type MealPlanDay struct {
	ID            int64   `json:"id"`
	Date          string  `json:"date"`
	TotalCalories float64 `json:"totalCalories"`
	Meals         []Meal  `json:"meals"`
}

// Meal is a single meal with its ingredients.
type Meal struct {
	ID          int64        `json:"id"`
	MealType    string       `json:"mealType"`
	Name        string       `json:"name"`
	Calories    float64      `json:"calories"`
	Ingredients []Ingredient `json:"ingredients"`
}

// Ingredient is a named amount inside a meal.
type Ingredient struct {
	Name string  `json:"name"`
	Gram float64 `json:"gram"`
}

// IngredientSummary aggregates one ingredient across a whole plan.
type IngredientSummary struct {
	Name      string  `json:"name"`
	TotalGram float64 `json:"totalGram"`
}

// GenerateMealPlanRequest asks the server to generate a month of meals.
type GenerateMealPlanRequest struct {
	UserID    int64  `json:"userId"`
	StartDate string `json:"startDate"`
}

// WeightRecord is one weigh-in.
type WeightRecord struct {
	ID         int64   `json:"id"`
	RecordDate string  `json:"recordDate"`
	Weight     float64 `json:"weight"`
	Memo       string  `json:"memo,omitempty"`
}

// WeightInput creates or updates the weigh-in for a date.
type WeightInput struct {
	RecordDate string  `json:"recordDate"`
	Weight     float64 `json:"weight"`
	Memo       string  `json:"memo,omitempty"`
}

// DashboardSummary is the headline view of a user's progress.
type DashboardSummary struct {
	LatestWeight  float64 `json:"latestWeight"`
	BMI           float64 `json:"bmi"`
	GoalType      string  `json:"goalType"`
	TodayCalories float64 `json:"todayCalories"`
}

// DayTrend is one point on the dashboard trend chart.
type DayTrend struct {
	Date     string  `json:"date"`
	Weight   float64 `json:"weight"`
	Calories float64 `json:"calories"`
}
