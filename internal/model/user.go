package model

// Profile is the user profile as returned by the API. The client treats it
// as read-only; profile mutations always round-trip through the server.
type Profile struct {
	ID            int64   `json:"id"`
	Email         string  `json:"email,omitempty"`
	Name          string  `json:"name,omitempty"`
	Gender        string  `json:"gender"`
	BirthDate     string  `json:"birthDate"`
	Height        float64 `json:"height"`
	Weight        float64 `json:"weight"`
	ActivityLevel string  `json:"activityLevel"`
	GoalType      string  `json:"goalType"`
}

// Complete reports whether every field required for coaching is present.
// Incomplete profiles are routed to the profile setup step.
func (p *Profile) Complete() bool {
	if p == nil {
		return false
	}
	return p.Gender != "" &&
		p.BirthDate != "" &&
		p.Height > 0 &&
		p.Weight > 0 &&
		p.ActivityLevel != "" &&
		p.GoalType != ""
}

// Clone returns a copy so callers cannot mutate shared session state.
func (p *Profile) Clone() *Profile {
	if p == nil {
		return nil
	}
	c := *p
	return &c
}

// Session pairs the opaque auth token with the profile it belongs to.
type Session struct {
	Token string   `json:"token"`
	User  *Profile `json:"user"`
}
