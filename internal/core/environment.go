package core

// Environment represents the runtime environment of the client.
type Environment string

const (
	Development Environment = "development"
	Testing     Environment = "testing"
	Production  Environment = "production"
)

// String returns the string representation of the environment.
func (e Environment) String() string {
	return string(e)
}

// IsProduction reports whether the environment corresponds to production.
func (e Environment) IsProduction() bool {
	return e == Production
}

// ParseEnvironment normalises the provided value into one of the known
// environments. Unknown values fall back to Development so the client can
// still start with sensible defaults.
func ParseEnvironment(v string) Environment {
	switch Environment(v) {
	case Testing:
		return Testing
	case Production:
		return Production
	default:
		return Development
	}
}
