package standard

// Config configures a StandardProvider (grounded on the teacher's
// per-service Config struct convention — xraph-authsome's user.Service
// takes a Config value at construction rather than scattering tunables
// across method arguments).
type Config struct {
	// BaseURL prefixes Meta.Location, e.g. "https://scim.example.com/v2".
	BaseURL string
}

func (c Config) location(resourceType, id string) string {
	return c.BaseURL + "/" + resourceType + "/" + id
}
