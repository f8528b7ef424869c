package models

const (
	DefaultDays  = "Monday - Sunday"
	DefaultHours = "11:00 AM - 11:30 PM"
)

// RestaurantSettings is the singleton holding opening times and the logo.
type RestaurantSettings struct {
	Days    string `json:"days"`
	Hours   string `json:"hours"`
	LogoURL string `json:"logoUrl,omitempty"`
}

func DefaultSettings() RestaurantSettings {
	return RestaurantSettings{
		Days:  DefaultDays,
		Hours: DefaultHours,
	}
}
