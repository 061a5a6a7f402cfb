package model

// Payway is a payment direction offered by the gateway, addressed by alias.
type Payway struct {
	ID              string   `json:"id"`
	Alias           string   `json:"alias"`
	RequiredDetails []string `json:"required_details,omitempty"`
}

// MissingDetails lists the required detail keys absent from details.
func (p Payway) MissingDetails(details map[string]string) []string {
	var missing []string
	for _, k := range p.RequiredDetails {
		if _, ok := details[k]; !ok {
			missing = append(missing, k)
		}
	}
	return missing
}

// FindPayway returns the first payway whose alias equals alias.
func FindPayway(payways []Payway, alias string) (Payway, bool) {
	for _, p := range payways {
		if p.Alias == alias {
			return p, true
		}
	}
	return Payway{}, false
}
