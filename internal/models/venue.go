package models

type Venue struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	AddressLine1 string `json:"address_line1"`
	AddressLine2 string `json:"address_line2,omitempty"`
	City         string `json:"city,omitempty"`
	Postcode     string `json:"postcode"`
	URL          string `json:"url,omitempty"`
	Info         string `json:"info,omitempty"`
}
