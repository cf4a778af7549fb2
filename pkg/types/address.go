package types

import "strings"

// Address is the shipping destination captured on an order. Stored as
// jsonb through the gorm json serializer.
type Address struct {
	FullName    string `json:"full_name"`
	PhoneNumber string `json:"phone_number"`
	Email       string `json:"email"`
	Street      string `json:"street"`
	City        string `json:"city"`
	Province    string `json:"province"`
	PostalCode  string `json:"postal_code"`
	Country     string `json:"country"`
}

// Validate reports the first missing required field, or "" when the
// address is complete.
func (a Address) Validate() string {
	switch {
	case strings.TrimSpace(a.FullName) == "":
		return "full_name"
	case strings.TrimSpace(a.PhoneNumber) == "":
		return "phone_number"
	case strings.TrimSpace(a.Email) == "":
		return "email"
	case strings.TrimSpace(a.Street) == "":
		return "street"
	case strings.TrimSpace(a.City) == "":
		return "city"
	case strings.TrimSpace(a.Province) == "":
		return "province"
	case strings.TrimSpace(a.PostalCode) == "":
		return "postal_code"
	case strings.TrimSpace(a.Country) == "":
		return "country"
	}
	return ""
}
