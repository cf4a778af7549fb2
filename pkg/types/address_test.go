package types

import "testing"

func TestAddressValidate(t *testing.T) {
	full := Address{
		FullName:    "Ada Smith",
		PhoneNumber: "+44 113 496 0000",
		Email:       "ada@example.com",
		Street:      "12 High St",
		City:        "Leeds",
		Province:    "West Yorkshire",
		PostalCode:  "LS1 4DY",
		Country:     "GB",
	}
	if missing := full.Validate(); missing != "" {
		t.Fatalf("expected complete address, got missing %q", missing)
	}

	tests := []struct {
		name    string
		mutate  func(*Address)
		missing string
	}{
		{"full_name", func(a *Address) { a.FullName = " " }, "full_name"},
		{"phone_number", func(a *Address) { a.PhoneNumber = "" }, "phone_number"},
		{"email", func(a *Address) { a.Email = "" }, "email"},
		{"street", func(a *Address) { a.Street = " " }, "street"},
		{"city", func(a *Address) { a.City = "" }, "city"},
		{"province", func(a *Address) { a.Province = "" }, "province"},
		{"postal_code", func(a *Address) { a.PostalCode = "" }, "postal_code"},
		{"country", func(a *Address) { a.Country = "" }, "country"},
	}
	for _, tt := range tests {
		addr := full
		tt.mutate(&addr)
		if got := addr.Validate(); got != tt.missing {
			t.Fatalf("%s: expected missing %q, got %q", tt.name, tt.missing, got)
		}
	}
}
