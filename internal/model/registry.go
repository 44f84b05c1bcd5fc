package model

import "strings"

// Address is deduplicated by the case-insensitive composite of its
// location fields rather than a surrogate id.
type Address struct {
	BaseModel
	Country     string  `db:"country" json:"country"`
	Province    string  `db:"province" json:"province"`
	City        string  `db:"city" json:"city"`
	Street      string  `db:"street" json:"street"`
	BuildingNo  string  `db:"building_no" json:"building_no"`
	ApartmentNo *string `db:"apartment_no" json:"apartment_no"`
	PostalCode  string  `db:"postal_code" json:"postal_code"`
}

// NaturalKey returns the normalized composite key used for deduplication.
func (a *Address) NaturalKey() string {
	parts := []string{a.Country, a.Province, a.City, a.Street, a.BuildingNo, a.PostalCode}
	for i, p := range parts {
		parts[i] = strings.ToLower(strings.TrimSpace(p))
	}
	return strings.Join(parts, "|")
}

type DeliveryProvider struct {
	BaseModel
	Name string `db:"name" json:"name"`
}

type PaymentMethod struct {
	BaseModel
	Name string `db:"name" json:"name"`
}

type ReturnCause struct {
	BaseModel
	Cause string `db:"cause" json:"cause"`
}
