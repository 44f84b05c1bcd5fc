package dto

type AddressInput struct {
	Country     string
	Province    string
	City        string
	Street      string
	BuildingNo  string
	ApartmentNo string
	PostalCode  string
}
