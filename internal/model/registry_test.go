package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAddressNaturalKey(t *testing.T) {
	a := &Address{
		Country:    "Poland",
		Province:   "Mazovia",
		City:       "Warsaw",
		Street:     "Main",
		BuildingNo: "12",
		PostalCode: "00-001",
	}
	b := &Address{
		Country:    " POLAND ",
		Province:   "mazovia",
		City:       "WARSAW",
		Street:     "main",
		BuildingNo: "12",
		PostalCode: "00-001",
	}

	assert.Equal(t, a.NaturalKey(), b.NaturalKey(), "casing and whitespace must not split the key")

	c := &Address{
		Country:    "Poland",
		Province:   "Mazovia",
		City:       "Warsaw",
		Street:     "Main",
		BuildingNo: "14",
		PostalCode: "00-001",
	}
	assert.NotEqual(t, a.NaturalKey(), c.NaturalKey())
}
