package dto

import "github.com/shopspring/decimal"

// ProductFilters is the sparse predicate set for catalog search. Predicates
// combine with AND; at least one must be present. MinPrice and MaxPrice are
// required together and both bounds are inclusive.
type ProductFilters struct {
	Phrase   string
	Type     string
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
	Page     int
	PageSize int
}

// Empty reports whether no predicate was supplied at all.
func (f *ProductFilters) Empty() bool {
	return f.Phrase == "" && f.Type == "" && f.MinPrice == nil && f.MaxPrice == nil
}

type MovementFilters struct {
	ProductID    string
	MovementType string
	Page         int
	PageSize     int
}
