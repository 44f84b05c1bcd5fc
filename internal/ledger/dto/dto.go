package dto

// TimeWindowCounts is the result of counting ledger entries inside an
// inclusive [start, end] window.
type TimeWindowCounts struct {
	Orders  int `json:"orders"`
	Returns int `json:"returns"`
}
