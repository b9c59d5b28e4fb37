package model

// Client is a loyalty account keyed by phone number. Points only grow
// through this engine: accrual is floor(saleTotal/100), applied exactly once
// per finalized sale that carries a phone.
type Client struct {
	Phone   string
	Name    string
	Address string
	Points  int
	Notes   string
}
