package domain

import "github.com/shopspring/decimal"

// Restaurant has exactly one owning user.
type Restaurant struct {
	ID      int
	OwnerID int
	Name    string
	Address string
}

// MenuItem belongs to exactly one restaurant. Price is the single source of
// truth for order pricing; clients never supply it.
type MenuItem struct {
	ID           int
	RestaurantID int
	Name         string
	Description  string
	Price        decimal.Decimal
	Available    bool
}
