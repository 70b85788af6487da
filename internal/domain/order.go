package domain

import "time"

// OrderLine is one cart line with the product name resolved at payment
// time, so downstream collaborators do not depend on the live catalog.
type OrderLine struct {
	Name      string `json:"name"`
	Weight    string `json:"weight"`
	UnitPrice int    `json:"unit_price"` // minor units
	Quantity  int    `json:"quantity"`
}

// Amount is the line total in minor units.
func (l OrderLine) Amount() int {
	return l.UnitPrice * l.Quantity
}

// Order is the completed-order snapshot handed to notification dispatch
// after a successful payment.
type Order struct {
	ID           int64       `json:"id"`
	Lines        []OrderLine `json:"lines"`
	DeliveryName string      `json:"delivery_name"`
	DeliveryFee  int         `json:"delivery_fee"` // minor units
	Subtotal     int         `json:"subtotal"`     // minor units
	GrandTotal   int         `json:"grand_total"`  // minor units
	Phone        string      `json:"phone"`
	Email        string      `json:"email"`
	Address      string      `json:"address"`
	PlacedAt     time.Time   `json:"placed_at"`
}

// LabeledAmount is one priced line of a payment invoice.
type LabeledAmount struct {
	Label  string `json:"label"`
	Amount int    `json:"amount"` // minor units
}

// ReceiptItem is one line of the structured receipt passed to the
// payment provider. Value is a two-decimal whole-unit string; the
// stored integer totals are never derived from it.
type ReceiptItem struct {
	Description string `json:"description"`
	Quantity    string `json:"quantity"`
	Value       string `json:"value"`
	Currency    string `json:"currency"`
}
