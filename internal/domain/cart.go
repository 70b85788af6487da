package domain

// CartLine is one product/weight/quantity selection awaiting checkout.
// Duplicate (product, weight) pairs stay as separate lines; lines are
// appended in selection order and never merged.
type CartLine struct {
	ProductID int    `json:"product_id"`
	Weight    string `json:"weight"`
	UnitPrice int    `json:"unit_price"` // minor units
	Quantity  int    `json:"quantity"`
}

// Amount is the line total in minor units.
func (l CartLine) Amount() int {
	return l.UnitPrice * l.Quantity
}

// DeliveryOption is one entry of the fixed delivery configuration set.
type DeliveryOption struct {
	Key   string `json:"key" mapstructure:"key"`
	Name  string `json:"name" mapstructure:"name"`
	Price int    `json:"price" mapstructure:"price"` // minor units
}

// PickupKey marks the option that skips address collection.
const PickupKey = "pickup"

// PickupAddress is the sentinel stored instead of a street address for
// pickup orders.
const PickupAddress = "Самовывоз"
