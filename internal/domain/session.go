package domain

// Stage is the current node of the order flow for one chat.
type Stage string

const (
	// StageIdle waits for the next menu action; browsing and cart edits
	// happen here without a pending text input.
	StageIdle Stage = "idle"
	// StageEnteringQuantity waits for a positive integer for SelectedItem.
	StageEnteringQuantity Stage = "entering_quantity"
	// StageChoosingDelivery waits for a delivery option pick.
	StageChoosingDelivery Stage = "choosing_delivery"
	// StageEnteringPhone waits for a phone number.
	StageEnteringPhone Stage = "entering_phone"
	// StageEnteringEmail waits for an email address.
	StageEnteringEmail Stage = "entering_email"
	// StageEnteringAddress waits for a delivery address.
	StageEnteringAddress Stage = "entering_address"
	// StageConfirming shows the order summary with pay/cancel actions.
	StageConfirming Stage = "confirming"
	// StageAwaitingPayment holds until a payment event arrives. There is
	// no timeout here; the session sits in this stage indefinitely.
	StageAwaitingPayment Stage = "awaiting_payment"
)

// SelectedItem is the transient product/weight pick used only while a
// quantity is awaited.
type SelectedItem struct {
	ProductID int    `json:"product_id"`
	Weight    string `json:"weight"`
}

// Contact holds the fields collected during checkout.
type Contact struct {
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Address string `json:"address"`
}

// Session is the per-chat record of in-progress order state. It lives in
// whatever session.Store the container wired; the default store is
// process memory, so in-flight orders do not survive a restart.
type Session struct {
	ChatID          int64           `json:"chat_id"`
	Stage           Stage           `json:"stage"`
	Cart            []CartLine      `json:"cart"`
	SelectedItem    *SelectedItem   `json:"selected_item,omitempty"`
	CurrentCategory string          `json:"current_category,omitempty"`
	Delivery        *DeliveryOption `json:"delivery,omitempty"`
	Contact         Contact         `json:"contact"`
	Subtotal        int             `json:"subtotal"`     // minor units
	DeliveryFee     int             `json:"delivery_fee"` // minor units
	GrandTotal      int             `json:"grand_total"`  // minor units
	InvoicePayload  string          `json:"invoice_payload,omitempty"`
}

// NewSession returns a fresh idle session for a chat.
func NewSession(chatID int64) *Session {
	return &Session{ChatID: chatID, Stage: StageIdle}
}

// ResetOrder clears checkout fields but keeps the cart. This is the
// cancel path: the user may retry checkout with the same cart.
func (s *Session) ResetOrder() {
	s.Stage = StageIdle
	s.SelectedItem = nil
	s.Delivery = nil
	s.Contact = Contact{}
	s.Subtotal = 0
	s.DeliveryFee = 0
	s.GrandTotal = 0
	s.InvoicePayload = ""
}

// ResetAll restores the initial shape after a successful payment: empty
// cart and every order field cleared.
func (s *Session) ResetAll() {
	s.ResetOrder()
	s.Cart = nil
	s.CurrentCategory = ""
}
