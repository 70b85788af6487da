package pricing

import (
	"fmt"

	"gorodskoybaton/bot/internal/domain"
)

// All stored monetary arithmetic is integer, in minor currency units.
// Division happens only when formatting for display or the provider
// receipt; it never feeds back into stored totals.

// Subtotal sums unit_price × quantity over all cart lines. Zero for an
// empty cart.
func Subtotal(cart []domain.CartLine) int {
	total := 0
	for _, line := range cart {
		total += line.Amount()
	}
	return total
}

// Total computes the grand total from a subtotal and a delivery fee.
func Total(subtotal, deliveryFee int) int {
	return subtotal + deliveryFee
}

// FormatAmount renders a minor-unit amount as whole currency units for
// display, e.g. 45000 -> "450₽".
func FormatAmount(minor int) string {
	return fmt.Sprintf("%d₽", minor/100)
}

// FormatFee renders a delivery fee for display; zero reads as free.
func FormatFee(minor int) string {
	if minor == 0 {
		return "бесплатно"
	}
	return FormatAmount(minor)
}

// BuildInvoiceLines produces the labeled price lines handed to the
// payment collaborator: one line per cart position plus a delivery line
// when the fee is nonzero.
func BuildInvoiceLines(order *domain.Order) []domain.LabeledAmount {
	lines := make([]domain.LabeledAmount, 0, len(order.Lines)+1)
	for _, line := range order.Lines {
		lines = append(lines, domain.LabeledAmount{
			Label:  fmt.Sprintf("%s (%s) x %d", line.Name, line.Weight, line.Quantity),
			Amount: line.Amount(),
		})
	}
	if order.DeliveryFee > 0 {
		lines = append(lines, domain.LabeledAmount{
			Label:  "Доставка: " + order.DeliveryName,
			Amount: order.DeliveryFee,
		})
	}
	return lines
}

// BuildReceipt produces the structured receipt items for the provider.
// Unit values are two-decimal whole-unit strings for display inside the
// provider receipt only.
func BuildReceipt(order *domain.Order, currency string) []domain.ReceiptItem {
	items := make([]domain.ReceiptItem, 0, len(order.Lines)+1)
	for _, line := range order.Lines {
		items = append(items, domain.ReceiptItem{
			Description: fmt.Sprintf("%s (%s)", line.Name, line.Weight),
			Quantity:    fmt.Sprintf("%d", line.Quantity),
			Value:       formatUnitValue(line.UnitPrice),
			Currency:    currency,
		})
	}
	if order.DeliveryFee > 0 {
		items = append(items, domain.ReceiptItem{
			Description: "Доставка: " + order.DeliveryName,
			Quantity:    "1",
			Value:       formatUnitValue(order.DeliveryFee),
			Currency:    currency,
		})
	}
	return items
}

func formatUnitValue(minor int) string {
	return fmt.Sprintf("%d.%02d", minor/100, minor%100)
}
