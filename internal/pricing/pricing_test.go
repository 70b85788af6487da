package pricing

import (
	"testing"

	"gorodskoybaton/bot/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestSubtotal(t *testing.T) {
	tests := []struct {
		name     string
		cart     []domain.CartLine
		expected int
	}{
		{"empty cart", nil, 0},
		{
			"single line",
			[]domain.CartLine{{ProductID: 1, Weight: "350г", UnitPrice: 45000, Quantity: 2}},
			90000,
		},
		{
			"multiple lines",
			[]domain.CartLine{
				{ProductID: 1, Weight: "350г", UnitPrice: 45000, Quantity: 2},
				{ProductID: 2, Weight: "500г", UnitPrice: 30000, Quantity: 1},
			},
			120000,
		},
		{
			"duplicate product/weight pairs stay separate lines",
			[]domain.CartLine{
				{ProductID: 1, Weight: "350г", UnitPrice: 45000, Quantity: 1},
				{ProductID: 1, Weight: "350г", UnitPrice: 45000, Quantity: 1},
			},
			90000,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Subtotal(tt.cart))
		})
	}
}

func TestTotal(t *testing.T) {
	assert.Equal(t, 90000, Total(90000, 0))
	assert.Equal(t, 165000, Total(90000, 75000))
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "450₽", FormatAmount(45000))
	assert.Equal(t, "900₽", FormatAmount(90000))
	assert.Equal(t, "0₽", FormatAmount(0))
}

func TestFormatFee(t *testing.T) {
	assert.Equal(t, "бесплатно", FormatFee(0))
	assert.Equal(t, "750₽", FormatFee(75000))
}

func TestBuildInvoiceLines(t *testing.T) {
	order := &domain.Order{
		Lines: []domain.OrderLine{
			{Name: "Городской батон", Weight: "350г", UnitPrice: 45000, Quantity: 2},
		},
		DeliveryName: "За МКАД (до 10 км)",
		DeliveryFee:  75000,
	}

	lines := BuildInvoiceLines(order)

	assert.Len(t, lines, 2)
	assert.Equal(t, "Городской батон (350г) x 2", lines[0].Label)
	assert.Equal(t, 90000, lines[0].Amount)
	assert.Equal(t, "Доставка: За МКАД (до 10 км)", lines[1].Label)
	assert.Equal(t, 75000, lines[1].Amount)
}

func TestBuildInvoiceLinesNoDeliveryLineWhenFree(t *testing.T) {
	order := &domain.Order{
		Lines: []domain.OrderLine{
			{Name: "Городской батон", Weight: "350г", UnitPrice: 45000, Quantity: 1},
		},
		DeliveryName: "Забрать с производства",
		DeliveryFee:  0,
	}

	lines := BuildInvoiceLines(order)

	assert.Len(t, lines, 1)
	assert.Equal(t, 45000, lines[0].Amount)
}

func TestBuildReceipt(t *testing.T) {
	order := &domain.Order{
		Lines: []domain.OrderLine{
			{Name: "Бородинский", Weight: "500г", UnitPrice: 30050, Quantity: 3},
		},
		DeliveryName: "Внутри МКАД",
		DeliveryFee:  45000,
	}

	items := BuildReceipt(order, "RUB")

	assert.Len(t, items, 2)
	assert.Equal(t, "Бородинский (500г)", items[0].Description)
	assert.Equal(t, "3", items[0].Quantity)
	assert.Equal(t, "300.50", items[0].Value)
	assert.Equal(t, "RUB", items[0].Currency)
	assert.Equal(t, "Доставка: Внутри МКАД", items[1].Description)
	assert.Equal(t, "1", items[1].Quantity)
	assert.Equal(t, "450.00", items[1].Value)
}

func TestBuildReceiptSkipsFreeDelivery(t *testing.T) {
	order := &domain.Order{
		Lines: []domain.OrderLine{
			{Name: "Бородинский", Weight: "500г", UnitPrice: 30000, Quantity: 1},
		},
		DeliveryFee: 0,
	}

	items := BuildReceipt(order, "RUB")

	assert.Len(t, items, 1)
}
