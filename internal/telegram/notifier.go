package telegram

import (
	"context"
	"fmt"
	"strings"

	"gorodskoybaton/bot/internal/domain"
	"gorodskoybaton/bot/internal/pricing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"
)

// OperatorNotifier sends completed-order summaries to the admin chat.
type OperatorNotifier struct {
	api     *tgbotapi.BotAPI
	adminID int64
}

// NewOperatorNotifier returns nil when no admin id is configured, which
// disables the operator target.
func NewOperatorNotifier(api *tgbotapi.BotAPI, adminID int64) *OperatorNotifier {
	if adminID == 0 {
		log.Warn("Admin id not configured, operator notifications disabled")
		return nil
	}
	return &OperatorNotifier{api: api, adminID: adminID}
}

// NotifyOperator sends the plain-text order summary. No markdown: user
// supplied fields must not break formatting.
func (n *OperatorNotifier) NotifyOperator(ctx context.Context, order *domain.Order) error {
	msg := tgbotapi.NewMessage(n.adminID, formatOrder(order))
	if _, err := n.api.Send(msg); err != nil {
		return fmt.Errorf("failed to send operator notification: %w", err)
	}
	return nil
}

func formatOrder(order *domain.Order) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Новый заказ #%d!\n\n", order.ID)
	b.WriteString("Товары:\n")
	for _, line := range order.Lines {
		fmt.Fprintf(&b, "• %s (%s) × %d — %s\n",
			line.Name, line.Weight, line.Quantity, pricing.FormatAmount(line.Amount()))
	}
	fmt.Fprintf(&b, "\nДоставка: %s (%s)\n", order.DeliveryName, pricing.FormatFee(order.DeliveryFee))
	fmt.Fprintf(&b, "Телефон: %s\n", order.Phone)
	fmt.Fprintf(&b, "Email: %s\n", order.Email)
	fmt.Fprintf(&b, "Адрес: %s\n", order.Address)
	fmt.Fprintf(&b, "Сумма за товары: %s\n", pricing.FormatAmount(order.Subtotal))
	fmt.Fprintf(&b, "Итого: %s", pricing.FormatAmount(order.GrandTotal))
	return b.String()
}
