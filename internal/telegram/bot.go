package telegram

import (
	"context"
	"encoding/json"
	"fmt"

	"gorodskoybaton/bot/internal/config"
	"gorodskoybaton/bot/internal/flow"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"
)

// Bot translates Telegram updates into state machine inputs and renders
// machine replies back as messages, keyboards, photos and invoices.
type Bot struct {
	api     *tgbotapi.BotAPI
	machine *flow.Machine
	cfg     config.TelegramConfig
}

// NewAPI authenticates against the Bot API.
func NewAPI(token string) (*tgbotapi.BotAPI, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot API: %w", err)
	}
	return api, nil
}

// NewBot wires the transport adapter.
func NewBot(api *tgbotapi.BotAPI, cfg config.TelegramConfig, machine *flow.Machine) *Bot {
	return &Bot{api: api, machine: machine, cfg: cfg}
}

// Run long-polls updates until the context is cancelled. Each update is
// handled in its own goroutine; per-chat ordering is enforced by the
// machine's chat lock, so concurrent updates for different chats do not
// block each other.
func (b *Bot) Run(ctx context.Context) error {
	log.Infof("Bot authorized as @%s", b.api.Self.UserName)

	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = b.cfg.UpdateTimeout
	updates := b.api.GetUpdatesChan(updateConfig)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			go b.handleUpdate(ctx, update)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.PreCheckoutQuery != nil:
		b.approvePreCheckout(update.PreCheckoutQuery)
	case update.CallbackQuery != nil:
		b.handleCallback(ctx, update.CallbackQuery)
	case update.Message != nil:
		b.handleMessage(ctx, update.Message)
	}
}

// approvePreCheckout always approves: price and stock were already
// validated when the invoice was built.
func (b *Bot) approvePreCheckout(query *tgbotapi.PreCheckoutQuery) {
	_, err := b.api.Request(tgbotapi.PreCheckoutConfig{
		PreCheckoutQueryID: query.ID,
		OK:                 true,
	})
	if err != nil {
		log.Errorf("Failed to answer pre-checkout query: %v", err)
	}
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if !msg.Chat.IsPrivate() {
		return
	}
	chatID := msg.Chat.ID

	var replies []flow.Reply
	var err error
	switch {
	case msg.SuccessfulPayment != nil:
		payment := msg.SuccessfulPayment
		replies, err = b.machine.HandlePayment(ctx, chatID, payment.TotalAmount, payment.InvoicePayload)
	case msg.IsCommand():
		replies, err = b.machine.Start(ctx, chatID)
	default:
		replies, err = b.machine.HandleText(ctx, chatID, msg.Text)
	}
	if err != nil {
		log.Errorf("Failed to handle message for chat %d: %v", chatID, err)
		return
	}

	b.sendReplies(chatID, replies)
}

func (b *Bot) handleCallback(ctx context.Context, query *tgbotapi.CallbackQuery) {
	if query.Message == nil || !query.Message.Chat.IsPrivate() {
		return
	}
	chatID := query.Message.Chat.ID

	replies, err := b.machine.HandlePayload(ctx, chatID, query.Data)
	if err != nil {
		log.Errorf("Failed to handle callback for chat %d: %v", chatID, err)
		replies = nil
	}

	// Alert replies ride on the callback answer itself; everything else
	// gets a plain acknowledgment so the button stops spinning.
	acked := false
	for _, reply := range replies {
		if reply.Alert {
			if _, err := b.api.Request(tgbotapi.NewCallbackWithAlert(query.ID, reply.Text)); err != nil {
				log.Errorf("Failed to answer callback with alert: %v", err)
			}
			acked = true
		}
	}
	if !acked {
		if _, err := b.api.Request(tgbotapi.NewCallback(query.ID, "")); err != nil {
			log.Errorf("Failed to answer callback: %v", err)
		}
	}

	b.sendReplies(chatID, replies)
}

func (b *Bot) sendReplies(chatID int64, replies []flow.Reply) {
	for _, reply := range replies {
		switch {
		case reply.Alert:
			// Already delivered as a callback answer.
		case reply.Invoice != nil:
			b.sendInvoice(chatID, reply.Invoice)
		case reply.PhotoURL != "":
			b.sendPhoto(chatID, reply)
		case reply.Text != "":
			b.sendText(chatID, reply)
		}
	}
}

func (b *Bot) sendText(chatID int64, reply flow.Reply) {
	msg := tgbotapi.NewMessage(chatID, reply.Text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	if markup, ok := keyboardMarkup(reply.Keyboard); ok {
		msg.ReplyMarkup = markup
	}
	if _, err := b.api.Send(msg); err != nil {
		log.Errorf("Failed to send message to chat %d: %v", chatID, err)
	}
}

// sendPhoto falls back to a text-only rendering of the same caption and
// keyboard when the photo cannot be delivered.
func (b *Bot) sendPhoto(chatID int64, reply flow.Reply) {
	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileURL(reply.PhotoURL))
	photo.Caption = reply.Text
	photo.ParseMode = tgbotapi.ModeMarkdown
	if markup, ok := keyboardMarkup(reply.Keyboard); ok {
		photo.ReplyMarkup = markup
	}

	if _, err := b.api.Send(photo); err != nil {
		log.Warnf("Failed to send photo to chat %d, falling back to text: %v", chatID, err)
		b.sendText(chatID, reply)
	}
}

type providerAmount struct {
	Value    string `json:"value"`
	Currency string `json:"currency"`
}

type providerItem struct {
	Description string         `json:"description"`
	Quantity    string         `json:"quantity"`
	Amount      providerAmount `json:"amount"`
	VatCode     int            `json:"vat_code"`
}

func (b *Bot) sendInvoice(chatID int64, invoice *flow.Invoice) {
	prices := make([]tgbotapi.LabeledPrice, 0, len(invoice.Lines))
	for _, line := range invoice.Lines {
		prices = append(prices, tgbotapi.LabeledPrice{Label: line.Label, Amount: line.Amount})
	}

	items := make([]providerItem, 0, len(invoice.Receipt))
	for _, item := range invoice.Receipt {
		items = append(items, providerItem{
			Description: item.Description,
			Quantity:    item.Quantity,
			Amount:      providerAmount{Value: item.Value, Currency: item.Currency},
			VatCode:     1,
		})
	}
	providerData, err := json.Marshal(map[string]interface{}{
		"receipt": map[string]interface{}{"items": items},
	})
	if err != nil {
		log.Errorf("Failed to marshal provider data: %v", err)
		return
	}

	cfg := tgbotapi.NewInvoice(chatID, invoice.Title, invoice.Description, invoice.Payload,
		b.cfg.ProviderToken, "", b.cfg.Currency, prices)
	cfg.NeedPhoneNumber = true
	cfg.SendPhoneNumberToProvider = true
	cfg.ProviderData = string(providerData)

	if _, err := b.api.Send(cfg); err != nil {
		log.Errorf("Failed to send invoice to chat %d: %v", chatID, err)
	}
}

func keyboardMarkup(keyboard [][]flow.Button) (tgbotapi.InlineKeyboardMarkup, bool) {
	if len(keyboard) == 0 {
		return tgbotapi.InlineKeyboardMarkup{}, false
	}

	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(keyboard))
	for _, buttons := range keyboard {
		row := make([]tgbotapi.InlineKeyboardButton, 0, len(buttons))
		for _, button := range buttons {
			row = append(row, tgbotapi.NewInlineKeyboardButtonData(button.Label, button.Data))
		}
		rows = append(rows, row)
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...), true
}
