package flow

import "gorodskoybaton/bot/internal/domain"

// Button is one labeled action; Data is echoed back as a payload.
type Button struct {
	Label string
	Data  string
}

// Invoice is the payment request handed to the payment collaborator.
type Invoice struct {
	Title       string
	Description string
	Payload     string
	Lines       []domain.LabeledAmount
	Receipt     []domain.ReceiptItem
}

// Reply is one outbound rendering produced by a stage transition. The
// transport renders Text (or PhotoURL with Text as caption) plus the
// keyboard; Alert replies become short popups; Invoice replies become
// payment requests.
type Reply struct {
	Text     string
	PhotoURL string
	Keyboard [][]Button
	Alert    bool
	Invoice  *Invoice
}

func textReply(text string, keyboard ...[]Button) Reply {
	return Reply{Text: text, Keyboard: keyboard}
}

func alertReply(text string) Reply {
	return Reply{Text: text, Alert: true}
}

func row(buttons ...Button) []Button {
	return buttons
}

func backButton(data string) Button {
	return Button{Label: "🔙 Назад", Data: data}
}
