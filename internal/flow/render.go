package flow

import (
	"fmt"
	"strings"

	"gorodskoybaton/bot/internal/domain"
	"gorodskoybaton/bot/internal/pricing"
)

const welcomeText = "👋 *Добро пожаловать в «Городской Батон»!* 🎉\n\n" +
	"Свежий хлеб — прямо с производства. Выбирайте категорию ниже 👇\n\n" +
	"Как работает бот:\n" +
	"- Выберите категорию хлеба из меню ниже.\n" +
	"- Просмотрите товары, выберите вес (если доступно) и укажите количество.\n" +
	"- Добавьте в корзину и перейдите к оформлению заказа.\n" +
	"- Выберите доставку, введите контакты и оплатите."

const placeholderImage = "https://via.placeholder.com/300x300.png?text=Хлеб"

var imageExtensions = []string{".jpg", ".jpeg", ".png", ".webp", ".gif"}

func (m *Machine) mainMenuKeyboard() [][]Button {
	var keyboard [][]Button
	for _, name := range m.catalog.Categories() {
		keyboard = append(keyboard, row(Button{Label: "🍞 " + name, Data: categoryPayload(name)}))
	}
	keyboard = append(keyboard, row(Button{Label: "🛒 Корзина", Data: payloadCartView}))
	return keyboard
}

func (m *Machine) menuReply(text string) Reply {
	return textReply(text, m.mainMenuKeyboard()...)
}

func (m *Machine) categoryReply(name string, products []domain.Product) Reply {
	var keyboard [][]Button
	for _, p := range products {
		price := p.Price(p.Weights[0])
		label := fmt.Sprintf("%s — 💰 %s", p.Name, pricing.FormatAmount(price))
		keyboard = append(keyboard, row(Button{Label: label, Data: itemPayload(p.ID)}))
	}
	keyboard = append(keyboard, row(backButton(payloadBackToMenu)))
	return textReply(fmt.Sprintf("📦 *%s*", name), keyboard...)
}

func emptyCategoryReply() Reply {
	return textReply("😔 Пока нет товаров в этой категории.", row(backButton(payloadBackToMenu)))
}

func itemQuantityReply(p *domain.Product, backData string) Reply {
	caption := fmt.Sprintf("🍞 *%s*\n\n📋 %s\n\nВведите количество (целое число):", p.Name, p.Composition)
	return Reply{
		Text:     caption,
		PhotoURL: safeImageURL(p.ImageURL),
		Keyboard: [][]Button{row(backButton(backData))},
	}
}

func itemWeightsReply(p *domain.Product, backData string) Reply {
	var keyboard [][]Button
	for _, w := range p.Weights {
		keyboard = append(keyboard, row(Button{Label: w, Data: addPayload(p.ID, w)}))
	}
	keyboard = append(keyboard, row(backButton(backData)))
	return Reply{
		Text:     fmt.Sprintf("🍞 *%s*\n\n📋 %s", p.Name, p.Composition),
		PhotoURL: safeImageURL(p.ImageURL),
		Keyboard: keyboard,
	}
}

func weightQuantityReply(p *domain.Product, weight string) Reply {
	return textReply(
		fmt.Sprintf("📦 *%s* (%s)\n\nВведите количество (целое число):", p.Name, weight),
		row(backButton(itemPayload(p.ID))),
	)
}

func (m *Machine) cartReply(sess *domain.Session) Reply {
	if len(sess.Cart) == 0 {
		return textReply("🛒 Ваша корзина пуста.", row(backButton(payloadBackToMenu)))
	}

	var b strings.Builder
	b.WriteString("🛒 *Ваша корзина:*\n\n")
	for _, line := range sess.Cart {
		name := m.productName(line.ProductID)
		fmt.Fprintf(&b, "• %s (%s) × %d — 💰 %s\n",
			name, line.Weight, line.Quantity, pricing.FormatAmount(line.Amount()))
	}
	fmt.Fprintf(&b, "\n💵 *Итого:* %s", pricing.FormatAmount(pricing.Subtotal(sess.Cart)))

	return textReply(b.String(),
		row(Button{Label: "✅ Оформить заказ", Data: payloadStartOrder}),
		row(Button{Label: "🗑 Очистить корзину", Data: payloadClearCart}),
		row(backButton(payloadBackToMenu)),
	)
}

func (m *Machine) deliveryReply() Reply {
	var keyboard [][]Button
	for _, opt := range m.delivery {
		emoji := "🚚"
		if opt.Price == 0 {
			emoji = "🏭"
		}
		label := fmt.Sprintf("%s %s — %s", emoji, opt.Name, pricing.FormatFee(opt.Price))
		keyboard = append(keyboard, row(Button{Label: label, Data: deliveryPayload(opt.Key)}))
	}
	return textReply("🚚 *Выберите способ доставки:*", keyboard...)
}

func (m *Machine) confirmationReply(sess *domain.Session) Reply {
	var b strings.Builder
	b.WriteString("🧾 *Подтверждение заказа*\n\n📦 *Товары:*\n")
	for _, line := range sess.Cart {
		fmt.Fprintf(&b, "• %s (%s) × %d — %s\n",
			m.productName(line.ProductID), line.Weight, line.Quantity, pricing.FormatAmount(line.Amount()))
	}
	fmt.Fprintf(&b, "\n💵 *Цена товаров:* %s\n", pricing.FormatAmount(sess.Subtotal))
	fmt.Fprintf(&b, "🚚 *Доставка:* %s — %s\n", sess.Delivery.Name, pricing.FormatFee(sess.DeliveryFee))
	fmt.Fprintf(&b, "💰 *Итого:* %s\n\n", pricing.FormatAmount(sess.GrandTotal))
	fmt.Fprintf(&b, "☎️ *Телефон:* %s\n", sess.Contact.Phone)
	fmt.Fprintf(&b, "✉️ *Email:* %s\n", sess.Contact.Email)
	fmt.Fprintf(&b, "🏠 *Адрес:* %s\n\n", sess.Contact.Address)
	b.WriteString("Нажмите *«Оплатить»*, чтобы завершить покупку 👇")

	return textReply(b.String(),
		row(Button{Label: "💳 Оплатить", Data: payloadConfirmPayment}),
		row(Button{Label: "❌ Отмена", Data: payloadCancelOrder}),
	)
}

func successReply(orderID int64) string {
	return fmt.Sprintf("✅ *Оплата прошла успешно!*\n\n📦 Заказ №%d принят.\nМы скоро свяжемся с вами ☎️", orderID)
}

// safeImageURL keeps only http(s) URLs with a known image extension;
// everything else is replaced by the placeholder so the photo send has
// a chance to succeed.
func safeImageURL(url string) string {
	if !strings.HasPrefix(url, "http") {
		return placeholderImage
	}
	lower := strings.ToLower(url)
	for _, ext := range imageExtensions {
		if strings.HasSuffix(lower, ext) {
			return url
		}
	}
	return placeholderImage
}
