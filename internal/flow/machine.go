package flow

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"gorodskoybaton/bot/internal/domain"
	"gorodskoybaton/bot/internal/pricing"
	"gorodskoybaton/bot/internal/session"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// Catalog is the read side of the catalog store the machine needs.
type Catalog interface {
	Lookup(id int) (*domain.Product, bool)
	ByCategory(name string) []domain.Product
	Categories() []string
	CategoryOf(id int) (string, bool)
}

// Dispatcher receives completed orders after a successful payment.
type Dispatcher interface {
	Dispatch(ctx context.Context, order *domain.Order)
}

var (
	phonePattern  = regexp.MustCompile(`^\+?\d{10,15}$`)
	emailPattern  = regexp.MustCompile(`^[a-zA-Z0-9_.+-]+@[a-zA-Z0-9-]+\.[a-zA-Z0-9-.]+$`)
	digitsPattern = regexp.MustCompile(`^\d+$`)
)

// Machine drives the order flow for every chat. All transitions for one
// chat run sequentially under a per-chat lock; different chats proceed
// concurrently and share only the read-mostly catalog.
type Machine struct {
	catalog    Catalog
	sessions   session.Store
	dispatcher Dispatcher
	delivery   []domain.DeliveryOption
	currency   string

	mu        sync.Mutex
	chatLocks map[int64]*sync.Mutex
}

// NewMachine wires the order state machine.
func NewMachine(
	catalog Catalog,
	sessions session.Store,
	dispatcher Dispatcher,
	delivery []domain.DeliveryOption,
	currency string,
) *Machine {
	return &Machine{
		catalog:    catalog,
		sessions:   sessions,
		dispatcher: dispatcher,
		delivery:   delivery,
		currency:   currency,
		chatLocks:  make(map[int64]*sync.Mutex),
	}
}

func (m *Machine) lockChat(chatID int64) func() {
	m.mu.Lock()
	lock, ok := m.chatLocks[chatID]
	if !ok {
		lock = &sync.Mutex{}
		m.chatLocks[chatID] = lock
	}
	m.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}

// Start handles /start and any free text outside an input stage: the
// welcome message with the category menu.
func (m *Machine) Start(ctx context.Context, chatID int64) ([]Reply, error) {
	unlock := m.lockChat(chatID)
	defer unlock()

	if _, err := m.sessions.Get(ctx, chatID); err != nil {
		return nil, err
	}
	return []Reply{m.menuReply(welcomeText)}, nil
}

// HandlePayload processes a button press payload.
func (m *Machine) HandlePayload(ctx context.Context, chatID int64, payload string) ([]Reply, error) {
	unlock := m.lockChat(chatID)
	defer unlock()

	sess, err := m.sessions.Get(ctx, chatID)
	if err != nil {
		return nil, err
	}

	var replies []Reply
	switch {
	case payload == payloadBackToMenu:
		replies = []Reply{m.menuReply("🍞 Выберите категорию:")}
	case strings.HasPrefix(payload, prefixCategory):
		replies = m.showCategory(sess, strings.TrimPrefix(payload, prefixCategory))
	case strings.HasPrefix(payload, prefixItem):
		replies = m.showItem(sess, payload)
	case strings.HasPrefix(payload, prefixAdd):
		replies = m.pickWeight(sess, payload)
	case payload == payloadCartView:
		replies = []Reply{m.cartReply(sess)}
	case payload == payloadClearCart:
		sess.Cart = nil
		replies = []Reply{m.menuReply("🛒 Корзина очищена.")}
	case payload == payloadStartOrder:
		replies = m.startOrder(sess)
	case strings.HasPrefix(payload, prefixDelivery):
		replies = m.chooseDelivery(sess, strings.TrimPrefix(payload, prefixDelivery))
	case payload == payloadConfirmPayment:
		replies = m.confirmPayment(sess)
	case payload == payloadCancelOrder:
		sess.ResetOrder()
		replies = []Reply{m.menuReply("❌ Заказ отменён.")}
	default:
		log.Warnf("Unknown payload from chat %d: %s", chatID, payload)
	}

	if err := m.sessions.Save(ctx, sess); err != nil {
		return nil, err
	}
	return replies, nil
}

// HandleText processes a free-text message according to the current
// stage. Invalid input re-prompts without changing the stage.
func (m *Machine) HandleText(ctx context.Context, chatID int64, text string) ([]Reply, error) {
	unlock := m.lockChat(chatID)
	defer unlock()

	sess, err := m.sessions.Get(ctx, chatID)
	if err != nil {
		return nil, err
	}

	text = strings.TrimSpace(text)

	var replies []Reply
	switch sess.Stage {
	case domain.StageEnteringQuantity:
		replies = m.enterQuantity(sess, text)
	case domain.StageEnteringPhone:
		replies = m.enterPhone(sess, text)
	case domain.StageEnteringEmail:
		replies = m.enterEmail(sess, text)
	case domain.StageEnteringAddress:
		replies = m.enterAddress(sess, text)
	default:
		replies = []Reply{m.menuReply(welcomeText)}
	}

	if err := m.sessions.Save(ctx, sess); err != nil {
		return nil, err
	}
	return replies, nil
}

// HandlePayment processes the external payment-confirmed event: the
// order is dispatched, the user gets the success message regardless of
// dispatch outcomes, and the session returns to its initial shape.
func (m *Machine) HandlePayment(ctx context.Context, chatID int64, totalAmount int, payload string) ([]Reply, error) {
	unlock := m.lockChat(chatID)
	defer unlock()

	sess, err := m.sessions.Get(ctx, chatID)
	if err != nil {
		return nil, err
	}

	if sess.Stage != domain.StageAwaitingPayment {
		log.Warnf("Payment event for chat %d in stage %s", chatID, sess.Stage)
	}
	if payload != "" && payload != sess.InvoicePayload {
		log.Warnf("Payment payload mismatch for chat %d", chatID)
	}
	if totalAmount != sess.GrandTotal {
		log.Warnf("Paid amount %d differs from computed total %d for chat %d",
			totalAmount, sess.GrandTotal, chatID)
	}

	order := m.buildOrder(sess)
	order.ID = time.Now().Unix()
	order.PlacedAt = time.Now()

	if len(order.Lines) > 0 {
		m.dispatcher.Dispatch(ctx, order)
	} else {
		log.Warnf("Payment event with empty cart for chat %d", chatID)
	}

	sess.ResetAll()
	if err := m.sessions.Save(ctx, sess); err != nil {
		return nil, err
	}

	return []Reply{m.menuReply(successReply(order.ID))}, nil
}

func (m *Machine) showCategory(sess *domain.Session, name string) []Reply {
	products := m.catalog.ByCategory(name)
	if len(products) == 0 {
		return []Reply{emptyCategoryReply()}
	}
	sess.CurrentCategory = name
	return []Reply{m.categoryReply(name, products)}
}

// showItem presents a product card. A single-weight product skips the
// weight choice and goes straight to quantity entry.
func (m *Machine) showItem(sess *domain.Session, payload string) []Reply {
	id, ok := parseItemPayload(payload)
	if !ok {
		return nil
	}
	product, found := m.catalog.Lookup(id)
	if !found {
		return []Reply{m.menuReply("Ошибка: товар не найден.")}
	}

	backData := payloadBackToMenu
	if category, ok := m.catalog.CategoryOf(id); ok {
		sess.CurrentCategory = category
		backData = categoryPayload(category)
	}

	if len(product.Weights) == 1 {
		sess.SelectedItem = &domain.SelectedItem{ProductID: id, Weight: product.Weights[0]}
		sess.Stage = domain.StageEnteringQuantity
		return []Reply{itemQuantityReply(product, backData)}
	}

	return []Reply{itemWeightsReply(product, backData)}
}

func (m *Machine) pickWeight(sess *domain.Session, payload string) []Reply {
	id, weight, ok := parseAddPayload(payload)
	if !ok {
		return nil
	}
	product, found := m.catalog.Lookup(id)
	if !found {
		return []Reply{m.menuReply("Ошибка: товар не найден.")}
	}
	if _, hasWeight := product.Prices[weight]; !hasWeight {
		log.Warnf("Unknown weight %q for product %d", weight, id)
		return []Reply{m.menuReply("Ошибка: товар не найден.")}
	}

	sess.SelectedItem = &domain.SelectedItem{ProductID: id, Weight: weight}
	sess.Stage = domain.StageEnteringQuantity
	return []Reply{weightQuantityReply(product, weight)}
}

func (m *Machine) enterQuantity(sess *domain.Session, text string) []Reply {
	if !digitsPattern.MatchString(text) {
		return []Reply{textReply("Введите корректное положительное целое число (например, 2).")}
	}
	quantity, err := strconv.Atoi(text)
	if err != nil || quantity <= 0 {
		return []Reply{textReply("Введите корректное положительное целое число (например, 2).")}
	}

	if sess.SelectedItem == nil {
		sess.Stage = domain.StageIdle
		return []Reply{textReply("Ошибка: товар не выбран. Попробуйте снова.")}
	}

	product, found := m.catalog.Lookup(sess.SelectedItem.ProductID)
	if !found {
		sess.SelectedItem = nil
		sess.Stage = domain.StageIdle
		return []Reply{textReply("Ошибка: товар не найден.")}
	}

	line := domain.CartLine{
		ProductID: product.ID,
		Weight:    sess.SelectedItem.Weight,
		UnitPrice: product.Price(sess.SelectedItem.Weight),
		Quantity:  quantity,
	}
	sess.Cart = append(sess.Cart, line)
	sess.SelectedItem = nil
	sess.Stage = domain.StageIdle

	added := fmt.Sprintf("Добавлено: *%s* (%s) × %d — %s",
		product.Name, line.Weight, quantity, pricing.FormatAmount(line.Amount()))
	return []Reply{textReply(added), m.menuReply("Выберите категорию:")}
}

// startOrder begins checkout; an empty cart blocks progression with a
// popup and no stage change.
func (m *Machine) startOrder(sess *domain.Session) []Reply {
	if len(sess.Cart) == 0 {
		return []Reply{alertReply("🛒 Корзина пуста!")}
	}

	sess.Subtotal = pricing.Subtotal(sess.Cart)
	sess.Stage = domain.StageChoosingDelivery
	return []Reply{m.deliveryReply()}
}

func (m *Machine) chooseDelivery(sess *domain.Session, key string) []Reply {
	if sess.Stage != domain.StageChoosingDelivery {
		log.Debugf("Ignoring delivery pick in stage %s for chat %d", sess.Stage, sess.ChatID)
		return nil
	}

	var option *domain.DeliveryOption
	for i := range m.delivery {
		if m.delivery[i].Key == key {
			option = &m.delivery[i]
			break
		}
	}
	if option == nil {
		log.Warnf("Unknown delivery key %q for chat %d", key, sess.ChatID)
		return nil
	}

	opt := *option
	sess.Delivery = &opt
	sess.DeliveryFee = opt.Price
	sess.GrandTotal = pricing.Total(sess.Subtotal, sess.DeliveryFee)
	sess.Stage = domain.StageEnteringPhone

	text := fmt.Sprintf("🚚 *Доставка:* %s\n💰 Цена: %s\n\n☎️ Введите номер телефона:",
		opt.Name, pricing.FormatFee(opt.Price))
	return []Reply{textReply(text)}
}

func (m *Machine) enterPhone(sess *domain.Session, text string) []Reply {
	if !phonePattern.MatchString(text) {
		return []Reply{textReply("❌ Неверный формат. Пример: +79991234567")}
	}
	sess.Contact.Phone = text
	sess.Stage = domain.StageEnteringEmail
	return []Reply{textReply("📧 Введите ваш email:")}
}

// enterEmail validates the address and either skips straight to
// confirmation (pickup orders get the pickup sentinel as their address)
// or proceeds to address entry.
func (m *Machine) enterEmail(sess *domain.Session, text string) []Reply {
	if !emailPattern.MatchString(text) {
		return []Reply{textReply("❌ Неверный email. Пример: example@mail.ru")}
	}
	sess.Contact.Email = text

	if sess.Delivery != nil && sess.Delivery.Key == domain.PickupKey {
		sess.Contact.Address = domain.PickupAddress
		sess.Stage = domain.StageConfirming
		return []Reply{m.confirmationReply(sess)}
	}

	sess.Stage = domain.StageEnteringAddress
	return []Reply{textReply("🏠 Введите адрес:")}
}

func (m *Machine) enterAddress(sess *domain.Session, text string) []Reply {
	if text == "" {
		return []Reply{textReply("📍 Адрес не может быть пустым. Пожалуйста, введите адрес.")}
	}
	sess.Contact.Address = text
	sess.Stage = domain.StageConfirming
	return []Reply{m.confirmationReply(sess)}
}

// confirmPayment hands the priced order to the payment collaborator and
// parks the session in AwaitingPayment until the external payment event
// arrives. There is no timeout on that wait.
func (m *Machine) confirmPayment(sess *domain.Session) []Reply {
	if sess.Stage != domain.StageConfirming {
		log.Debugf("Ignoring payment confirm in stage %s for chat %d", sess.Stage, sess.ChatID)
		return nil
	}
	if len(sess.Cart) == 0 {
		return []Reply{alertReply("🛒 Корзина пуста!")}
	}

	sess.InvoicePayload = uuid.NewString()
	sess.Stage = domain.StageAwaitingPayment

	order := m.buildOrder(sess)
	invoice := &Invoice{
		Title:       "💳 Оплата заказа",
		Description: "Хлеб + доставка",
		Payload:     sess.InvoicePayload,
		Lines:       pricing.BuildInvoiceLines(order),
		Receipt:     pricing.BuildReceipt(order, m.currency),
	}
	return []Reply{{Invoice: invoice}}
}

// buildOrder snapshots the session into a completed-order record with
// product names resolved, so dispatch targets never need the catalog.
func (m *Machine) buildOrder(sess *domain.Session) *domain.Order {
	order := &domain.Order{
		Subtotal:    sess.Subtotal,
		DeliveryFee: sess.DeliveryFee,
		GrandTotal:  sess.GrandTotal,
		Phone:       sess.Contact.Phone,
		Email:       sess.Contact.Email,
		Address:     sess.Contact.Address,
	}
	if sess.Delivery != nil {
		order.DeliveryName = sess.Delivery.Name
	}
	for _, line := range sess.Cart {
		order.Lines = append(order.Lines, domain.OrderLine{
			Name:      m.productName(line.ProductID),
			Weight:    line.Weight,
			UnitPrice: line.UnitPrice,
			Quantity:  line.Quantity,
		})
	}
	return order
}

func (m *Machine) productName(id int) string {
	if product, ok := m.catalog.Lookup(id); ok {
		return product.Name
	}
	return fmt.Sprintf("Товар #%d", id)
}
