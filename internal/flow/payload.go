package flow

import (
	"fmt"
	"strconv"
	"strings"
)

// Callback payloads are opaque strings the transport echoes back
// verbatim on button press. The grammar lives here so the machine both
// mints and parses it.
const (
	payloadCartView       = "cart_view"
	payloadClearCart      = "clear_cart"
	payloadStartOrder     = "start_order"
	payloadConfirmPayment = "confirm_payment"
	payloadCancelOrder    = "cancel_order"
	payloadBackToMenu     = "back_to_menu"

	prefixCategory = "cat_"
	prefixItem     = "item_"
	prefixAdd      = "add_"
	prefixDelivery = "delivery_"
)

func categoryPayload(name string) string {
	return prefixCategory + name
}

func itemPayload(id int) string {
	return prefixItem + strconv.Itoa(id)
}

func addPayload(id int, weight string) string {
	return fmt.Sprintf("%s%d_%s", prefixAdd, id, weight)
}

func deliveryPayload(key string) string {
	return prefixDelivery + key
}

func parseItemPayload(payload string) (int, bool) {
	id, err := strconv.Atoi(strings.TrimPrefix(payload, prefixItem))
	if err != nil {
		return 0, false
	}
	return id, true
}

// parseAddPayload splits "add_<id>_<weight>"; the weight label may
// itself contain underscores, so only the first two segments are fixed.
func parseAddPayload(payload string) (int, string, bool) {
	rest := strings.TrimPrefix(payload, prefixAdd)
	parts := strings.SplitN(rest, "_", 2)
	if len(parts) != 2 {
		return 0, "", false
	}
	id, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, "", false
	}
	return id, parts[1], true
}
