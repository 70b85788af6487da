package ledger

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"gorodskoybaton/bot/internal/config"
	"gorodskoybaton/bot/internal/domain"

	log "github.com/sirupsen/logrus"
	"resty.dev/v3"
)

// Appender posts one completed-order row to the sheet bridge webhook.
// The bridge owns the spreadsheet; this side only appends rows and
// never negotiates schema.
type Appender struct {
	webhookURL string
	httpClient *resty.Client
}

// NewAppender builds the webhook client. Returns nil when no webhook is
// configured, which disables the ledger target entirely.
func NewAppender(cfg config.LedgerConfig) *Appender {
	if cfg.WebhookURL == "" {
		log.Warn("Ledger webhook not configured, order rows will not be appended")
		return nil
	}

	httpClient := resty.New().
		SetTimeout(time.Duration(cfg.Timeout) * time.Second).
		SetHeader("Content-Type", "application/json")

	return &Appender{
		webhookURL: cfg.WebhookURL,
		httpClient: httpClient,
	}
}

type appendRequest struct {
	Values [][]string `json:"values"`
}

// AppendOrder posts the ten-column order row: id, item summary,
// delivery name, phone, email, address, subtotal, delivery fee, grand
// total, timestamp. Monetary columns are whole currency units for
// spreadsheet readability.
func (a *Appender) AppendOrder(ctx context.Context, order *domain.Order) error {
	row := buildRow(order)

	resp, err := a.httpClient.R().
		SetContext(ctx).
		SetBody(appendRequest{Values: [][]string{row}}).
		Post(a.webhookURL)
	if err != nil {
		return fmt.Errorf("failed to post ledger row: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("ledger webhook returned %d %s", resp.StatusCode(), resp.Status())
	}

	log.Infof("Appended order %d to ledger", order.ID)
	return nil
}

func buildRow(order *domain.Order) []string {
	summaries := make([]string, 0, len(order.Lines))
	for _, line := range order.Lines {
		summaries = append(summaries, fmt.Sprintf("%s (%s) × %d", line.Name, line.Weight, line.Quantity))
	}

	return []string{
		strconv.FormatInt(order.ID, 10),
		strings.Join(summaries, ", "),
		order.DeliveryName,
		order.Phone,
		order.Email,
		order.Address,
		strconv.Itoa(order.Subtotal / 100),
		strconv.Itoa(order.DeliveryFee / 100),
		strconv.Itoa(order.GrandTotal / 100),
		order.PlacedAt.Format("2006-01-02 15:04"),
	}
}
