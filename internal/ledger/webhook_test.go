package ledger

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"gorodskoybaton/bot/internal/config"
	"gorodskoybaton/bot/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleOrder() *domain.Order {
	return &domain.Order{
		ID: 1724800000,
		Lines: []domain.OrderLine{
			{Name: "Городской батон", Weight: "350г", UnitPrice: 45000, Quantity: 2},
			{Name: "Бородинский", Weight: "500г", UnitPrice: 30000, Quantity: 1},
		},
		DeliveryName: "За МКАД (до 10 км)",
		DeliveryFee:  75000,
		Subtotal:     120000,
		GrandTotal:   195000,
		Phone:        "+79991234567",
		Email:        "user@mail.ru",
		Address:      "Москва, Тверская 1",
		PlacedAt:     time.Date(2026, 8, 28, 12, 30, 0, 0, time.UTC),
	}
}

func TestBuildRow(t *testing.T) {
	row := buildRow(sampleOrder())

	require.Len(t, row, 10)
	assert.Equal(t, "1724800000", row[0])
	assert.Equal(t, "Городской батон (350г) × 2, Бородинский (500г) × 1", row[1])
	assert.Equal(t, "За МКАД (до 10 км)", row[2])
	assert.Equal(t, "+79991234567", row[3])
	assert.Equal(t, "user@mail.ru", row[4])
	assert.Equal(t, "Москва, Тверская 1", row[5])
	assert.Equal(t, "1200", row[6])
	assert.Equal(t, "750", row[7])
	assert.Equal(t, "1950", row[8])
	assert.Equal(t, "2026-08-28 12:30", row[9])
}

func TestNewAppenderDisabledWithoutWebhook(t *testing.T) {
	assert.Nil(t, NewAppender(config.LedgerConfig{}))
}

func TestAppendOrderPostsOneRow(t *testing.T) {
	var body appendRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(data, &body))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	appender := NewAppender(config.LedgerConfig{WebhookURL: server.URL, Timeout: 5})
	require.NotNil(t, appender)

	err := appender.AppendOrder(context.Background(), sampleOrder())

	require.NoError(t, err)
	require.Len(t, body.Values, 1)
	assert.Equal(t, buildRow(sampleOrder()), body.Values[0])
}

func TestAppendOrderReportsWebhookErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	appender := NewAppender(config.LedgerConfig{WebhookURL: server.URL, Timeout: 5})

	err := appender.AppendOrder(context.Background(), sampleOrder())

	assert.Error(t, err)
}
