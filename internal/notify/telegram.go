package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"tokohape/backend/internal/domain"
)

// Telegram posts new-order summaries to a shop group chat via the Bot API.
type Telegram struct {
	httpClient *http.Client
	botToken   string
	chatID     string
}

func NewTelegram(botToken string, chatID string) *Telegram {
	return &Telegram{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		botToken:   botToken,
		chatID:     chatID,
	}
}

func (t *Telegram) OrderCreated(ctx context.Context, order domain.Order, payment domain.PaymentMethod) error {
	payload, err := json.Marshal(map[string]string{
		"chat_id": t.chatID,
		"text":    buildOrderMessage(order, payment),
	})
	if err != nil {
		return err
	}

	url := fmt.Sprintf("https://api.telegram.org/bot%s/sendMessage", t.botToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("telegram responded with status %d", resp.StatusCode)
	}
	return nil
}

func buildOrderMessage(order domain.Order, payment domain.PaymentMethod) string {
	paymentLabel := payment.Name
	if paymentLabel == "" {
		paymentLabel = "Transfer"
	}

	lines := []string{
		"Pesanan baru #" + order.ID,
		"Nama: " + order.CustomerName,
		"HP: " + order.PhoneNumber,
		"Alamat: " + order.Address,
		"Pembayaran: " + paymentLabel,
		"----------------",
	}
	for _, item := range order.Items {
		line := fmt.Sprintf("%s x%d = %d", item.Name, item.Quantity, item.Price*int64(item.Quantity))
		if item.DiscountPercent > 0 {
			line += fmt.Sprintf(" (diskon %.0f%%)", item.DiscountPercent)
		}
		lines = append(lines, line)
	}
	lines = append(lines, "----------------")
	if order.PromoCode != "" {
		lines = append(lines, fmt.Sprintf("Promo %s: -%d", order.PromoCode, order.DiscountAmount))
	}
	lines = append(lines, fmt.Sprintf("Total: %d", order.TotalPrice))
	if order.Notes != "" {
		lines = append(lines, "Catatan: "+order.Notes)
	}
	return strings.Join(lines, "\n")
}
