package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// =====================
// Mercado Pago (Checkout Pro)
// =====================
//
// ENV esperadas:
// - MERCADOPAGO_ACCESS_TOKEN   (token da conta)
// - APP_BASE_URL               (ex: https://dunar.com.br; usado para back_urls e notification_url)

type PreferenceItem struct {
	ID         string  `json:"id"`
	Title      string  `json:"title"`
	Quantity   int     `json:"quantity"`
	UnitPrice  float64 `json:"unit_price"`
	CurrencyID string  `json:"currency_id"`
}

type PreferenceRequest struct {
	Items             []PreferenceItem  `json:"items"`
	BackURLs          map[string]string `json:"back_urls,omitempty"`
	AutoReturn        string            `json:"auto_return,omitempty"`
	ExternalReference string            `json:"external_reference"`
	NotificationURL   string            `json:"notification_url,omitempty"`
	StatementDescr    string            `json:"statement_descriptor,omitempty"`
	Metadata          map[string]any    `json:"metadata,omitempty"`
}

type PreferenceResponse struct {
	ID               string `json:"id"`
	InitPoint        string `json:"init_point"`
	SandboxInitPoint string `json:"sandbox_init_point"`
}

// CreatePreference cria uma preferência de pagamento no Mercado Pago e
// devolve os links de checkout.
func CreatePreference(ctx context.Context, pref PreferenceRequest) (PreferenceResponse, error) {
	token := strings.TrimSpace(os.Getenv("MERCADOPAGO_ACCESS_TOKEN"))
	if token == "" {
		return PreferenceResponse{}, fmt.Errorf("MERCADOPAGO_ACCESS_TOKEN not set")
	}

	b, err := json.Marshal(pref)
	if err != nil {
		return PreferenceResponse{}, err
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		"https://api.mercadopago.com/checkout/preferences",
		bytes.NewReader(b),
	)
	if err != nil {
		return PreferenceResponse{}, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return PreferenceResponse{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return PreferenceResponse{}, fmt.Errorf("mercadopago error %d: %s", resp.StatusCode, string(body))
	}

	var out PreferenceResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return PreferenceResponse{}, err
	}
	return out, nil
}

// AppBaseURL devolve a base pública do app para montar back_urls e
// notification_url. Vazio desabilita os campos (útil em dev).
func AppBaseURL() string {
	return strings.TrimRight(strings.TrimSpace(os.Getenv("APP_BASE_URL")), "/")
}
