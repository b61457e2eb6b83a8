package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"bistro_back_end/internal/config"
)

// StatusValid est le marqueur de statut que le gateway renvoie dans ses
// callbacks quand le paiement est réellement passé.
const StatusValid = "VALID"

// SSLCommerzClient initie les paiements par redirection : il poste la demande
// au gateway et récupère l'URL de la page de paiement hébergée.
type SSLCommerzClient struct {
	cfg  config.SSLCommerzConfig
	http *http.Client
}

func NewSSLCommerzClient(cfg config.SSLCommerzConfig) *SSLCommerzClient {
	return &SSLCommerzClient{
		cfg: cfg,
		// Timeout borné : un gateway qui ne répond pas doit échouer, pas bloquer
		http: &http.Client{Timeout: 15 * time.Second},
	}
}

type InitiateRequest struct {
	TransactionID string
	Amount        float64
	CustomerEmail string
}

type initiateResponse struct {
	Status         string `json:"status"`
	FailedReason   string `json:"failedreason"`
	GatewayPageURL string `json:"GatewayPageURL"`
}

// Initiate poste la demande de paiement au gateway et retourne l'URL hébergée.
func (c *SSLCommerzClient) Initiate(ctx context.Context, req InitiateRequest) (string, error) {
	form := url.Values{}
	form.Set("store_id", c.cfg.StoreID)
	form.Set("store_passwd", c.cfg.StorePassword)
	form.Set("total_amount", fmt.Sprintf("%.2f", req.Amount))
	form.Set("currency", c.cfg.Currency)
	form.Set("tran_id", req.TransactionID)
	form.Set("success_url", c.cfg.SuccessURL)
	form.Set("fail_url", c.cfg.FailURL)
	form.Set("cancel_url", c.cfg.CancelURL)
	form.Set("cus_name", "Bistro Boss Client")
	form.Set("cus_email", req.CustomerEmail)
	form.Set("cus_add1", "Dhaka")
	form.Set("cus_city", "Dhaka")
	form.Set("cus_postcode", "1000")
	form.Set("cus_country", "Bangladesh")
	form.Set("cus_phone", "01711111111")
	form.Set("shipping_method", "NO")
	form.Set("product_name", "Commande restaurant")
	form.Set("product_category", "Food")
	form.Set("product_profile", "general")
	form.Set("multi_card_name", "mastercard,visacard,amexcard")

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.InitiateURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("appel gateway échoué: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("gateway HTTP %d", resp.StatusCode)
	}

	var data initiateResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return "", fmt.Errorf("réponse gateway illisible: %w", err)
	}

	if data.GatewayPageURL == "" {
		return "", fmt.Errorf("gateway a refusé l'initiation: %s", data.FailedReason)
	}

	return data.GatewayPageURL, nil
}
