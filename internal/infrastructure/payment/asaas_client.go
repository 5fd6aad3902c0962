// Package payment contains the Asaas payment-provider adapter. It creates
// Pix charges for storefront orders; settlement flows back asynchronously
// through the provider's webhook.
package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	appordering "github.com/fiado/backend/internal/application/ordering"
	"github.com/fiado/backend/internal/infrastructure/config"
	"github.com/shopspring/decimal"
)

const asaasDateLayout = "2006-01-02"

// AsaasClient talks to the Asaas REST API. Every request carries the
// account's API key in the access_token header.
type AsaasClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewAsaasClient creates a client from the Asaas configuration.
func NewAsaasClient(cfg config.AsaasConfig) *AsaasClient {
	return &AsaasClient{
		apiKey:  cfg.APIKey,
		baseURL: cfg.BaseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type asaasCustomerRequest struct {
	Name        string `json:"name"`
	MobilePhone string `json:"mobilePhone,omitempty"`
}

type asaasCustomerResponse struct {
	ID string `json:"id"`
}

type asaasChargeRequest struct {
	Customer    string `json:"customer"`
	BillingType string `json:"billingType"`
	Value       string `json:"value"`
	DueDate     string `json:"dueDate"`
	Description string `json:"description,omitempty"`
}

type asaasChargeResponse struct {
	ID         string `json:"id"`
	InvoiceURL string `json:"invoiceUrl"`
	Status     string `json:"status"`
}

type asaasPixCodeResponse struct {
	Payload      string `json:"payload"`
	EncodedImage string `json:"encodedImage"`
}

// asaasError is the error envelope Asaas returns on failed requests.
type asaasError struct {
	Errors []struct {
		Code        string `json:"code"`
		Description string `json:"description"`
	} `json:"errors"`
}

// CreateCustomer registers a customer at the provider and returns its id.
func (c *AsaasClient) CreateCustomer(ctx context.Context, name, phone string) (string, error) {
	var resp asaasCustomerResponse
	err := c.do(ctx, http.MethodPost, "/customers", asaasCustomerRequest{
		Name:        name,
		MobilePhone: phone,
	}, &resp)
	if err != nil {
		return "", err
	}
	return resp.ID, nil
}

// CreatePixCharge creates a Pix charge for the customer and fetches its
// copy-and-paste payload and QR code.
func (c *AsaasClient) CreatePixCharge(ctx context.Context, customerID string, amount decimal.Decimal, dueDate time.Time, description string) (*appordering.PixCharge, error) {
	var charge asaasChargeResponse
	err := c.do(ctx, http.MethodPost, "/payments", asaasChargeRequest{
		Customer:    customerID,
		BillingType: "PIX",
		Value:       amount.StringFixed(2),
		DueDate:     dueDate.Format(asaasDateLayout),
		Description: description,
	}, &charge)
	if err != nil {
		return nil, err
	}

	result := &appordering.PixCharge{
		CustomerID: customerID,
		PaymentID:  charge.ID,
		InvoiceURL: charge.InvoiceURL,
	}

	// The Pix code lives behind a second call. A failure here still leaves
	// a usable charge; the invoice URL carries the code too.
	var pix asaasPixCodeResponse
	if err := c.do(ctx, http.MethodGet, "/payments/"+charge.ID+"/pixQrCode", nil, &pix); err == nil {
		result.Payload = pix.Payload
		result.QRCode = pix.EncodedImage
	}

	return result, nil
}

// do performs one API call and decodes the JSON response into out.
func (c *AsaasClient) do(ctx context.Context, method, path string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("asaas: failed to marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("asaas: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("access_token", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("asaas: request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("asaas: failed to read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var apiErr asaasError
		if json.Unmarshal(respBody, &apiErr) == nil && len(apiErr.Errors) > 0 {
			return fmt.Errorf("asaas: HTTP %d: %s (%s)", resp.StatusCode,
				apiErr.Errors[0].Description, apiErr.Errors[0].Code)
		}
		return fmt.Errorf("asaas: HTTP %d", resp.StatusCode)
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("asaas: failed to parse response: %w", err)
		}
	}
	return nil
}

// Ensure AsaasClient implements PaymentGateway
var _ appordering.PaymentGateway = (*AsaasClient)(nil)
