package payment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fiado/backend/internal/infrastructure/config"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(serverURL string) *AsaasClient {
	return NewAsaasClient(config.AsaasConfig{
		Enabled: true,
		APIKey:  "test-key",
		BaseURL: serverURL,
	})
}

func TestAsaasClient_CreateCustomer(t *testing.T) {
	t.Run("posts name and phone with access token", func(t *testing.T) {
		var gotToken string
		var gotReq map[string]string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, http.MethodPost, r.Method)
			require.Equal(t, "/customers", r.URL.Path)
			gotToken = r.Header.Get("access_token")
			require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"id":"cus_000001"}`))
		}))
		defer server.Close()

		client := newTestClient(server.URL)
		id, err := client.CreateCustomer(context.Background(), "Maria Silva", "11988887777")

		assert.NoError(t, err)
		assert.Equal(t, "cus_000001", id)
		assert.Equal(t, "test-key", gotToken)
		assert.Equal(t, "Maria Silva", gotReq["name"])
		assert.Equal(t, "11988887777", gotReq["mobilePhone"])
	})

	t.Run("surfaces the provider error description", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"errors":[{"code":"invalid_name","description":"Nome inválido"}]}`))
		}))
		defer server.Close()

		client := newTestClient(server.URL)
		_, err := client.CreateCustomer(context.Background(), "", "")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "Nome inválido")
		assert.Contains(t, err.Error(), "invalid_name")
	})
}

func TestAsaasClient_CreatePixCharge(t *testing.T) {
	t.Run("creates charge and fetches pix code", func(t *testing.T) {
		var chargeReq map[string]string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			switch r.URL.Path {
			case "/payments":
				require.Equal(t, http.MethodPost, r.Method)
				require.NoError(t, json.NewDecoder(r.Body).Decode(&chargeReq))
				w.Write([]byte(`{"id":"pay_123","invoiceUrl":"https://inv.example/pay_123","status":"PENDING"}`))
			case "/payments/pay_123/pixQrCode":
				require.Equal(t, http.MethodGet, r.Method)
				w.Write([]byte(`{"payload":"00020126pix","encodedImage":"aW1n"}`))
			default:
				t.Fatalf("unexpected path %s", r.URL.Path)
			}
		}))
		defer server.Close()

		client := newTestClient(server.URL)
		due := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
		charge, err := client.CreatePixCharge(context.Background(), "cus_1", decimal.NewFromInt(60), due, "Marmita x2")

		assert.NoError(t, err)
		require.NotNil(t, charge)
		assert.Equal(t, "cus_1", charge.CustomerID)
		assert.Equal(t, "pay_123", charge.PaymentID)
		assert.Equal(t, "https://inv.example/pay_123", charge.InvoiceURL)
		assert.Equal(t, "00020126pix", charge.Payload)
		assert.Equal(t, "aW1n", charge.QRCode)

		assert.Equal(t, "cus_1", chargeReq["customer"])
		assert.Equal(t, "PIX", chargeReq["billingType"])
		assert.Equal(t, "60.00", chargeReq["value"])
		assert.Equal(t, "2025-04-01", chargeReq["dueDate"])
		assert.Equal(t, "Marmita x2", chargeReq["description"])
	})

	t.Run("keeps the charge when the pix code fetch fails", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			switch r.URL.Path {
			case "/payments":
				w.Write([]byte(`{"id":"pay_9","invoiceUrl":"https://inv.example/pay_9"}`))
			default:
				w.WriteHeader(http.StatusInternalServerError)
			}
		}))
		defer server.Close()

		client := newTestClient(server.URL)
		charge, err := client.CreatePixCharge(context.Background(), "cus_1", decimal.NewFromInt(10), time.Now(), "")

		assert.NoError(t, err)
		require.NotNil(t, charge)
		assert.Equal(t, "pay_9", charge.PaymentID)
		assert.Empty(t, charge.Payload)
		assert.Empty(t, charge.QRCode)
	})

	t.Run("fails when the charge creation fails", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"errors":[{"code":"invalid_apiKey","description":"Chave inválida"}]}`))
		}))
		defer server.Close()

		client := newTestClient(server.URL)
		charge, err := client.CreatePixCharge(context.Background(), "cus_1", decimal.NewFromInt(10), time.Now(), "")

		assert.Nil(t, charge)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Chave inválida")
	})
}
