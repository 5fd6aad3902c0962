package messaging

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fiado/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestDispatcher(serverURL string) *TwilioDispatcher {
	d := NewTwilioDispatcher(config.WhatsAppConfig{
		Enabled:    true,
		AccountSID: "AC123",
		AuthToken:  "secret-token",
		FromNumber: "+14155238886",
	})
	d.baseURL = serverURL
	return d
}

func TestTwilioDispatcher_Send(t *testing.T) {
	t.Run("posts form with whatsapp prefixes and basic auth", func(t *testing.T) {
		var gotPath, gotFrom, gotTo, gotBody string
		var gotUser, gotPass string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			gotUser, gotPass, _ = r.BasicAuth()
			require.NoError(t, r.ParseForm())
			gotFrom = r.PostFormValue("From")
			gotTo = r.PostFormValue("To")
			gotBody = r.PostFormValue("Body")
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`{"sid":"SM1"}`))
		}))
		defer server.Close()

		d := newTestDispatcher(server.URL)
		err := d.Send(context.Background(), "5511988887777", "Olá Maria! 👋")

		assert.NoError(t, err)
		assert.Equal(t, "/2010-04-01/Accounts/AC123/Messages.json", gotPath)
		assert.Equal(t, "AC123", gotUser)
		assert.Equal(t, "secret-token", gotPass)
		assert.Equal(t, "whatsapp:+14155238886", gotFrom)
		assert.Equal(t, "whatsapp:+5511988887777", gotTo)
		assert.Equal(t, "Olá Maria! 👋", gotBody)
	})

	t.Run("surfaces the provider error message", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"code": 21211, "message": "Invalid 'To' phone number"}`))
		}))
		defer server.Close()

		d := newTestDispatcher(server.URL)
		err := d.Send(context.Background(), "123", "hi")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "Invalid 'To' phone number")
		assert.Contains(t, err.Error(), "21211")
	})

	t.Run("reports status on unparseable error body", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte("gateway timeout"))
		}))
		defer server.Close()

		d := newTestDispatcher(server.URL)
		err := d.Send(context.Background(), "5511988887777", "hi")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "HTTP 503")
	})

	t.Run("fails when the server is unreachable", func(t *testing.T) {
		d := newTestDispatcher("http://127.0.0.1:1")
		err := d.Send(context.Background(), "5511988887777", "hi")
		assert.Error(t, err)
	})
}

func TestLogDispatcher_Send(t *testing.T) {
	t.Run("always succeeds", func(t *testing.T) {
		d := NewLogDispatcher(zap.NewNop())
		err := d.Send(context.Background(), "5511988887777", "hi")
		assert.NoError(t, err)
	})
}
