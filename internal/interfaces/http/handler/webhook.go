package handler

import (
	"crypto/subtle"
	"net/http"

	billingapp "github.com/fiado/backend/internal/application/billing"
	"github.com/fiado/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// WebhookTokenHeader is the header Asaas echoes back with the value
// configured on the provider's webhook settings page.
const WebhookTokenHeader = "asaas-access-token"

// WebhookHandler receives asynchronous payment events from Asaas.
//
// The endpoint is unauthenticated by necessity; the shared token in the
// asaas-access-token header is the only guard. When no token is configured
// the check is skipped entirely and anyone who can reach the endpoint can
// settle orders. That insecure default exists for local development only
// and is rejected by config validation in production.
type WebhookHandler struct {
	BaseHandler
	webhookService *billingapp.WebhookService
	sharedToken    string
	logger         *zap.Logger
}

// NewWebhookHandler creates a new WebhookHandler
func NewWebhookHandler(webhookService *billingapp.WebhookService, sharedToken string, logger *zap.Logger) *WebhookHandler {
	return &WebhookHandler{
		webhookService: webhookService,
		sharedToken:    sharedToken,
		logger:         logger,
	}
}

// HandleAsaasEvent processes one provider event. The provider retries on
// non-2xx responses, so every recognized-but-irrelevant event is
// acknowledged with 200.
func (h *WebhookHandler) HandleAsaasEvent(c *gin.Context) {
	if h.sharedToken != "" {
		got := c.GetHeader(WebhookTokenHeader)
		if subtle.ConstantTimeCompare([]byte(got), []byte(h.sharedToken)) != 1 {
			h.logger.Warn("Webhook rejected: bad or missing access token",
				zap.String("remote_addr", c.ClientIP()))
			c.JSON(http.StatusUnauthorized, dto.NewErrorResponse(dto.ErrCodeUnauthorized, "Invalid webhook token"))
			return
		}
	}

	var event billingapp.WebhookEvent
	if err := c.ShouldBindJSON(&event); err != nil {
		h.BadRequest(c, "Malformed webhook payload")
		return
	}

	result, err := h.webhookService.Process(c.Request.Context(), event)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}
