package crm

import (
	"net/http"

	"leadflow_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

// Handler handles inbound CRM webhook requests.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// HandleDelivery processes one webhook delivery.
// POST /webhooks/crm
// A body that cannot even be parsed as the envelope is still acknowledged;
// failing it would only trigger redelivery storms for a payload that will
// never parse.
func (h *Handler) HandleDelivery(c *gin.Context) {
	var event WebhookEvent
	if err := c.ShouldBindJSON(&event); err != nil {
		httpkit.OK(c, Ack{Message: "event received but not processed"})
		return
	}

	ack, err := h.service.ProcessWebhook(c.Request.Context(), event)
	if err != nil {
		// Store write failures are the one case the CRM should retry.
		httpkit.Error(c, http.StatusInternalServerError, "failed to persist lead", nil)
		return
	}

	httpkit.OK(c, ack)
}
