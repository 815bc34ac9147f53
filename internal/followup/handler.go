package followup

import (
	"net/http"

	"leadflow_backend/platform/httpkit"
	"leadflow_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// TriggerRequest is the body for manually firing a follow-up evaluation.
type TriggerRequest struct {
	LeadID string `json:"leadId" validate:"required,uuid"`
	Action string `json:"action" validate:"required,oneof=new_lead aged_lead_check follow_up"`
}

// Handler exposes the trigger endpoint used by the dashboard and by
// operational tooling.
type Handler struct {
	service *Service
	val     *validator.Validator
}

func NewHandler(service *Service, val *validator.Validator) *Handler {
	return &Handler{service: service, val: val}
}

// HandleTrigger runs one follow-up evaluation.
// POST /api/v1/triggers
func (h *Handler) HandleTrigger(c *gin.Context) {
	var req TriggerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	leadID, err := uuid.Parse(req.LeadID)
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid lead id", nil)
		return
	}

	result, err := h.service.ProcessTrigger(c.Request.Context(), leadID, req.Action)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}
